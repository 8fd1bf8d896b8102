package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// DebugLog emits a value to the debug log: `FFFTIXmn` plus a trailing
// 8-nibble offset word when OperandType addresses relative to a base
// (MEMBASE_OFF, REG_OFF). The register-only operand renders through
// the `m` field (`[r{m}]`), not `n` — `n` is the secondary field (the
// most significant nibble of the 9-nibble offset, or an extra register)
// and is unused for that shape.
type DebugLog struct {
	Width       vm.DataType
	LogID       int
	OperandType vm.DebugOperandType
	Region      vm.MemRegion
	BaseReg     int
	ExtraReg    int
	Offset      uint64
}

func debugLogHasTrailing(ot vm.DebugOperandType) bool {
	return ot == vm.DebugMembaseOff || ot == vm.DebugRegOff
}

func debugLogUsesRegion(ot vm.DebugOperandType) bool {
	return ot == vm.DebugMembaseOff || ot == vm.DebugMembaseReg
}

func debugLogUsesExtraReg(ot vm.DebugOperandType) bool {
	return ot == vm.DebugMembaseReg || ot == vm.DebugRegOffReg
}

func BuildDebugLog(pos parser.Position, width vm.DataType, logID int, ot vm.DebugOperandType, region vm.MemRegion, baseReg, extraReg int, offset uint64) (*DebugLog, error) {
	if logID < 0 || logID > 0xF {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("log id %d out of range", logID))
	}
	if !debugLogUsesRegion(ot) && (baseReg < 0 || baseReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", baseReg))
	}
	if debugLogUsesExtraReg(ot) && (extraReg < 0 || extraReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", extraReg))
	}
	if debugLogHasTrailing(ot) && offset >= 1<<36 {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("offset 0x%x exceeds 9-nibble address field", offset))
	}
	return &DebugLog{Width: width, LogID: logID, OperandType: ot, Region: region, BaseReg: baseReg, ExtraReg: extraReg, Offset: offset}, nil
}

func (d *DebugLog) MachineCode() string {
	total := 8
	if debugLogHasTrailing(d.OperandType) {
		total = 16
	}
	nb := newNibbles(total)
	nb.putLiteral(0, "FFF")
	nb.put(3, 1, uint64(d.Width.Width().Bytes()))
	nb.put(4, 1, uint64(d.LogID))
	nb.put(5, 1, uint64(d.OperandType))
	if debugLogUsesRegion(d.OperandType) {
		nb.put(6, 1, uint64(d.Region))
	} else {
		nb.put(6, 1, uint64(d.BaseReg))
	}
	switch {
	case debugLogHasTrailing(d.OperandType):
		nb.put(7, 9, d.Offset)
	case debugLogUsesExtraReg(d.OperandType):
		nb.put(7, 1, uint64(d.ExtraReg))
	default:
		nb.putLiteral(7, "0")
	}
	return nb.Encode()
}

func (d *DebugLog) Assembly() string {
	var addr string
	switch d.OperandType {
	case vm.DebugMembaseOff:
		addr = fmt.Sprintf("[%s + 0x%x]", d.Region, d.Offset)
	case vm.DebugMembaseReg:
		addr = fmt.Sprintf("[%s + r%d]", d.Region, d.ExtraReg)
	case vm.DebugRegOff:
		addr = fmt.Sprintf("[r%d + 0x%x]", d.BaseReg, d.Offset)
	case vm.DebugRegOffReg:
		addr = fmt.Sprintf("[r%d + r%d]", d.BaseReg, d.ExtraReg)
	case vm.DebugReg:
		addr = fmt.Sprintf("[r%d]", d.BaseReg)
	}
	return fmt.Sprintf("log %d %s %s", d.LogID, d.Width, addr)
}

func decodeDebugLog(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("debug-log: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(3, 1))
	if !ok {
		return nil, fmt.Errorf("debug-log: invalid width byte count %d", nb.get(3, 1))
	}
	width := vm.WidthToType(dw)
	logID := int(nb.get(4, 1))
	ot := vm.DebugOperandType(nb.get(5, 1))
	total := 8
	if debugLogHasTrailing(ot) {
		total = 16
	}
	if len(nb) < total {
		return nil, fmt.Errorf("debug-log: trailing offset word missing for operand type %d", ot)
	}
	d := &DebugLog{Width: width, LogID: logID, OperandType: ot}
	if debugLogUsesRegion(ot) {
		d.Region = vm.MemRegion(nb.get(6, 1))
	} else {
		d.BaseReg = int(nb.get(6, 1))
	}
	switch {
	case debugLogHasTrailing(ot):
		d.Offset = nb.get(7, 9)
	case debugLogUsesExtraReg(ot):
		d.ExtraReg = int(nb.get(7, 1))
	}
	return d, nil
}
