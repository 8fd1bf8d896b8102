package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// ifRegKind tags which of the six operand shapes an IfReg instruction
// carries; it is the literal digit following `C0TcS` in the opcode
// signature (`C0???0` .. `C0???3`, `C0???400`, `C0???50`).
type ifRegKind uint8

const (
	ifRegMembaseOff ifRegKind = iota
	ifRegMembaseReg
	ifRegOff
	ifRegReg
	ifRegImm
	ifRegRM
)

// IfReg opens a conditional block comparing register Reg against one
// of six operand shapes selected by Kind:
//
//	[region+off]  C0TcS0Ma aaaaaaaa
//	[region+rX]   C0TcS1Mr
//	[rBase+off]   C0TcS2Ra aaaaaaaa
//	[rBase+rX]    C0TcS3Rr
//	imm           C0TcS400 VVVVVVVV (VVVVVVVV)
//	rX            C0TcS5X0
type IfReg struct {
	Width     vm.DataType
	Condition vm.Condition
	Reg       int
	Kind      ifRegKind
	Region    vm.MemRegion
	BaseReg   int
	ExtraReg  int
	Offset    uint64
	Value     uint64
}

func ifRegHasTrailingOffset(k ifRegKind) bool {
	return k == ifRegMembaseOff || k == ifRegOff
}

func BuildIfReg(pos parser.Position, width vm.DataType, cond vm.Condition, reg int, kind ifRegKind, region vm.MemRegion, baseReg, extraReg int, offset, value uint64) (*IfReg, error) {
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	if (kind == ifRegOff || kind == ifRegReg) && (baseReg < 0 || baseReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", baseReg))
	}
	if (kind == ifRegMembaseReg || kind == ifRegReg) && (extraReg < 0 || extraReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", extraReg))
	}
	if kind == ifRegRM && (extraReg < 0 || extraReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", extraReg))
	}
	if ifRegHasTrailingOffset(kind) && offset >= 1<<36 {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("offset 0x%x exceeds 9-nibble address field", offset))
	}
	return &IfReg{Width: width, Condition: cond, Reg: reg, Kind: kind, Region: region, BaseReg: baseReg, ExtraReg: extraReg, Offset: offset, Value: vm.Reinterpret(width, value)}, nil
}

func (f *IfReg) extended() bool { return f.Kind == ifRegImm && f.Width.Width() == vm.WidthU64 }

func (f *IfReg) MachineCode() string {
	switch f.Kind {
	case ifRegMembaseOff, ifRegOff:
		nb := newNibbles(16)
		nb.putLiteral(0, "C0")
		nb.put(2, 1, uint64(f.Width.Width().Bytes()))
		nb.put(3, 1, uint64(f.Condition))
		nb.put(4, 1, uint64(f.Reg))
		nb.put(5, 1, uint64(f.Kind))
		if f.Kind == ifRegMembaseOff {
			nb.put(6, 1, uint64(f.Region))
		} else {
			nb.put(6, 1, uint64(f.BaseReg))
		}
		nb.put(7, 9, f.Offset)
		return nb.Encode()
	case ifRegMembaseReg, ifRegReg:
		nb := newNibbles(8)
		nb.putLiteral(0, "C0")
		nb.put(2, 1, uint64(f.Width.Width().Bytes()))
		nb.put(3, 1, uint64(f.Condition))
		nb.put(4, 1, uint64(f.Reg))
		nb.put(5, 1, uint64(f.Kind))
		if f.Kind == ifRegMembaseReg {
			nb.put(6, 1, uint64(f.Region))
		} else {
			nb.put(6, 1, uint64(f.BaseReg))
		}
		nb.put(7, 1, uint64(f.ExtraReg))
		return nb.Encode()
	case ifRegImm:
		total := 16
		if f.extended() {
			total = 24
		}
		nb := newNibbles(total)
		nb.putLiteral(0, "C0")
		nb.put(2, 1, uint64(f.Width.Width().Bytes()))
		nb.put(3, 1, uint64(f.Condition))
		nb.put(4, 1, uint64(f.Reg))
		nb.putLiteral(5, "400")
		vWidth := 8
		if f.extended() {
			vWidth = 16
		}
		nb.put(8, vWidth, f.Value)
		return nb.Encode()
	default: // ifRegRM
		nb := newNibbles(8)
		nb.putLiteral(0, "C0")
		nb.put(2, 1, uint64(f.Width.Width().Bytes()))
		nb.put(3, 1, uint64(f.Condition))
		nb.put(4, 1, uint64(f.Reg))
		nb.putLiteral(5, "5")
		nb.put(6, 1, uint64(f.ExtraReg))
		nb.putLiteral(7, "0")
		return nb.Encode()
	}
}

func (f *IfReg) Assembly() string {
	var operand string
	switch f.Kind {
	case ifRegMembaseOff:
		operand = fmt.Sprintf("[%s + 0x%x]", f.Region, f.Offset)
	case ifRegMembaseReg:
		operand = fmt.Sprintf("[%s + r%d]", f.Region, f.ExtraReg)
	case ifRegOff:
		operand = fmt.Sprintf("[r%d + 0x%x]", f.BaseReg, f.Offset)
	case ifRegReg:
		operand = fmt.Sprintf("[r%d + r%d]", f.BaseReg, f.ExtraReg)
	case ifRegImm:
		v, _ := vm.FormatImmediate(f.Value, f.Width.Width().Bytes())
		operand = v
	case ifRegRM:
		operand = fmt.Sprintf("r%d", f.ExtraReg)
	}
	return fmt.Sprintf("if %s r%d %s %s", f.Width, f.Reg, f.Condition, operand)
}

func decodeIfReg(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("if-reg: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(2, 1))
	if !ok {
		return nil, fmt.Errorf("if-reg: invalid width byte count %d", nb.get(2, 1))
	}
	width := vm.WidthToType(dw)
	cond := vm.Condition(nb.get(3, 1))
	reg := int(nb.get(4, 1))
	sub := nb.get(5, 1)
	switch {
	case nb.get(5, 3) == 0x400:
		extended := dw == vm.WidthU64
		vWidth := 8
		if extended {
			if len(nb) < 24 {
				return nil, fmt.Errorf("if-reg imm: extension word missing")
			}
			vWidth = 16
		}
		return &IfReg{Width: width, Condition: cond, Reg: reg, Kind: ifRegImm, Value: nb.get(8, vWidth)}, nil
	case sub == 5:
		return &IfReg{Width: width, Condition: cond, Reg: reg, Kind: ifRegRM, ExtraReg: int(nb.get(6, 1))}, nil
	case sub == 0:
		if len(nb) < 16 {
			return nil, fmt.Errorf("if-reg membase-off: machine code too short")
		}
		return &IfReg{Width: width, Condition: cond, Reg: reg, Kind: ifRegMembaseOff, Region: vm.MemRegion(nb.get(6, 1)), Offset: nb.get(7, 9)}, nil
	case sub == 1:
		return &IfReg{Width: width, Condition: cond, Reg: reg, Kind: ifRegMembaseReg, Region: vm.MemRegion(nb.get(6, 1)), ExtraReg: int(nb.get(7, 1))}, nil
	case sub == 2:
		if len(nb) < 16 {
			return nil, fmt.Errorf("if-reg reg-off: machine code too short")
		}
		return &IfReg{Width: width, Condition: cond, Reg: reg, Kind: ifRegOff, BaseReg: int(nb.get(6, 1)), Offset: nb.get(7, 9)}, nil
	case sub == 3:
		return &IfReg{Width: width, Condition: cond, Reg: reg, Kind: ifRegReg, BaseReg: int(nb.get(6, 1)), ExtraReg: int(nb.get(7, 1))}, nil
	default:
		return nil, fmt.Errorf("if-reg: unrecognized operand sub-tag %d", sub)
	}
}
