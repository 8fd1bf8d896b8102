package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// StoreImmViaReg writes an immediate to `[rBase{++}{ + rOffset}]`:
// `6T0RIor0 VVVVVVVV VVVVVVVV`. The value field is always a full
// 64-bit container regardless of Width, unlike the family-0 store
// which only extends it when Width is 8 bytes wide.
type StoreImmViaReg struct {
	Width        vm.DataType
	BaseReg      int
	SelfInc      bool
	HasOffsetReg bool
	OffsetReg    int
	Value        uint64
}

func BuildStoreImmViaReg(pos parser.Position, width vm.DataType, baseReg int, selfInc bool, hasOffsetReg bool, offsetReg int, value uint64) (*StoreImmViaReg, error) {
	if baseReg < 0 || baseReg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", baseReg))
	}
	if hasOffsetReg && (offsetReg < 0 || offsetReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", offsetReg))
	}
	return &StoreImmViaReg{Width: width, BaseReg: baseReg, SelfInc: selfInc, HasOffsetReg: hasOffsetReg, OffsetReg: offsetReg, Value: vm.Reinterpret(width, value)}, nil
}

func (s *StoreImmViaReg) MachineCode() string {
	nb := newNibbles(24)
	nb.putLiteral(0, "6")
	nb.put(1, 1, uint64(s.Width.Width().Bytes()))
	nb.putLiteral(2, "0")
	nb.put(3, 1, uint64(s.BaseReg))
	if s.SelfInc {
		nb.put(4, 1, 1)
	}
	if s.HasOffsetReg {
		nb.put(5, 1, 1)
		nb.put(6, 1, uint64(s.OffsetReg))
	}
	nb.putLiteral(7, "0")
	nb.put(8, 16, s.Value)
	return nb.Encode()
}

func (s *StoreImmViaReg) Assembly() string {
	v, _ := vm.FormatImmediate(s.Value, s.Width.Width().Bytes())
	base := fmt.Sprintf("r%d", s.BaseReg)
	if s.SelfInc {
		base += "++"
	}
	if s.HasOffsetReg {
		return fmt.Sprintf("%s [%s + r%d] = %s", s.Width, base, s.OffsetReg, v)
	}
	return fmt.Sprintf("%s [%s] = %s", s.Width, base, v)
}

func decodeStoreImmViaReg(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 24 {
		return nil, fmt.Errorf("store-imm-via-reg: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("store-imm-via-reg: invalid width byte count %d", nb.get(1, 1))
	}
	hasOffsetReg := nb.get(5, 1) == 1
	return &StoreImmViaReg{
		Width:        vm.WidthToType(dw),
		BaseReg:      int(nb.get(3, 1)),
		SelfInc:      nb.get(4, 1) == 1,
		HasOffsetReg: hasOffsetReg,
		OffsetReg:    int(nb.get(6, 1)),
		Value:        nb.get(8, 16),
	}, nil
}

// StoreReg writes register Src to an address expression whose shape
// is tagged by OffsetType: `ATSRIOxa (aaaaaaaa)`. For OffsetType in
// {OFF_IMM, MEMBASE_IMM, MEMBASE_IMM_OFFREG} the `a` field relocates
// to a 9-nibble field starting at the 7th nibble of the first word
// (spanning into the second word); otherwise it is a single unused
// nibble.
type StoreReg struct {
	Width      vm.DataType
	Src        int
	OffsetType vm.OffsetType
	BaseReg    int // valid for NO_OFFSET, OFF_REG, OFF_IMM
	SelfInc    bool
	Region     vm.MemRegion // valid for MEMBASE_REG, MEMBASE_IMM, MEMBASE_IMM_OFFREG
	ExtraReg   int          // valid for OFF_REG, MEMBASE_REG, MEMBASE_IMM_OFFREG
	Offset     uint64       // valid for OFF_IMM, MEMBASE_IMM, MEMBASE_IMM_OFFREG
}

func hasExtendedA(ot vm.OffsetType) bool {
	return ot == vm.OffsetImm || ot == vm.OffsetMembaseImm || ot == vm.OffsetMembaseImmOffReg
}

func usesMembase(ot vm.OffsetType) bool {
	return ot == vm.OffsetMembaseReg || ot == vm.OffsetMembaseImm || ot == vm.OffsetMembaseImmOffReg
}

func usesExtraReg(ot vm.OffsetType) bool {
	return ot == vm.OffsetReg || ot == vm.OffsetMembaseReg || ot == vm.OffsetMembaseImmOffReg
}

func BuildStoreReg(pos parser.Position, width vm.DataType, src int, ot vm.OffsetType, baseReg int, selfInc bool, region vm.MemRegion, extraReg int, offset uint64) (*StoreReg, error) {
	if src < 0 || src > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", src))
	}
	if !usesMembase(ot) && (baseReg < 0 || baseReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", baseReg))
	}
	if usesExtraReg(ot) && (extraReg < 0 || extraReg > vm.MaxRegister) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", extraReg))
	}
	if hasExtendedA(ot) && offset >= 1<<36 {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("offset 0x%x exceeds 9-nibble address field", offset))
	}
	return &StoreReg{Width: width, Src: src, OffsetType: ot, BaseReg: baseReg, SelfInc: selfInc, Region: region, ExtraReg: extraReg, Offset: offset}, nil
}

func (s *StoreReg) MachineCode() string {
	total := 8
	if hasExtendedA(s.OffsetType) {
		total = 16
	}
	nb := newNibbles(total)
	nb.putLiteral(0, "A")
	nb.put(1, 1, uint64(s.Width.Width().Bytes()))
	nb.put(2, 1, uint64(s.Src))
	if usesMembase(s.OffsetType) {
		nb.put(3, 1, uint64(s.Region))
	} else {
		nb.put(3, 1, uint64(s.BaseReg))
		if s.SelfInc {
			nb.put(4, 1, 1)
		}
	}
	nb.put(5, 1, uint64(s.OffsetType))
	if usesExtraReg(s.OffsetType) {
		nb.put(6, 1, uint64(s.ExtraReg))
	}
	if hasExtendedA(s.OffsetType) {
		nb.put(7, 9, s.Offset)
	}
	return nb.Encode()
}

func (s *StoreReg) Assembly() string {
	var addr string
	switch s.OffsetType {
	case vm.OffsetNone:
		base := fmt.Sprintf("r%d", s.BaseReg)
		if s.SelfInc {
			base += "++"
		}
		addr = fmt.Sprintf("[%s]", base)
	case vm.OffsetReg:
		base := fmt.Sprintf("r%d", s.BaseReg)
		if s.SelfInc {
			base += "++"
		}
		addr = fmt.Sprintf("[%s + r%d]", base, s.ExtraReg)
	case vm.OffsetImm:
		base := fmt.Sprintf("r%d", s.BaseReg)
		if s.SelfInc {
			base += "++"
		}
		addr = fmt.Sprintf("[%s + 0x%x]", base, s.Offset)
	case vm.OffsetMembaseReg:
		addr = fmt.Sprintf("[%s + r%d]", s.Region, s.ExtraReg)
	case vm.OffsetMembaseImm:
		addr = fmt.Sprintf("[%s + 0x%x]", s.Region, s.Offset)
	case vm.OffsetMembaseImmOffReg:
		addr = fmt.Sprintf("[%s + 0x%x + r%d]", s.Region, s.Offset, s.ExtraReg)
	}
	return fmt.Sprintf("%s %s = r%d", s.Width, addr, s.Src)
}

func decodeStoreReg(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("store-reg: machine code too short")
	}
	ot := vm.OffsetType(nb.get(5, 1))
	total := 8
	if hasExtendedA(ot) {
		total = 16
	}
	if len(nb) < total {
		return nil, fmt.Errorf("store-reg: extension word missing for offset type %d", ot)
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("store-reg: invalid width byte count %d", nb.get(1, 1))
	}
	s := &StoreReg{
		Width:      vm.WidthToType(dw),
		Src:        int(nb.get(2, 1)),
		OffsetType: ot,
	}
	if usesMembase(ot) {
		s.Region = vm.MemRegion(nb.get(3, 1))
	} else {
		s.BaseReg = int(nb.get(3, 1))
		s.SelfInc = nb.get(4, 1) == 1
	}
	if usesExtraReg(ot) {
		s.ExtraReg = int(nb.get(6, 1))
	}
	if hasExtendedA(ot) {
		s.Offset = nb.get(7, 9)
	}
	return s, nil
}
