package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// addrFieldWidth is the nibble width of the base+offset address field
// shared by the store-imm and if-off-imm families: 2 nibbles in the
// first word plus a full second word, 10 nibbles (40 bits) total.
const addrFieldWidth = 10

// StoreImm writes an immediate value to `[region + offset + rReg]`:
// `0TMR00AA AAAAAAAA VVVVVVVV (VVVVVVVV)`.
type StoreImm struct {
	Width  vm.DataType
	Region vm.MemRegion
	Reg    int
	Offset uint64
	Value  uint64
}

func BuildStoreImm(pos parser.Position, width vm.DataType, region vm.MemRegion, reg int, offset, value uint64) (*StoreImm, error) {
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	if offset >= 1<<(4*addrFieldWidth) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("offset 0x%x exceeds %d-nibble address field", offset, addrFieldWidth))
	}
	return &StoreImm{Width: width, Region: region, Reg: reg, Offset: offset, Value: vm.Reinterpret(width, value)}, nil
}

func (s *StoreImm) extended() bool { return s.Width.Width() == vm.WidthU64 }

func (s *StoreImm) MachineCode() string {
	total := 24
	if s.extended() {
		total = 32
	}
	nb := newNibbles(total)
	nb.putLiteral(0, "0")
	nb.put(1, 1, uint64(s.Width.Width().Bytes()))
	nb.put(2, 1, uint64(s.Region))
	nb.put(3, 1, uint64(s.Reg))
	nb.putLiteral(4, "00")
	nb.put(6, addrFieldWidth, s.Offset)
	vWidth := 8
	if s.extended() {
		vWidth = 16
	}
	nb.put(16, vWidth, s.Value)
	return nb.Encode()
}

func (s *StoreImm) Assembly() string {
	v, _ := vm.FormatImmediate(s.Value, s.Width.Width().Bytes())
	return fmt.Sprintf("%s [%s + 0x%x + r%d] = %s", s.Width, s.Region, s.Offset, s.Reg, v)
}

func decodeStoreImm(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 24 {
		return nil, fmt.Errorf("store-imm: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("store-imm: invalid width byte count %d", nb.get(1, 1))
	}
	width := vm.WidthToType(dw)
	extended := dw == vm.WidthU64
	vWidth := 8
	if extended {
		if len(nb) < 32 {
			return nil, fmt.Errorf("store-imm: extension word missing")
		}
		vWidth = 16
	}
	return &StoreImm{
		Width:  width,
		Region: vm.MemRegion(nb.get(2, 1)),
		Reg:    int(nb.get(3, 1)),
		Offset: nb.get(6, addrFieldWidth),
		Value:  nb.get(16, vWidth),
	}, nil
}

// IfOffImm opens a conditional block comparing `[region + offset]`
// against an immediate: `1TMC00AA AAAAAAAA VVVVVVVV (VVVVVVVV)`.
type IfOffImm struct {
	Width     vm.DataType
	Region    vm.MemRegion
	Condition vm.Condition
	Offset    uint64
	Value     uint64
}

func BuildIfOffImm(pos parser.Position, width vm.DataType, region vm.MemRegion, cond vm.Condition, offset, value uint64) (*IfOffImm, error) {
	if offset >= 1<<(4*addrFieldWidth) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("offset 0x%x exceeds %d-nibble address field", offset, addrFieldWidth))
	}
	return &IfOffImm{Width: width, Region: region, Condition: cond, Offset: offset, Value: vm.Reinterpret(width, value)}, nil
}

func (f *IfOffImm) extended() bool { return f.Width.Width() == vm.WidthU64 }

func (f *IfOffImm) MachineCode() string {
	total := 24
	if f.extended() {
		total = 32
	}
	nb := newNibbles(total)
	nb.putLiteral(0, "1")
	nb.put(1, 1, uint64(f.Width.Width().Bytes()))
	nb.put(2, 1, uint64(f.Region))
	nb.put(3, 1, uint64(f.Condition))
	nb.putLiteral(4, "00")
	nb.put(6, addrFieldWidth, f.Offset)
	vWidth := 8
	if f.extended() {
		vWidth = 16
	}
	nb.put(16, vWidth, f.Value)
	return nb.Encode()
}

func (f *IfOffImm) Assembly() string {
	v, _ := vm.FormatImmediate(f.Value, f.Width.Width().Bytes())
	return fmt.Sprintf("if %s [%s + 0x%x] %s %s", f.Width, f.Region, f.Offset, f.Condition, v)
}

func decodeIfOffImm(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 24 {
		return nil, fmt.Errorf("if-off-imm: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("if-off-imm: invalid width byte count %d", nb.get(1, 1))
	}
	width := vm.WidthToType(dw)
	extended := dw == vm.WidthU64
	vWidth := 8
	if extended {
		if len(nb) < 32 {
			return nil, fmt.Errorf("if-off-imm: extension word missing")
		}
		vWidth = 16
	}
	return &IfOffImm{
		Width:     width,
		Region:    vm.MemRegion(nb.get(2, 1)),
		Condition: vm.Condition(nb.get(3, 1)),
		Offset:    nb.get(6, addrFieldWidth),
		Value:     nb.get(16, vWidth),
	}, nil
}
