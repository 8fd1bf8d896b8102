package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// Load reads a value from `[region + offset]` (or, when SelfDeref,
// from `[rReg + offset]`) into rReg: `5TMRS0AA AAAAAAAA`.
type Load struct {
	Width     vm.DataType
	Region    vm.MemRegion
	Reg       int
	SelfDeref bool
	Offset    uint64
}

func BuildLoad(pos parser.Position, width vm.DataType, region vm.MemRegion, reg int, selfDeref bool, offset uint64) (*Load, error) {
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	if offset >= 1<<(4*addrFieldWidth) {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("offset 0x%x exceeds %d-nibble address field", offset, addrFieldWidth))
	}
	return &Load{Width: width, Region: region, Reg: reg, SelfDeref: selfDeref, Offset: offset}, nil
}

func (l *Load) MachineCode() string {
	nb := newNibbles(16)
	nb.putLiteral(0, "5")
	nb.put(1, 1, uint64(l.Width.Width().Bytes()))
	nb.put(2, 1, uint64(l.Region))
	nb.put(3, 1, uint64(l.Reg))
	if l.SelfDeref {
		nb.put(4, 1, 1)
	}
	nb.putLiteral(5, "0")
	nb.put(6, addrFieldWidth, l.Offset)
	return nb.Encode()
}

func (l *Load) Assembly() string {
	if l.SelfDeref {
		return fmt.Sprintf("%s r%d = [r%d + 0x%x]", l.Width, l.Reg, l.Reg, l.Offset)
	}
	return fmt.Sprintf("%s r%d = [%s + 0x%x]", l.Width, l.Reg, l.Region, l.Offset)
}

func decodeLoad(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 16 {
		return nil, fmt.Errorf("load: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("load: invalid width byte count %d", nb.get(1, 1))
	}
	return &Load{
		Width:     vm.WidthToType(dw),
		Region:    vm.MemRegion(nb.get(2, 1)),
		Reg:       int(nb.get(3, 1)),
		SelfDeref: nb.get(4, 1) == 1,
		Offset:    nb.get(6, addrFieldWidth),
	}, nil
}
