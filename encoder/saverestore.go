package encoder

import (
	"fmt"
	"strings"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// SaveRestoreSingle moves one value between a working register and a
// save slot (or clears one of them): `C10D0Sx0`.
type SaveRestoreSingle struct {
	Op   vm.SaveRestoreOp
	Slot int
	Reg  int
}

func BuildSaveRestoreSingle(pos parser.Position, op vm.SaveRestoreOp, slot, reg int) (*SaveRestoreSingle, error) {
	if slot < 0 || slot > vm.MaxSaveSlot {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("save slot %d out of range", slot))
	}
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	return &SaveRestoreSingle{Op: op, Slot: slot, Reg: reg}, nil
}

func (s *SaveRestoreSingle) MachineCode() string {
	nb := newNibbles(8)
	nb.putLiteral(0, "C1")
	nb.putLiteral(2, "0")
	nb.put(3, 1, uint64(s.Op.WireValue()))
	nb.putLiteral(4, "0")
	nb.put(5, 1, uint64(s.Slot))
	nb.put(6, 1, uint64(s.Reg))
	nb.putLiteral(7, "0")
	return nb.Encode()
}

func (s *SaveRestoreSingle) Assembly() string {
	switch s.Op {
	case vm.RegSave:
		return fmt.Sprintf("save[%d] = r%d", s.Slot, s.Reg)
	case vm.RegRestore:
		return fmt.Sprintf("r%d = save[%d]", s.Reg, s.Slot)
	case vm.RegClear:
		return fmt.Sprintf("save[%d] = 0", s.Slot)
	default: // RegZero
		return fmt.Sprintf("r%d = 0", s.Reg)
	}
}

func decodeSaveRestoreSingle(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("save-restore-single: machine code too short")
	}
	return &SaveRestoreSingle{
		Op:   vm.SaveRestoreOp(nb.get(3, 1)),
		Slot: int(nb.get(5, 1)),
		Reg:  int(nb.get(6, 1)),
	}, nil
}

// SaveRestoreMask applies the same save/restore/clear/zero operation
// to every register named in Mask (bit i ↔ register/slot i): `C2x0XXXX`.
type SaveRestoreMask struct {
	Op   vm.SaveRestoreOp
	Mask uint16
}

func BuildSaveRestoreMask(op vm.SaveRestoreOp, mask uint16) *SaveRestoreMask {
	return &SaveRestoreMask{Op: op, Mask: mask}
}

func (s *SaveRestoreMask) MachineCode() string {
	nb := newNibbles(8)
	nb.putLiteral(0, "C2")
	nb.put(2, 1, uint64(s.Op.WireValue()))
	nb.putLiteral(3, "0")
	nb.put(4, 4, uint64(s.Mask))
	return nb.Encode()
}

func maskRegList(mask uint16) string {
	var parts []string
	for i := 0; i <= vm.MaxRegister; i++ {
		if mask&(1<<uint(i)) != 0 {
			parts = append(parts, fmt.Sprintf("r%d", i))
		}
	}
	return strings.Join(parts, ",")
}

func (s *SaveRestoreMask) Assembly() string {
	regs := maskRegList(s.Mask)
	switch s.Op {
	case vm.RegSave:
		return fmt.Sprintf("save %s", regs)
	case vm.RegRestore:
		return fmt.Sprintf("restore %s", regs)
	case vm.RegClear:
		var slots []string
		for i := 0; i <= vm.MaxSaveSlot; i++ {
			if s.Mask&(1<<uint(i)) != 0 {
				slots = append(slots, fmt.Sprintf("%d", i))
			}
		}
		return fmt.Sprintf("save[%s] = 0", strings.Join(slots, ","))
	default: // RegZero
		return fmt.Sprintf("%s = 0", regs)
	}
}

func decodeSaveRestoreMask(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("save-restore-mask: machine code too short")
	}
	return &SaveRestoreMask{
		Op:   vm.SaveRestoreOp(nb.get(2, 1)),
		Mask: uint16(nb.get(4, 4)),
	}, nil
}

// StaticReg reads or writes a static (title-persisted) register slot:
// `C3000XXx`. Index values below 0x80 are reads (`rN = static[i]`);
// 0x80 and above are writes (`static[i] = rN`).
type StaticReg struct {
	Index int
	Reg   int
}

func BuildStaticReg(pos parser.Position, index, reg int) (*StaticReg, error) {
	if index < 0 || index > 0xFF {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("static index 0x%x out of range", index))
	}
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	return &StaticReg{Index: index, Reg: reg}, nil
}

func (s *StaticReg) IsWrite() bool { return s.Index >= 0x80 }

func (s *StaticReg) MachineCode() string {
	nb := newNibbles(8)
	nb.putLiteral(0, "C3")
	nb.putLiteral(2, "000")
	nb.put(5, 2, uint64(s.Index))
	nb.put(7, 1, uint64(s.Reg))
	return nb.Encode()
}

func (s *StaticReg) Assembly() string {
	if s.IsWrite() {
		return fmt.Sprintf("static[0x%x] = r%d", s.Index, s.Reg)
	}
	return fmt.Sprintf("r%d = static[0x%x]", s.Reg, s.Index)
}

func decodeStaticReg(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("static-reg: machine code too short")
	}
	return &StaticReg{
		Index: int(nb.get(5, 2)),
		Reg:   int(nb.get(7, 1)),
	}, nil
}
