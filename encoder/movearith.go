package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// MoveReg loads a full 64-bit immediate into a register:
// `400R0000 VVVVVVVV VVVVVVVV`.
type MoveReg struct {
	Reg   int
	Value uint64
}

func BuildMoveReg(pos parser.Position, reg int, value uint64) (*MoveReg, error) {
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	return &MoveReg{Reg: reg, Value: value}, nil
}

func (m *MoveReg) MachineCode() string {
	nb := newNibbles(24)
	nb.putLiteral(0, "400")
	nb.put(3, 1, uint64(m.Reg))
	nb.putLiteral(4, "0000")
	nb.put(8, 16, m.Value)
	return nb.Encode()
}

func (m *MoveReg) Assembly() string {
	v, _ := vm.FormatImmediate(m.Value, 0)
	return fmt.Sprintf("r%d = %s", m.Reg, v)
}

func decodeMoveReg(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 24 {
		return nil, fmt.Errorf("move-reg: machine code too short")
	}
	return &MoveReg{Reg: int(nb.get(3, 1)), Value: nb.get(8, 16)}, nil
}

// LegacyArithImm applies OP= between a register and an immediate, in
// the pre-arith-family encoding limited to a single (non-extendable)
// value word: `7T0RC000 VVVVVVVV`.
type LegacyArithImm struct {
	Width vm.DataType
	Reg   int
	Op    vm.ArithOp
	Value uint64
}

func BuildLegacyArithImm(pos parser.Position, width vm.DataType, reg int, op vm.ArithOp, value uint64) (*LegacyArithImm, error) {
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	return &LegacyArithImm{Width: width, Reg: reg, Op: op, Value: vm.Reinterpret(width, value)}, nil
}

func (l *LegacyArithImm) MachineCode() string {
	nb := newNibbles(16)
	nb.putLiteral(0, "7")
	nb.put(1, 1, uint64(l.Width.Width().Bytes()))
	nb.putLiteral(2, "0")
	nb.put(3, 1, uint64(l.Reg))
	nb.put(4, 1, uint64(l.Op))
	nb.putLiteral(5, "000")
	nb.put(8, 8, l.Value)
	return nb.Encode()
}

func (l *LegacyArithImm) Assembly() string {
	v, _ := vm.FormatImmediate(l.Value, l.Width.Width().Bytes())
	return fmt.Sprintf("%s r%d %s= %s", l.Width, l.Reg, l.Op, v)
}

func decodeLegacyArithImm(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 16 {
		return nil, fmt.Errorf("legacy-arith-imm: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("legacy-arith-imm: invalid width byte count %d", nb.get(1, 1))
	}
	return &LegacyArithImm{
		Width: vm.WidthToType(dw),
		Reg:   int(nb.get(3, 1)),
		Op:    vm.ArithOp(nb.get(4, 1)),
		Value: nb.get(8, 8),
	}, nil
}

// ArithRegReg computes rDest = rSrc1 OP rSrc2 (or the unary forms for
// `~` and `=`): `9TCRS0s0`.
type ArithRegReg struct {
	Width vm.DataType
	Op    vm.ArithOp
	Dest  int
	Src1  int
	Src2  int
}

func BuildArithRegReg(pos parser.Position, width vm.DataType, op vm.ArithOp, dest, src1, src2 int) (*ArithRegReg, error) {
	for _, r := range []int{dest, src1, src2} {
		if r < 0 || r > vm.MaxRegister {
			return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", r))
		}
	}
	return &ArithRegReg{Width: width, Op: op, Dest: dest, Src1: src1, Src2: src2}, nil
}

func (a *ArithRegReg) MachineCode() string {
	nb := newNibbles(8)
	nb.putLiteral(0, "9")
	nb.put(1, 1, uint64(a.Width.Width().Bytes()))
	nb.put(2, 1, uint64(a.Op))
	nb.put(3, 1, uint64(a.Dest))
	nb.put(4, 1, uint64(a.Src1))
	nb.putLiteral(5, "0")
	nb.put(6, 1, uint64(a.Src2))
	nb.putLiteral(7, "0")
	return nb.Encode()
}

func (a *ArithRegReg) Assembly() string {
	switch a.Op {
	case vm.ArithNot:
		return fmt.Sprintf("%s r%d = ~r%d", a.Width, a.Dest, a.Src1)
	case vm.ArithMove:
		return fmt.Sprintf("%s r%d = r%d", a.Width, a.Dest, a.Src1)
	default:
		return fmt.Sprintf("%s r%d = r%d %s r%d", a.Width, a.Dest, a.Src1, a.Op, a.Src2)
	}
}

func decodeArithRegReg(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("arith-reg-reg: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("arith-reg-reg: invalid width byte count %d", nb.get(1, 1))
	}
	return &ArithRegReg{
		Width: vm.WidthToType(dw),
		Op:    vm.ArithOp(nb.get(2, 1)),
		Dest:  int(nb.get(3, 1)),
		Src1:  int(nb.get(4, 1)),
		Src2:  int(nb.get(6, 1)),
	}, nil
}

// ArithRegImm computes rDest = rSrc OP value: `9TCRS100 VVVVVVVV (VVVVVVVV)`.
type ArithRegImm struct {
	Width vm.DataType
	Op    vm.ArithOp
	Dest  int
	Src   int
	Value uint64
}

func BuildArithRegImm(pos parser.Position, width vm.DataType, op vm.ArithOp, dest, src int, value uint64) (*ArithRegImm, error) {
	for _, r := range []int{dest, src} {
		if r < 0 || r > vm.MaxRegister {
			return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", r))
		}
	}
	return &ArithRegImm{Width: width, Op: op, Dest: dest, Src: src, Value: vm.Reinterpret(width, value)}, nil
}

func (a *ArithRegImm) extended() bool { return a.Width.Width() == vm.WidthU64 }

func (a *ArithRegImm) MachineCode() string {
	total := 16
	if a.extended() {
		total = 24
	}
	nb := newNibbles(total)
	nb.putLiteral(0, "9")
	nb.put(1, 1, uint64(a.Width.Width().Bytes()))
	nb.put(2, 1, uint64(a.Op))
	nb.put(3, 1, uint64(a.Dest))
	nb.put(4, 1, uint64(a.Src))
	nb.putLiteral(5, "100")
	vWidth := 8
	if a.extended() {
		vWidth = 16
	}
	nb.put(8, vWidth, a.Value)
	return nb.Encode()
}

func (a *ArithRegImm) Assembly() string {
	v, _ := vm.FormatImmediate(a.Value, a.Width.Width().Bytes())
	return fmt.Sprintf("%s r%d = r%d %s %s", a.Width, a.Dest, a.Src, a.Op, v)
}

func decodeArithRegImm(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 16 {
		return nil, fmt.Errorf("arith-reg-imm: machine code too short")
	}
	dw, ok := vm.WidthFromByteCount(nb.get(1, 1))
	if !ok {
		return nil, fmt.Errorf("arith-reg-imm: invalid width byte count %d", nb.get(1, 1))
	}
	extended := dw == vm.WidthU64
	vWidth := 8
	if extended {
		if len(nb) < 24 {
			return nil, fmt.Errorf("arith-reg-imm: extension word missing")
		}
		vWidth = 16
	}
	return &ArithRegImm{
		Width: vm.WidthToType(dw),
		Op:    vm.ArithOp(nb.get(2, 1)),
		Dest:  int(nb.get(3, 1)),
		Src:   int(nb.get(4, 1)),
		Value: nb.get(8, vWidth),
	}, nil
}
