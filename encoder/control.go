package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// EndIf closes the most recently opened conditional block: `20000000`.
type EndIf struct{}

func BuildEndIf() *EndIf                { return &EndIf{} }
func (e *EndIf) MachineCode() string    { return "20000000" }
func (e *EndIf) Assembly() string       { return "endif" }
func decodeEndIf(nb nibbles, raw string) (Instruction, error) { return &EndIf{}, nil }

// Else swaps the current conditional branch: `21000000`.
type Else struct{}

func BuildElse() *Else               { return &Else{} }
func (e *Else) MachineCode() string  { return "21000000" }
func (e *Else) Assembly() string     { return "else" }
func decodeElse(nb nibbles, raw string) (Instruction, error) { return &Else{}, nil }

// LoopBegin starts a counted loop using register R as the counter,
// running V times: `300R0000 VVVVVVVV`.
type LoopBegin struct {
	Reg   int
	Count uint32
}

func BuildLoopBegin(pos parser.Position, reg int, count uint64) (*LoopBegin, error) {
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	if count > 0xFFFFFFFF {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("loop count 0x%x overflows 32 bits", count))
	}
	return &LoopBegin{Reg: reg, Count: uint32(count)}, nil
}

func (l *LoopBegin) MachineCode() string {
	nb := newNibbles(16)
	nb.putLiteral(0, "300")
	nb.put(3, 1, uint64(l.Reg))
	nb.putLiteral(4, "0000")
	nb.put(8, 8, uint64(l.Count))
	return nb.Encode()
}

func (l *LoopBegin) Assembly() string {
	return fmt.Sprintf("loop r%d to 0x%x", l.Reg, l.Count)
}

func decodeLoopBegin(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 16 {
		return nil, fmt.Errorf("loop-begin: machine code too short")
	}
	return &LoopBegin{Reg: int(nb.get(3, 1)), Count: uint32(nb.get(8, 8))}, nil
}

// LoopEnd terminates the loop started on register R: `310R0000`.
type LoopEnd struct {
	Reg int
}

func BuildLoopEnd(pos parser.Position, reg int) (*LoopEnd, error) {
	if reg < 0 || reg > vm.MaxRegister {
		return nil, NewEncodingError(pos, "", fmt.Sprintf("register r%d out of range", reg))
	}
	return &LoopEnd{Reg: reg}, nil
}

func (l *LoopEnd) MachineCode() string {
	nb := newNibbles(8)
	nb.putLiteral(0, "310")
	nb.put(3, 1, uint64(l.Reg))
	nb.putLiteral(4, "0000")
	return nb.Encode()
}

func (l *LoopEnd) Assembly() string {
	return fmt.Sprintf("endloop r%d", l.Reg)
}

func decodeLoopEnd(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("loop-end: machine code too short")
	}
	return &LoopEnd{Reg: int(nb.get(3, 1))}, nil
}

// Pause halts cheat-VM execution of the current frame: `FF000000`.
type Pause struct{}

func BuildPause() *Pause              { return &Pause{} }
func (p *Pause) MachineCode() string  { return "FF000000" }
func (p *Pause) Assembly() string     { return "pause" }
func decodePause(nb nibbles, raw string) (Instruction, error) { return &Pause{}, nil }

// Resume resumes cheat-VM execution: `FF100000`.
type Resume struct{}

func BuildResume() *Resume             { return &Resume{} }
func (r *Resume) MachineCode() string  { return "FF100000" }
func (r *Resume) Assembly() string     { return "resume" }
func decodeResume(nb nibbles, raw string) (Instruction, error) { return &Resume{}, nil }
