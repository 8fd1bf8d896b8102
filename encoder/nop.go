package encoder

// Nop is the all-zero padding instruction: three words of zero
// nibbles, used as filler/alignment credit in a cheat entry.
type Nop struct{}

func BuildNop() *Nop { return &Nop{} }

func (n *Nop) MachineCode() string {
	return "00000000 00000000 00000000"
}

func (n *Nop) Assembly() string {
	return "nop"
}

func decodeNop(nb nibbles, raw string) (Instruction, error) {
	return &Nop{}, nil
}
