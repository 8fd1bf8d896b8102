package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/vm"
)

// IfKey opens a conditional block on the current controller state:
// `8kkkkkkk`.
type IfKey struct {
	Mask vm.KeyFlag
}

func BuildIfKey(mask vm.KeyFlag) *IfKey {
	return &IfKey{Mask: mask}
}

func (k *IfKey) MachineCode() string {
	nb := newNibbles(8)
	nb.putLiteral(0, "8")
	nb.put(1, 7, uint64(k.Mask))
	return nb.Encode()
}

func (k *IfKey) Assembly() string {
	return fmt.Sprintf("if key %s", k.Mask)
}

func decodeIfKey(nb nibbles, raw string) (Instruction, error) {
	if len(nb) < 8 {
		return nil, fmt.Errorf("if-key: machine code too short")
	}
	return &IfKey{Mask: vm.KeyFlag(nb.get(1, 7))}, nil
}
