// Package encoder implements the dmnt cheat-VM instruction codec: one
// type per opcode family, each owning its wire-format layout, a
// validating constructor, a machine-code emitter, a decoder, and an
// assembly-text formatter. Package parser supplies the lexical and
// address-expression building blocks this package's assembly
// dispatcher drives.
package encoder

// Instruction is the common surface every opcode-family type
// implements: render to machine code, or render to canonical assembly
// text. Decoding and building are necessarily per-type (the typed
// arguments differ per family) and are exposed as free functions
// (decodeStoreImm, BuildStoreImm, ...) rather than interface methods.
type Instruction interface {
	// MachineCode renders the instruction as canonical hex: uppercase,
	// 8-nibble words separated by a single space.
	MachineCode() string
	// Assembly renders the instruction as one canonical source line,
	// with no outer indentation.
	Assembly() string
}

// decodeEntry pairs an opcode signature with the decoder that should
// run when a machine-code prefix matches it. Entries are tried in
// slice order, so a more specific signature (e.g. "c0???4") must be
// listed before a more general one it could otherwise be shadowed by.
type decodeEntry struct {
	signature string
	decode    func(nb nibbles, raw string) (Instruction, error)
}
