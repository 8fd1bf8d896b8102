package encoder

// OpensBlock reports whether inst increases indentation for the lines
// that follow it (the three conditional families, counted loops, and
// else, which closes one branch and opens the other).
func OpensBlock(inst Instruction) bool {
	switch inst.(type) {
	case *IfOffImm, *IfReg, *IfKey, *LoopBegin, *Else:
		return true
	default:
		return false
	}
}

// ClosesBlock reports whether inst should be rendered one level
// shallower than the lines that precede it (else and the end markers).
func ClosesBlock(inst Instruction) bool {
	switch inst.(type) {
	case *Else, *EndIf, *LoopEnd:
		return true
	default:
		return false
	}
}
