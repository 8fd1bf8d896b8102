package encoder

import (
	"fmt"

	"github.com/DKingAlpha/NxDmntASM/parser"
)

// EncodingError covers every failure that is not a parse-time
// SyntaxError: a register or save-slot index out of range, an
// immediate that overflows its declared width, an address offset that
// doesn't fit its nibble count, or - on the decode path - a machine
// code line that is the wrong length, truncated, or carries no
// recognized opcode signature. The source format names these build-
// and decode-time failures separately; this package unifies them
// under one type since both boil down to "a value or shape could not
// be represented/recognized," and the caller-facing distinction from
// SyntaxError (parse failed) is the one that matters. DisassembleLine
// itself returns decode failures as plain errors; cheatfile.Disassemble
// wraps each one in an EncodingError carrying the file position.
type EncodingError struct {
	Pos     parser.Position
	Source  string // offending source line or machine-code fragment
	Message string
	Wrapped error
}

func (e *EncodingError) Error() string {
	location := ""
	if e.Pos.Filename != "" {
		location = fmt.Sprintf("%s: ", e.Pos)
	} else if e.Pos.Line > 0 {
		location = fmt.Sprintf("line %d: ", e.Pos.Line)
	}

	var msg string
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s%s: %v", location, e.Message, e.Wrapped)
	} else {
		msg = fmt.Sprintf("%s%s", location, e.Message)
	}

	if e.Source != "" {
		msg = fmt.Sprintf("%s\n  source: %s", msg, e.Source)
	}
	return msg
}

func (e *EncodingError) Unwrap() error {
	return e.Wrapped
}

// NewEncodingError creates an EncodingError carrying source context.
func NewEncodingError(pos parser.Position, source, message string) *EncodingError {
	return &EncodingError{Pos: pos, Source: source, Message: message}
}

// WrapEncodingError wraps err with source context, leaving an
// existing EncodingError untouched.
func WrapEncodingError(pos parser.Position, source string, err error) error {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EncodingError); ok {
		return ee
	}
	return &EncodingError{Pos: pos, Source: source, Message: "failed to encode instruction", Wrapped: err}
}
