package parser

// typePrefixes are the operand-width/type keywords that may prefix an
// assembly line, in the order they are tried during extraction. Order
// matters only in that a longer keyword must be tried before a prefix
// of it would match (none currently overlap, but u8/u16/u32/u64 are
// listed narrowest-first for clarity).
var typePrefixes = []string{
	"u8", "u16", "u32", "u64",
	"i8", "i16", "i32", "i64",
	"float", "double", "ptr",
}

// DefaultIndent is the default number of spaces used per nesting level
// when pretty-printing disassembled if/loop blocks.
const DefaultIndent = 4
