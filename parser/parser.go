package parser

import (
	"regexp"
	"strings"

	"github.com/DKingAlpha/NxDmntASM/vm"
)

var typePrefixPattern = regexp.MustCompile(`\b(` + strings.Join(typePrefixes, "|") + `)\b`)

// IsCommentOrBlank reports whether line (after trimming) is empty or a
// whole-line comment (leading '#'). Such lines are ignored by both the
// assembler and the disassembler.
func IsCommentOrBlank(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

// ExtractTypePrefix looks for a single operand-width/type keyword
// (u8/u16/.../float/double/ptr) anywhere in line, removes it, and
// returns the remaining text. At most one type keyword is permitted;
// finding more than one is a SyntaxError.
func ExtractTypePrefix(line string, pos Position) (dtype vm.DataType, found bool, rest string, err *SyntaxError) {
	matches := typePrefixPattern.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return 0, false, line, nil
	}
	if len(matches) > 1 {
		return 0, false, line, NewErrorWithContext(pos, ErrorInvalidOperand,
			"multiple type prefixes in one instruction", line)
	}
	m := matches[0]
	kw := line[m[0]:m[1]]
	dtype, _ = vm.ParseDataType(kw)
	rest = line[:m[0]] + line[m[1]:]
	return dtype, true, strings.Join(strings.Fields(rest), " "), nil
}

// SplitLeadingKeyword splits a normalized instruction line into its
// first whitespace-delimited token (the dispatch keyword, e.g. "if",
// "loop", "save" - or the left-hand side of an assignment for the
// operand-shape-driven forms) and the remainder of the line.
func SplitLeadingKeyword(line string) (keyword, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}
