package parser

import (
	"fmt"
	"strings"

	"github.com/DKingAlpha/NxDmntASM/vm"
)

// RegRef is one register term inside a bracketed address expression,
// e.g. the "r3++" in "[main + r2 + 0x10 + r3++]".
type RegRef struct {
	Index   int
	SelfInc bool
}

// AddressExpr is the parsed form of a bracketed addressing expression:
// `[ base + rN{++} + offset + rM ]`. At most one memory-region keyword
// and any number of register terms are allowed; all bare immediates
// are summed into Offset.
type AddressExpr struct {
	HasRegion bool
	Region    vm.MemRegion
	Offset    uint64
	Regs      []RegRef
}

// ParseAddressExpr parses the contents of a bracketed address
// expression (brackets already stripped, or not - both are accepted).
// It implements the §4.2 algorithm: strip brackets/whitespace, split
// on '+', fold the `rN++` naive-split artifact (`r2++` splits into
// `["r2", "", ""]`), then classify each remaining token as a region
// keyword, a register (optionally followed by the folded `++` marker),
// or an immediate.
func ParseAddressExpr(raw string, pos Position) (*AddressExpr, *SyntaxError) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	rawTerms := strings.Split(s, "+")
	terms := make([]string, len(rawTerms))
	for i, t := range rawTerms {
		terms[i] = strings.TrimSpace(t)
	}

	expr := &AddressExpr{}
	sawRegion := false

	for i := 0; i < len(terms); i++ {
		term := terms[i]

		if term == "" {
			// A lone stray '+' (not part of a folded "++" suffix,
			// which is only recognized right after a register term).
			return nil, NewErrorWithContext(pos, ErrorInvalidOperand,
				"stray '+' in address expression", raw)
		}

		if region, ok := vm.ParseMemRegion(term); ok {
			if sawRegion {
				return nil, NewErrorWithContext(pos, ErrorInvalidOperand,
					fmt.Sprintf("duplicate memory region %q in address expression", term), raw)
			}
			expr.HasRegion = true
			expr.Region = region
			sawRegion = true
			continue
		}

		if idx, ok := vm.RegIndex(term); ok {
			selfInc := false
			// A following "r2++" collapses to two empty terms
			// immediately after the register token.
			if i+2 < len(terms) && terms[i+1] == "" && terms[i+2] == "" {
				selfInc = true
				i += 2
			}
			expr.Regs = append(expr.Regs, RegRef{Index: idx, SelfInc: selfInc})
			continue
		}

		if vm.IsImmediate(term) {
			v, err := vm.ParseImmediate(term)
			if err != nil {
				return nil, NewErrorWithContext(pos, ErrorInvalidOperand,
					fmt.Sprintf("invalid immediate %q in address expression", term), raw)
			}
			expr.Offset += v
			continue
		}

		return nil, NewErrorWithContext(pos, ErrorInvalidOperand,
			fmt.Sprintf("unrecognized token %q in address expression", term), raw)
	}

	return expr, nil
}

// Format renders the address expression back to canonical source
// syntax, e.g. "[main + 0x100 + r2]" or "[r3++ + r2]".
func (a *AddressExpr) Format() string {
	var parts []string
	if a.HasRegion {
		parts = append(parts, a.Region.String())
	}
	if a.Offset != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", a.Offset))
	}
	for _, r := range a.Regs {
		if r.SelfInc {
			parts = append(parts, fmt.Sprintf("r%d++", r.Index))
		} else {
			parts = append(parts, fmt.Sprintf("r%d", r.Index))
		}
	}
	return "[" + strings.Join(parts, " + ") + "]"
}
