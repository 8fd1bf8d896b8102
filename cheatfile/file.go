// Package cheatfile groups a cheat-text document into master/entry
// blocks and drives the assembler/disassembler across every
// instruction line in the document, collecting per-line failures
// instead of aborting on the first one.
package cheatfile

import (
	"strings"

	"github.com/DKingAlpha/NxDmntASM/encoder"
	"github.com/DKingAlpha/NxDmntASM/parser"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineCode
)

// Line is one line of an entry's body: either blank, a `#` comment
// (preserved verbatim in output but never fed to the codec), or a
// cheat-asm instruction.
type Line struct {
	Raw  string
	Kind lineKind
	Inst encoder.Instruction // set once Assemble or Disassemble succeeds for this line
}

// Entry is a master-code or cheat-code block: its `{...}`/`[...]`
// header line plus the raw body lines that followed it, up to the
// next header or end of file.
type Entry struct {
	Header string
	Lines  []*Line
}

// File is a whole cheat-text document split into entries.
type File struct {
	Entries []Entry
}

// ErrorHandler receives one error per line that failed to convert. It
// is called for every bad line in the file; it never aborts the pass.
type ErrorHandler func(err error)

func noopHandler(error) {}

// Load splits content into entries by `{...}`/`[...]` header lines.
// A header that doesn't close on the same line it opens on is
// reported through handler but still starts a new entry, matching the
// permissive, keep-going stance the rest of the package takes.
func Load(content string, handler ErrorHandler) *File {
	if handler == nil {
		handler = noopHandler
	}
	f := &File{}
	var cur *Entry
	lineNo := 0
	ensureCurrent := func() {
		if cur == nil {
			f.Entries = append(f.Entries, Entry{})
			cur = &f.Entries[len(f.Entries)-1]
		}
	}

	openClose := [][2]byte{{'{', '}'}, {'[', ']'}}
	for _, raw := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		lineNo++
		trimmed := strings.TrimSpace(raw)
		isHeader := false
		for _, oc := range openClose {
			if len(trimmed) == 0 || trimmed[0] != oc[0] {
				continue
			}
			isHeader = true
			if trimmed[len(trimmed)-1] != oc[1] {
				handler(parser.NewErrorWithContext(
					parser.Position{Line: lineNo}, parser.ErrorSyntax,
					"header does not close on the same line", trimmed))
			}
			f.Entries = append(f.Entries, Entry{Header: trimmed})
			cur = &f.Entries[len(f.Entries)-1]
			break
		}
		if isHeader {
			continue
		}
		ensureCurrent()
		switch {
		case trimmed == "":
			cur.Lines = append(cur.Lines, &Line{Raw: raw, Kind: lineBlank})
		case strings.HasPrefix(trimmed, "#"):
			cur.Lines = append(cur.Lines, &Line{Raw: raw, Kind: lineComment})
		default:
			cur.Lines = append(cur.Lines, &Line{Raw: raw, Kind: lineCode})
		}
	}
	return f
}

// Assemble converts every code line's human-readable syntax into an
// Instruction. Lines that fail are reported through handler and left
// with a nil Inst; the pass continues regardless. The returned bool is
// the overall success flag: false if any line failed.
func (f *File) Assemble(filename string, handler ErrorHandler) bool {
	if handler == nil {
		handler = noopHandler
	}
	ok := true
	lineNo := 0
	for ei := range f.Entries {
		if f.Entries[ei].Header != "" {
			lineNo++ // the header line itself
		}
		for _, ln := range f.Entries[ei].Lines {
			lineNo++
			if ln.Kind != lineCode {
				continue
			}
			pos := parser.Position{Filename: filename, Line: lineNo}
			inst, err := encoder.AssembleLine(ln.Raw, pos)
			if err != nil {
				handler(err)
				ok = false
				continue
			}
			ln.Inst = inst
		}
	}
	return ok
}

// Disassemble converts every code line's hex machine code into an
// Instruction, with the same continue-on-error contract as Assemble.
func (f *File) Disassemble(filename string, handler ErrorHandler) bool {
	if handler == nil {
		handler = noopHandler
	}
	ok := true
	lineNo := 0
	for ei := range f.Entries {
		if f.Entries[ei].Header != "" {
			lineNo++
		}
		for _, ln := range f.Entries[ei].Lines {
			lineNo++
			if ln.Kind != lineCode {
				continue
			}
			inst, err := encoder.DisassembleLine(ln.Raw)
			if err != nil {
				handler(&encoder.EncodingError{
					Pos:     parser.Position{Filename: filename, Line: lineNo},
					Source:  ln.Raw,
					Message: "failed to decode machine code",
					Wrapped: err,
				})
				ok = false
				continue
			}
			ln.Inst = inst
		}
	}
	return ok
}

// Dump renders the document back to text. asHex selects machine-code
// output (uppercase hex, one instruction per line); otherwise the
// human-readable assembly syntax is emitted. indent is the number of
// spaces added per nesting level inside if*/loop blocks, removed again
// before else/end*. Lines whose Inst is nil (never converted, or a
// failed conversion) are emitted verbatim.
func (f *File) Dump(indent int, asHex bool) string {
	var sb strings.Builder
	for _, e := range f.Entries {
		if e.Header != "" {
			sb.WriteString(e.Header)
			sb.WriteString("\n")
		}
		cur := 0
		for _, ln := range e.Lines {
			switch ln.Kind {
			case lineBlank:
				sb.WriteString("\n")
			case lineComment:
				sb.WriteString(ln.Raw)
				sb.WriteString("\n")
			case lineCode:
				if ln.Inst == nil {
					sb.WriteString(ln.Raw)
					sb.WriteString("\n")
					continue
				}
				if encoder.ClosesBlock(ln.Inst) {
					cur -= indent
					if cur < 0 {
						cur = 0
					}
				}
				sb.WriteString(strings.Repeat(" ", cur))
				if asHex {
					sb.WriteString(ln.Inst.MachineCode())
				} else {
					sb.WriteString(ln.Inst.Assembly())
				}
				sb.WriteString("\n")
				if encoder.OpensBlock(ln.Inst) {
					cur += indent
				}
			}
		}
	}
	return sb.String()
}
