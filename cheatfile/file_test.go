package cheatfile

import (
	"strings"
	"testing"
)

func TestLoadGroupsEntries(t *testing.T) {
	src := "{master}\n" +
		"nop\n" +
		"\n" +
		"[my cheat]\n" +
		"# a comment\n" +
		"loop r2 to 0xa\n" +
		"endloop r2\n"

	f := Load(src, nil)
	if len(f.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(f.Entries))
	}
	if f.Entries[0].Header != "{master}" {
		t.Errorf("entry 0 header = %q, want {master}", f.Entries[0].Header)
	}
	if f.Entries[1].Header != "[my cheat]" {
		t.Errorf("entry 1 header = %q, want [my cheat]", f.Entries[1].Header)
	}
	if len(f.Entries[1].Lines) != 3 {
		t.Fatalf("expected 3 lines in second entry, got %d", len(f.Entries[1].Lines))
	}
	if f.Entries[1].Lines[0].Kind != lineComment {
		t.Errorf("expected first line of second entry to be a comment")
	}
}

func TestLoadCodeBeforeAnyHeader(t *testing.T) {
	f := Load("nop\n", nil)
	if len(f.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(f.Entries))
	}
	if f.Entries[0].Header != "" {
		t.Errorf("expected empty header, got %q", f.Entries[0].Header)
	}
}

func TestLoadUnterminatedHeaderReportsButContinues(t *testing.T) {
	var errs []error
	f := Load("[unterminated\nnop\n", func(err error) { errs = append(errs, err) })
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if len(f.Entries) != 1 {
		t.Fatalf("expected entry to still be created, got %d entries", len(f.Entries))
	}
}

func TestAssembleAndDumpRoundTrip(t *testing.T) {
	src := "[cheat]\n" +
		"loop r2 to 0xa\n" +
		"u32 [main + 0x10 + r0] = 0x1234\n" +
		"endloop r2\n"

	var errs []error
	f := Load(src, nil)
	ok := f.Assemble("test.txt", func(err error) { errs = append(errs, err) })
	if !ok {
		t.Fatalf("Assemble reported failure, errors: %v", errs)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	hex := f.Dump(4, true)
	if !strings.Contains(hex, "30020000") {
		t.Errorf("expected loop opcode in hex dump, got:\n%s", hex)
	}

	asm := f.Dump(4, false)
	lines := strings.Split(strings.TrimRight(asm, "\n"), "\n")
	// header, loop (indent 0), store (indent 4), endloop (indent 0)
	if lines[0] != "[cheat]" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if strings.HasPrefix(lines[1], " ") {
		t.Errorf("loop line should not be indented: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    ") {
		t.Errorf("store line should be indented one level: %q", lines[2])
	}
	if strings.HasPrefix(lines[3], " ") {
		t.Errorf("endloop line should be back at indent 0: %q", lines[3])
	}
}

func TestAssembleContinuesPastBadLine(t *testing.T) {
	src := "[cheat]\n" +
		"not a real instruction\n" +
		"nop\n"

	var errs []error
	f := Load(src, nil)
	ok := f.Assemble("test.txt", func(err error) { errs = append(errs, err) })
	if ok {
		t.Fatalf("expected overall failure flag")
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 reported error, got %d: %v", len(errs), errs)
	}
	// the bad line leaves Inst nil but the good line after it still converts
	if f.Entries[0].Lines[0].Inst != nil {
		t.Errorf("expected nil Inst for the unrecognized line")
	}
	if f.Entries[0].Lines[1].Inst == nil {
		t.Errorf("expected nop on the following line to still assemble")
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	src := "[cheat]\n" + "FF000000\n"
	f := Load(src, nil)
	if ok := f.Disassemble("test.txt", nil); !ok {
		t.Fatalf("Disassemble reported failure")
	}
	asm := f.Dump(4, false)
	if !strings.Contains(asm, "pause") {
		t.Errorf("expected pause in disassembly, got:\n%s", asm)
	}
}
