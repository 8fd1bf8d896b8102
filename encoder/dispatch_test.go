package encoder

import (
	"strings"
	"testing"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

var testPos = parser.Position{Filename: "test", Line: 1}

func assembleHex(t *testing.T, src string) string {
	t.Helper()
	inst, err := AssembleLine(src, testPos)
	if err != nil {
		t.Fatalf("AssembleLine(%q) failed: %v", src, err)
	}
	return strings.ReplaceAll(inst.MachineCode(), " ", "")
}

// TestKnownScenarios pins down the source lines whose expected machine
// code could be derived unambiguously from the opcode tables.
func TestKnownScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"loop", "loop r2 to 0xa", "300200000000000A"},
		{"endloop", "endloop r2", "31020000"},
		{"if key", "if key A | B", "80000003"},
		{"pause", "pause", "FF000000"},
		{"resume", "resume", "FF100000"},
		{"nop", "nop", "000000000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assembleHex(t, tt.src)
			if got != tt.want {
				t.Errorf("AssembleLine(%q).MachineCode() = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

// TestWidthFieldIsByteCount pins the `if u64 [heap + 0x1234] > 0x5678`
// scenario's machine code literally: the T nibble must carry the byte
// count of the operand width (1/2/4/8), not the DataWidth ordinal
// (0-3). Unlike scenario 1's store-imm row, this one byte-matches a
// literal left-to-right reading of `1TMC00AA AAAAAAAA VVVVVVVV` with
// no other ambiguity, so it pins the literal expected hex rather than
// only self-consistency.
func TestWidthFieldIsByteCount(t *testing.T) {
	inst, err := BuildIfOffImm(testPos, vm.TypeU64, vm.MemHeap, vm.CondGT, 0x1234, 0x5678)
	if err != nil {
		t.Fatalf("BuildIfOffImm failed: %v", err)
	}
	want := "18110000 00001234 00000000 00005678"
	if got := inst.MachineCode(); got != want {
		t.Errorf("MachineCode() = %s, want %s", got, want)
	}
}

// TestAssembleDisassembleRoundTrip exercises every instruction family:
// assemble the source, then disassemble the resulting machine code and
// assemble that text again. The two machine-code encodings must agree,
// even where the exact byte layout isn't pinned by a worked example.
func TestAssembleDisassembleRoundTrip(t *testing.T) {
	sources := []string{
		"nop",
		"pause",
		"resume",
		"endif",
		"else",
		"loop r2 to 0xa",
		"endloop r2",
		"u32 [main + 0x10 + r0] = 0x1234",
		"u32 if [heap + 0x20] == 0x5",
		"r1 = 0x1234",
		"u32 r1 = r2",
		"u32 r1 = ~r2",
		"u32 r1 = r2 + r3",
		"u32 r1 = r2 + 0x10",
		"u32 r1 += 0x10",
		"if key A | B",
		"u32 if [heap + 0x10] == 0x5",
		"u32 r3 = [heap + 0x10]",
		"u32 r3 = [r3++]",
		"u32 [r0++] = 0x99",
		"u32 [r0 + r1] = 0x55",
		"u32 [heap + r1] = r2",
		"u32 [heap + 0x10 + r1] = r2",
		"u32 [r0 + 0x10] = r2",
		"u32 if r1 > [heap + 0x20]",
		"u32 if r1 > [heap + r2]",
		"u32 if r1 > [r2 + 0x10]",
		"u32 if r1 > [r2 + r3]",
		"u32 if r1 > 0x10",
		"u32 if r1 > r2",
		"save[3] = r5",
		"r5 = save[3]",
		"save[3] = 0",
		"r5 = 0",
		"save r1,r2,r3",
		"restore r1,r2,r3",
		"r1,r2,r3 = 0",
		"r5 = static[0x1]",
		"static[0x1] = r5",
		"log 1 u32 [heap + 0x10]",
		"log 1 u32 [heap + r2]",
		"log 1 u32 [r1 + 0x10]",
		"log 1 u32 [r1 + r2]",
		"log 1 u32 [r1]",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			inst, err := AssembleLine(src, testPos)
			if err != nil {
				t.Fatalf("AssembleLine(%q) failed: %v", src, err)
			}
			hex1 := inst.MachineCode()

			decoded, err := DisassembleLine(hex1)
			if err != nil {
				t.Fatalf("DisassembleLine(%q) failed: %v", hex1, err)
			}
			hex2 := decoded.MachineCode()
			if hex1 != hex2 {
				t.Errorf("round trip mismatch: assembled %s, disassembled-then-reassembled %s", hex1, hex2)
			}

			reassembled, err := AssembleLine(decoded.Assembly(), testPos)
			if err != nil {
				t.Fatalf("re-assembling disassembly %q failed: %v", decoded.Assembly(), err)
			}
			if reassembled.MachineCode() != hex1 {
				t.Errorf("disassembly %q did not reassemble to the same machine code: got %s, want %s",
					decoded.Assembly(), reassembled.MachineCode(), hex1)
			}
		})
	}
}

func TestAssembleLineRejectsGarbage(t *testing.T) {
	_, err := AssembleLine("not a real instruction", testPos)
	if err == nil {
		t.Fatal("expected an error for an unrecognized line")
	}
}

func TestAssembleLineRejectsOutOfRangeRegister(t *testing.T) {
	_, err := AssembleLine("u32 r20 = 0x1", testPos)
	if err == nil {
		t.Fatal("expected an error for an out-of-range register")
	}
}

func TestAssembleLineRejectsMissingTypePrefix(t *testing.T) {
	_, err := AssembleLine("r1 = r2", testPos)
	if err == nil {
		t.Fatal("expected an error: register-to-register move requires a type prefix")
	}
}

func TestAssembleLineBlankAndComment(t *testing.T) {
	for _, src := range []string{"", "   ", "# a comment"} {
		inst, err := AssembleLine(src, testPos)
		if err != nil {
			t.Errorf("AssembleLine(%q) unexpected error: %v", src, err)
		}
		if inst != nil {
			t.Errorf("AssembleLine(%q) expected nil instruction, got %#v", src, inst)
		}
	}
}

func TestDisassembleLineRejectsNonHex(t *testing.T) {
	_, err := DisassembleLine("not hex at all")
	if err == nil {
		t.Fatal("expected an error for non-hex machine code")
	}
}
