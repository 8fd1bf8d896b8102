package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/DKingAlpha/NxDmntASM/vm"
)

func TestIsCommentOrBlank(t *testing.T) {
	cases := map[string]bool{
		"":               true,
		"   ":            true,
		"# a comment":    true,
		"  # indented":   true,
		"r1 = 0x1":       false,
		"loop r2 to 0xa": false,
	}
	for src, want := range cases {
		if got := IsCommentOrBlank(src); got != want {
			t.Errorf("IsCommentOrBlank(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestExtractTypePrefix(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}

	dtype, found, rest, err := ExtractTypePrefix("u32 r1 = 0x10", pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a type prefix to be found")
	}
	if want, _ := vm.ParseDataType("u32"); dtype != want {
		t.Errorf("dtype = %v, want %v", dtype, want)
	}
	if rest != "r1 = 0x10" {
		t.Errorf("rest = %q, want %q", rest, "r1 = 0x10")
	}

	_, found, rest, err = ExtractTypePrefix("r1 = r2", pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected no type prefix to be found")
	}
	if rest != "r1 = r2" {
		t.Errorf("rest = %q, want unchanged input", rest)
	}

	_, _, _, err = ExtractTypePrefix("u32 u64 r1 = 0x10", pos)
	if err == nil {
		t.Fatal("expected an error for multiple type prefixes")
	}
}

func TestSplitLeadingKeyword(t *testing.T) {
	kw, rest := SplitLeadingKeyword("  loop r2 to 0xa  ")
	if kw != "loop" || rest != "r2 to 0xa" {
		t.Errorf("got (%q, %q), want (%q, %q)", kw, rest, "loop", "r2 to 0xa")
	}

	kw, rest = SplitLeadingKeyword("nop")
	if kw != "nop" || rest != "" {
		t.Errorf("got (%q, %q), want (%q, %q)", kw, rest, "nop", "")
	}
}

func TestParseAddressExprBasic(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}
	expr, err := ParseAddressExpr("[main + 0x10 + r2]", pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.HasRegion || expr.Region != vm.MemMain {
		t.Errorf("region = %+v, want MAIN", expr)
	}
	if expr.Offset != 0x10 {
		t.Errorf("offset = %#x, want 0x10", expr.Offset)
	}
	if len(expr.Regs) != 1 || expr.Regs[0].Index != 2 || expr.Regs[0].SelfInc {
		t.Errorf("regs = %+v, want [{2 false}]", expr.Regs)
	}
}

func TestParseAddressExprStructuralMatch(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}
	got, err := ParseAddressExpr("[heap + 0x20 + r1 + r2++]", pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &AddressExpr{
		HasRegion: true,
		Region:    vm.MemHeap,
		Offset:    0x20,
		Regs: []RegRef{
			{Index: 1, SelfInc: false},
			{Index: 2, SelfInc: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseAddressExpr result mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAddressExprSelfIncrement(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}
	expr, err := ParseAddressExpr("[r3++]", pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Regs) != 1 || expr.Regs[0].Index != 3 || !expr.Regs[0].SelfInc {
		t.Errorf("regs = %+v, want [{3 true}]", expr.Regs)
	}

	expr, err = ParseAddressExpr("[r0 + r1++]", pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Regs) != 2 || expr.Regs[1].Index != 1 || !expr.Regs[1].SelfInc {
		t.Errorf("regs = %+v, want [{0 false} {1 true}]", expr.Regs)
	}
}

func TestParseAddressExprRejectsDuplicateRegion(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}
	if _, err := ParseAddressExpr("[main + heap]", pos); err == nil {
		t.Fatal("expected an error for duplicate memory region")
	}
}

func TestParseAddressExprRejectsStrayPlus(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}
	if _, err := ParseAddressExpr("[main ++ 0x10]", pos); err == nil {
		t.Fatal("expected an error for a stray '+'")
	}
}

func TestParseAddressExprRejectsGarbageToken(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}
	if _, err := ParseAddressExpr("[main + notanoperand]", pos); err == nil {
		t.Fatal("expected an error for an unrecognized token")
	}
}

func TestAddressExprFormatRoundTrip(t *testing.T) {
	pos := Position{Filename: "t", Line: 1}
	expr, err := ParseAddressExpr("[heap + 0x20 + r3++ + r1]", pos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reparsed, err := ParseAddressExpr(expr.Format(), pos)
	if err != nil {
		t.Fatalf("re-parsing %q failed: %v", expr.Format(), err)
	}
	if reparsed.Format() != expr.Format() {
		t.Errorf("format round trip mismatch: %q vs %q", reparsed.Format(), expr.Format())
	}
}

func TestErrorListAccumulatesAndReports(t *testing.T) {
	el := &ErrorList{}
	if el.HasErrors() {
		t.Fatal("new ErrorList should have no errors")
	}
	el.AddError(NewError(Position{Filename: "t", Line: 1}, ErrorSyntax, "bad line"))
	el.AddWarning(&Warning{Pos: Position{Filename: "t", Line: 2}, Message: "deprecated form"})
	if !el.HasErrors() {
		t.Fatal("expected HasErrors to be true after AddError")
	}
	if el.Error() == "" {
		t.Error("expected non-empty combined error text")
	}
	if el.PrintWarnings() == "" {
		t.Error("expected non-empty warning text")
	}
}
