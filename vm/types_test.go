package vm

import "testing"

func TestParseDataTypeAndString(t *testing.T) {
	cases := map[string]DataType{
		"u8": TypeU8, "u16": TypeU16, "u32": TypeU32, "u64": TypeU64,
		"i8": TypeI8, "i16": TypeI16, "i32": TypeI32, "i64": TypeI64,
		"float": TypeFloat, "double": TypeDouble, "ptr": TypeU64,
	}
	for kw, want := range cases {
		got, ok := ParseDataType(kw)
		if !ok {
			t.Errorf("ParseDataType(%q) not recognized", kw)
			continue
		}
		if got != want {
			t.Errorf("ParseDataType(%q) = %v, want %v", kw, got, want)
		}
	}
	if _, ok := ParseDataType("u128"); ok {
		t.Error("expected u128 to be unrecognized")
	}
}

func TestDataTypeWidthAndSignedness(t *testing.T) {
	if TypeU32.Width() != WidthU32 {
		t.Errorf("TypeU32.Width() = %v, want WidthU32", TypeU32.Width())
	}
	if TypeFloat.Width() != WidthU32 {
		t.Errorf("TypeFloat.Width() = %v, want WidthU32", TypeFloat.Width())
	}
	if !TypeI32.Signed() {
		t.Error("TypeI32 should be signed")
	}
	if TypeU32.Signed() {
		t.Error("TypeU32 should not be signed")
	}
	if !TypeFloat.IsFloat() || !TypeDouble.IsFloat() {
		t.Error("TypeFloat/TypeDouble should report IsFloat")
	}
	if TypeU32.IsFloat() {
		t.Error("TypeU32 should not report IsFloat")
	}
}

func TestWidthToType(t *testing.T) {
	if WidthToType(WidthU8) != TypeU8 {
		t.Error("WidthToType(WidthU8) != TypeU8")
	}
	if WidthToType(WidthU64) != TypeU64 {
		t.Error("WidthToType(WidthU64) != TypeU64")
	}
}

func TestWidthFromByteCount(t *testing.T) {
	cases := map[uint64]DataWidth{1: WidthU8, 2: WidthU16, 4: WidthU32, 8: WidthU64}
	for n, want := range cases {
		got, ok := WidthFromByteCount(n)
		if !ok || got != want {
			t.Errorf("WidthFromByteCount(%d) = (%v, %v), want (%v, true)", n, got, ok, want)
		}
		if got.Bytes() != int(n) {
			t.Errorf("WidthFromByteCount(%d).Bytes() = %d, want %d", n, got.Bytes(), n)
		}
	}
	for _, n := range []uint64{0, 3, 5, 16} {
		if _, ok := WidthFromByteCount(n); ok {
			t.Errorf("WidthFromByteCount(%d) expected ok=false", n)
		}
	}
}

func TestParseMemRegionAndString(t *testing.T) {
	for kw, want := range map[string]MemRegion{"main": MemMain, "heap": MemHeap, "alias": MemAlias, "aslr": MemASLR} {
		got, ok := ParseMemRegion(kw)
		if !ok || got != want {
			t.Errorf("ParseMemRegion(%q) = (%v, %v), want (%v, true)", kw, got, ok, want)
		}
		if got.String() != kw {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), kw)
		}
	}
	if _, ok := ParseMemRegion("nowhere"); ok {
		t.Error("expected unrecognized region to fail")
	}
}

func TestParseConditionAndString(t *testing.T) {
	for sym, want := range conditionSymbols {
		got, ok := ParseCondition(sym)
		if !ok || got != want {
			t.Errorf("ParseCondition(%q) = (%v, %v), want (%v, true)", sym, got, ok, want)
		}
		if got.String() != sym {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), sym)
		}
	}
}

func TestParseArithOpAndString(t *testing.T) {
	for sym, want := range arithSymbols {
		got, ok := ParseArithOp(sym)
		if !ok || got != want {
			t.Errorf("ParseArithOp(%q) = (%v, %v), want (%v, true)", sym, got, ok, want)
		}
		if got.String() != sym {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), sym)
		}
	}
}

func TestSaveRestoreOpDistinctWireValues(t *testing.T) {
	seen := map[uint8]SaveRestoreOp{}
	for _, op := range []SaveRestoreOp{RegRestore, RegSave, RegClear, RegZero} {
		v := op.WireValue()
		if prior, dup := seen[v]; dup {
			t.Errorf("wire value %d shared by %v and %v", v, prior, op)
		}
		seen[v] = op
	}
}

func TestParseKeyNameAndMaskString(t *testing.T) {
	a, ok := ParseKeyName("A")
	if !ok || a != KeyA {
		t.Fatalf("ParseKeyName(A) = (%v, %v)", a, ok)
	}
	if _, ok := ParseKeyName("NOTABUTTON"); ok {
		t.Error("expected unrecognized button name to fail")
	}

	mask := KeyA | KeyB
	if mask.String() != "A|B" {
		t.Errorf("mask.String() = %q, want %q", mask.String(), "A|B")
	}
	if KeyFlag(0).String() != "0" {
		t.Errorf("zero mask should render as \"0\", got %q", KeyFlag(0).String())
	}
}
