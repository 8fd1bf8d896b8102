package vm

import "testing"

func TestIsImmediate(t *testing.T) {
	cases := map[string]bool{
		"0x10": true, "10": true, "-5": true, "+5": true,
		"0x": false, "": false, "r3": false, "main": false,
	}
	for src, want := range cases {
		if got := IsImmediate(src); got != want {
			t.Errorf("IsImmediate(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestRegIndex(t *testing.T) {
	if idx, ok := RegIndex("r0"); !ok || idx != 0 {
		t.Errorf("RegIndex(r0) = (%d, %v)", idx, ok)
	}
	if idx, ok := RegIndex("r15"); !ok || idx != 15 {
		t.Errorf("RegIndex(r15) = (%d, %v)", idx, ok)
	}
	if _, ok := RegIndex("r16"); ok {
		t.Error("RegIndex(r16) should fail: out of range")
	}
	if _, ok := RegIndex("x3"); ok {
		t.Error("RegIndex(x3) should fail: not a register token")
	}
}

func TestParseImmediate(t *testing.T) {
	v, err := ParseImmediate("0x1234")
	if err != nil || v != 0x1234 {
		t.Errorf("ParseImmediate(0x1234) = (%d, %v)", v, err)
	}
	v, err = ParseImmediate("10")
	if err != nil || v != 10 {
		t.Errorf("ParseImmediate(10) = (%d, %v)", v, err)
	}
	v, err = ParseImmediate("-1")
	if err != nil || v != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("ParseImmediate(-1) = (%#x, %v), want all-ones", v, err)
	}
	if _, err := ParseImmediate("not-a-number"); err == nil {
		t.Error("expected an error for a non-numeric literal")
	}
}

func TestReinterpretAndDecodeSignedRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		width DataWidth
		n     int64
	}{
		{WidthU8, -1}, {WidthU8, 127}, {WidthU16, -100}, {WidthU32, -1}, {WidthU64, -1},
	} {
		packed := ReinterpretSigned(tt.width, tt.n)
		got := DecodeSigned(tt.width, packed)
		if got != tt.n {
			t.Errorf("width=%v n=%d: DecodeSigned(ReinterpretSigned(n)) = %d", tt.width, tt.n, got)
		}
	}
}

func TestReinterpretFloatRoundTrip(t *testing.T) {
	bits := ReinterpretFloat32(3.5)
	if DecodeFloat32(bits) != 3.5 {
		t.Errorf("float32 round trip failed: got %v", DecodeFloat32(bits))
	}
	bits64 := ReinterpretFloat64(-2.25)
	if DecodeFloat64(bits64) != -2.25 {
		t.Errorf("float64 round trip failed: got %v", DecodeFloat64(bits64))
	}
}

func TestFormatImmediate(t *testing.T) {
	s, err := FormatImmediate(0x1234, 0)
	if err != nil || s != "0x1234" {
		t.Errorf("FormatImmediate(0x1234, 0) = (%q, %v)", s, err)
	}
	s, err = FormatImmediate(0xFF, 1)
	if err != nil || s != "0xff" {
		t.Errorf("FormatImmediate(0xFF, 1) = (%q, %v)", s, err)
	}
	if _, err := FormatImmediate(0x1FF, 1); err == nil {
		t.Error("expected an error: 0x1FF does not fit in 1 byte")
	}
}

func TestReinterpretMasksToWidth(t *testing.T) {
	got := Reinterpret(TypeU8, 0x1FF)
	if got != 0xFF {
		t.Errorf("Reinterpret(TypeU8, 0x1FF) = %#x, want 0xff", got)
	}
}
