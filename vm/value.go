package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxRegister is the highest valid register index (r0..r15).
const MaxRegister = 15

// MaxSaveSlot is the highest valid save-slot index.
const MaxSaveSlot = 15

// IsImmediate reports whether s looks like a numeric literal (as
// opposed to a register reference like "r3"). It accepts decimal and
// "0x"-prefixed hex, with an optional leading sign.
func IsImmediate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return len(s) > 2
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RegIndex parses a register reference such as "r3" and returns its
// index. ok is false if s is not of the form "r<digits>" or the index
// exceeds MaxRegister.
func RegIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != 'r' && s[0] != 'R') {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > MaxRegister {
		return 0, false
	}
	return n, true
}

// ParseImmediate parses a decimal or "0x"-prefixed hex literal into a
// 64-bit unsigned container. The literal may carry a leading sign;
// negative values are returned as their two's-complement bit pattern.
func ParseImmediate(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric literal: %w", err)
	}
	if neg {
		v = uint64(-int64(v))
	}
	return v, nil
}

// Reinterpret masks a raw bit pattern down to the wire width of t. It
// is the common tail of ReinterpretSigned/ReinterpretFloat32/64 for
// callers that already hold an unsigned bit pattern (e.g. an
// already-parsed immediate being stored as-is).
func Reinterpret(t DataType, raw uint64) uint64 {
	return raw & widthMask(t.Width().Bytes())
}

// ReinterpretSigned packs a signed integer literal into its unsigned
// two's-complement bit pattern at the given width.
func ReinterpretSigned(width DataWidth, v int64) uint64 {
	return uint64(v) & widthMask(width.Bytes())
}

// ReinterpretFloat32 packs a float32 into its IEEE-754 bit pattern.
func ReinterpretFloat32(f float32) uint64 {
	return uint64(math.Float32bits(f))
}

// ReinterpretFloat64 packs a float64 into its IEEE-754 bit pattern.
func ReinterpretFloat64(f float64) uint64 {
	return math.Float64bits(f)
}

// DecodeSigned reinterprets a raw width-masked value as a signed
// integer of that width, sign-extending as needed.
func DecodeSigned(width DataWidth, raw uint64) int64 {
	bits := uint(width.Bytes()) * 8
	v := raw & widthMask(width.Bytes())
	signBit := uint64(1) << (bits - 1)
	if v&signBit != 0 {
		v -= uint64(1) << bits
	}
	return int64(v)
}

// DecodeFloat32 reinterprets a raw 32-bit value as an IEEE-754 float32.
func DecodeFloat32(raw uint64) float32 {
	return math.Float32frombits(uint32(raw))
}

// DecodeFloat64 reinterprets a raw 64-bit value as an IEEE-754 float64.
func DecodeFloat64(raw uint64) float64 {
	return math.Float64frombits(raw)
}

func widthMask(bytes int) uint64 {
	if bytes >= 8 {
		return math.MaxUint64
	}
	return (uint64(1) << (uint(bytes) * 8)) - 1
}

// FormatImmediate renders a width-masked value as canonical lower-case
// "0x"-prefixed hex, e.g. "0x1234". If truncate is non-zero, the value
// is narrowed to that many bytes first; the narrowed and original
// values are compared and an error returned if information was lost,
// matching the source format's overflow check on literal immediates.
func FormatImmediate(v uint64, truncate int) (string, error) {
	if truncate > 0 && truncate < 8 {
		mask := widthMask(truncate)
		narrowed := v & mask
		if narrowed != v {
			return "", fmt.Errorf("immediate 0x%x does not fit in %d byte(s)", v, truncate)
		}
		v = narrowed
	}
	return fmt.Sprintf("0x%x", v), nil
}
