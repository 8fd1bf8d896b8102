// Package vm defines the value types that make up a dmnt cheat-VM
// instruction: data widths, memory regions, conditions, arithmetic
// operators, controller key masks and the small enumerations carried
// in individual opcode fields.
package vm

import "fmt"

// DataWidth is an operand width of 1, 2, 4 or 8 bytes. The wire
// format's T nibble carries Bytes(), not this ordinal.
type DataWidth uint8

const (
	WidthU8 DataWidth = iota
	WidthU16
	WidthU32
	WidthU64
)

// Bytes returns the number of bytes this width occupies on the wire.
func (w DataWidth) Bytes() int {
	return 1 << uint(w)
}

// WidthFromByteCount inverts Bytes: the wire format's T field carries
// a literal byte count (1, 2, 4, or 8), not the DataWidth ordinal, so
// every decoder needs this to recover a DataWidth from that nibble.
// ok is false for any other value.
func WidthFromByteCount(n uint64) (DataWidth, bool) {
	switch n {
	case 1:
		return WidthU8, true
	case 2:
		return WidthU16, true
	case 4:
		return WidthU32, true
	case 8:
		return WidthU64, true
	default:
		return 0, false
	}
}

func (w DataWidth) String() string {
	switch w {
	case WidthU8:
		return "u8"
	case WidthU16:
		return "u16"
	case WidthU32:
		return "u32"
	case WidthU64:
		return "u64"
	default:
		return fmt.Sprintf("DataWidth(%d)", uint8(w))
	}
}

// DataType is the full type tag attached to a value: width plus
// signedness/float-ness. Unlike DataWidth (which is all the wire format
// carries), DataType is what the textual syntax exposes to the user
// (u8/i8/u16/i16/.../float/double).
type DataType uint8

const (
	TypeU8 DataType = iota
	TypeU16
	TypeU32
	TypeU64
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeFloat
	TypeDouble
)

// ParseDataType maps a type keyword (as it appears in cheat-assembly
// source, e.g. "u32", "float", "ptr") to a DataType. ok is false for an
// unrecognized keyword.
func ParseDataType(s string) (DataType, bool) {
	switch s {
	case "u8":
		return TypeU8, true
	case "u16":
		return TypeU16, true
	case "u32":
		return TypeU32, true
	case "u64", "ptr":
		return TypeU64, true
	case "i8":
		return TypeI8, true
	case "i16":
		return TypeI16, true
	case "i32":
		return TypeI32, true
	case "i64":
		return TypeI64, true
	case "float":
		return TypeFloat, true
	case "double":
		return TypeDouble, true
	default:
		return 0, false
	}
}

func (t DataType) String() string {
	switch t {
	case TypeU8:
		return "u8"
	case TypeU16:
		return "u16"
	case TypeU32:
		return "u32"
	case TypeU64:
		return "u64"
	case TypeI8:
		return "i8"
	case TypeI16:
		return "i16"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// Width returns the wire width of this type.
func (t DataType) Width() DataWidth {
	switch t {
	case TypeU8, TypeI8:
		return WidthU8
	case TypeU16, TypeI16:
		return WidthU16
	case TypeU32, TypeI32, TypeFloat:
		return WidthU32
	default:
		return WidthU64
	}
}

// Signed reports whether the type is a signed integer.
func (t DataType) Signed() bool {
	switch t {
	case TypeI8, TypeI16, TypeI32, TypeI64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the type is an IEEE-754 float or double.
func (t DataType) IsFloat() bool {
	return t == TypeFloat || t == TypeDouble
}

// WidthToType collapses a bare width (as carried by instructions that
// have no signed/float distinction, such as load/store) to its
// unsigned DataType, the canonical type used to format such operands.
func WidthToType(w DataWidth) DataType {
	switch w {
	case WidthU8:
		return TypeU8
	case WidthU16:
		return TypeU16
	case WidthU32:
		return TypeU32
	default:
		return TypeU64
	}
}

// MemRegion names the base region of a memory addressing expression.
type MemRegion uint8

const (
	MemMain MemRegion = iota
	MemHeap
	MemAlias
	MemASLR
)

func ParseMemRegion(s string) (MemRegion, bool) {
	switch s {
	case "main":
		return MemMain, true
	case "heap":
		return MemHeap, true
	case "alias":
		return MemAlias, true
	case "aslr":
		return MemASLR, true
	default:
		return 0, false
	}
}

func (m MemRegion) String() string {
	switch m {
	case MemMain:
		return "main"
	case MemHeap:
		return "heap"
	case MemAlias:
		return "alias"
	case MemASLR:
		return "aslr"
	default:
		return fmt.Sprintf("MemRegion(%d)", uint8(m))
	}
}

// Condition is a comparison operator used by conditional-if instructions.
type Condition uint8

const (
	CondGT Condition = iota + 1
	CondGTE
	CondLT
	CondLTE
	CondEQ
	CondNEQ
)

var conditionSymbols = map[string]Condition{
	">":  CondGT,
	">=": CondGTE,
	"<":  CondLT,
	"<=": CondLTE,
	"==": CondEQ,
	"!=": CondNEQ,
}

// ParseCondition maps a comparison symbol to a Condition.
func ParseCondition(s string) (Condition, bool) {
	c, ok := conditionSymbols[s]
	return c, ok
}

func (c Condition) String() string {
	for sym, v := range conditionSymbols {
		if v == c {
			return sym
		}
	}
	return fmt.Sprintf("Condition(%d)", uint8(c))
}

// ArithOp is an arithmetic/logic operator used by register-register and
// register-immediate arithmetic instructions.
type ArithOp uint8

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithLShift
	ArithRShift
	ArithAnd
	ArithOr
	ArithNot
	ArithXor
	ArithMove
)

var arithSymbols = map[string]ArithOp{
	"+":  ArithAdd,
	"-":  ArithSub,
	"*":  ArithMul,
	"<<": ArithLShift,
	">>": ArithRShift,
	"&":  ArithAnd,
	"|":  ArithOr,
	"~":  ArithNot,
	"^":  ArithXor,
	"=":  ArithMove,
}

// ParseArithOp maps an operator symbol to an ArithOp.
func ParseArithOp(s string) (ArithOp, bool) {
	op, ok := arithSymbols[s]
	return op, ok
}

func (a ArithOp) String() string {
	for sym, v := range arithSymbols {
		if v == a {
			return sym
		}
	}
	return fmt.Sprintf("ArithOp(%d)", uint8(a))
}

// OffsetType tags which fields are present in a store-register
// addressing expression (instruction 0xA).
type OffsetType uint8

const (
	OffsetNone OffsetType = iota
	OffsetReg
	OffsetImm
	OffsetMembaseReg
	OffsetMembaseImm
	OffsetMembaseImmOffReg
)

// DebugOperandType tags the addressing shape of a debug-log operand
// (instruction 0xFFF).
type DebugOperandType uint8

const (
	DebugMembaseOff DebugOperandType = iota
	DebugMembaseReg
	DebugRegOff
	DebugRegOffReg
	DebugReg
)

// SaveRestoreOp is the register save/restore/clear operation
// (instruction 0xC). The reference implementation this format derives
// from assigns both CLEAR and REG_ZERO the wire value 2, relying on
// surrounding context (whether the destination is a save slot or a
// working register) to disambiguate. This package does not replicate
// that collision: CLEAR and REG_ZERO get distinct wire values 2 and 3.
type SaveRestoreOp uint8

const (
	RegRestore SaveRestoreOp = iota
	RegSave
	RegClear
	RegZero
)

// WireValue returns the 2-bit value this op is encoded as on the wire.
func (o SaveRestoreOp) WireValue() uint8 {
	return uint8(o)
}

func (o SaveRestoreOp) String() string {
	switch o {
	case RegRestore:
		return "restore"
	case RegSave:
		return "save"
	case RegClear:
		return "clear"
	case RegZero:
		return "zero"
	default:
		return fmt.Sprintf("SaveRestoreOp(%d)", uint8(o))
	}
}

// KeyFlag is a bitmask over the Joy-Con/Pro Controller button set used
// by the "if key" instruction (0x8).
type KeyFlag uint32

const (
	KeyA KeyFlag = 1 << iota
	KeyB
	KeyX
	KeyY
	KeyLStick
	KeyRStick
	KeyL
	KeyR
	KeyZL
	KeyZR
	KeyPlus
	KeyMinus
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeyLStickLeft
	KeyLStickUp
	KeyLStickRight
	KeyLStickDown
	KeyRStickLeft
	KeyRStickUp
	KeyRStickRight
	KeyRStickDown
	KeySL
	KeySR
)

var keyNames = []struct {
	name string
	flag KeyFlag
}{
	{"A", KeyA}, {"B", KeyB}, {"X", KeyX}, {"Y", KeyY},
	{"LSTICK", KeyLStick}, {"RSTICK", KeyRStick}, {"L", KeyL}, {"R", KeyR},
	{"ZL", KeyZL}, {"ZR", KeyZR}, {"PLUS", KeyPlus}, {"MINUS", KeyMinus},
	{"LEFT", KeyLeft}, {"UP", KeyUp}, {"RIGHT", KeyRight}, {"DOWN", KeyDown},
	{"LSTICK_LEFT", KeyLStickLeft}, {"LSTICK_UP", KeyLStickUp},
	{"LSTICK_RIGHT", KeyLStickRight}, {"LSTICK_DOWN", KeyLStickDown},
	{"RSTICK_LEFT", KeyRStickLeft}, {"RSTICK_UP", KeyRStickUp},
	{"RSTICK_RIGHT", KeyRStickRight}, {"RSTICK_DOWN", KeyRStickDown},
	{"SL", KeySL}, {"SR", KeySR},
}

// ParseKeyName maps a single button name to its KeyFlag.
func ParseKeyName(s string) (KeyFlag, bool) {
	for _, k := range keyNames {
		if k.name == s {
			return k.flag, true
		}
	}
	return 0, false
}

// String renders the mask as a "|"-joined list of button names, in
// canonical bit order. A zero mask renders as "0".
func (k KeyFlag) String() string {
	if k == 0 {
		return "0"
	}
	var parts []string
	for _, n := range keyNames {
		if k&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "|"
		}
		s += p
	}
	return s
}
