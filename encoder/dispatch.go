package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DKingAlpha/NxDmntASM/parser"
	"github.com/DKingAlpha/NxDmntASM/vm"
)

// signatureTable is the opcode dispatch table: a single ordered list of
// leading-nibble signatures, walked front to back (it is not indexed by
// first nibble), so that more-specific signatures (the `9????d` arith
// shapes, `ff0`/`ff1` before `fff`) are tried in a fixed order. The six
// if-reg operand shapes share the one `c0` entry and are told apart
// inside decodeIfReg. The
// nop literal must precede the family-0 store-imm entry, since every
// nop machine code is also a (degenerate, all-zero) valid store-imm
// prefix.
var signatureTable = []decodeEntry{
	{"000000000", decodeNop},
	{"0", decodeStoreImm},
	{"1", decodeIfOffImm},
	{"20", decodeEndIf},
	{"21", decodeElse},
	{"30", decodeLoopBegin},
	{"31", decodeLoopEnd},
	{"4", decodeMoveReg},
	{"5", decodeLoad},
	{"6", decodeStoreImmViaReg},
	{"7", decodeLegacyArithImm},
	{"8", decodeIfKey},
	{"9????0", decodeArithRegReg},
	{"9????1", decodeArithRegImm},
	{"a", decodeStoreReg},
	{"c0", decodeIfReg},
	{"c1", decodeSaveRestoreSingle},
	{"c2", decodeSaveRestoreMask},
	{"c3", decodeStaticReg},
	{"ff0", decodePause},
	{"ff1", decodeResume},
	{"fff", decodeDebugLog},
}

// DisassembleLine normalizes a line of machine code (arbitrary
// whitespace between hex digits) and walks signatureTable in order to
// find and invoke the first matching decoder.
func DisassembleLine(raw string) (Instruction, error) {
	collapsed := strings.Join(strings.Fields(raw), "")
	if collapsed == "" {
		return nil, fmt.Errorf("empty machine code")
	}
	lower := strings.ToLower(collapsed)
	for i := 0; i < len(lower); i++ {
		if !isHexByte(lower[i]) {
			return nil, fmt.Errorf("non-hex character in machine code: %q", raw)
		}
	}
	nb, err := parseNibbles(lower)
	if err != nil {
		return nil, err
	}
	for _, entry := range signatureTable {
		if matchSignature(entry.signature, lower) {
			inst, err := entry.decode(nb, raw)
			if err != nil {
				return nil, err
			}
			return inst, nil
		}
	}
	return nil, fmt.Errorf("no matching instruction signature for %q", raw)
}

// splitTopLevel splits a normalized instruction body on whitespace,
// except it keeps a bracketed address expression (which may itself
// contain internal spaces, e.g. "[main + 0x10 + r2]") together as one
// token.
func splitTopLevel(s string) []string {
	fields := strings.Fields(s)
	var out []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.Contains(f, "[") && !strings.Contains(f, "]") {
			j := i + 1
			for j < len(fields) && !strings.Contains(fields[j], "]") {
				j++
			}
			if j < len(fields) {
				out = append(out, strings.Join(fields[i:j+1], " "))
				i = j
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

func parseTypedValue(tok string, dtype vm.DataType) (uint64, error) {
	if dtype.IsFloat() {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s literal %q: %w", dtype, tok, err)
		}
		if dtype == vm.TypeFloat {
			return vm.ReinterpretFloat32(float32(f)), nil
		}
		return vm.ReinterpretFloat64(f), nil
	}
	v, err := vm.ParseImmediate(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid %s literal %q: %w", dtype, tok, err)
	}
	return vm.Reinterpret(dtype, v), nil
}

func parseRegList(s string) ([]int, error) {
	s = strings.ReplaceAll(s, ",", " ")
	var out []int
	for _, tok := range strings.Fields(s) {
		idx, ok := vm.RegIndex(tok)
		if !ok {
			return nil, fmt.Errorf("expected register, got %q", tok)
		}
		out = append(out, idx)
	}
	return out, nil
}

func regListMask(regs []int) uint16 {
	var mask uint16
	for _, r := range regs {
		mask |= 1 << uint(r)
	}
	return mask
}

// AssembleLine implements the assembly dispatcher: strip comment/blank
// lines, extract the optional type prefix, tokenize the leading
// keyword, and dispatch either on that keyword or, failing that, on
// the shape of an assignment expression. Returns (nil, nil) for lines
// that carry no instruction (blank or comment).
func AssembleLine(raw string, pos parser.Position) (Instruction, error) {
	if parser.IsCommentOrBlank(raw) {
		return nil, nil
	}
	dtype, hasType, stripped, serr := parser.ExtractTypePrefix(strings.TrimSpace(raw), pos)
	if serr != nil {
		return nil, serr
	}
	lower := strings.ToLower(strings.TrimSpace(stripped))
	keyword, rest := parser.SplitLeadingKeyword(lower)

	switch keyword {
	case "nop":
		return BuildNop(), nil
	case "pause":
		return BuildPause(), nil
	case "resume":
		return BuildResume(), nil
	case "endif":
		return BuildEndIf(), nil
	case "else":
		return BuildElse(), nil
	case "loop":
		return parseLoop(rest, pos)
	case "endloop":
		return parseEndLoop(rest, pos)
	case "if":
		return parseIf(rest, dtype, hasType, pos, raw)
	case "log":
		return parseLog(rest, dtype, hasType, pos, raw)
	case "save":
		return parseSaveRestoreKeyword(vm.RegSave, rest, pos)
	case "restore":
		return parseSaveRestoreKeyword(vm.RegRestore, rest, pos)
	default:
		tokens := splitTopLevel(lower)
		return dispatchAssignment(tokens, dtype, hasType, pos, raw)
	}
}

func parseLoop(rest string, pos parser.Position) (Instruction, error) {
	tokens := strings.Fields(rest)
	if len(tokens) != 3 || tokens[1] != "to" {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "expected \"loop rR to V\"", rest)
	}
	reg, ok := vm.RegIndex(tokens[0])
	if !ok {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register", tokens[0])
	}
	count, err := vm.ParseImmediate(tokens[2])
	if err != nil {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), tokens[2])
	}
	return BuildLoopBegin(pos, reg, count)
}

func parseEndLoop(rest string, pos parser.Position) (Instruction, error) {
	reg, ok := vm.RegIndex(strings.TrimSpace(rest))
	if !ok {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register", rest)
	}
	return BuildLoopEnd(pos, reg)
}

func parseSaveRestoreKeyword(op vm.SaveRestoreOp, rest string, pos parser.Position) (Instruction, error) {
	regs, err := parseRegList(rest)
	if err != nil {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), rest)
	}
	return BuildSaveRestoreMask(op, regListMask(regs)), nil
}

func parseIf(rest string, dtype vm.DataType, hasType bool, pos parser.Position, raw string) (Instruction, error) {
	tokens := splitTopLevel(rest)
	if len(tokens) == 0 {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "empty if condition", raw)
	}
	if tokens[0] == "key" {
		mask, err := parseKeyMask(strings.TrimPrefix(strings.TrimSpace(rest), "key"))
		if err != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), raw)
		}
		return BuildIfKey(mask), nil
	}
	if !hasType {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "conditional requires a type prefix", raw)
	}
	if strings.HasPrefix(tokens[0], "[") {
		if len(tokens) != 3 {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "expected \"if T [addr] COND value\"", raw)
		}
		addr, serr := parser.ParseAddressExpr(tokens[0], pos)
		if serr != nil {
			return nil, serr
		}
		cond, ok := vm.ParseCondition(tokens[1])
		if !ok {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unknown condition", tokens[1])
		}
		value, verr := parseTypedValue(tokens[2], dtype)
		if verr != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, verr.Error(), tokens[2])
		}
		if !addr.HasRegion {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "if [..] requires a memory region", tokens[0])
		}
		return BuildIfOffImm(pos, dtype, addr.Region, cond, addr.Offset, value)
	}
	reg, ok := vm.RegIndex(tokens[0])
	if !ok {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register or \"key\"", tokens[0])
	}
	if len(tokens) != 3 {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "expected \"if T rN COND operand\"", raw)
	}
	cond, ok := vm.ParseCondition(tokens[1])
	if !ok {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unknown condition", tokens[1])
	}
	operand := tokens[2]
	switch {
	case strings.HasPrefix(operand, "["):
		addr, serr := parser.ParseAddressExpr(operand, pos)
		if serr != nil {
			return nil, serr
		}
		switch {
		case addr.HasRegion && len(addr.Regs) == 1:
			return BuildIfReg(pos, dtype, cond, reg, ifRegMembaseReg, addr.Region, 0, addr.Regs[0].Index, 0, 0)
		case addr.HasRegion:
			return BuildIfReg(pos, dtype, cond, reg, ifRegMembaseOff, addr.Region, 0, 0, addr.Offset, 0)
		case len(addr.Regs) == 2:
			return BuildIfReg(pos, dtype, cond, reg, ifRegReg, 0, addr.Regs[0].Index, addr.Regs[1].Index, 0, 0)
		case len(addr.Regs) == 1:
			return BuildIfReg(pos, dtype, cond, reg, ifRegOff, 0, addr.Regs[0].Index, 0, addr.Offset, 0)
		default:
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unrecognized address expression", operand)
		}
	case vm.IsImmediate(operand):
		value, verr := parseTypedValue(operand, dtype)
		if verr != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, verr.Error(), operand)
		}
		return BuildIfReg(pos, dtype, cond, reg, ifRegImm, 0, 0, 0, 0, value)
	default:
		rm, ok := vm.RegIndex(operand)
		if !ok {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unrecognized operand", operand)
		}
		return BuildIfReg(pos, dtype, cond, reg, ifRegRM, 0, 0, rm, 0, 0)
	}
}

func parseKeyMask(s string) (vm.KeyFlag, error) {
	var mask vm.KeyFlag
	for _, name := range strings.Split(s, "|") {
		name = strings.TrimSpace(strings.ToUpper(name))
		if name == "" {
			continue
		}
		k, ok := vm.ParseKeyName(name)
		if !ok {
			return 0, fmt.Errorf("unknown key name %q", name)
		}
		mask |= k
	}
	return mask, nil
}

func parseLog(rest string, dtype vm.DataType, hasType bool, pos parser.Position, raw string) (Instruction, error) {
	if !hasType {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "log requires a type prefix", raw)
	}
	tokens := splitTopLevel(rest)
	if len(tokens) != 2 {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "expected \"log ID T [addr]\"", raw)
	}
	id, err := vm.ParseImmediate(tokens[0])
	if err != nil {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), tokens[0])
	}
	addr, serr := parser.ParseAddressExpr(tokens[1], pos)
	if serr != nil {
		return nil, serr
	}
	switch {
	case addr.HasRegion && len(addr.Regs) == 1:
		return BuildDebugLog(pos, dtype, int(id), vm.DebugMembaseReg, addr.Region, 0, addr.Regs[0].Index, 0)
	case addr.HasRegion:
		return BuildDebugLog(pos, dtype, int(id), vm.DebugMembaseOff, addr.Region, 0, 0, addr.Offset)
	case len(addr.Regs) == 2:
		return BuildDebugLog(pos, dtype, int(id), vm.DebugRegOffReg, 0, addr.Regs[0].Index, addr.Regs[1].Index, 0)
	case len(addr.Regs) == 1 && addr.Offset != 0:
		return BuildDebugLog(pos, dtype, int(id), vm.DebugRegOff, 0, addr.Regs[0].Index, 0, addr.Offset)
	case len(addr.Regs) == 1:
		return BuildDebugLog(pos, dtype, int(id), vm.DebugReg, 0, addr.Regs[0].Index, 0, 0)
	default:
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unrecognized address expression", tokens[1])
	}
}

func dispatchAssignment(tokens []string, dtype vm.DataType, hasType bool, pos parser.Position, raw string) (Instruction, error) {
	eqIdx := -1
	for i, t := range tokens {
		if t == "=" {
			eqIdx = i
			break
		}
	}
	if eqIdx < 0 {
		if len(tokens) == 3 && strings.HasSuffix(tokens[1], "=") && tokens[1] != "=" {
			return parseLegacyArithImm(tokens, dtype, hasType, pos)
		}
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "expected assignment ('=')", raw)
	}
	lhs := tokens[:eqIdx]
	rhs := tokens[eqIdx+1:]
	if len(lhs) != 1 || len(rhs) == 0 {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "malformed assignment", raw)
	}
	left := lhs[0]

	switch {
	case strings.HasPrefix(left, "save[") && strings.HasSuffix(left, "]"):
		return parseSaveAssignment(left, rhs, pos, raw)
	case strings.HasPrefix(left, "static[") && strings.HasSuffix(left, "]"):
		return parseStaticWrite(left, rhs, pos, raw)
	case strings.HasPrefix(left, "["):
		return parseStoreAssignment(left, rhs, dtype, hasType, pos, raw)
	case isRegListToken(left):
		return parseRegLHSAssignment(left, rhs, dtype, hasType, pos, raw)
	}
	return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "unrecognized assignment shape", raw)
}

func isRegListToken(s string) bool {
	for _, tok := range strings.Split(s, ",") {
		if _, ok := vm.RegIndex(tok); !ok {
			return false
		}
	}
	return s != ""
}

func parseSlotOrStaticIndex(inner string) (int, error) {
	v, err := vm.ParseImmediate(inner)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func parseSaveAssignment(left string, rhs []string, pos parser.Position, raw string) (Instruction, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(left, "save["), "]")
	if len(rhs) == 1 && rhs[0] == "0" {
		if strings.Contains(inner, ",") {
			slots, err := parseIntList(inner)
			if err != nil {
				return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), left)
			}
			return BuildSaveRestoreMask(vm.RegClear, intListMask(slots)), nil
		}
		slot, err := parseSlotOrStaticIndex(inner)
		if err != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), left)
		}
		return BuildSaveRestoreSingle(pos, vm.RegClear, slot, 0)
	}
	if len(rhs) == 1 {
		reg, ok := vm.RegIndex(rhs[0])
		if !ok {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register or 0", rhs[0])
		}
		slot, err := parseSlotOrStaticIndex(inner)
		if err != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), left)
		}
		return BuildSaveRestoreSingle(pos, vm.RegSave, slot, reg)
	}
	return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "malformed save[] assignment", raw)
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		v, err := vm.ParseImmediate(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		out = append(out, int(v))
	}
	return out, nil
}

func intListMask(vs []int) uint16 {
	var mask uint16
	for _, v := range vs {
		mask |= 1 << uint(v)
	}
	return mask
}

func parseStaticWrite(left string, rhs []string, pos parser.Position, raw string) (Instruction, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(left, "static["), "]")
	index, err := parseSlotOrStaticIndex(inner)
	if err != nil {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), left)
	}
	if len(rhs) != 1 {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "malformed static[] assignment", raw)
	}
	reg, ok := vm.RegIndex(rhs[0])
	if !ok {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register", rhs[0])
	}
	if index < 0x80 {
		index |= 0x80
	}
	return BuildStaticReg(pos, index, reg)
}

func parseRegLHSAssignment(left string, rhs []string, dtype vm.DataType, hasType bool, pos parser.Position, raw string) (Instruction, error) {
	regs, _ := parseRegList(left)
	if len(regs) > 1 {
		if len(rhs) == 1 && rhs[0] == "0" {
			return BuildSaveRestoreMask(vm.RegZero, regListMask(regs)), nil
		}
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "register list assignment must be \"= 0\"", raw)
	}
	reg := regs[0]

	if len(rhs) == 1 && rhs[0] == "0" {
		return BuildSaveRestoreSingle(pos, vm.RegZero, 0, reg)
	}
	if len(rhs) == 1 && strings.HasPrefix(rhs[0], "save[") {
		inner := strings.TrimSuffix(strings.TrimPrefix(rhs[0], "save["), "]")
		slot, err := parseSlotOrStaticIndex(inner)
		if err != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), rhs[0])
		}
		return BuildSaveRestoreSingle(pos, vm.RegRestore, slot, reg)
	}
	if len(rhs) == 1 && strings.HasPrefix(rhs[0], "static[") {
		inner := strings.TrimSuffix(strings.TrimPrefix(rhs[0], "static["), "]")
		index, err := parseSlotOrStaticIndex(inner)
		if err != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), rhs[0])
		}
		if index >= 0x80 {
			index &^= 0x80
		}
		return BuildStaticReg(pos, index, reg)
	}
	if len(rhs) == 1 && strings.HasPrefix(rhs[0], "[") {
		if !hasType {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "load requires a type prefix", raw)
		}
		addr, serr := parser.ParseAddressExpr(rhs[0], pos)
		if serr != nil {
			return nil, serr
		}
		if !addr.HasRegion && len(addr.Regs) == 1 && addr.Regs[0].Index == reg {
			return BuildLoad(pos, dtype, 0, reg, true, addr.Offset)
		}
		if addr.HasRegion && len(addr.Regs) == 0 {
			return BuildLoad(pos, dtype, addr.Region, reg, false, addr.Offset)
		}
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unrecognized load address expression", rhs[0])
	}
	if len(rhs) == 1 {
		operand := rhs[0]
		if strings.HasPrefix(operand, "~") {
			src, ok := vm.RegIndex(strings.TrimPrefix(operand, "~"))
			if !ok {
				return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register", operand)
			}
			if !hasType {
				return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "arithmetic requires a type prefix", raw)
			}
			return BuildArithRegReg(pos, dtype, vm.ArithNot, reg, src, 0)
		}
		if src, ok := vm.RegIndex(operand); ok {
			if !hasType {
				return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "register-to-register move requires a type prefix", raw)
			}
			return BuildArithRegReg(pos, dtype, vm.ArithMove, reg, src, 0)
		}
		value, err := vm.ParseImmediate(operand)
		if err != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), operand)
		}
		return BuildMoveReg(pos, reg, value)
	}
	if len(rhs) == 3 {
		src, ok := vm.RegIndex(rhs[0])
		if !ok {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register", rhs[0])
		}
		op, ok := vm.ParseArithOp(rhs[1])
		if !ok {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unknown operator", rhs[1])
		}
		if !hasType {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "arithmetic requires a type prefix", raw)
		}
		if src2, ok := vm.RegIndex(rhs[2]); ok {
			return BuildArithRegReg(pos, dtype, op, reg, src, src2)
		}
		value, err := parseTypedValue(rhs[2], dtype)
		if err != nil {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), rhs[2])
		}
		return BuildArithRegImm(pos, dtype, op, reg, src, value)
	}
	return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "malformed register assignment", raw)
}

func parseLegacyArithImm(tokens []string, dtype vm.DataType, hasType bool, pos parser.Position) (Instruction, error) {
	reg, ok := vm.RegIndex(tokens[0])
	if !ok {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "expected register", tokens[0])
	}
	opSym := strings.TrimSuffix(tokens[1], "=")
	op, ok := vm.ParseArithOp(opSym)
	if !ok {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unknown operator", tokens[1])
	}
	if !hasType {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "arithmetic requires a type prefix", tokens[1])
	}
	value, err := parseTypedValue(tokens[2], dtype)
	if err != nil {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), tokens[2])
	}
	return BuildLegacyArithImm(pos, dtype, reg, op, value)
}

func parseStoreAssignment(left string, rhs []string, dtype vm.DataType, hasType bool, pos parser.Position, raw string) (Instruction, error) {
	if !hasType {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "store requires a type prefix", raw)
	}
	if len(rhs) != 1 {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorSyntax, "malformed store assignment", raw)
	}
	addr, serr := parser.ParseAddressExpr(left, pos)
	if serr != nil {
		return nil, serr
	}
	rhsTok := rhs[0]

	if reg, ok := vm.RegIndex(rhsTok); ok {
		return buildStoreReg(addr, dtype, reg, pos, left)
	}
	value, err := parseTypedValue(rhsTok, dtype)
	if err != nil {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, err.Error(), rhsTok)
	}
	if addr.HasRegion {
		if len(addr.Regs) != 1 {
			return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "store-imm requires exactly one register in the address expression", left)
		}
		return BuildStoreImm(pos, dtype, addr.Region, addr.Regs[0].Index, addr.Offset, value)
	}
	if len(addr.Regs) == 0 {
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "store-imm-via-reg requires a base register", left)
	}
	hasOffsetReg := len(addr.Regs) == 2
	offsetReg := 0
	if hasOffsetReg {
		offsetReg = addr.Regs[1].Index
	}
	return BuildStoreImmViaReg(pos, dtype, addr.Regs[0].Index, addr.Regs[0].SelfInc, hasOffsetReg, offsetReg, value)
}

func buildStoreReg(addr *parser.AddressExpr, dtype vm.DataType, src int, pos parser.Position, left string) (Instruction, error) {
	switch {
	case addr.HasRegion && len(addr.Regs) == 1 && addr.Offset != 0:
		return BuildStoreReg(pos, dtype, src, vm.OffsetMembaseImmOffReg, 0, false, addr.Region, addr.Regs[0].Index, addr.Offset)
	case addr.HasRegion && len(addr.Regs) == 1:
		return BuildStoreReg(pos, dtype, src, vm.OffsetMembaseReg, 0, false, addr.Region, addr.Regs[0].Index, 0)
	case addr.HasRegion:
		return BuildStoreReg(pos, dtype, src, vm.OffsetMembaseImm, 0, false, addr.Region, 0, addr.Offset)
	case len(addr.Regs) == 2:
		return BuildStoreReg(pos, dtype, src, vm.OffsetReg, addr.Regs[0].Index, addr.Regs[0].SelfInc, 0, addr.Regs[1].Index, 0)
	case len(addr.Regs) == 1 && addr.Offset != 0:
		return BuildStoreReg(pos, dtype, src, vm.OffsetImm, addr.Regs[0].Index, addr.Regs[0].SelfInc, 0, 0, addr.Offset)
	case len(addr.Regs) == 1:
		return BuildStoreReg(pos, dtype, src, vm.OffsetNone, addr.Regs[0].Index, addr.Regs[0].SelfInc, 0, 0, 0)
	default:
		return nil, parser.NewErrorWithContext(pos, parser.ErrorInvalidOperand, "unrecognized store-reg address expression", left)
	}
}
