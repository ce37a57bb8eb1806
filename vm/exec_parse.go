package vm

import "strings"

// Statement-lexer opcodes (spec.md §4.1): these walk vm.curBuf starting
// at vm.curPos, the classic "scanning cursor over the current line"
// design the two-interpreter architecture relies on for both the
// command recognizer and expression parser.

func init() {
	registerOp(OpXINIT, opXINIT)
	registerOp(OpTST, opTST)
	registerOp(OpSCAN, opSCAN)
	registerOp(OpTSTV, opTSTV)
	registerOp(OpTSTN, opTSTN)
	registerOp(OpTSTS, opTSTS)
	registerOp(OpTSTEOL, opTSTEOL)
	registerOp(OpTSTSOL, opTSTSOL)
	registerOp(OpADVEOL, opADVEOL)
}

func (vm *VM) skipSpaces(i int) int {
	for i < len(vm.curBuf) && (vm.curBuf[i] == ' ' || vm.curBuf[i] == '\t') {
		i++
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// opXINIT resets the expression stack at the start of statement
// parsing. While the input collector is draining the file LDPRG opened
// (its source name equals vm.openFileName), a statement reaching the
// executor raises WRONG MODE, guarding against a malformed image trying
// to execute a direct command mid-load.
func opXINIT(vm *VM, _ operands) {
	vm.exprs = exprStack{}
	if vm.openFileName != "" && vm.input.SourceName() == vm.openFileName {
		vm.raise(ErrWrongMode)
	}
}

// opTST matches ops.Str case-insensitively at the cursor (after
// skipping leading spaces), consuming it on success or branching to
// ops.Label on failure.
func opTST(vm *VM, ops operands) {
	i := vm.skipSpaces(vm.curPos)
	lit := ops.Str
	if i+len(lit) <= len(vm.curBuf) && strings.EqualFold(string(vm.curBuf[i:i+len(lit)]), string(lit)) {
		vm.curPos = i + len(lit)
		return
	}
	vm.prog = ops.Label
}

// opSCAN searches the remainder of the line for ops.Str, consuming
// through the end of the match on success or branching to ops.Label if
// it never appears before end of line.
func opSCAN(vm *VM, ops operands) {
	rest := string(vm.curBuf[vm.curPos:])
	idx := strings.Index(strings.ToUpper(rest), strings.ToUpper(string(ops.Str)))
	if idx < 0 {
		vm.prog = ops.Label
		return
	}
	vm.curPos += idx + len(ops.Str)
}

// opTSTV recognizes a single-letter variable name, optionally suffixed
// with '$' for a string variable, pushing a scalar VarRef on success.
func opTSTV(vm *VM, ops operands) {
	i := vm.skipSpaces(vm.curPos)
	if i >= len(vm.curBuf) || !isLetter(vm.curBuf[i]) {
		vm.prog = ops.Label
		return
	}
	letter := vm.curBuf[i]
	if letter >= 'a' && letter <= 'z' {
		letter -= 32
	}
	j := i + 1
	isStr := false
	if j < len(vm.curBuf) && vm.curBuf[j] == '$' {
		isStr = true
		j++
	}
	if j < len(vm.curBuf) && (isLetter(vm.curBuf[j]) || isDigit(vm.curBuf[j])) {
		// more than one identifier character: not a bare scalar name.
		vm.prog = ops.Label
		return
	}
	vm.curPos = j
	vm.epush(VarRefValue(VarRef{Kind: RefScalar, Letter: letter, IsStr: isStr}))
}

// opTSTN recognizes a numeric literal, pushing its parsed Number.
func opTSTN(vm *VM, ops operands) {
	i := vm.skipSpaces(vm.curPos)
	j := i
	for j < len(vm.curBuf) && isDigit(vm.curBuf[j]) {
		j++
	}
	if hasFloat && j < len(vm.curBuf) && vm.curBuf[j] == '.' {
		k := j + 1
		for k < len(vm.curBuf) && isDigit(vm.curBuf[k]) {
			k++
		}
		if k > j+1 {
			j = k
		}
	}
	if j == i {
		vm.prog = ops.Label
		return
	}
	n, err := parseNumber(string(vm.curBuf[i:j]))
	if err != nil {
		vm.raise(ErrNumberOutOfRange)
	}
	vm.curPos = j
	vm.epushNumber(n)
}

// opTSTS recognizes a double-quoted string literal, pushing a dynamic
// string-heap handle on success. A missing closing quote is a syntax
// error, not a branch, since an opened quote commits the parse.
func opTSTS(vm *VM, ops operands) {
	i := vm.skipSpaces(vm.curPos)
	if i >= len(vm.curBuf) || vm.curBuf[i] != '"' {
		vm.prog = ops.Label
		return
	}
	j := i + 1
	for j < len(vm.curBuf) && vm.curBuf[j] != '"' && vm.curBuf[j] != '\n' {
		j++
	}
	if j >= len(vm.curBuf) || vm.curBuf[j] != '"' {
		vm.raise(ErrSyntax)
	}
	body := make([]byte, j-(i+1))
	copy(body, vm.curBuf[i+1:j])
	vm.curPos = j + 1
	vm.epush(StringValue(vm.heap.newDynamic(body)))
}

// opTSTEOL branches to ops.Label unless the cursor is at end of line.
func opTSTEOL(vm *VM, ops operands) {
	if !vm.atEOL() {
		vm.prog = ops.Label
	}
}

// opTSTSOL branches to ops.Label unless the cursor is still at the
// very start of the line buffer, i.e. nothing has been consumed yet
// (not even a leading line number).
func opTSTSOL(vm *VM, ops operands) {
	if vm.curPos != 0 {
		vm.prog = ops.Label
	}
}

// opADVEOL unconditionally advances the cursor to end of line,
// discarding the remainder (used to skip REM commentary).
func opADVEOL(vm *VM, _ operands) {
	i := vm.curPos
	for i < len(vm.curBuf) && vm.curBuf[i] != '\n' {
		i++
	}
	vm.curPos = i
}
