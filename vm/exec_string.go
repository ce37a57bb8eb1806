package vm

import "strconv"

// String-function and stack-manipulation opcodes (spec.md §4.1).

func init() {
	registerOp(OpSTR, opSTR)
	registerOp(OpHEX, opHEX)
	registerOp(OpVAL, opVAL)
	registerOp(OpSTRLEN, opSTRLEN)
	registerOp(OpASC, opASC)
	registerOp(OpCHR, opCHR)
	registerOp(OpCPY, opCPY)
	registerOp(OpPOP, opPOP)
	registerOp(OpUPRLWR, opUPRLWR)
	registerOp(OpMKS, opMKS)
	registerOp(OpSBSTR, opSBSTR)
}

func opSTR(vm *VM, _ operands) {
	n := vm.epopNumber()
	vm.epush(StringValue(vm.heap.newDynamic([]byte(formatNumber(n)))))
}

// opHEX converts a non-negative integer to an even-length hexadecimal
// string, left-padded with '0'.
func opHEX(vm *VM, _ operands) {
	n := vm.epopNumber()
	i, ok := numberToInt(n)
	if !ok || i < 0 {
		vm.raise(ErrIllegalQuantity)
	}
	digits := strconv.FormatInt(int64(i), 16)
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}
	vm.epush(StringValue(vm.heap.newDynamic([]byte(digits))))
}

// opVAL parses a string's leading numeric text; an unparseable string
// yields 0, the classic BASIC VAL() behavior rather than a syntax
// error.
func opVAL(vm *VM, _ operands) {
	s := vm.epopString()
	text := s.String()
	vm.heap.release(s)
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	j := i
	if j < len(text) && (text[j] == '+' || text[j] == '-') {
		j++
	}
	for j < len(text) && isDigit(text[j]) {
		j++
	}
	if hasFloat && j < len(text) && text[j] == '.' {
		j++
		for j < len(text) && isDigit(text[j]) {
			j++
		}
	}
	n, err := parseNumber(text[i:j])
	if err != nil {
		n = numberFromInt64(0)
	}
	vm.epushNumber(n)
}

func opSTRLEN(vm *VM, _ operands) {
	s := vm.epopString()
	vm.epushNumber(numberFromInt64(int64(s.len())))
	vm.heap.release(s)
}

func opASC(vm *VM, _ operands) {
	s := vm.epopString()
	var n int64
	if s.len() > 0 {
		n = int64(s.buf[0])
	}
	vm.heap.release(s)
	vm.epushNumber(numberFromInt64(n))
}

func opCHR(vm *VM, _ operands) {
	n := vm.epopNumber()
	i, ok := numberToInt(n)
	if !ok || i < 0 || i > 255 {
		vm.raise(ErrIllegalQuantity)
	}
	vm.epush(StringValue(vm.heap.newDynamic([]byte{byte(i)})))
}

// opCPY duplicates the top of stack, retaining a string reference if
// present.
func opCPY(vm *VM, _ operands) {
	v, ok := vm.exprs.peek()
	if !ok {
		vm.abort("expression stack underflow")
	}
	if v.Kind == KindString {
		v.Str = vm.heap.retain(v.Str)
	}
	vm.epush(v)
}

func opPOP(vm *VM, _ operands) {
	v := vm.epop()
	releaseIfString(vm, v)
}

// opUPRLWR case-folds a popped string: literal 0 downcases, 1
// upcases.
func opUPRLWR(vm *VM, ops operands) {
	s := vm.epopString()
	buf := make([]byte, s.len())
	copy(buf, s.buf)
	for i, c := range buf {
		if ops.Literal == 1 && c >= 'a' && c <= 'z' {
			buf[i] = c - 32
		} else if ops.Literal == 0 && c >= 'A' && c <= 'Z' {
			buf[i] = c + 32
		}
	}
	vm.heap.release(s)
	vm.epush(StringValue(vm.heap.newDynamic(buf)))
}

// opMKS builds an n-character string repeating a character: pops the
// count, then a value that is either a character code or a string (whose
// first character is repeated).
func opMKS(vm *VM, _ operands) {
	n := vm.epopNumber()
	count, ok := numberToInt(n)
	if !ok || count < 0 {
		vm.raise(ErrIllegalQuantity)
	}
	src := vm.epop()
	var ch byte
	switch src.Kind {
	case KindNumber:
		code, ok := numberToInt(src.Num)
		if !ok || code < 0 || code > 255 {
			vm.raise(ErrIllegalQuantity)
		}
		ch = byte(code)
	case KindString:
		if src.Str.len() > 0 {
			ch = src.Str.buf[0]
		}
		vm.heap.release(src.Str)
	default:
		vm.raise(ErrWrongValueType)
	}
	buf := make([]byte, count)
	for i := range buf {
		buf[i] = ch
	}
	vm.epush(StringValue(vm.heap.newDynamic(buf)))
}

// opSBSTR extracts a substring: pops length then a 1-based start,
// then the source string. Literal 0 treats the first popped number
// as a length; literal 1 treats it as an inclusive 1-based end index.
func opSBSTR(vm *VM, ops operands) {
	bound := vm.epopNumber()
	start := vm.epopNumber()
	s := vm.epopString()

	startI, ok1 := numberToInt(start)
	boundI, ok2 := numberToInt(bound)
	if !ok1 || !ok2 || startI < 1 {
		vm.heap.release(s)
		vm.raise(ErrIllegalQuantity)
	}

	end := boundI
	if ops.Literal == 0 {
		end = startI + boundI - 1
	}
	n := s.len()
	if startI > n {
		startI = n + 1
	}
	if end > n {
		end = n
	}
	if end < startI-1 {
		end = startI - 1
	}
	out := make([]byte, end-(startI-1))
	copy(out, s.buf[startI-1:end])
	vm.heap.release(s)
	vm.epush(StringValue(vm.heap.newDynamic(out)))
}
