package vm

import "math"

// Arithmetic, comparison, and miscellaneous expression-stack opcodes
// (spec.md §4.1). The results of ADD through POW and of the
// transcendental functions pass through checkMath so overflow and
// division by zero surface as BASIC errors uniformly across the float
// and integer builds; DEGRAD and the rounding, sign and absolute-value
// opcodes push their results unchecked.

func init() {
	registerOp(OpLIT, opLIT)
	registerOp(OpIND, opIND)
	registerOp(OpADD, opADD)
	registerOp(OpSUB, opSUB)
	registerOp(OpNEG, opNEG)
	registerOp(OpMUL, opMUL)
	registerOp(OpDIV, opDIV)
	registerOp(OpMOD, opMOD)
	registerOp(OpPOW, opPOW)
	registerOp(OpFIX, opFIX)
	registerOp(OpFLR, opFLR)
	registerOp(OpCEIL, opCEIL)
	registerOp(OpSGN, opSGN)
	registerOp(OpABS, opABS)
	registerOp(OpATN, opTranscendental(math.Atan))
	registerOp(OpCOS, opTranscendental(math.Cos))
	registerOp(OpSIN, opTranscendental(math.Sin))
	registerOp(OpTAN, opTranscendental(math.Tan))
	registerOp(OpEXP, opTranscendental(math.Exp))
	registerOp(OpLOG, opLOG)
	registerOp(OpSQR, opSQR)
	registerOp(OpDEGRAD, opDEGRAD)
	registerOp(OpRND, opRND)
	registerOp(OpSRND, opSRND)
	registerOp(OpCMPR, opCMPR)
	registerOp(OpCMPRX, opCMPRX)
}

func opLIT(vm *VM, ops operands) {
	vm.epushNumber(numberFromInt64(int64(ops.Literal)))
}

func opIND(vm *VM, _ operands) {
	ref := vm.epopRef()
	vm.epush(vm.load(ref))
}

// opADD adds two numbers, or concatenates two strings (spec.md §4.1).
func opADD(vm *VM, _ operands) {
	b := vm.epop()
	a := vm.epop()
	if a.Kind == KindString && b.Kind == KindString {
		s := vm.heap.concat(a.Str, b.Str)
		vm.heap.release(a.Str)
		vm.heap.release(b.Str)
		vm.epush(StringValue(s))
		return
	}
	if a.Kind != KindNumber || b.Kind != KindNumber {
		releaseIfString(vm, a)
		releaseIfString(vm, b)
		vm.raise(ErrWrongValueType)
	}
	vm.epushNumber(vm.checkMath(a.Num+b.Num, false))
}

func opSUB(vm *VM, _ operands) {
	b := vm.epopNumber()
	a := vm.epopNumber()
	vm.epushNumber(vm.checkMath(a-b, false))
}

func opNEG(vm *VM, _ operands) {
	a := vm.epopNumber()
	vm.epushNumber(vm.checkMath(-a, false))
}

func opMUL(vm *VM, _ operands) {
	b := vm.epopNumber()
	a := vm.epopNumber()
	vm.epushNumber(vm.checkMath(a*b, false))
}

func opDIV(vm *VM, _ operands) {
	b := vm.epopNumber()
	a := vm.epopNumber()
	if b == 0 {
		vm.checkMath(0, true)
	}
	if hasFloat {
		vm.epushNumber(vm.checkMath(Number(float64(a)/float64(b)), false))
	} else {
		vm.epushNumber(vm.checkMath(a/b, false))
	}
}

func opMOD(vm *VM, _ operands) {
	b := vm.epopNumber()
	a := vm.epopNumber()
	if b == 0 {
		vm.checkMath(0, true)
	}
	if hasFloat {
		vm.epushNumber(vm.checkMath(Number(math.Mod(float64(a), float64(b))), false))
	} else {
		vm.epushNumber(vm.checkMath(a%b, false))
	}
}

func opPOW(vm *VM, _ operands) {
	b := vm.epopNumber()
	a := vm.epopNumber()
	if hasFloat {
		vm.epushNumber(vm.checkMath(Number(math.Pow(float64(a), float64(b))), false))
		return
	}
	exp, ok := numberToInt(b)
	if !ok || exp < 0 {
		vm.raise(ErrIllegalQuantity)
	}
	result := numberFromInt64(1)
	for i := 0; i < exp; i++ {
		result = vm.checkMath(result*a, false)
	}
	vm.epushNumber(result)
}

func opFIX(vm *VM, _ operands) {
	a := vm.epopNumber()
	if hasFloat {
		vm.epushNumber(Number(math.Trunc(float64(a))))
		return
	}
	vm.epushNumber(a)
}

func opFLR(vm *VM, _ operands) {
	a := vm.epopNumber()
	if hasFloat {
		vm.epushNumber(Number(math.Floor(float64(a))))
		return
	}
	vm.epushNumber(a)
}

func opCEIL(vm *VM, _ operands) {
	a := vm.epopNumber()
	if hasFloat {
		vm.epushNumber(Number(math.Ceil(float64(a))))
		return
	}
	vm.epushNumber(a)
}

func opSGN(vm *VM, _ operands) {
	a := vm.epopNumber()
	switch {
	case a > 0:
		vm.epushNumber(numberFromInt64(1))
	case a < 0:
		vm.epushNumber(numberFromInt64(-1))
	default:
		vm.epushNumber(numberFromInt64(0))
	}
}

func opABS(vm *VM, _ operands) {
	a := vm.epopNumber()
	if a < 0 {
		a = -a
	}
	vm.epushNumber(a)
}

// opTranscendental adapts a float64 math function into an opFunc,
// raising a syntax error on the integer build where these are
// unavailable (spec.md §4.1).
func opTranscendental(fn func(float64) float64) opFunc {
	return func(vm *VM, _ operands) {
		if !hasFloat {
			vm.raise(ErrSyntax)
		}
		a := vm.epopNumber()
		vm.epushNumber(vm.checkMath(Number(fn(float64(a))), false))
	}
}

func opLOG(vm *VM, _ operands) {
	if !hasFloat {
		vm.raise(ErrSyntax)
	}
	a := vm.epopNumber()
	if a <= 0 {
		vm.raise(ErrArithmeticExc)
	}
	vm.epushNumber(vm.checkMath(Number(math.Log(float64(a))), false))
}

func opSQR(vm *VM, _ operands) {
	if !hasFloat {
		vm.raise(ErrSyntax)
	}
	a := vm.epopNumber()
	if a < 0 {
		vm.raise(ErrArithmeticExc)
	}
	vm.epushNumber(vm.checkMath(Number(math.Sqrt(float64(a))), false))
}

// opDEGRAD converts between degrees and radians: literal 0 is
// degrees-to-radians, literal 1 is radians-to-degrees.
func opDEGRAD(vm *VM, ops operands) {
	if !hasFloat {
		vm.raise(ErrSyntax)
	}
	a := float64(vm.epopNumber())
	var out float64
	if ops.Literal == 0 {
		out = a * math.Pi / 180
	} else {
		out = a * 180 / math.Pi
	}
	vm.epushNumber(Number(out))
}

// nextRand advances the VM's xorshift64 generator.
func (vm *VM) nextRand() uint64 {
	x := vm.rngState
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	vm.rngState = x
	return x
}

// opRND pops the upper bound n. n == 0 yields a uniform float in
// [0,1) on the float build; n > 1 yields a uniform integer in
// [1,n]; n == 1 raises NUMBER OUT OF RANGE.
func opRND(vm *VM, _ operands) {
	n := vm.epopNumber()
	if n == 0 {
		if !hasFloat {
			vm.raise(ErrIllegalQuantity)
		}
		vm.epushNumber(Number(float64(vm.nextRand()>>11) / float64(1<<53)))
		return
	}
	bound, ok := numberToInt(n)
	if !ok || bound <= 0 {
		vm.raise(ErrIllegalQuantity)
	}
	if bound == 1 {
		vm.raise(ErrNumberOutOfRange)
	}
	vm.epushNumber(numberFromInt64(1 + int64(vm.nextRand()%uint64(bound))))
}

// opSRND seeds the generator. A zero seed reseeds from the host clock,
// falling back to the current PC as an instruction-counter proxy if the
// clock also reads zero, per spec.md §4.1.
func opSRND(vm *VM, _ operands) {
	seed := vm.epopNumber()
	s, _ := numberToInt(seed)
	if s == 0 {
		if t := vm.clock.UnixSeconds(); t != 0 {
			s = int(t)
		} else {
			s = int(vm.opPC) + 1
		}
	}
	vm.rngState = uint64(s)
	if vm.rngState == 0 {
		vm.rngState = 1
	}
}

func compareOrdered(a, b Value, op byte) (bool, bool) {
	if a.Kind == KindNumber && b.Kind == KindNumber {
		return compareNumbers(a.Num, b.Num, op), true
	}
	if a.Kind == KindString && b.Kind == KindString {
		return compareStrings(a.Str.String(), b.Str.String(), op), true
	}
	return false, false
}

func compareNumbers(a, b Number, op byte) bool {
	switch op {
	case 0:
		return a == b
	case 1:
		return a < b
	case 2:
		return a <= b
	case 3:
		return a != b
	case 4:
		return a > b
	case 5:
		return a >= b
	}
	return false
}

func compareStrings(a, b string, op byte) bool {
	switch op {
	case 0:
		return a == b
	case 1:
		return a < b
	case 2:
		return a <= b
	case 3:
		return a != b
	case 4:
		return a > b
	case 5:
		return a >= b
	}
	return false
}

// opCMPR pops a relational operator code (0= 1< 2<= 3<> 4> 5>=) and
// its two operands, and pushes -1 (true) or 0 (false).
func opCMPR(vm *VM, _ operands) {
	opv := vm.epopNumber()
	op, _ := numberToInt(opv)
	b := vm.epop()
	a := vm.epop()
	result, ok := compareOrdered(a, b, byte(op))
	releaseIfString(vm, a)
	releaseIfString(vm, b)
	if !ok {
		vm.raise(ErrWrongValueType)
	}
	if result {
		vm.epushNumber(numberFromInt64(-1))
	} else {
		vm.epushNumber(numberFromInt64(0))
	}
}

func releaseIfString(vm *VM, v Value) {
	if v.Kind == KindString {
		vm.heap.release(v.Str)
	}
}

// opCMPRX branches to label when the popped boolean is false (zero),
// implementing IF's conditional skip.
func opCMPRX(vm *VM, ops operands) {
	v := vm.epopNumber()
	if v == 0 {
		vm.prog = ops.Label
	}
}
