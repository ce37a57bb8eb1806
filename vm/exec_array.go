package vm

// DIM and array-element-reference opcodes (spec.md §4.1). Both expect
// the stack, top to bottom, to hold: a dimension count (1 or 2), that
// many Numbers (outermost first), then the scalar VarRef naming the
// array (pushed by a preceding TSTV).

func init() {
	registerOp(OpDIM, opDIM)
	registerOp(OpARRY, opARRY)
}

func (vm *VM) popIndices() []Number {
	n, ok := numberToInt(vm.epopNumber())
	if !ok || n < 1 || n > 2 {
		vm.raise(ErrBadSubscript)
	}
	indices := make([]Number, n)
	for i := n - 1; i >= 0; i-- {
		indices[i] = vm.epopNumber()
	}
	return indices
}

func (vm *VM) popArrayBase() VarRef {
	base := vm.epopRef()
	if base.Kind != RefScalar {
		vm.abort("array opcode: base is not a scalar VarRef")
	}
	return base
}

func opDIM(vm *VM, _ operands) {
	maxima := vm.popIndices()
	base := vm.popArrayBase()
	vm.dim(base.Letter, base.IsStr, maxima)
}

func opARRY(vm *VM, _ operands) {
	indices := vm.popIndices()
	base := vm.popArrayBase()
	ref := vm.arrayRef(base.Letter, base.IsStr, indices)
	vm.epush(VarRefValue(ref))
}
