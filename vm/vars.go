package vm

// VarStore holds the 26 numeric and 26 string scalars (A..Z, A$..Z$) plus
// the orthogonal numeric/string array namespace, per spec.md §3.
type VarStore struct {
	num    [26]Number
	str    [26]*stringRef
	numArr [26]*Array
	strArr [26]*Array
}

// Reset clears all scalars and releases/drops all arrays, for INIT/RUN.
func (vs *VarStore) Reset(heap *stringHeap) {
	for i := range vs.num {
		vs.num[i] = 0
	}
	for i := range vs.str {
		heap.release(vs.str[i])
		vs.str[i] = nil
	}
	for i := range vs.numArr {
		vs.numArr[i] = nil
	}
	for i := range vs.strArr {
		vs.strArr[i] = nil
	}
}

// loadScalar returns the current value of a scalar ref as a Value. The
// caller does not own a new reference for string results; retain if kept.
func (vm *VM) loadScalar(ref VarRef) Value {
	i := ref.letterIndex()
	if ref.IsStr {
		s := vm.vars.str[i]
		if s == nil {
			s = emptyStringRef
		}
		return StringValue(s)
	}
	return NumberValue(vm.vars.num[i])
}

// storeScalar assigns v into a scalar ref, releasing any prior string
// reference and retaining v's.
func (vm *VM) storeScalar(ref VarRef, v Value) {
	i := ref.letterIndex()
	if ref.IsStr {
		vm.heap.release(vm.vars.str[i])
		vm.vars.str[i] = vm.heap.retain(v.Str)
	} else {
		vm.vars.num[i] = v.Num
	}
}

// arrayFor returns the array bound to ref's letter/kind, or nil if
// undimensioned.
func (vm *VM) arrayFor(letter byte, isStr bool) *Array {
	i := int(letter - 'A')
	if isStr {
		return vm.vars.strArr[i]
	}
	return vm.vars.numArr[i]
}

func (vm *VM) setArrayFor(letter byte, isStr bool, a *Array) {
	i := int(letter - 'A')
	if isStr {
		vm.vars.strArr[i] = a
	} else {
		vm.vars.numArr[i] = a
	}
}
