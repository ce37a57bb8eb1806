package vm

// load resolves ref to its current Value (the IND opcode's core), for
// both scalars and array elements.
func (vm *VM) load(ref VarRef) Value {
	if ref.Kind == RefScalar {
		return vm.loadScalar(ref)
	}
	a := vm.arrayFor(ref.Letter, ref.IsStr)
	if a == nil {
		vm.abort("array element ref to undimensioned array")
	}
	if ref.IsStr {
		return StringValue(a.loadStr(ref.Index))
	}
	return NumberValue(a.loadNum(ref.Index))
}

// store assigns v into ref (the STORE/DSTORE opcodes' core), type
// checking and retaining/releasing string references as needed.
func (vm *VM) store(ref VarRef, v Value) {
	wantStr := ref.IsStr
	if v.Kind == KindString && !wantStr || v.Kind == KindNumber && wantStr {
		vm.raise(ErrWrongValueType)
	}
	if ref.Kind == RefScalar {
		vm.storeScalar(ref, v)
		return
	}
	a := vm.arrayFor(ref.Letter, ref.IsStr)
	if a == nil {
		vm.abort("array element ref to undimensioned array")
	}
	if ref.IsStr {
		old := a.loadStr(ref.Index)
		vm.heap.release(old)
		a.storeStr(ref.Index, vm.heap.retain(v.Str))
	} else {
		a.storeNum(ref.Index, v.Num)
	}
}
