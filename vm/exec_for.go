package vm

// FOR/STEP/NEXT loop opcodes (spec.md §4.1). FOR pops (ref, start,
// end), stores start into ref, and pushes a loop frame remembering the
// line immediately after the FOR statement as the loop body's entry
// point. A bare "NEXT" (no named variable) pushes the wildcard VarRef
// {Letter: 0} before NXTFOR runs, matching no real variable letter.

func init() {
	registerOp(OpFOR, opFOR)
	registerOp(OpSTEP, opSTEP)
	registerOp(OpNXTFOR, opNXTFOR)
}

func opFOR(vm *VM, _ operands) {
	end := vm.epopNumber()
	start := vm.epopNumber()
	ref := vm.epopRef()

	vm.store(ref, NumberValue(start))

	bodyLine := 0
	if vm.mode == modeRunning {
		if next, ok := vm.program.NextLine(vm.curLine); ok {
			bodyLine = next
		}
	}

	f := Frame{
		Kind:      frameFor,
		Var:       ref,
		Line:      bodyLine,
		Start:     start,
		End:       end,
		Step:      numberFromInt64(1),
		Unstarted: true,
	}
	if !vm.fors.push(f) {
		vm.raise(ErrTooManyForLoops)
	}
}

// opSTEP overrides the default step of 1 on the most recently pushed
// FOR frame; it must immediately follow FOR in the IL for a loop that
// names an explicit STEP clause.
func opSTEP(vm *VM, _ operands) {
	step := vm.epopNumber()
	top, ok := vm.fors.top()
	if !ok || top.Kind != frameFor {
		vm.abort("STEP with no FOR frame on top")
	}
	top.Step = step
	top.Unstarted = false
}

func opNXTFOR(vm *VM, _ operands) {
	ref := vm.epopRef()
	anyVar := ref.Letter == 0

	f, ok := vm.fors.findFor(ref, anyVar)
	if !ok {
		vm.raise(ErrNextWithoutFor)
	}

	cur := vm.loadScalar(f.Var)
	stepped := vm.checkMath(cur.Num+f.Step, false)
	vm.storeScalar(f.Var, NumberValue(stepped))

	var done bool
	if f.Step >= 0 {
		done = stepped > f.End
	} else {
		done = stepped < f.End
	}
	if done {
		return
	}

	vm.fors.push(f)
	if f.Line == 0 {
		vm.enterDirectMode()
		return
	}
	vm.loadLine(f.Line)
	vm.prog = vm.execEntry
}
