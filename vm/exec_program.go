package vm

// Program file I/O and listing opcodes (spec.md §4.1, §6).

func init() {
	registerOp(OpLDPRG, opLDPRG)
	registerOp(OpSVPRG, opSVPRG)
	registerOp(OpLST, opLST)
	registerOp(OpLSTX, opLSTX)
}

// opLDPRG pops a filename and redirects the line collector into it via
// Input.PushFront, so the loaded text flows through the same
// TSTL/INSRT path as typed input (spec.md §6's LOAD).
func opLDPRG(vm *VM, _ operands) {
	name := vm.epopString()
	fname := name.String()
	vm.heap.release(name)

	f, err := vm.fs.Open(fname, FileRead)
	if err != nil {
		vm.raise(ErrFileNotFound)
	}
	vm.openFileName = fname
	vm.input.PushFront(f)
}

// opSVPRG pops a filename and writes the whole program listing to it.
func opSVPRG(vm *VM, _ operands) {
	name := vm.epopString()
	fname := name.String()
	vm.heap.release(name)

	f, err := vm.fs.Open(fname, FileWrite)
	if err != nil {
		vm.raise(ErrFileNotFound)
	}
	if err := vm.program.List(f); err != nil {
		f.Close()
		vm.abort("program save write failed: " + err.Error())
	}
	if err := f.Close(); err != nil {
		vm.abort("program save close failed: " + err.Error())
	}
}

func opLST(vm *VM, _ operands) {
	if err := vm.program.List(vm.out); err != nil {
		vm.abort("LIST write failed: " + err.Error())
	}
}

// opLSTX lists a sub-range, popping the end line then the start line.
func opLSTX(vm *VM, _ operands) {
	to := vm.epopNumber()
	from := vm.epopNumber()
	toI, ok1 := numberToInt(to)
	fromI, ok2 := numberToInt(from)
	if !ok1 || !ok2 || fromI < 1 || toI < fromI {
		vm.raise(ErrIllegalQuantity)
	}
	if err := vm.program.ListRange(vm.out, fromI, toI); err != nil {
		vm.abort("LIST write failed: " + err.Error())
	}
}
