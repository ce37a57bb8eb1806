package vm

import (
	"context"
	"fmt"
)

// exec drives the dispatch loop until EXIT, input EOF, or a fatal Abort,
// observing ctx cancellation between opcodes.
func (vm *VM) exec(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		halted, err := vm.step()
		if halted {
			return err
		}
	}
}

// step runs exactly one dispatch-loop iteration: string GC, break poll,
// fetch, dispatch. BasicError is recovered here and turned into a printed
// message plus a return to direct mode; Abort and a normal EXIT stop the
// loop.
func (vm *VM) step() (halted bool, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch e := r.(type) {
		case BasicError:
			vm.handleBasicError(e)
		case Abort:
			halted, err = true, e
		case exitSignal:
			halted, err = true, nil
		default:
			panic(r)
		}
	}()

	vm.heap.sweep()

	if vm.breakSrc.Break() {
		vm.breakSrc.Clear()
		vm.writeString("BREAK\n")
		vm.enterDirectMode()
		return false, nil
	}

	vm.fetchDispatch()
	return false, nil
}

// handleBasicError prints the error, exits DATA mode, closes any open
// program file, and resumes the collector in direct mode, per spec.md §4.1
// "Failure semantics."
func (vm *VM) handleBasicError(e BasicError) {
	vm.writeString(e.Error() + "\n")
	vm.data = dataState{}
	if vm.openFile != nil {
		vm.openFile.Close()
		vm.openFile = nil
	}
	vm.enterDirectMode()
}

func (vm *VM) enterDirectMode() {
	vm.mode = modeDirect
	vm.curLine = 0
	vm.loadDepth = 0
	vm.prog = vm.collEntry
}

// fetchDispatch fetches one opcode at vm.prog, decodes its operands, and
// calls its implementation. An opcode byte with no registered
// implementation is a VM abort ("Unknown opcode").
func (vm *VM) fetchDispatch() {
	vm.opPC = vm.prog
	op := vm.fetchByte()
	vm.opByte = op

	if int(op) >= len(opTable) || opImpl[op] == nil {
		vm.abort(fmt.Sprintf("unknown opcode %d", op))
	}

	meta := opTable[op]
	var ops operands
	if meta.HasLabel {
		ops.Label = vm.fetchLabel()
	}
	if meta.HasLiteral {
		ops.Literal = vm.fetchByte()
	}
	if meta.HasString {
		ops.Str = vm.fetchString()
	}

	if vm.logfn != nil {
		vm.logf("@", "%-8v %v", meta.Name, vm.traceState())
	}

	opImpl[op](vm, ops)
}

func (vm *VM) traceState() string {
	return fmt.Sprintf("pc=%d mode=%d line=%d exprs=%d", vm.opPC, vm.mode, vm.curLine, vm.exprs.len())
}

func (vm *VM) fetchByte() byte {
	if int(vm.prog) >= len(vm.code) {
		vm.abort("program counter ran off the end of the image")
	}
	b := vm.code[vm.prog]
	vm.prog++
	return b
}

// fetchLabel reads a little-endian 16-bit absolute IL address operand.
func (vm *VM) fetchLabel() uint16 {
	if int(vm.prog)+1 >= len(vm.code) {
		vm.abort("truncated label operand")
	}
	lo := vm.code[vm.prog]
	hi := vm.code[vm.prog+1]
	vm.prog += 2
	return uint16(lo) | uint16(hi)<<8
}

// fetchString reads a high-bit-terminated immediate string operand,
// per spec.md §4.1.
func (vm *VM) fetchString() []byte {
	start := int(vm.prog)
	for {
		if int(vm.prog) >= len(vm.code) {
			vm.abort("unterminated immediate string operand")
		}
		b := vm.code[vm.prog]
		vm.prog++
		if b&0x80 != 0 {
			break
		}
	}
	end := int(vm.prog)
	raw := vm.code[start:end]
	out := make([]byte, len(raw))
	copy(out, raw)
	out[len(out)-1] &^= 0x80
	return out
}
