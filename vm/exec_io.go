package vm

import "strings"

// PRINT/INPUT and assignment opcodes (spec.md §4.1).

func init() {
	registerOp(OpPRS, opPRS)
	registerOp(OpPRN, opPRN)
	registerOp(OpSPC, opSPC)
	registerOp(OpNLINE, opNLINE)
	registerOp(OpADVCRS, opADVCRS)
	registerOp(OpINNUM, opINNUM)
	registerOp(OpINVAR, opINVAR)
	registerOp(OpSTORE, opSTORE)
	registerOp(OpDSTORE, opDSTORE)
}

func opPRS(vm *VM, _ operands) {
	s := vm.epopString()
	vm.writeString(s.String())
	vm.heap.release(s)
}

func opPRN(vm *VM, _ operands) {
	n := vm.epopNumber()
	text := formatNumber(n)
	if n >= 0 {
		vm.writeRune(' ')
	}
	vm.writeString(text)
}

// opSPC pops a count and writes that many spaces.
func opSPC(vm *VM, _ operands) {
	n, ok := numberToInt(vm.epopNumber())
	if !ok || n < 0 {
		vm.raise(ErrIllegalQuantity)
	}
	vm.writeString(strings.Repeat(" ", n))
}

func opNLINE(vm *VM, _ operands) { vm.writeRune('\n') }

// opADVCRS packs two behaviors into one literal operand, per the IL's
// convention of reusing a single byte for small related variants: bit
// 7 clear (0..127) advances by that many columns; bit 7 set advances
// to that absolute column (masked to 0..127), padding with spaces and
// doing nothing if the cursor has already passed it.
func opADVCRS(vm *VM, ops operands) {
	if ops.Literal&0x80 == 0 {
		vm.writeString(strings.Repeat(" ", int(ops.Literal)))
		return
	}
	target := int(ops.Literal &^ 0x80)
	for vm.outCol < target {
		vm.writeRune(' ')
	}
}

// opINNUM reads one line from the console and parses it as a number,
// pushing the result. A break prints BREAK and returns to direct mode,
// as GETLINE does; end of input reads as an empty line, which does not
// parse as a number and raises SYNTAX.
func opINNUM(vm *VM, _ operands) {
	line, brk := vm.readConsoleLine()
	if brk {
		vm.writeString("BREAK\n")
		vm.enterDirectMode()
		return
	}
	n, err := parseNumber(strings.TrimSpace(line))
	if err != nil {
		vm.raise(ErrSyntax)
	}
	vm.epushNumber(n)
}

// opINVAR stores a popped value into a popped variable reference; it
// is kept distinct from STORE because it is reached from the INPUT
// statement's per-variable loop rather than from LET/assignment.
func opINVAR(vm *VM, _ operands) {
	ref := vm.epopRef()
	v := vm.epop()
	vm.store(ref, v)
}

func opSTORE(vm *VM, _ operands) {
	ref := vm.epopRef()
	v := vm.epop()
	vm.store(ref, v)
}

// opDSTORE stores like STORE but leaves the value on the stack, for
// contexts that need the assigned value again immediately (e.g. a FOR
// loop's initial-value assignment feeding the first bound check).
func opDSTORE(vm *VM, _ operands) {
	ref := vm.epopRef()
	v, ok := vm.exprs.peek()
	if !ok {
		vm.abort("expression stack underflow")
	}
	if v.Kind == KindString {
		vm.heap.retain(v.Str)
	}
	vm.store(ref, v)
}

// readConsoleLine reads runes until newline or EOF, reporting a break
// request without distinguishing EOF (treated as an empty final line).
func (vm *VM) readConsoleLine() (line string, brk bool) {
	var b []byte
	for {
		r, didBrk, eof := vm.readRune()
		if didBrk {
			return "", true
		}
		if eof || r == '\n' {
			return string(b), false
		}
		b = append(b, string(r)...)
	}
}
