package vm

import "fmt"

// Dump writes a summary of the VM's mutable state to w: run mode, cursor
// position, and the depth of each of the three stacks. It is meant for the
// host driver's `-dump` diagnostic flag, the generalized analogue of the
// teacher's post-run memory/stack dump.
func (vm *VM) Dump(w func(mess string, args ...interface{})) {
	w("mode=%d line=%d pc=%d opc=%d", vm.mode, vm.curLine, vm.prog, vm.opPC)
	w("exprs=%d ctrl=%d fors=%d", vm.exprs.len(), vm.ctrl.len(), vm.fors.len())
	w("program first=%d last=%d", vm.program.First(), vm.program.Last())
	if f, ok := vm.fors.top(); ok {
		w("top for: var=%s line=%d start=%v end=%v step=%v", f.Var, f.Line, f.Start, f.End, f.Step)
	}
}

// String renders a VarRef for diagnostics (e.g. Dump's top-FOR line).
func (r VarRef) String() string {
	suffix := ""
	if r.IsStr {
		suffix = "$"
	}
	if r.Kind == RefArrayElem {
		return fmt.Sprintf("%c%s(...)", r.Letter, suffix)
	}
	return fmt.Sprintf("%c%s", r.Letter, suffix)
}
