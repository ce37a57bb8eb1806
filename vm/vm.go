// Package vm implements the IL bytecode interpreter at the heart of the
// system: a tagged-value stack machine realizing the BASIC dialect of
// SPEC_FULL.md through the opcode set of spec.md §4.1. It owns the
// reference-counted string heap, the line-addressed program store, the
// three cooperating stacks, the variable and array namespaces, and the
// console/file I/O bridge. It knows nothing about terminals, signals, or
// process exit codes; that is cmd/tbi's job.
package vm

import (
	"context"
	"io"

	"github.com/tbil-vm/tbvm/internal/fileinput"
	"github.com/tbil-vm/tbvm/internal/flushio"
)

// runMode is one of the VM's three outer states (spec.md §4.1 "State
// machine summary").
type runMode uint8

const (
	modeDirect runMode = iota
	modeRunning
	modeLoading
)

// VM is the whole interpreter: program image, program store, variable
// and array namespaces, string heap, the three stacks, cursor state, and
// the host operation tables it was constructed with.
type VM struct {
	logging

	code      []byte
	collEntry uint16
	execEntry uint16

	prog   uint16 // IL program counter
	opPC   uint16 // PC of the opcode currently executing, for Abort reporting
	opByte byte

	input   fileinput.Input
	out     flushio.WriteFlusher
	outCol  int
	closers []io.Closer
	fs      FileSystem

	program ProgramStore
	vars    VarStore
	heap    stringHeap

	exprs exprStack
	ctrl  controlStack
	fors  frameStack

	// cursor: the line currently being scanned by the statement parser.
	curBuf []byte
	curPos int

	mode    runMode
	curLine int // 0 = direct mode

	onDone     uint16 // 0 = no armed hook
	suppressOK bool

	data dataState

	openFile     File
	openFileName string

	rngState uint64

	breakSrc   BreakSource
	clock      Clock
	mathExc    MathExceptions
	arrayLimit uint

	loadDepth int // reset to 0 on entering direct mode; no opcode increments it
}

// exitSignal unwinds the dispatch loop on a normal EXIT opcode.
type exitSignal struct{}

// Close closes vm.openFile, if set, and every io.Closer in vm.closers.
// No option adds to vm.closers, so a writer passed to WithOutput is not
// closed.
func (vm *VM) Close() error {
	var err error
	if vm.openFile != nil {
		if cerr := vm.openFile.Close(); err == nil {
			err = cerr
		}
		vm.openFile = nil
	}
	for i := len(vm.closers) - 1; i >= 0; i-- {
		if cerr := vm.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run loads the given IL program image (raw bytecode followed by the two
// trailing 16-bit collector/executor entry labels, stripped per spec.md
// §6) and executes it until EXIT, input EOF with an empty queue, or a
// fatal Abort.
func (vm *VM) Run(ctx context.Context, image []byte) error {
	if len(image) < 4 {
		return Abort{Msg: "program image too short"}
	}
	n := len(image) - 4
	vm.code = image[:n]
	vm.collEntry = le16(image[n : n+2])
	vm.execEntry = le16(image[n+2 : n+4])

	vm.initState()
	vm.prog = vm.collEntry

	return vm.exec(ctx)
}

// initState performs the INIT opcode's work: reset every piece of mutable
// VM state to its boot configuration, per spec.md §4.1.
func (vm *VM) initState() {
	vm.program.Clear()
	vm.vars.Reset(&vm.heap)
	vm.exprs = exprStack{}
	vm.ctrl = controlStack{}
	vm.fors = frameStack{}
	vm.curBuf, vm.curPos = nil, 0
	vm.mode = modeDirect
	vm.curLine = 0
	vm.onDone = 0
	vm.data = dataState{}
	vm.rngState = 1
	if vm.openFile != nil {
		vm.openFile.Close()
		vm.openFile = nil
	}
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
