package vm

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/tbil-vm/tbvm/internal/flushio"
	"github.com/tbil-vm/tbvm/internal/runeio"
)

// FileMode selects how a named file is opened by LDPRG/SVPRG, combining
// the 'i'/'o' mode characters of spec.md §6 into one of three shapes.
type FileMode uint8

const (
	FileRead FileMode = iota
	FileWrite
	FileReadWrite
)

// File is the narrow surface the VM needs from an opened program file.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// FileSystem is the host's File I/O operation table (spec.md §6): open a
// named file in one of the three modes above. The console itself is never
// obtained this way; it is wired directly via WithInput/WithOutput.
type FileSystem interface {
	Open(name string, mode FileMode) (File, error)
}

// osFileSystem is the default FileSystem, backed by the OS filesystem.
type osFileSystem struct{}

func (osFileSystem) Open(name string, mode FileMode) (File, error) {
	var flag int
	switch mode {
	case FileRead:
		flag = os.O_RDONLY
	case FileWrite:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case FileReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", name)
	}
	return f, nil
}

// BreakSource reports and clears an asynchronous break request (spec.md
// §5). The host driver updates it from a signal handler; the VM polls it
// at the top of the dispatch loop and during blocking console reads.
type BreakSource interface {
	Break() bool
	Clear()
}

// noBreakSource never signals a break; it is the default when the host
// driver has nothing to poll (e.g. under test).
type noBreakSource struct{}

func (noBreakSource) Break() bool { return false }
func (noBreakSource) Clear()      {}

// Clock supplies wall-clock seconds to SRND when seeded with zero.
type Clock interface {
	UnixSeconds() int64
}

// MathFlags is a bitmask of floating-point exceptions pulled from the
// host, per spec.md §6.
type MathFlags uint8

const (
	MathDivideByZero MathFlags = 1 << iota
	MathArithmetic
)

// MathExceptions pulls and clears hardware floating-point exception
// flags. Implementations without hardware flags (the common case in a Go
// program) satisfy the contract by always returning zero, per spec.md §9;
// the VM additionally does its own math.IsNaN/IsInf check (checkMath)
// after ADD through POW and the transcendental functions, so overflow
// there is still caught even when this always returns zero.
type MathExceptions interface {
	PullAndClear() MathFlags
}

type noMathExceptions struct{}

func (noMathExceptions) PullAndClear() MathFlags { return 0 }

// writeRune writes one rune to the console and tracks the output
// column; a write error aborts the VM.
func (vm *VM) writeRune(r rune) {
	if _, err := runeio.WriteANSIRune(vm.out, r); err != nil {
		vm.abort("console write failed: " + err.Error())
	}
	if r == '\n' {
		vm.outCol = 0
	} else {
		vm.outCol++
	}
}

func (vm *VM) writeString(s string) {
	for _, r := range s {
		vm.writeRune(r)
	}
}

// readRune reads one rune from the line collector's input, flushing
// pending output first (so prompts appear before blocking), and
// translating a detected break into the sentinel rune 0, per spec.md §5's
// "modeled abstractly as the read returning a sentinel value BREAK."
func (vm *VM) readRune() (r rune, brk, eof bool) {
	if err := vm.out.Flush(); err != nil {
		vm.abort("console flush failed: " + err.Error())
	}
	if vm.breakSrc.Break() {
		vm.breakSrc.Clear()
		return 0, true, false
	}
	r, _, err := vm.input.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false, true
		}
		vm.abort("console read failed: " + err.Error())
	}
	return r, false, false
}

func defaultOutput() flushio.WriteFlusher { return flushio.Discard() }
