package vm

import (
	"io"
	"time"

	"github.com/tbil-vm/tbvm/internal/flushio"
)

// Option configures a VM at construction time, generalizing the teacher's
// VMOption functional-options pattern (api.go/options.go) from a Forth
// core to a BASIC IL core.
type Option interface{ apply(vm *VM) }

// New builds a VM with the given options applied over sane defaults: no
// console input, output discarded, no break source, the OS filesystem,
// and the float-mode default math-exception/clock host ops.
func New(opts ...Option) *VM {
	vm := &VM{
		fs:       osFileSystem{},
		breakSrc: noBreakSource{},
		mathExc:  noMathExceptions{},
		clock:    systemClock{},
		out:      defaultOutput(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
	return vm
}

type optionFunc func(vm *VM)

func (f optionFunc) apply(vm *VM) { f(vm) }

// WithInput appends r to the line collector's input queue. Multiple calls
// queue multiple sources, drained in order; the first is typically a
// pre-loaded boot script, the last the interactive console.
func WithInput(r io.Reader) Option {
	return optionFunc(func(vm *VM) { vm.input.Queue = append(vm.input.Queue, r) })
}

// WithOutput sets the console output stream.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(vm *VM) {
		if vm.out != nil {
			vm.out.Flush()
		}
		vm.out = flushio.NewWriteFlusher(w)
	})
}

// WithTee additionally mirrors console output to w (e.g. a trace log).
func WithTee(w io.Writer) Option {
	return optionFunc(func(vm *VM) {
		vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(w))
	})
}

// WithLogf installs a leveled trace logging function, called once per
// dispatched opcode, mirroring the teacher's WithLogf/vm.step() trace
// line.
func WithLogf(logf func(mess string, args ...interface{})) Option {
	return optionFunc(func(vm *VM) { vm.logfn = logf })
}

// WithMemLimits sets the largest cell count a single array may have;
// 0 leaves arrays unbounded. exprLimit is accepted and ignored: the
// expression, control and frame stacks keep their fixed capacities
// (see stacks.go). Exceeding the array limit is reported as a BASIC
// error, never a VM abort.
func WithMemLimits(exprLimit, arrayLimit uint) Option {
	return optionFunc(func(vm *VM) {
		vm.arrayLimit = arrayLimit
		_ = exprLimit // the stacks are fixed-capacity; this value is unused.
	})
}

// WithBreakSource installs the host's asynchronous break flag.
func WithBreakSource(b BreakSource) Option {
	return optionFunc(func(vm *VM) { vm.breakSrc = b })
}

// WithClock installs the host's wall-clock source, used only by SRND.
func WithClock(c Clock) Option {
	return optionFunc(func(vm *VM) { vm.clock = c })
}

// WithMathExceptions installs the host's floating-point exception poll.
func WithMathExceptions(m MathExceptions) Option {
	return optionFunc(func(vm *VM) { vm.mathExc = m })
}

// WithFileSystem installs the host's File I/O operation table, used by
// LDPRG/SVPRG. Defaults to the OS filesystem.
func WithFileSystem(fs FileSystem) Option {
	return optionFunc(func(vm *VM) { vm.fs = fs })
}

type systemClock struct{}

func (systemClock) UnixSeconds() int64 { return time.Now().Unix() }
