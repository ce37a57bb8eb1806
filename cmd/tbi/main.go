// Command tbi is the host driver for the IL virtual machine: it puts the
// terminal into raw mode, wires break (SIGINT) polling, and drives
// package vm against stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tbil-vm/tbvm/internal/logio"
	"github.com/tbil-vm/tbvm/internal/panicerr"
	"github.com/tbil-vm/tbvm/vm"
)

const (
	name    = "tbi"
	version = "0.1.0"
)

func main() {
	var (
		memLimit uint
		timeout  time.Duration
		trace    bool
		dump     bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "cap the cell count of each array; 0 disables the limit")
	flag.DurationVar(&timeout, "timeout", 0, "abort the run after the given duration")
	flag.BoolVar(&trace, "trace", false, "log every dispatched opcode")
	flag.BoolVar(&dump, "dump", false, "print a state dump after the run")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	fmt.Printf("%s %s\n", name, version)

	brk := &sigBreak{}
	stopWatch := watchInterrupt(brk)
	defer stopWatch()

	restore, err := setRawIO()
	if err == nil {
		defer restore()
	}

	opts := []vm.Option{
		vm.WithInput(os.Stdin),
		vm.WithOutput(os.Stdout),
		vm.WithBreakSource(brk),
		vm.WithMemLimits(0, memLimit),
	}
	if trace {
		opts = append(opts, vm.WithLogf(log.Leveledf("TRACE")))
	}

	m := vm.New(opts...)
	defer func() { log.ErrorIf(m.Close()) }()

	if dump {
		defer m.Dump(log.Leveledf("DUMP"))
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	imgPath := flag.Arg(0)
	if imgPath == "" {
		log.Errorf("usage: %s [-trace] [-dump] [-mem-limit n] [-timeout d] <image.bin>", name)
		return
	}
	img, err := os.ReadFile(imgPath)
	if err != nil {
		log.Errorf("%v", err)
		return
	}

	runErr := panicerr.Recover(name, func() error {
		return m.Run(ctx, img)
	})
	log.ErrorIf(runErr)
}
