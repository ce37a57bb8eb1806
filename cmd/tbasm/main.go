// Command tbasm assembles IL assembly source into the binary image
// consumed by package vm, per spec.md §6:
//
//	tbasm [-o out.bin] in.asm
//	tbasm -H[out.h] in.asm
//
// Exit status is 0 on success, nonzero if any diagnostic was produced.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tbil-vm/tbvm/asm"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tbasm [-o out.bin] in.asm")
	fmt.Fprintln(os.Stderr, "       tbasm -H[out.h] in.asm")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the CLI by hand rather than through package flag: -H's
// optional directly-appended filename (-Hfoo.h, no space or '=') isn't
// representable as a flag.String value.
func run(args []string) int {
	var (
		outBin    string
		header    bool
		headerOut string
		inPath    string
	)

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-o":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "tbasm: -o requires a filename")
				return 2
			}
			i++
			outBin = args[i]
		case strings.HasPrefix(a, "-o") && len(a) > 2:
			outBin = a[2:]
		case a == "-H":
			header = true
		case strings.HasPrefix(a, "-H"):
			header = true
			headerOut = a[2:]
		case strings.HasPrefix(a, "-"):
			fmt.Fprintf(os.Stderr, "tbasm: unknown flag %q\n", a)
			usage()
			return 2
		default:
			inPath = a
		}
	}
	if inPath == "" {
		usage()
		return 2
	}

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tbasm: %v\n", err)
		return 1
	}
	defer in.Close()

	img, err := asm.Assemble(inPath, in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if header {
		if headerOut == "" {
			headerOut = strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath)) + ".go"
		}
		out, err := os.Create(headerOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tbasm: %v\n", err)
			return 1
		}
		defer out.Close()
		varName := "Image"
		if err := asm.WriteGoHeader(out, "main", varName, img); err != nil {
			fmt.Fprintf(os.Stderr, "tbasm: %v\n", err)
			return 1
		}
		return 0
	}

	if outBin == "" {
		outBin = strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath)) + ".bin"
	}
	if err := os.WriteFile(outBin, img, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "tbasm: %v\n", err)
		return 1
	}
	return 0
}
