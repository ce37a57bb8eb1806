package asm

import (
	"fmt"
	"io"
)

// WriteGoHeader renders img as a Go source file declaring a byte slice
// variable named varName, for embedding an assembled image directly into a
// program instead of shipping it as a separate file.
func WriteGoHeader(w io.Writer, pkg, varName string, img []byte) error {
	if _, err := fmt.Fprintf(w, "// Code generated by tbasm. DO NOT EDIT.\n\npackage %s\n\nvar %s = []byte{\n", pkg, varName); err != nil {
		return err
	}
	for i := 0; i < len(img); i += 12 {
		end := i + 12
		if end > len(img) {
			end = len(img)
		}
		if _, err := io.WriteString(w, "\t"); err != nil {
			return err
		}
		for _, b := range img[i:end] {
			if _, err := fmt.Fprintf(w, "0x%02x, ", b); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}
