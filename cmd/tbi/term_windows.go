//go:build windows

package main

import "github.com/pkg/errors"

// setRawIO is not implemented on Windows; the VM still runs, just without
// raw single-character input (GETLINE/INNUM/INVAR fall back to whatever
// buffering the console driver imposes).
func setRawIO() (func(), error) {
	return nil, errors.New("raw IO not supported on windows")
}
