//go:build !windows

package main

import (
	"syscall"

	"github.com/pkg/term/termios"
)

// setRawIO switches stdin to raw mode so GETLINE/INNUM/INVAR observe one
// character at a time, with no local line editing or signal-generating
// control characters competing with the VM's own line collector. It
// returns a function that restores the prior terminal settings.
func setRawIO() (func(), error) {
	var tios syscall.Termios
	if err := termios.Tcgetattr(0, &tios); err != nil {
		return nil, err
	}
	raw := tios
	raw.Iflag &^= syscall.BRKINT | syscall.ISTRIP | syscall.IXON | syscall.IXOFF
	raw.Iflag |= syscall.IGNBRK | syscall.IGNPAR
	raw.Lflag &^= syscall.ICANON | syscall.ISIG | syscall.IEXTEN | syscall.ECHO
	raw.Cc[syscall.VMIN] = 1
	raw.Cc[syscall.VTIME] = 0
	if err := termios.Tcsetattr(0, termios.TCSANOW, &raw); err != nil {
		termios.Tcsetattr(0, termios.TCSANOW, &tios)
		return nil, err
	}
	return func() { termios.Tcsetattr(0, termios.TCSANOW, &tios) }, nil
}
