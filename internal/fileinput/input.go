package fileinput

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tbil-vm/tbvm/internal/runeio"
)

// Location names a line within one of an Input's source streams: the
// console, or a program file opened by LOAD.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential rune reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate "AT LINE n" style user feedback.
//
// The collector's console stream and an in-progress LOAD file stream share
// one Input: PushFront splices the file in ahead of whatever is already
// queued, so once the file hits EOF reading resumes from the console (or
// the next queued source) exactly where it left off.
type Input struct {
	rr    io.RuneReader
	Queue []io.Reader
	Last  Line
	Scan  Line
}

// PushFront splices r in front of the current Queue, so it is drained
// before any previously queued source, without disturbing an input stream
// already mid-read. Used by LDPRG to redirect the line collector into a
// program file.
func (in *Input) PushFront(r io.Reader) {
	in.Queue = append([]io.Reader{r}, in.Queue...)
}

// SourceName returns the name of the stream currently being read, or ""
// once all queued sources (and the live stream) are exhausted.
func (in *Input) SourceName() string {
	if in.rr == nil {
		return ""
	}
	return in.Scan.Name
}

// ReadRune reads one rune from the current input stream, appending it into the
// current Scan line, and rolling Scan over to Last after line feed.
func (in *Input) ReadRune() (rune, int, error) {
	if in.rr == nil && !in.nextIn() {
		return 0, 0, io.EOF
	}

	r, n, err := in.rr.ReadRune()
	if r == '\n' {
		in.nextLine()
	} else {
		in.Scan.WriteRune(r)
	}

	if r != 0 {
		return r, n, nil
	}
	if err == io.EOF && in.nextIn() {
		err = nil
	}
	return 0, n, err
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) nextIn() bool {
	in.nextLine()
	if in.rr != nil {
		if cl, ok := in.rr.(io.Closer); ok {
			cl.Close()
		}
		in.rr = nil
	}
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.rr = runeio.NewReader(r)
		in.Scan.Name = nameOf(r)
		in.Scan.Line = 1
	}
	return in.rr != nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
