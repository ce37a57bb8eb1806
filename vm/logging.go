package vm

import (
	"fmt"
	"strings"
)

// logging is adapted from the teacher's Core/VM logging mixin: a leveled,
// width-aligning trace printer with no-op behavior when logfn is nil.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
	opWidth   int
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
