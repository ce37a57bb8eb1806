package vm

import "strings"

// dataState tracks the DATA-mode scanning cursor used by READ/RESTORE,
// per spec.md §4.1's DMODE opcode. It is a separate saved cursor from
// the statement parser's own (vm.curBuf/vm.curPos), swapped in and out
// by DMODE rather than merged with it, so a READ can suspend normal
// statement scanning mid-line and resume it afterward.
type dataState struct {
	active bool

	// saved statement-parser cursor, valid while active.
	savedLine int
	savedBuf  []byte
	savedPos  int

	// firstLine is the lowest-numbered line at which scanning for DATA
	// should restart on mode 3 (RESTORE); 0 means "search from the top
	// of the program" on first use.
	firstLine int

	// scanLine/scanPos track DATANEXT's cursor across the program store,
	// independent of curLine/curPos: 0 means scanning has not started
	// this pass, -1 means the program holds no more DATA items.
	scanLine int
	scanPos  int
}

func init() {
	registerOp(OpDMODE, opDMODE)
	registerOp(OpDATANEXT, opDATANEXT)
}

// opDMODE multiplexes four cursor operations onto one opcode, selected
// by its literal operand, matching the IL authors' convention of
// packing small related operations behind a single mode byte (see
// ADVCRS).
//
//	0: restore the statement-parser cursor saved by a prior mode-1 call.
//	1: save the statement-parser cursor and enter DATA-scan mode.
//	2: restore the statement-parser cursor and raise OUT OF DATA.
//	3: reset the DATA scan to the top of the program (RESTORE statement).
func opDMODE(vm *VM, ops operands) {
	switch ops.Literal {
	case 0:
		vm.dataRestoreCursor()
	case 1:
		if vm.data.active {
			vm.abort("DMODE entered while already in DATA mode")
		}
		vm.data.active = true
		vm.data.savedLine = vm.curLine
		vm.data.savedBuf = vm.curBuf
		vm.data.savedPos = vm.curPos
	case 2:
		vm.dataRestoreCursor()
		vm.raise(ErrOutOfData)
	case 3:
		vm.data.firstLine = 0
		vm.data.scanLine = 0
		vm.data.scanPos = 0
	default:
		vm.abort("DMODE: bad mode literal")
	}
}

func (vm *VM) dataRestoreCursor() {
	if !vm.data.active {
		vm.abort("DMODE restore with no saved cursor")
	}
	vm.curLine = vm.data.savedLine
	vm.curBuf = vm.data.savedBuf
	vm.curPos = vm.data.savedPos
	vm.data.active = false
}

// opDATANEXT scans the program store for the next comma-separated literal
// following a DATA statement, in line order starting from vm.data.firstLine
// (or the top of the program on first use), and pushes it as a Number or
// String. It raises OUT OF DATA once the scan runs off the end of the
// program, matching READ's classic line-at-a-time exhaustion behavior;
// RESTORE (DMODE 3) rewinds the scan back to the top.
func opDATANEXT(vm *VM, _ operands) {
	if vm.data.scanLine == -1 {
		vm.raise(ErrOutOfData)
	}
	if vm.data.scanLine == 0 {
		line := vm.data.firstLine
		if line == 0 {
			line, _ = vm.program.NextLine(0)
		}
		if line == 0 {
			vm.data.scanLine = -1
			vm.raise(ErrOutOfData)
		}
		vm.data.scanLine = line
		vm.data.scanPos = 0
	}

	for {
		text, ok := vm.program.Line(vm.data.scanLine)
		if !ok {
			if !vm.advanceDataScan() {
				vm.raise(ErrOutOfData)
			}
			continue
		}

		pos := vm.data.scanPos
		if pos == 0 {
			i := skipDataSpace(text, 0)
			if !hasDataKeyword(text, i) {
				if !vm.advanceDataScan() {
					vm.raise(ErrOutOfData)
				}
				continue
			}
			pos = i + len("DATA")
		}

		i := skipDataSpace(text, pos)
		if i >= len(text) || text[i] == '\n' {
			if !vm.advanceDataScan() {
				vm.raise(ErrOutOfData)
			}
			continue
		}

		if text[i] == '"' {
			j := i + 1
			for j < len(text) && text[j] != '"' && text[j] != '\n' {
				j++
			}
			if j >= len(text) || text[j] != '"' {
				vm.raise(ErrSyntax)
			}
			body := append([]byte{}, text[i+1:j]...)
			j = skipDataComma(text, j+1)
			vm.data.scanPos = j
			vm.epush(StringValue(vm.heap.newDynamic(body)))
			return
		}

		j := i
		if text[j] == '-' {
			j++
		}
		start := j
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		if j == start {
			vm.raise(ErrSyntax)
		}
		n, err := parseNumber(string(text[i:j]))
		if err != nil {
			vm.raise(ErrNumberOutOfRange)
		}
		j = skipDataComma(text, j)
		vm.data.scanPos = j
		vm.epushNumber(n)
		return
	}
}

// advanceDataScan moves the DATANEXT cursor to the next program line,
// marking the scan exhausted when none remains. It returns false in that
// case.
func (vm *VM) advanceDataScan() bool {
	next, ok := vm.program.NextLine(vm.data.scanLine)
	if !ok {
		vm.data.scanLine = -1
		return false
	}
	vm.data.scanLine = next
	vm.data.scanPos = 0
	return true
}

func skipDataSpace(text []byte, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}

func skipDataComma(text []byte, i int) int {
	i = skipDataSpace(text, i)
	if i < len(text) && text[i] == ',' {
		i++
	}
	return i
}

func hasDataKeyword(text []byte, i int) bool {
	const want = "DATA"
	if i+len(want) > len(text) {
		return false
	}
	return strings.EqualFold(string(text[i:i+len(want)]), want)
}
