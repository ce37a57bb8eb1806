package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/tbil-vm/tbvm/vm"
)

const maxErrors = 20

// asmError is one diagnostic, located in the source.
type asmError struct {
	pos Position
	msg string
}

// Error aggregates every diagnostic produced while assembling a source
// file. Assemble returns it (possibly with a single entry) whenever
// assembly fails; a successful Assemble never returns an Error.
type Error []asmError

func (e Error) Error() string {
	lines := make([]string, 0, len(e))
	for _, d := range e {
		lines = append(lines, fmt.Sprintf("%s: %s", d.pos, d.msg))
	}
	return strings.Join(lines, "\n")
}

// labelSite records where a label was used or defined.
type labelSite struct {
	pos  Position
	addr int
}

// label tracks one symbol's definition site and every place it was
// referenced, so forward references can be resolved once the whole source
// has been scanned.
type label struct {
	labelSite
	defined bool
	uses    []labelSite
}

type parser struct {
	lex    *lexer
	errs   []asmError
	img    []byte
	labels map[string]*label
}

func newParser(file string, src []byte) *parser {
	p := &parser{labels: make(map[string]*label)}
	p.lex = newLexer(file, src, &p.errs)
	return p
}

func (p *parser) errorf(pos Position, format string, args ...interface{}) {
	p.errs = append(p.errs, asmError{pos: pos, msg: fmt.Sprintf(format, args...)})
}

func (p *parser) aborting() bool { return len(p.errs) >= maxErrors }

func (p *parser) write(b byte) int {
	p.img = append(p.img, b)
	return len(p.img) - 1
}

func (p *parser) writeLabel16() {
	p.img = append(p.img, 0, 0)
}

// refLabel registers a forward or backward use of name at the two bytes
// starting at addr.
func (p *parser) refLabel(name string, pos Position, addr int) {
	l := p.labels[name]
	if l == nil {
		l = &label{labelSite: labelSite{pos: pos}}
		p.labels[name] = l
	}
	l.uses = append(l.uses, labelSite{pos: pos, addr: addr})
}

// defLabel records name's address as the current output position.
func (p *parser) defLabel(name string, pos Position) {
	l := p.labels[name]
	if l == nil {
		l = &label{}
		p.labels[name] = l
	}
	if l.defined {
		p.errorf(pos, "label %s redefined (previously defined at %s)", name, l.labelSite.pos)
		return
	}
	l.labelSite = labelSite{pos: pos, addr: len(p.img)}
	l.defined = true
}

// parse runs the single token-stream pass, emitting opcode bytes and
// literal/string operands directly and deferring label operands to the
// back-patch pass in resolve.
func (p *parser) parse() {
	tok := p.lex.next()
	for !p.aborting() && tok.kind != tokEOF {
		for tok.kind == tokLabelDecl {
			p.defLabel(tok.text, tok.pos)
			tok = p.lex.next()
		}
		if tok.kind == tokEOF {
			break
		}
		if tok.kind != tokIdent {
			p.errorf(tok.pos, "expected mnemonic, got %q", tok.text)
			tok = p.lex.next()
			continue
		}
		op, meta, ok := vm.LookupOp(tok.text)
		mnemPos := tok.pos
		if !ok {
			p.errorf(mnemPos, "unknown mnemonic %q", tok.text)
			tok = p.lex.next()
			continue
		}
		p.write(byte(op))
		tok = p.lex.next()

		if meta.HasLabel {
			switch tok.kind {
			case tokIdent:
				addr := len(p.img)
				p.refLabel(tok.text, tok.pos, addr)
				p.writeLabel16()
			case tokNumber:
				if tok.num < 0 || tok.num > 0xFFFF {
					p.errorf(tok.pos, "address operand %d out of range", tok.num)
				}
				p.write(byte(tok.num))
				p.write(byte(tok.num >> 8))
			default:
				p.errorf(tok.pos, "%s: expected label operand", meta.Name)
			}
			tok = p.lex.next()
		}

		if meta.HasLiteral {
			if tok.kind != tokNumber {
				p.errorf(tok.pos, "%s: expected literal operand 0..255", meta.Name)
			} else if tok.num < 0 || tok.num > 0xFF {
				p.errorf(tok.pos, "literal operand %d out of range 0..255", tok.num)
			} else {
				p.write(byte(tok.num))
			}
			tok = p.lex.next()
		}

		if meta.HasString {
			if meta.HasLabel {
				if tok.kind != tokComma {
					p.errorf(tok.pos, "%s: expected ',' before string operand", meta.Name)
				} else {
					tok = p.lex.next()
				}
			}
			if tok.kind != tokString {
				p.errorf(tok.pos, "%s: expected string operand", meta.Name)
			} else {
				p.writeString(tok.text)
				tok = p.lex.next()
			}
		}
	}
}

// writeString emits s with the final byte's high bit set, per the IL
// binary format's string terminator. An empty string still needs a
// terminator byte; it is emitted as a lone high-bit-set NUL.
func (p *parser) writeString(s string) {
	if len(s) == 0 {
		p.write(0x80)
		return
	}
	b := []byte(s)
	for i := 0; i < len(b)-1; i++ {
		p.write(b[i])
	}
	p.write(b[len(b)-1] | 0x80)
}

// resolve patches every label use with its definition's address and
// reports undefined symbols; Assemble appends the CO/XEC trailer after it.
func (p *parser) resolve() {
	for name, l := range p.labels {
		if !l.defined {
			for _, u := range l.uses {
				p.errorf(u.pos, "undefined label %s", name)
				if p.aborting() {
					return
				}
			}
			continue
		}
		for _, u := range l.uses {
			p.img[u.addr] = byte(l.addr)
			p.img[u.addr+1] = byte(l.addr >> 8)
		}
	}
}

func (p *parser) entry(name string) (uint16, bool) {
	l, ok := p.labels[name]
	if !ok || !l.defined {
		return 0, false
	}
	return uint16(l.addr), true
}

// Assemble compiles IL assembly source read from r into a binary image
// ready for vm.VM.Run: raw opcode bytes followed by the CO/XEC entry
// trailer. name identifies the source in diagnostics.
func Assemble(name string, r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := newParser(name, src)
	p.parse()
	if len(p.errs) == 0 {
		p.resolve()
	}
	if len(p.errs) > 0 {
		return nil, Error(p.errs)
	}

	co, ok := p.entry("CO")
	if !ok {
		return nil, Error{{pos: Position{File: name}, msg: "CO (collector entry) is not defined"}}
	}
	xec, ok := p.entry("XEC")
	if !ok {
		return nil, Error{{pos: Position{File: name}, msg: "XEC (executor entry) is not defined"}}
	}

	img := make([]byte, len(p.img)+4)
	copy(img, p.img)
	n := len(p.img)
	img[n] = byte(co)
	img[n+1] = byte(co >> 8)
	img[n+2] = byte(xec)
	img[n+3] = byte(xec >> 8)
	return img, nil
}
