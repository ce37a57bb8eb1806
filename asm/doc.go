// Package asm assembles IL assembly source into the binary image consumed
// by package vm.
//
// Source format
//
// Each line has the shape
//
//	[label:] mnemonic [operand [, 'string']]
//
// A label declaration is an identifier immediately followed by a colon; it
// names the current output address and may be referenced by any later (or
// earlier) operand. Mnemonics are the opcode names from vm.LookupOp (JMP,
// CALL, LIT, TST, and so on); each mnemonic's operand shape — a label, a
// literal byte 0..255, a single-quoted string, or some combination — is
// fixed and known to the assembler via vm.Op.Meta. Operands needing both a
// label and a string are separated by a comma:
//
//	again:  TST again, 'PRINT'
//	        JMP again
//
// Semicolons introduce a comment running to end of line. Whitespace
// (spaces, tabs) separates tokens and is otherwise insignificant.
//
// Two labels must be defined somewhere in the source: CO, the collector's
// entry address, and XEC, the executor's entry address. Their resolved
// addresses are appended to the emitted image as two little-endian 16-bit
// words, per the trailer format vm.VM.Run expects.
//
// String operands are emitted with the final byte's high bit set, marking
// the terminator the VM's fetchString reads.
//
// Output modes
//
// Assemble returns the raw image bytes. WriteGoHeader renders the same
// bytes as a Go byte-slice source file, for embedding an assembled image
// directly into a program rather than shipping it alongside one.
package asm
