package asm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbil-vm/tbvm/asm"
	"github.com/tbil-vm/tbvm/vm"
)

func TestAssemble_simple(t *testing.T) {
	src := `
CO:	LIT 5
	EXIT
XEC:	LIT 7
	EXIT
`
	img, err := asm.Assemble("simple.asm", strings.NewReader(src))
	require.NoError(t, err)

	// 3 bytes of code for CO (LIT 5, EXIT), 3 for XEC (LIT 7, EXIT), + 4 trailer bytes.
	require.Len(t, img, 10)
	assert.Equal(t, []byte{byte(vm.OpLIT), 5, byte(vm.OpEXIT)}, img[0:3])
	assert.Equal(t, []byte{byte(vm.OpLIT), 7, byte(vm.OpEXIT)}, img[3:6])

	co := uint16(img[6]) | uint16(img[7])<<8
	xec := uint16(img[8]) | uint16(img[9])<<8
	assert.Equal(t, uint16(0), co)
	assert.Equal(t, uint16(3), xec)
}

func TestAssemble_forwardLabelReference(t *testing.T) {
	src := `
CO:	JMP loop
XEC:	EXIT
loop:	NXT
`
	img, err := asm.Assemble("fwd.asm", strings.NewReader(src))
	require.NoError(t, err)

	// JMP loop compiles as: opcode byte, then 2-byte label = address of "loop".
	loopAddr := uint16(img[1]) | uint16(img[2])<<8
	assert.Equal(t, byte(vm.OpJMP), img[0])
	assert.Equal(t, byte(vm.OpNXT), img[loopAddr])
}

func TestAssemble_labelWithString(t *testing.T) {
	src := `
CO:	TST CO, 'PRINT'
XEC:	EXIT
`
	img, err := asm.Assemble("tst.asm", strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, byte(vm.OpTST), img[0])
	str := img[3:8]
	assert.Equal(t, "PRINT"[:4], string(str[:4]))
	assert.Equal(t, byte('T')|0x80, str[4])
}

func TestAssemble_literalOperand(t *testing.T) {
	src := `
CO:	DMODE 2
XEC:	EXIT
`
	img, err := asm.Assemble("lit.asm", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(vm.OpDMODE), 2}, img[0:2])
}

func TestAssemble_undefinedLabel(t *testing.T) {
	src := `
CO:	JMP nowhere
XEC:	EXIT
`
	_, err := asm.Assemble("undef.asm", strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined label NOWHERE")
}

func TestAssemble_missingEntryPoints(t *testing.T) {
	_, err := asm.Assemble("noentry.asm", strings.NewReader("loop:\tNXT\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CO")
}

func TestAssemble_unknownMnemonic(t *testing.T) {
	src := `
CO:	FROBNICATE
XEC:	EXIT
`
	_, err := asm.Assemble("bad.asm", strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mnemonic")
}

func TestAssemble_literalOutOfRange(t *testing.T) {
	src := `
CO:	DMODE 999
XEC:	EXIT
`
	_, err := asm.Assemble("range.asm", strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestWriteGoHeader(t *testing.T) {
	var buf strings.Builder
	err := asm.WriteGoHeader(&buf, "main", "Image", []byte{1, 2, 3})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, "var Image = []byte{")
	assert.Contains(t, out, "0x01, 0x02, 0x03,")
}
