package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramStore_InsertDeleteBookends(t *testing.T) {
	var p ProgramStore
	assert.Equal(t, 0, p.First())
	assert.Equal(t, 0, p.Last())

	p.Insert(20, []byte("PRINT \"B\""))
	assert.Equal(t, 20, p.First())
	assert.Equal(t, 20, p.Last())

	p.Insert(10, []byte("PRINT \"A\""))
	assert.Equal(t, 10, p.First())
	assert.Equal(t, 20, p.Last())

	p.Insert(30, []byte("PRINT \"C\""))
	assert.Equal(t, 10, p.First())
	assert.Equal(t, 30, p.Last())

	// Re-inserting with an empty body deletes the line.
	prevGen := p.Insert(20, nil)
	assert.NotZero(t, prevGen)
	_, ok := p.Line(20)
	assert.False(t, ok)
	assert.Equal(t, 10, p.First())
	assert.Equal(t, 30, p.Last())
}

func TestProgramStore_NextLine(t *testing.T) {
	var p ProgramStore
	p.Insert(10, []byte("A"))
	p.Insert(30, []byte("B"))

	n, ok := p.NextLine(0)
	require.True(t, ok)
	assert.Equal(t, 10, n)

	n, ok = p.NextLine(10)
	require.True(t, ok)
	assert.Equal(t, 30, n)

	_, ok = p.NextLine(30)
	assert.False(t, ok)
}

func TestProgramStore_InsertAppendsMissingNewline(t *testing.T) {
	var p ProgramStore
	p.Insert(10, []byte("PRINT 1"))
	text, ok := p.Line(10)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(string(text), "\n"))
}

func TestProgramStore_ListRange(t *testing.T) {
	var p ProgramStore
	p.Insert(5, []byte("PRINT 1"))
	p.Insert(100, []byte("PRINT 2"))

	var buf strings.Builder
	require.NoError(t, p.List(&buf))
	out := buf.String()
	assert.Contains(t, out, "PRINT 1")
	assert.Contains(t, out, "PRINT 2")
}

func TestProgramStore_GenerationBumpsOnRewrite(t *testing.T) {
	var p ProgramStore
	p.Insert(10, []byte("A"))
	g1 := p.generationOf(10)
	p.Insert(10, []byte("B"))
	g2 := p.generationOf(10)
	assert.Greater(t, g2, g1)
}
