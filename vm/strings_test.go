package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringHeap_RetainReleaseSweeps(t *testing.T) {
	var h stringHeap
	s := h.newDynamic([]byte("hello"))
	require.Equal(t, 1, s.refs)

	h.retain(s)
	assert.Equal(t, 2, s.refs)

	h.release(s)
	assert.Equal(t, 1, s.refs)
	assert.False(t, h.needsSweep) // still referenced once, nothing to sweep yet

	h.release(s)
	assert.True(t, h.needsSweep)
	h.sweep()
	assert.Nil(t, h.head)
}

func TestStringHeap_EmptyStringIsSingleton(t *testing.T) {
	var h stringHeap
	a := h.newDynamic(nil)
	b := h.newDynamic([]byte{})
	assert.Same(t, emptyStringRef, a)
	assert.Same(t, emptyStringRef, b)
	h.retain(a)
	h.release(a)
	assert.Equal(t, 0, emptyStringRef.refs) // unaffected by ref-counting
}

func TestStringHeap_InvalidateLine(t *testing.T) {
	var h stringHeap
	line := []byte("PRINT \"HI\"\n")
	s := h.newStatic(line[7:10], 10, 1)
	assert.Equal(t, "HI\"", s.String())

	// An edit at a later generation invalidates strings borrowed before it.
	h.invalidateLine(10, 2)
	assert.Equal(t, "", s.String())
}

func TestStringHeap_InvalidateLineSparesNewerGeneration(t *testing.T) {
	var h stringHeap
	line := []byte("PRINT \"HI\"\n")
	s := h.newStatic(line[7:10], 10, 5)

	h.invalidateLine(10, 5) // same generation: not invalidated
	assert.Equal(t, "HI\"", s.String())
}

func TestStringHeap_Concat(t *testing.T) {
	var h stringHeap
	a := h.newDynamic([]byte("foo"))
	b := h.newDynamic([]byte("bar"))
	c := h.concat(a, b)
	assert.Equal(t, "foobar", c.String())
}

func TestStringHeap_OwnedCopyDetachesFromStatic(t *testing.T) {
	var h stringHeap
	line := []byte("PRINT \"HI\"\n")
	s := h.newStatic(line[7:10], 10, 1)
	owned := h.ownedCopy(s)
	assert.NotSame(t, s, owned)
	h.invalidateLine(10, 2)
	assert.Equal(t, "", s.String())
	assert.Equal(t, "HI\"", owned.String())
}
