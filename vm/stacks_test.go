package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprStack_OverflowReturnsFalse(t *testing.T) {
	var s exprStack
	for i := 0; i < maxExprStack; i++ {
		require.True(t, s.push(NumberValue(numberFromInt64(int64(i)))))
	}
	assert.False(t, s.push(NumberValue(numberFromInt64(0))))
}

func TestExprStack_PushPopOrder(t *testing.T) {
	var s exprStack
	s.push(NumberValue(numberFromInt64(1)))
	s.push(NumberValue(numberFromInt64(2)))
	v, ok := s.pop()
	require.True(t, ok)
	assert.Equal(t, numberFromInt64(2), v.Num)
	v, ok = s.pop()
	require.True(t, ok)
	assert.Equal(t, numberFromInt64(1), v.Num)
	_, ok = s.pop()
	assert.False(t, ok)
}

func TestFrameStack_FindForDiscardsAboveMatch(t *testing.T) {
	var s frameStack
	s.push(Frame{Kind: frameFor, Var: VarRef{Letter: 'I'}})
	s.push(Frame{Kind: frameGosub})
	s.push(Frame{Kind: frameFor, Var: VarRef{Letter: 'J'}})

	f, ok := s.findFor(VarRef{Letter: 'I'}, false)
	require.True(t, ok)
	assert.Equal(t, byte('I'), f.Var.Letter)
	assert.Equal(t, 0, s.len()) // J's frame and the GOSUB frame above I were discarded
}

func TestFrameStack_FindForAnyVarMatchesInnermost(t *testing.T) {
	var s frameStack
	s.push(Frame{Kind: frameFor, Var: VarRef{Letter: 'I'}})
	s.push(Frame{Kind: frameFor, Var: VarRef{Letter: 'J'}})

	f, ok := s.findFor(VarRef{}, true)
	require.True(t, ok)
	assert.Equal(t, byte('J'), f.Var.Letter)
	assert.Equal(t, 1, s.len())
}

func TestControlStack_OverflowReturnsFalse(t *testing.T) {
	var s controlStack
	for i := 0; i < maxControlStack; i++ {
		require.True(t, s.push(uint16(i)))
	}
	assert.False(t, s.push(0))
}
