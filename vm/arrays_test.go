package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_FlatIndexBounds(t *testing.T) {
	a := newArray([]int{3, 4}, true)
	flat, ok := a.flatIndex([]int{2, 3})
	require.True(t, ok)
	assert.Equal(t, uint(2*4+3), flat)

	_, ok = a.flatIndex([]int{3, 0})
	assert.False(t, ok)

	_, ok = a.flatIndex([]int{-1, 0})
	assert.False(t, ok)
}

func TestArray_NumStoreLoadRoundTrip(t *testing.T) {
	a := newArray([]int{5}, true)
	flat, ok := a.flatIndex([]int{3})
	require.True(t, ok)
	a.storeNum(flat, numberFromInt64(42))
	assert.Equal(t, numberFromInt64(42), a.loadNum(flat))
	// untouched cell defaults to zero
	flat2, _ := a.flatIndex([]int{0})
	assert.Equal(t, numberFromInt64(0), a.loadNum(flat2))
}

func TestArray_StrLoadDefaultsToEmpty(t *testing.T) {
	a := newArray([]int{5}, false)
	flat, _ := a.flatIndex([]int{1})
	assert.Same(t, emptyStringRef, a.loadStr(flat))
}

func TestVM_DimRejectsRedim(t *testing.T) {
	vm := New()
	vm.dim('A', false, []Number{numberFromInt64(9)})
	assert.PanicsWithValue(t, BasicError{Kind: ErrRedimdArray}, func() {
		vm.dim('A', false, []Number{numberFromInt64(9)})
	})
}

func TestVM_ArrayRefImplicitlyDims(t *testing.T) {
	vm := New()
	ref := vm.arrayRef('B', false, []Number{numberFromInt64(5)})
	assert.Equal(t, RefArrayElem, ref.Kind)
	assert.NotNil(t, vm.arrayFor('B', false))
}

func TestVM_ArrayRefBadSubscript(t *testing.T) {
	vm := New()
	vm.dim('C', false, []Number{numberFromInt64(3)})
	assert.PanicsWithValue(t, BasicError{Kind: ErrBadSubscript}, func() {
		vm.arrayRef('C', false, []Number{numberFromInt64(99)})
	})
}

func TestVM_ArrayBudgetEnforced(t *testing.T) {
	vm := New()
	vm.arrayLimit = 5
	assert.PanicsWithValue(t, BasicError{Kind: ErrOutOfMemory}, func() {
		vm.dim('D', false, []Number{numberFromInt64(9)})
	})
}
