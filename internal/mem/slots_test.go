package mem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbil-vm/tbvm/internal/mem"
)

func TestSlots_IntBasic(t *testing.T) {
	var m mem.Slots[int]
	m.PageSize = 4

	val, err := m.Load(0)
	require.NoError(t, err)
	require.Equal(t, 0, val, "unallocated load reads zero")
	require.Equal(t, uint(0), m.Size())

	require.NoError(t, m.Stor(0, 9))
	val, err = m.Load(0)
	require.NoError(t, err)
	require.Equal(t, 9, val)

	require.NoError(t, m.Stor(0x9, 1, 2, 3, 4, 5, 6))
	require.Equal(t, mem.SlotsDump[int]{
		Bases: []uint{0x0, 0x8, 0xc},
		Sizes: []uint{4, 4, 4},
		Pages: [][]int{
			{9, 0, 0, 0},
			{0, 1, 2, 3},
			{4, 5, 6, 0},
		},
	}, m.Dump(), "expected a page hole between the two stores")

	buf := make([]int, 6)
	require.NoError(t, m.LoadInto(6, buf))
	require.Equal(t, []int{0, 0, 0, 1, 2, 3}, buf)
}

func TestSlots_Limit(t *testing.T) {
	var m mem.Slots[int]
	m.PageSize = 4
	m.Limit = 8

	require.NoError(t, m.Stor(0, 1))
	err := m.Stor(9, 1)
	require.Error(t, err)
	var lim mem.LimitError
	require.ErrorAs(t, err, &lim)
	require.Equal(t, uint(10), lim.Addr)
}

// TestSlots_StringHandles exercises the generic store with a non-numeric
// element type, as used for BASIC string-array backing (vm.Array stores
// string-heap handles this way instead of raw bytes).
func TestSlots_StringHandles(t *testing.T) {
	type handle struct{ id int }

	var m mem.Slots[*handle]
	require.NoError(t, m.Stor(3, &handle{id: 7}))

	v, err := m.Load(3)
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, 7, v.id)

	zero, err := m.Load(0)
	require.NoError(t, err)
	require.Nil(t, zero, "unallocated slot of a pointer type reads nil")
}

func TestSlots_Reset(t *testing.T) {
	var m mem.Slots[int]
	require.NoError(t, m.Stor(0, 1, 2, 3))
	require.NotEqual(t, uint(0), m.Size())
	m.Reset()
	require.Equal(t, uint(0), m.Size())
}
