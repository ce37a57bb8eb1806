package vm

import "github.com/tbil-vm/tbvm/internal/mem"

// implicitDimSize is the classic Tiny BASIC default: a first subscript
// use implicitly DIMs 11 elements (valid indices 0..10) per axis, per
// spec.md §3.
const implicitDimSize = 11

// Array is one letter's allocated N-dimensional array, backed by
// internal/mem.Slots[T], an adaptation of the teacher's flat paged
// integer memory generalized (via Go generics) to hold either Number or
// string-heap handles, addressed by precomputed row-stride flat index.
type Array struct {
	Dims    []int // element count per dimension (max index + 1)
	Stride  []int // row strides, Stride[i] = product(Dims[i+1:])
	Numeric bool
	nums    mem.Slots[Number]
	strs    mem.Slots[*stringRef]
}

func newArray(dims []int, numeric bool) *Array {
	a := &Array{Dims: append([]int{}, dims...), Numeric: numeric}
	a.Stride = make([]int, len(dims))
	stride := 1
	for i := len(dims) - 1; i >= 0; i-- {
		a.Stride[i] = stride
		stride *= dims[i]
	}
	return a
}

// flatIndex computes the flat offset for a set of per-axis indices,
// returning false if any axis is out of bounds (BAD SUBSCRIPT).
func (a *Array) flatIndex(idx []int) (uint, bool) {
	if len(idx) != len(a.Dims) {
		return 0, false
	}
	flat := 0
	for i, n := range idx {
		if n < 0 || n >= a.Dims[i] {
			return 0, false
		}
		flat += n * a.Stride[i]
	}
	return uint(flat), true
}

func (a *Array) loadNum(flat uint) Number {
	v, _ := a.nums.Load(flat)
	return v
}

func (a *Array) storeNum(flat uint, v Number) {
	_ = a.nums.Stor(flat, v)
}

func (a *Array) loadStr(flat uint) *stringRef {
	v, _ := a.strs.Load(flat)
	if v == nil {
		return emptyStringRef
	}
	return v
}

func (a *Array) storeStr(flat uint, v *stringRef) {
	_ = a.strs.Stor(flat, v)
}

// dim implements the DIM opcode: allocate a new array for letter with the
// given per-axis sizes (each size is max-subscript + 1). Re-dimensioning
// an already-dimensioned array is a BASIC error (REDIM'D ARRAY).
func (vm *VM) dim(letter byte, isStr bool, maxima []Number) {
	if vm.arrayFor(letter, isStr) != nil {
		vm.raise(ErrRedimdArray)
	}
	dims := make([]int, len(maxima))
	cells := 1
	for i, m := range maxima {
		n, ok := numberToInt(m)
		if !ok || n < 0 {
			vm.raise(ErrIllegalQuantity)
		}
		dims[i] = n + 1
		cells *= dims[i]
	}
	vm.checkArrayBudget(cells)
	vm.setArrayFor(letter, isStr, newArray(dims, !isStr))
}

// checkArrayBudget enforces the optional WithMemLimits array cell
// ceiling; zero means unbounded.
func (vm *VM) checkArrayBudget(cells int) {
	if vm.arrayLimit == 0 {
		return
	}
	if uint(cells) > vm.arrayLimit {
		vm.raise(ErrOutOfMemory)
	}
}

// arrayRef implements the ARRY opcode: resolve (letter, indices) to a
// VarRef, implicitly dimensioning (11 per axis) on first use.
func (vm *VM) arrayRef(letter byte, isStr bool, indices []Number) VarRef {
	a := vm.arrayFor(letter, isStr)
	if a == nil {
		dims := make([]int, len(indices))
		cells := 1
		for i := range dims {
			dims[i] = implicitDimSize
			cells *= implicitDimSize
		}
		vm.checkArrayBudget(cells)
		a = newArray(dims, !isStr)
		vm.setArrayFor(letter, isStr, a)
	}
	idx := make([]int, len(indices))
	for i, v := range indices {
		n, ok := numberToInt(v)
		if !ok {
			vm.raise(ErrBadSubscript)
		}
		idx[i] = n
	}
	flat, ok := a.flatIndex(idx)
	if !ok {
		vm.raise(ErrBadSubscript)
	}
	return VarRef{Kind: RefArrayElem, Letter: letter, IsStr: isStr, Index: flat}
}
