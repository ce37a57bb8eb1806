package vm

// stringRef is one entry in the process-wide singly-linked string heap
// (spec.md §3, §4.2). Two flavours:
//   - dynamic strings own buf, which is their only reference to the bytes;
//   - static strings borrow buf from a program-store line's text, and
//     record the origin line number and the store's generation at the
//     time of borrowing, so an edit of that line can be detected lazily
//     (see invalidateLine).
//
// The shared empty string is a package-level singleton exempt from
// ref-counting, per spec.md §3.
type stringRef struct {
	next   *stringRef
	buf    []byte
	refs   int
	static bool
	origin int // originating line number, static strings only
	gen    int // program store generation at borrow time, static only
}

// emptyStringRef is the shared, un-ref-counted empty string.
var emptyStringRef = &stringRef{buf: []byte{}}

func (s *stringRef) String() string {
	if s == nil {
		return ""
	}
	return string(s.buf)
}

func (s *stringRef) len() int { return len(s.buf) }

// stringHeap owns the linked list of dynamic and static string nodes and
// performs deferred, lazy sweeping of zero-ref nodes.
type stringHeap struct {
	head       *stringRef
	needsSweep bool
}

// newDynamic allocates a new owned, ref-count-1 dynamic string and links
// it into the heap.
func (h *stringHeap) newDynamic(b []byte) *stringRef {
	if len(b) == 0 {
		return emptyStringRef
	}
	s := &stringRef{buf: b, refs: 1}
	s.next = h.head
	h.head = s
	return s
}

// newStatic allocates a new ref-count-1 static string borrowing b (a
// sub-slice of a program line's text) and links it into the heap.
func (h *stringHeap) newStatic(b []byte, origin, gen int) *stringRef {
	if len(b) == 0 {
		return emptyStringRef
	}
	s := &stringRef{buf: b, refs: 1, static: true, origin: origin, gen: gen}
	s.next = h.head
	h.head = s
	return s
}

// retain increments s's reference count. The shared empty string and nil
// are no-ops.
func (h *stringHeap) retain(s *stringRef) *stringRef {
	if s != nil && s != emptyStringRef {
		s.refs++
	}
	return s
}

// release decrements s's reference count, marking the heap as needing a
// sweep once it reaches zero. The shared empty string and nil are no-ops.
func (h *stringHeap) release(s *stringRef) {
	if s == nil || s == emptyStringRef {
		return
	}
	s.refs--
	if s.refs <= 0 {
		h.needsSweep = true
	}
}

// sweep runs once per dispatch iteration (when needed) unlinking and
// freeing zero-ref nodes, per spec.md §4.2.
func (h *stringHeap) sweep() {
	if !h.needsSweep {
		return
	}
	h.needsSweep = false

	var prev *stringRef
	for cur := h.head; cur != nil; {
		next := cur.next
		if cur.refs <= 0 {
			if prev == nil {
				h.head = next
			} else {
				prev.next = next
			}
			cur.next = nil
			cur.buf = nil
		} else {
			prev = cur
		}
		cur = next
	}
}

// invalidateLine walks the heap swapping the buffer of any static string
// that still borrows line n's text (and was borrowed before generation
// gen, i.e. this edit) for the shared empty-string buffer, per spec.md
// §3's static-string invalidation invariant. Length is not preserved
// (unlike the reference C implementation, which keeps the stale length
// alongside a redirected pointer): callers of a Go string-heap handle
// always observe len(buf), so there is no way to keep a non-zero,
// meaningless length without also lying about Go slice length.
func (h *stringHeap) invalidateLine(n, gen int) {
	for cur := h.head; cur != nil; cur = cur.next {
		if cur.static && cur.origin == n && cur.gen < gen {
			cur.buf = emptyStringRef.buf
		}
	}
}

// concat allocates a new dynamic string by concatenating a and b, used by
// ADD when both operands are strings.
func (h *stringHeap) concat(a, b *stringRef) *stringRef {
	buf := make([]byte, 0, a.len()+b.len())
	buf = append(buf, a.buf...)
	buf = append(buf, b.buf...)
	return h.newDynamic(buf)
}

// ownedCopy returns a dynamic string with its own backing buffer,
// guaranteed not to alias a program line's text, for use where a caller
// needs a NUL-terminated owned allocation (os-call interop, in the
// reference implementation's terms). Go strings are never NUL-terminated
// internally, but the copy-to-owned semantics still matter: editing the
// program store must not retroactively change a string already handed to
// a caller that intends to keep it past the current statement.
func (h *stringHeap) ownedCopy(s *stringRef) *stringRef {
	if !s.static {
		h.retain(s)
		return s
	}
	buf := make([]byte, len(s.buf))
	copy(buf, s.buf)
	return h.newDynamic(buf)
}
