package vm

// Kind discriminates the tagged union stored in a Value.
type Kind uint8

const (
	// KindNone marks an uninitialized or transient slot. Popping one where
	// a typed value is expected is always a VM invariant violation.
	KindNone Kind = iota
	KindNumber
	KindString
	KindVarRef
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindVarRef:
		return "varref"
	default:
		return "none"
	}
}

// Value is the tagged cell pushed and popped by every expression-stack
// opcode. It is a small concrete struct rather than an interface{}, so
// that the expression stack is a plain slice with no per-push allocation
// for the common numeric case.
type Value struct {
	Kind Kind
	Num  Number
	Str  *stringRef
	Ref  VarRef
}

// NumberValue wraps n as a Value.
func NumberValue(n Number) Value { return Value{Kind: KindNumber, Num: n} }

// StringValue wraps a retained string-heap handle as a Value. Callers
// transfer ownership of one reference to the returned Value.
func StringValue(s *stringRef) Value { return Value{Kind: KindString, Str: s} }

// VarRefValue wraps a variable reference as a Value.
func VarRefValue(r VarRef) Value { return Value{Kind: KindVarRef, Ref: r} }

// IsNumber reports whether v holds a Number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// IsString reports whether v holds a string-heap handle.
func (v Value) IsString() bool { return v.Kind == KindString }

// RefKind discriminates the two addressable variable shapes.
type RefKind uint8

const (
	RefScalar RefKind = iota
	RefArrayElem
)

// VarRef identifies one scalar variable slot or one array element, by
// letter and element kind rather than by raw pointer (spec.md §9): it
// stays valid to copy and compare across opcodes and is
// resolved against the VarStore only when actually loaded or stored.
type VarRef struct {
	Kind   RefKind
	Letter byte // 'A'..'Z'
	IsStr  bool
	Index  uint // flat element index, valid when Kind == RefArrayElem
}

func (r VarRef) letterIndex() int { return int(r.Letter - 'A') }
