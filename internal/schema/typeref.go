package schema

import "sync"

// TypeRef is a reference to a type: either a named *Type or a List / NonNull
// wrapper around another reference.
type TypeRef interface {
	// NamedType unwraps every wrapper and returns the innermost named type.
	NamedType() *Type
	String() string
}

// List is the list-of wrapper.
type List struct {
	ofType TypeRef
}

// ListOf wraps t in a list.
func ListOf(t TypeRef) *List { return &List{ofType: t} }

// OfType returns the wrapped reference.
func (l *List) OfType() TypeRef { return Deref(l.ofType) }

func (l *List) NamedType() *Type { return namedTypeOf(l.OfType()) }

func (l *List) String() string { return "[" + typeString(l.ofType) + "]" }

// NonNull is the non-null wrapper.
type NonNull struct {
	ofType TypeRef
}

// NonNullOf wraps t as non-null. Wrapping a NonNull again panics.
func NonNullOf(t TypeRef) *NonNull {
	if _, ok := t.(*NonNull); ok {
		panic("schema: NonNull of NonNull " + t.String())
	}
	return &NonNull{ofType: t}
}

// OfType returns the wrapped reference.
func (n *NonNull) OfType() TypeRef { return Deref(n.ofType) }

func (n *NonNull) NamedType() *Type { return namedTypeOf(n.OfType()) }

func (n *NonNull) String() string { return typeString(n.ofType) + "!" }

// Lazy defers building a reference until first use, so types can refer to
// themselves or to types declared later.
func Lazy(fn func() TypeRef) TypeRef {
	return &lazyRef{fn: fn}
}

type lazyRef struct {
	once sync.Once
	fn   func() TypeRef
	ref  TypeRef
}

func (l *lazyRef) get() TypeRef {
	l.once.Do(func() { l.ref = l.fn() })
	return l.ref
}

func (l *lazyRef) NamedType() *Type { return namedTypeOf(Deref(l)) }

func (l *lazyRef) String() string { return typeString(Deref(l)) }

// Deref resolves lazy references. Any other reference is returned as is.
func Deref(t TypeRef) TypeRef {
	for {
		lz, ok := t.(*lazyRef)
		if !ok {
			return t
		}
		t = lz.get()
	}
}

func namedTypeOf(t TypeRef) *Type {
	if t == nil {
		return nil
	}
	return t.NamedType()
}

func typeString(t TypeRef) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// IsNonNull reports whether t is a NonNull wrapper.
func IsNonNull(t TypeRef) bool {
	_, ok := Deref(t).(*NonNull)
	return ok
}

// IsList reports whether t is a list, possibly wrapped in NonNull.
func IsList(t TypeRef) bool {
	switch v := Deref(t).(type) {
	case *List:
		return true
	case *NonNull:
		_, ok := v.OfType().(*List)
		return ok
	}
	return false
}

// NullableType strips one NonNull wrapper if present.
func NullableType(t TypeRef) TypeRef {
	if nn, ok := Deref(t).(*NonNull); ok {
		return nn.OfType()
	}
	return Deref(t)
}
