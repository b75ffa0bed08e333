package schema

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	config "github.com/hanpama/graphcore/internal/config"
)

// TypeKind represents the kind of a named GraphQL type
type TypeKind string

const (
	TypeKindScalar    TypeKind = "SCALAR"
	TypeKindObject    TypeKind = "OBJECT"
	TypeKindInterface TypeKind = "INTERFACE"
	TypeKindUnion     TypeKind = "UNION"
	TypeKindEnum      TypeKind = "ENUM"
)

// CoerceFunc serializes a resolved value of a leaf type.
type CoerceFunc func(value any) (any, error)

// ResolveTypeFunc picks the concrete object type of a value of an abstract type.
type ResolveTypeFunc func(ctx context.Context, value any) (*Type, error)

var ErrNotCoercible = errors.New("type has no coercion")

// Type is a named type (scalar, object, interface, union or enum). Its
// attributes live in a configuration; the accessors below are the only
// members it answers.
type Type struct {
	kind TypeKind
	cfg  *config.Configuration
}

func newType(kind TypeKind, class *config.Class, args []any) (*Type, error) {
	cfg, err := class.New(args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return &Type{kind: kind, cfg: cfg}, nil
}

func must(t *Type, err error) *Type {
	if err != nil {
		panic(err)
	}
	return t
}

// NewScalar builds a scalar type from options, blocks or an adopted
// configuration (see config.Class.New).
func NewScalar(args ...any) (*Type, error) { return newType(TypeKindScalar, ScalarClass, args) }

// NewObject builds an object type.
func NewObject(args ...any) (*Type, error) { return newType(TypeKindObject, ObjectClass, args) }

// NewInterface builds an interface type.
func NewInterface(args ...any) (*Type, error) {
	return newType(TypeKindInterface, InterfaceClass, args)
}

// NewUnion builds a union type.
func NewUnion(args ...any) (*Type, error) { return newType(TypeKindUnion, UnionClass, args) }

// NewEnum builds an enum type.
func NewEnum(args ...any) (*Type, error) { return newType(TypeKindEnum, EnumClass, args) }

func MustScalar(args ...any) *Type    { return must(NewScalar(args...)) }
func MustObject(args ...any) *Type    { return must(NewObject(args...)) }
func MustInterface(args ...any) *Type { return must(NewInterface(args...)) }
func MustUnion(args ...any) *Type     { return must(NewUnion(args...)) }
func MustEnum(args ...any) *Type      { return must(NewEnum(args...)) }

func (t *Type) Kind() TypeKind                { return t.kind }
func (t *Type) Name() string                  { return Name.Get(t.cfg) }
func (t *Type) Description() string           { return Description.Get(t.cfg) }
func (t *Type) Config() *config.Configuration { return t.cfg }

// NamedType returns t itself; it makes *Type a TypeRef.
func (t *Type) NamedType() *Type { return t }

func (t *Type) String() string { return t.Name() }

// Attr forwards to the configuration. Attributes the type's class does not
// declare fail with config.ErrUnknownAttribute.
func (t *Type) Attr(name string) (any, error) { return t.cfg.Get(name) }

// Valid reports whether every declared attribute has been assigned.
func (t *Type) Valid() bool { return t.cfg.Valid() }

// Fields returns the fields of an object or interface type in declaration order.
func (t *Type) Fields() []*Field { return Fields.Get(t.cfg) }

// Field returns the field named name, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields() {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Interfaces returns the interfaces an object type implements.
func (t *Type) Interfaces() []*Type { return Interfaces.Get(t.cfg) }

// Implements reports whether t declares the interface named iface.
func (t *Type) Implements(iface string) bool {
	for _, i := range t.Interfaces() {
		if i.Name() == iface {
			return true
		}
	}
	return false
}

// UnionTypes returns the member types of a union.
func (t *Type) UnionTypes() []*Type { return Types.Get(t.cfg) }

// EnumValues returns the values of an enum type.
func (t *Type) EnumValues() []*EnumValue { return Values.Get(t.cfg) }

// EnumValue returns the enum value named name, or nil.
func (t *Type) EnumValue(name string) *EnumValue {
	for _, v := range t.EnumValues() {
		if v.Name() == name {
			return v
		}
	}
	return nil
}

// Coerce serializes a resolved value of a scalar or enum type.
func (t *Type) Coerce(value any) (any, error) {
	switch t.kind {
	case TypeKindScalar:
		fn := Coerce.Get(t.cfg)
		if fn == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotCoercible, t.Name())
		}
		return fn(value)
	case TypeKindEnum:
		for _, ev := range t.EnumValues() {
			if reflect.DeepEqual(ev.Value(), value) {
				return ev.Name(), nil
			}
		}
		if s, ok := value.(string); ok && t.EnumValue(s) != nil {
			return s, nil
		}
		return nil, fmt.Errorf("enum %s cannot represent value: %v", t.Name(), value)
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrNotCoercible, t.Name(), t.kind)
	}
}

// ResolveType picks the concrete object type of value for an interface or union.
func (t *Type) ResolveType(ctx context.Context, value any) (*Type, error) {
	fn := TypeResolver.Get(t.cfg)
	if fn == nil {
		return nil, fmt.Errorf("abstract type %s has no type resolver", t.Name())
	}
	return fn(ctx, value)
}

// IsLeaf reports whether the type is a scalar or an enum.
func (t *Type) IsLeaf() bool { return t.kind == TypeKindScalar || t.kind == TypeKindEnum }

// IsAbstract reports whether the type is an interface or a union.
func (t *Type) IsAbstract() bool { return t.kind == TypeKindInterface || t.kind == TypeKindUnion }

// Validate checks the type and everything it owns for completeness.
func (t *Type) Validate() error {
	if err := t.cfg.Validate(); err != nil {
		return err
	}
	switch t.kind {
	case TypeKindObject, TypeKindInterface:
		if len(t.Fields()) == 0 {
			return fmt.Errorf("%s %s must define one or more fields", t.kind, t.Name())
		}
		for _, f := range t.Fields() {
			if err := f.Validate(); err != nil {
				return fmt.Errorf("%s.%s: %w", t.Name(), f.Name(), err)
			}
		}
		for _, i := range t.Interfaces() {
			if i.Kind() != TypeKindInterface {
				return fmt.Errorf("%s cannot implement %s %s", t.Name(), i.Kind(), i.Name())
			}
		}
	case TypeKindUnion:
		for _, m := range t.UnionTypes() {
			if m.Kind() != TypeKindObject {
				return fmt.Errorf("union %s member %s must be an object type", t.Name(), m.Name())
			}
		}
	case TypeKindEnum:
		for _, v := range t.EnumValues() {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("%s.%s: %w", t.Name(), v.Name(), err)
			}
		}
	}
	return nil
}

// Implements appends interfaces to an object configuration.
func Implements(cfg *config.Configuration, ifaces ...*Type) *config.Configuration {
	return config.Append(Interfaces, cfg, ifaces...)
}

// Members appends object types to a union configuration.
func Members(cfg *config.Configuration, objs ...*Type) *config.Configuration {
	return config.Append(Types, cfg, objs...)
}
