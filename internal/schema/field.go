package schema

import (
	"context"
	"fmt"

	config "github.com/hanpama/graphcore/internal/config"
)

// ResolveParams carries what a resolver sees for one field invocation.
type ResolveParams struct {
	ObjectType *Type
	Field      *Field
	Source     any
	Args       map[string]any
}

// ResolveFunc produces the raw value of a field. It may return a deferred
// value understood by the executor.
type ResolveFunc func(ctx context.Context, p ResolveParams) (any, error)

// Field is a field of an object or interface type.
type Field struct {
	cfg *config.Configuration
}

// NewField builds a field from options, blocks or an adopted configuration.
func NewField(args ...any) (*Field, error) {
	cfg, err := FieldClass.New(args...)
	if err != nil {
		return nil, fmt.Errorf("field: %w", err)
	}
	return &Field{cfg: cfg}, nil
}

func (f *Field) Name() string                  { return Name.Get(f.cfg) }
func (f *Field) Description() string           { return Description.Get(f.cfg) }
func (f *Field) Args() []*Argument             { return Args.Get(f.cfg) }
func (f *Field) Resolver() ResolveFunc         { return Resolve.Get(f.cfg) }
func (f *Field) DeprecationReason() string     { return DeprecationReason.Get(f.cfg) }
func (f *Field) IsDeprecated() bool            { return f.DeprecationReason() != "" }
func (f *Field) Config() *config.Configuration { return f.cfg }
func (f *Field) Valid() bool                   { return f.cfg.Valid() }
func (f *Field) Attr(name string) (any, error) { return f.cfg.Get(name) }

// Type returns the declared type with lazy references resolved.
func (f *Field) Type() TypeRef { return Deref(FieldType.Get(f.cfg)) }

// Arg returns the argument named name, or nil.
func (f *Field) Arg(name string) *Argument {
	for _, a := range f.Args() {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

func (f *Field) Validate() error {
	if err := f.cfg.Validate(); err != nil {
		return err
	}
	if f.Type() == nil || f.Type().NamedType() == nil {
		return fmt.Errorf("field %s has no type", f.Name())
	}
	for _, a := range f.Args() {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("argument %s: %w", a.Name(), err)
		}
	}
	return nil
}

// Argument is a field argument.
type Argument struct {
	cfg *config.Configuration
}

// NewArgument builds an argument from options, blocks or an adopted configuration.
func NewArgument(args ...any) (*Argument, error) {
	cfg, err := ArgumentClass.New(args...)
	if err != nil {
		return nil, fmt.Errorf("argument: %w", err)
	}
	return &Argument{cfg: cfg}, nil
}

func (a *Argument) Name() string                  { return Name.Get(a.cfg) }
func (a *Argument) Type() TypeRef                 { return Deref(FieldType.Get(a.cfg)) }
func (a *Argument) Description() string           { return Description.Get(a.cfg) }
func (a *Argument) DefaultValue() any             { return DefaultValue.Get(a.cfg) }
func (a *Argument) Config() *config.Configuration { return a.cfg }
func (a *Argument) Valid() bool                   { return a.cfg.Valid() }
func (a *Argument) Attr(name string) (any, error) { return a.cfg.Get(name) }

func (a *Argument) Validate() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if a.Type() == nil {
		return fmt.Errorf("argument %s has no type", a.Name())
	}
	if named := a.Type().NamedType(); named == nil || !named.IsLeaf() {
		return fmt.Errorf("argument %s must have a scalar or enum type", a.Name())
	}
	return nil
}

// EnumValue is one value of an enum type. Value is the internal
// representation resolvers return; Name is what the response carries.
type EnumValue struct {
	cfg *config.Configuration
}

// NewEnumValue builds an enum value from options, blocks or an adopted configuration.
func NewEnumValue(args ...any) (*EnumValue, error) {
	cfg, err := EnumValueClass.New(args...)
	if err != nil {
		return nil, fmt.Errorf("enum value: %w", err)
	}
	return &EnumValue{cfg: cfg}, nil
}

func (v *EnumValue) Name() string                  { return Name.Get(v.cfg) }
func (v *EnumValue) Description() string           { return Description.Get(v.cfg) }
func (v *EnumValue) DeprecationReason() string     { return DeprecationReason.Get(v.cfg) }
func (v *EnumValue) IsDeprecated() bool            { return v.DeprecationReason() != "" }
func (v *EnumValue) Config() *config.Configuration { return v.cfg }
func (v *EnumValue) Valid() bool                   { return v.cfg.Valid() }
func (v *EnumValue) Attr(name string) (any, error) { return v.cfg.Get(name) }
func (v *EnumValue) Validate() error               { return v.cfg.Validate() }

// Value returns the internal value, defaulting to the name.
func (v *EnumValue) Value() any {
	if val := Value.Get(v.cfg); val != nil {
		return val
	}
	return v.Name()
}

// AddField builds a field and appends it to an object or interface
// configuration. It is the builder form of
//
//	field :name, Type, description: "..." do ... end
//
// Failures are recorded on cfg.
func AddField(cfg *config.Configuration, name string, typ TypeRef, args ...any) *Field {
	opts := config.Options{"name": name}
	if typ != nil {
		opts["type"] = typ
	}
	f, err := NewField(append([]any{opts}, args...)...)
	if err != nil {
		cfg.Fail(err)
		return nil
	}
	config.Append(Fields, cfg, f)
	return f
}

// AddArgument builds an argument and appends it to a field configuration.
func AddArgument(cfg *config.Configuration, name string, typ TypeRef, args ...any) *Argument {
	opts := config.Options{"name": name}
	if typ != nil {
		opts["type"] = typ
	}
	a, err := NewArgument(append([]any{opts}, args...)...)
	if err != nil {
		cfg.Fail(err)
		return nil
	}
	config.Append(Args, cfg, a)
	return a
}

// AddValue builds an enum value and appends it to an enum configuration.
func AddValue(cfg *config.Configuration, name string, value any, args ...any) *EnumValue {
	v, err := NewEnumValue(append([]any{config.Options{"name": name, "value": value}}, args...)...)
	if err != nil {
		cfg.Fail(err)
		return nil
	}
	config.Append(Values, cfg, v)
	return v
}
