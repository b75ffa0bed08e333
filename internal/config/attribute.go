package config

import (
	"fmt"
	"reflect"
)

// Declarable is implemented by attributes that can be declared on a Class.
type Declarable interface {
	declaration() *declaration
}

type declaration struct {
	name       string
	hasDefault bool
	def        any
	accept     func(any) (any, bool)
}

// AttributeOption customizes an attribute declaration.
type AttributeOption func(*declaration)

// Default makes the attribute present from construction with value v.
func Default(v any) AttributeOption {
	return func(d *declaration) {
		d.hasDefault = true
		d.def = v
	}
}

// Attribute is a typed accessor for one declared attribute. The same
// attribute may be declared on several classes.
type Attribute[T any] struct {
	decl *declaration
}

// NewAttribute creates an attribute holding values of type T. A Default that
// does not fit T panics.
func NewAttribute[T any](name string, opts ...AttributeOption) *Attribute[T] {
	d := &declaration{name: name, accept: acceptFunc[T]()}
	for _, opt := range opts {
		opt(d)
	}
	if d.hasDefault {
		v, ok := d.accept(d.def)
		if !ok {
			panic(fmt.Sprintf("config: default for %q is %T, not %s", name, d.def, reflect.TypeOf((*T)(nil)).Elem()))
		}
		d.def = v
	}
	return &Attribute[T]{decl: d}
}

// Declare creates an attribute and declares it on c.
func Declare[T any](c *Class, name string, opts ...AttributeOption) *Attribute[T] {
	a := NewAttribute[T](name, opts...)
	c.Declare(a)
	return a
}

func (a *Attribute[T]) declaration() *declaration { return a.decl }

// Name returns the attribute name.
func (a *Attribute[T]) Name() string { return a.decl.name }

// Get returns the assigned value, or the zero value when unset.
func (a *Attribute[T]) Get(cfg *Configuration) T {
	v, _ := a.Lookup(cfg)
	return v
}

// Lookup returns the assigned value and whether it is present.
func (a *Attribute[T]) Lookup(cfg *Configuration) (T, bool) {
	var zero T
	if cfg == nil {
		return zero, false
	}
	raw, ok := cfg.values[a.decl.name]
	if !ok || raw == nil {
		return zero, ok
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set assigns v. Configurations whose class does not declare the attribute
// record ErrUnknownAttribute.
func (a *Attribute[T]) Set(cfg *Configuration, v T) *Configuration {
	return cfg.Set(a.decl.name, v)
}

// IsSet is the presence predicate of the attribute.
func (a *Attribute[T]) IsSet(cfg *Configuration) bool {
	return cfg != nil && cfg.Has(a.decl.name)
}

// Append adds items to a slice-valued attribute.
func Append[E any](a *Attribute[[]E], cfg *Configuration, items ...E) *Configuration {
	current := a.Get(cfg)
	next := make([]E, 0, len(current)+len(items))
	next = append(next, current...)
	next = append(next, items...)
	return a.Set(cfg, next)
}

func acceptFunc[T any]() func(any) (any, bool) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	nilable := false
	switch typ.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		nilable = true
	}
	return func(v any) (any, bool) {
		if v == nil {
			if nilable {
				return nil, true
			}
			return nil, false
		}
		if t, ok := v.(T); ok {
			return t, true
		}
		// untyped function literals and named function types of the same shape
		rv := reflect.ValueOf(v)
		if rv.Type().ConvertibleTo(typ) && rv.Kind() == typ.Kind() && (typ.Kind() == reflect.Func || typ.Kind() == reflect.Slice || typ.Kind() == reflect.Map) {
			return rv.Convert(typ).Interface(), true
		}
		return nil, false
	}
}
