// Package config implements the declarative configuration framework used to
// build schema objects.
//
// A Class declares the attributes a kind of schema object carries. A
// Configuration holds the values assigned for one object and remembers which
// attributes were assigned. Attributes are typed accessors bound by name:
//
//	var name = config.NewAttribute[string]("name")
//	var human = config.NewClass("Object").Declare(name)
//
//	cfg, err := human.New(config.Options{"name": "Human"})
//	name.Get(cfg)   // "Human"
//	name.IsSet(cfg) // true
//
// Configurations are built from option maps, builder blocks, or by adopting a
// configuration that was partially built elsewhere (see Class.New).
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownAttribute is returned when a name is not declared on the class.
	ErrUnknownAttribute = errors.New("no such attribute")
	// ErrInvalidValue is returned when a value does not fit the attribute type.
	ErrInvalidValue = errors.New("invalid attribute value")
	// ErrIncomplete is returned by Validate when declared attributes are unset.
	ErrIncomplete = errors.New("incomplete configuration")
)

// Options maps attribute names to values. Each entry is applied as a setter call.
type Options map[string]any

// Block is a builder evaluated against a freshly created configuration.
type Block func(*Configuration)

// Class is the attribute registry shared by all configurations of one kind.
type Class struct {
	name  string
	attrs []*declaration
	index map[string]*declaration
}

// NewClass returns an empty class. name is only used in error messages.
func NewClass(name string) *Class {
	return &Class{name: name, index: make(map[string]*declaration)}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Declare registers attributes on the class. Declaring the same name twice
// panics.
func (c *Class) Declare(attrs ...Declarable) *Class {
	for _, a := range attrs {
		d := a.declaration()
		if _, exists := c.index[d.name]; exists {
			panic(fmt.Sprintf("config: attribute %q declared twice on %s", d.name, c.name))
		}
		c.index[d.name] = d
		c.attrs = append(c.attrs, d)
	}
	return c
}

// Attributes returns the declared attribute names in declaration order.
func (c *Class) Attributes() []string {
	names := make([]string, len(c.attrs))
	for i, d := range c.attrs {
		names[i] = d.name
	}
	return names
}

// Declares reports whether name is a declared attribute of the class.
func (c *Class) Declares(name string) bool {
	_, ok := c.index[name]
	return ok
}

// New builds a configuration.
//
// When the first argument is already a *Configuration of this class it is
// extended in place with the remaining arguments and returned, so partially
// built configurations can be handed to constructors. Otherwise a fresh
// configuration is created. Remaining arguments are applied in order:
// Options (or map[string]any) are applied as setter calls and Blocks (or
// func(*Configuration)) are run with the configuration as receiver.
func (c *Class) New(args ...any) (*Configuration, error) {
	var cfg *Configuration
	if len(args) > 0 {
		if existing, ok := args[0].(*Configuration); ok && existing != nil {
			if existing.class != c {
				return nil, fmt.Errorf("%w: cannot adopt %s configuration as %s", ErrInvalidValue, existing.class.name, c.name)
			}
			cfg = existing
			args = args[1:]
		}
	}
	if cfg == nil {
		cfg = c.blank()
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case Options:
			cfg.Extend(v)
		case map[string]any:
			cfg.Extend(v)
		case Block:
			cfg.Apply(v)
		case func(*Configuration):
			cfg.Apply(v)
		default:
			cfg.Fail(fmt.Errorf("%w: unsupported %s constructor argument %T", ErrInvalidValue, c.name, arg))
		}
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	return cfg, nil
}

func (c *Class) blank() *Configuration {
	cfg := &Configuration{class: c, values: make(map[string]any, len(c.attrs))}
	for _, d := range c.attrs {
		if d.hasDefault {
			cfg.values[d.name] = d.def
		}
	}
	return cfg
}

// Configuration holds the assigned attribute values of one schema object.
type Configuration struct {
	class  *Class
	values map[string]any
	err    error
}

// Class returns the class the configuration was created from.
func (cfg *Configuration) Class() *Class { return cfg.class }

// Set assigns an attribute by name. Unknown names and mistyped values are
// recorded and reported by Err; the first failure wins.
func (cfg *Configuration) Set(name string, value any) *Configuration {
	d, ok := cfg.class.index[name]
	if !ok {
		return cfg.Fail(fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, cfg.class.name, name))
	}
	v, ok := d.accept(value)
	if !ok {
		return cfg.Fail(fmt.Errorf("%w: %s.%s cannot hold %T", ErrInvalidValue, cfg.class.name, name, value))
	}
	cfg.values[name] = v
	return cfg
}

// Get returns the value of an attribute by name, or nil when it is unset.
// Names the class does not declare fail with ErrUnknownAttribute.
func (cfg *Configuration) Get(name string) (any, error) {
	if _, ok := cfg.class.index[name]; !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, cfg.class.name, name)
	}
	return cfg.values[name], nil
}

// Has reports whether the attribute has been assigned (or defaulted).
func (cfg *Configuration) Has(name string) bool {
	_, ok := cfg.values[name]
	return ok
}

// Extend applies opts as setter calls and returns the receiver. Keys are
// applied in sorted order so failures are reported deterministically.
func (cfg *Configuration) Extend(opts Options) *Configuration {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cfg.Set(k, opts[k])
	}
	return cfg
}

// Apply runs builder blocks against the configuration.
func (cfg *Configuration) Apply(blocks ...Block) *Configuration {
	for _, b := range blocks {
		if b != nil {
			b(cfg)
		}
	}
	return cfg
}

// Fail records err unless an earlier failure is already recorded.
func (cfg *Configuration) Fail(err error) *Configuration {
	if cfg.err == nil && err != nil {
		cfg.err = err
	}
	return cfg
}

// Err returns the first failure recorded while building the configuration.
func (cfg *Configuration) Err() error { return cfg.err }

// Valid reports whether every declared attribute has been assigned.
func (cfg *Configuration) Valid() bool {
	return len(cfg.Missing()) == 0
}

// Missing returns the declared attributes that are still unset.
func (cfg *Configuration) Missing() []string {
	var missing []string
	for _, d := range cfg.class.attrs {
		if _, ok := cfg.values[d.name]; !ok {
			missing = append(missing, d.name)
		}
	}
	return missing
}

// Validate returns the recorded build failure, or ErrIncomplete naming the
// unset attributes.
func (cfg *Configuration) Validate() error {
	if cfg.err != nil {
		return cfg.err
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s is missing %s", ErrIncomplete, cfg.class.name, strings.Join(missing, ", "))
	}
	return nil
}
