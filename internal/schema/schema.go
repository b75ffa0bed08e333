package schema

import (
	"fmt"
	"sort"

	config "github.com/hanpama/graphcore/internal/config"
)

// Schema is the set of named types reachable from the root types, keyed by
// name. Types reachable only as implementations of an interface must be
// listed under "types".
type Schema struct {
	cfg      *config.Configuration
	types    map[string]*Type
	possible map[string][]*Type
}

// NewSchema builds and validates a schema. Incomplete schema objects are
// reported here, before any execution.
func NewSchema(args ...any) (*Schema, error) {
	cfg, err := SchemaClass.New(args...)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	s := &Schema{cfg: cfg, types: make(map[string]*Type), possible: make(map[string][]*Type)}
	for _, t := range builtinScalars {
		s.types[t.Name()] = t
	}
	roots := []*Type{Query.Get(cfg), Mutation.Get(cfg)}
	roots = append(roots, ExtraTypes.Get(cfg)...)
	for _, t := range roots {
		if err := s.add(t); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}
	if q := s.Query(); q == nil {
		return nil, fmt.Errorf("schema: query root type is required")
	} else if q.Kind() != TypeKindObject {
		return nil, fmt.Errorf("schema: query root %s must be an object type", q.Name())
	}
	if m := s.Mutation(); m != nil && m.Kind() != TypeKindObject {
		return nil, fmt.Errorf("schema: mutation root %s must be an object type", m.Name())
	}
	for _, t := range s.Types() {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}
	s.indexPossibleTypes()
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(args ...any) *Schema {
	s, err := NewSchema(args...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) add(t *Type) error {
	if t == nil {
		return nil
	}
	name := t.Name()
	if existing, ok := s.types[name]; ok {
		if existing != t {
			return fmt.Errorf("type name %q is defined more than once", name)
		}
		return nil
	}
	s.types[name] = t
	for _, f := range t.Fields() {
		if ft := f.Type(); ft != nil {
			if err := s.add(ft.NamedType()); err != nil {
				return err
			}
		}
		for _, a := range f.Args() {
			if at := a.Type(); at != nil {
				if err := s.add(at.NamedType()); err != nil {
					return err
				}
			}
		}
	}
	for _, i := range t.Interfaces() {
		if err := s.add(i); err != nil {
			return err
		}
	}
	for _, m := range t.UnionTypes() {
		if err := s.add(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) indexPossibleTypes() {
	for _, t := range s.Types() {
		switch t.Kind() {
		case TypeKindUnion:
			s.possible[t.Name()] = append([]*Type(nil), t.UnionTypes()...)
		case TypeKindObject:
			for _, i := range t.Interfaces() {
				s.possible[i.Name()] = append(s.possible[i.Name()], t)
			}
		}
	}
}

// Query returns the query root type.
func (s *Schema) Query() *Type { return Query.Get(s.cfg) }

// Mutation returns the mutation root type (may be nil if absent).
func (s *Schema) Mutation() *Type { return Mutation.Get(s.cfg) }

// Type returns the named type, or nil.
func (s *Schema) Type(name string) *Type { return s.types[name] }

// Types returns every named type sorted by name.
func (s *Schema) Types() []*Type {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Type, len(names))
	for i, name := range names {
		out[i] = s.types[name]
	}
	return out
}

// PossibleTypes returns the object types an abstract type can resolve to,
// sorted by name for interfaces and in declaration order for unions.
func (s *Schema) PossibleTypes(abstract *Type) []*Type {
	return s.possible[abstract.Name()]
}

// IsPossibleType reports whether obj is a valid runtime type for abstract.
func (s *Schema) IsPossibleType(abstract, obj *Type) bool {
	if abstract == nil || obj == nil {
		return false
	}
	if abstract.Name() == obj.Name() {
		return abstract.Kind() == TypeKindObject
	}
	for _, t := range s.possible[abstract.Name()] {
		if t.Name() == obj.Name() {
			return true
		}
	}
	return false
}
