package executor

import (
	"context"
	"sync"

	schema "github.com/hanpama/graphcore/internal/schema"
)

// MockResolver resolves a single field; MockRuntime dispatches to it by
// "ObjectType.Field" in tests.
type MockResolver func(ctx context.Context, source any, args map[string]any) (any, error)

// NewMockValueResolver returns a MockResolver that always returns the provided value.
func NewMockValueResolver(val any) MockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return val, nil
	}
}

// NewMockErrorResolver returns a MockResolver that always returns the provided error.
func NewMockErrorResolver(err error) MockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return nil, err
	}
}

// Call represents a single field invocation record.
type Call struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
}

// MockRuntime implements Runtime with a single resolver registry and a single call log.
// Fields without a registered resolver fall back to DefaultResolve.
type MockRuntime struct {
	mu        sync.Mutex
	resolvers map[string]MockResolver
	calls     []Call

	typeResolver func(value any) (*schema.Type, error)
	serializer   func(val any, t *schema.Type) (any, error)
}

// NewMockRuntime creates a MockRuntime with the provided resolvers.
// The resolvers map keys are of the form "ObjectType.Field".
func NewMockRuntime(resolvers map[string]MockResolver) *MockRuntime {
	m := &MockRuntime{resolvers: make(map[string]MockResolver)}
	for k, v := range resolvers {
		m.resolvers[k] = v
	}
	return m
}

// SetResolver registers or updates a resolver for the given object type and field.
func (m *MockRuntime) SetResolver(objectType, field string, resolver MockResolver) {
	key := objectType + "." + field
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[key] = resolver
}

// SetTypeResolver overrides abstract type resolution. By default the
// abstract type's own resolver is used.
func (m *MockRuntime) SetTypeResolver(f func(value any) (*schema.Type, error)) {
	m.mu.Lock()
	m.typeResolver = f
	m.mu.Unlock()
}

// SetSerializer overrides leaf serialization. By default the leaf type's
// coercion is used.
func (m *MockRuntime) SetSerializer(f func(val any, t *schema.Type) (any, error)) {
	m.mu.Lock()
	m.serializer = f
	m.mu.Unlock()
}

// ResolveField implements Runtime.ResolveField and logs the call.
func (m *MockRuntime) ResolveField(ctx context.Context, task FieldTask) (any, error) {
	objectType, field := task.ObjectType.Name(), task.Field.Name()

	m.mu.Lock()
	r := m.resolvers[objectType+"."+field]
	m.calls = append(m.calls, Call{
		ObjectType: objectType,
		Field:      field,
		Source:     task.Source,
		Args:       task.Args,
	})
	m.mu.Unlock()

	if r == nil {
		return DefaultResolve(task.Source, field)
	}
	return r(ctx, task.Source, task.Args)
}

// ResolveType implements Runtime.ResolveType
func (m *MockRuntime) ResolveType(ctx context.Context, abstract *schema.Type, value any) (*schema.Type, error) {
	m.mu.Lock()
	f := m.typeResolver
	m.mu.Unlock()
	if f == nil {
		return abstract.ResolveType(ctx, value)
	}
	return f(value)
}

// SerializeLeafValue implements Runtime.SerializeLeafValue
func (m *MockRuntime) SerializeLeafValue(ctx context.Context, leaf *schema.Type, value any) (any, error) {
	m.mu.Lock()
	f := m.serializer
	m.mu.Unlock()
	if f == nil {
		return leaf.Coerce(value)
	}
	return f(value, leaf)
}

// GetCalls returns a copy of the recorded calls in order.
func (m *MockRuntime) GetCalls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls (resolvers remain).
func (m *MockRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
