package executor

import (
	"context"

	schema "github.com/hanpama/graphcore/internal/schema"
)

// Runtime defines the host integration surface for field resolution,
// abstract type resolution, and leaf-value serialization used by the Executor.
//
// General contract
//   - ResolveField is called once per response key, in the order keys were
//     collected from the selection set, before the key's value is completed.
//   - The returned value may be a Future. The executor awaits it before
//     completion; awaiting honors ctx.
//   - Errors returned from any method are converted into located GraphQL errors.
//     If the field's return type is Non-Null, the Executor will propagate the
//     null up to the nearest nullable ancestor.
//   - With WithMaxConcurrency > 1, ResolveType and SerializeLeafValue may be
//     called from several goroutines at once. Implementations must be safe for
//     concurrent use and must not mutate source or args values.
//
// Abstract types and leaf values
//   - ResolveType must return an object type that is a possible type of the
//     abstract type in the executing schema; otherwise the field fails.
//   - SerializeLeafValue must coerce/serialize scalars and enums into JSON-safe
//     Go values. For enums, return the enum name as string.
type Runtime interface {
	// ResolveField produces the raw value of one field. Return (nil, nil) to
	// produce a GraphQL null.
	ResolveField(ctx context.Context, task FieldTask) (any, error)

	// ResolveType determines the concrete object type for a value of an
	// abstract type (interface or union).
	ResolveType(ctx context.Context, abstract *schema.Type, value any) (*schema.Type, error)

	// SerializeLeafValue serializes a scalar or enum value to a JSON-safe Go value.
	SerializeLeafValue(ctx context.Context, leaf *schema.Type, value any) (any, error)
}

// FieldTask describes one field invocation.
type FieldTask struct {
	// ObjectType is the concrete object type the field is selected on.
	ObjectType *schema.Type
	// Field is the field definition.
	Field *schema.Field
	// Source is the parent object value (the root value for root fields).
	Source any
	// Args are the field arguments, coerced to Go values per the schema.
	Args map[string]any
	// Path is the response path of the field.
	Path Path
}

// SchemaRuntime resolves through the schema itself: field resolvers (falling
// back to DefaultResolve), type resolvers of abstract types, and the
// coercion of scalar and enum types.
type SchemaRuntime struct{}

func (SchemaRuntime) ResolveField(ctx context.Context, task FieldTask) (any, error) {
	if resolve := task.Field.Resolver(); resolve != nil {
		return resolve(ctx, schema.ResolveParams{
			ObjectType: task.ObjectType,
			Field:      task.Field,
			Source:     task.Source,
			Args:       task.Args,
		})
	}
	return DefaultResolve(task.Source, task.Field.Name())
}

func (SchemaRuntime) ResolveType(ctx context.Context, abstract *schema.Type, value any) (*schema.Type, error) {
	return abstract.ResolveType(ctx, value)
}

func (SchemaRuntime) SerializeLeafValue(ctx context.Context, leaf *schema.Type, value any) (any, error) {
	return leaf.Coerce(value)
}
