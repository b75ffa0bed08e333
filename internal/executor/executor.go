package executor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/jensneuse/abstractlogger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	eventbus "github.com/hanpama/graphcore/internal/eventbus"
	events "github.com/hanpama/graphcore/internal/events"
	language "github.com/hanpama/graphcore/internal/language"
	reqid "github.com/hanpama/graphcore/internal/reqid"
	schema "github.com/hanpama/graphcore/internal/schema"
)

const typenameField = "__typename"

// ExecutionContext is the read-only input of one evaluation: the schema, the
// document fragments are looked up in, and coerced variable values.
type ExecutionContext struct {
	Schema    *schema.Schema
	Document  *language.QueryDocument
	Variables map[string]any
}

// executionState holds the state during query execution
type executionState struct {
	ctx       context.Context
	runtime   Runtime
	logger    abstractlogger.Logger
	schema    *schema.Schema
	document  *language.QueryDocument
	variables map[string]any

	// sem bounds concurrent completion; nil means sequential.
	sem *semaphore.Weighted

	mu     sync.Mutex
	errors []GraphQLError
}

type Executor struct {
	schema *schema.Schema
	opt    *Options
}

func NewExecutor(sch *schema.Schema, opts ...Option) *Executor {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	if o.Runtime == nil {
		o.Runtime = SchemaRuntime{}
	}
	if o.Logger == nil {
		o.Logger = abstractlogger.NoopLogger
	}
	return &Executor{schema: sch, opt: o}
}

// ExecuteRequest selects the operation, coerces variables and evaluates the
// operation's selection set against the matching root type.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	operation, err := language.Operation(document, operationName)
	if err != nil {
		return requestError(err)
	}

	var rootType *schema.Type
	switch operation.Operation {
	case language.Query:
		rootType = e.schema.Query()
	case language.Mutation:
		rootType = e.schema.Mutation()
	default:
		return requestError(fmt.Errorf("unsupported operation type: %s", operation.Operation))
	}
	if rootType == nil {
		return requestError(fmt.Errorf("root type not found for %s operation", operation.Operation))
	}

	coercedVariableValues, err := coerceVariableValues(e.schema, operation, variableValues)
	if err != nil {
		return requestError(err)
	}

	ec := &ExecutionContext{Schema: e.schema, Document: document, Variables: coercedVariableValues}
	return e.evaluate(ctx, ec, operation.Name, string(operation.Operation), rootType, initialValue, operation.SelectionSet)
}

// Evaluate resolves selectionSet against object, an instance of objectType,
// and returns the response object along with every error recorded.
func (e *Executor) Evaluate(
	ctx context.Context,
	ec *ExecutionContext,
	objectType *schema.Type,
	object any,
	selectionSet language.SelectionSet,
) *ExecutionResult {
	if ec == nil || ec.Schema == nil {
		return requestError(errors.New("execution context has no schema"))
	}
	if objectType == nil || objectType.Kind() != schema.TypeKindObject {
		return requestError(fmt.Errorf("%w: cannot evaluate a selection set on %v", ErrUnsupportedType, objectType))
	}
	return e.evaluate(ctx, ec, "", "", objectType, object, selectionSet)
}

func (e *Executor) evaluate(
	ctx context.Context,
	ec *ExecutionContext,
	operationName, operationType string,
	objectType *schema.Type,
	object any,
	selectionSet language.SelectionSet,
) *ExecutionResult {
	if _, ok := ctx.Deadline(); !ok && e.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opt.Timeout)
		defer cancel()
	}
	ctx, _ = reqid.Ensure(ctx)

	start := time.Now()
	eventbus.Publish(ctx, events.ExecutionStart{
		OperationName: operationName,
		OperationType: operationType,
		RootType:      objectType.Name(),
	})

	state := &executionState{
		ctx:       ctx,
		runtime:   e.opt.Runtime,
		logger:    e.opt.Logger,
		schema:    ec.Schema,
		document:  ec.Document,
		variables: ec.Variables,
	}
	if e.opt.MaxConcurrency > 1 {
		state.sem = semaphore.NewWeighted(int64(e.opt.MaxConcurrency))
	}

	result := &ExecutionResult{}
	data, err := executeSelectionSet(state, objectType, selectionSet, object, Path{})
	if err != nil {
		// a non-null failure reached the root
		state.addError(err, Path{})
	} else {
		result.Data = data
	}
	result.Errors = state.errors

	if eventbus.Enabled() {
		errs := make([]error, len(result.Errors))
		for i, gqlErr := range result.Errors {
			errs[i] = gqlErr
		}
		eventbus.Publish(ctx, events.ExecutionFinish{
			OperationName: operationName,
			OperationType: operationType,
			RootType:      objectType.Name(),
			Errors:        errs,
			Duration:      time.Since(start),
		})
	}
	return result
}

func requestError(err error) *ExecutionResult {
	return &ExecutionResult{Errors: []GraphQLError{newError(KindRequest, err, err.Error(), nil)}}
}

// fieldPlan is one response key whose resolver has run.
type fieldPlan struct {
	key    string
	fields []*language.Field
	def    *schema.Field // nil for __typename
	path   Path
	value  any
	err    error
}

// executeSelectionSet evaluates a selection set against one object. Keys
// appear in the result in collection order. A non-nil error means a
// non-null field failed and the whole object must be replaced by null.
func executeSelectionSet(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet, objectValue any, path Path) (ResultMap, error) {
	groupedFields := collectFields(state, objectType, selectionSet).orderedFields()

	if state.sem == nil || len(groupedFields) < 2 {
		resultMap := make(ResultMap, 0, len(groupedFields))
		for _, collectedField := range groupedFields {
			plan := resolveFieldGroup(state, objectType, objectValue, collectedField, path)
			if plan == nil {
				continue
			}
			value, err := completeField(state, plan)
			if err != nil {
				return nil, err
			}
			resultMap = append(resultMap, ResultField{Key: plan.key, Value: value})
		}
		return resultMap, nil
	}

	// resolvers run in collection order; completion fans out
	plans := make([]*fieldPlan, 0, len(groupedFields))
	for _, collectedField := range groupedFields {
		if plan := resolveFieldGroup(state, objectType, objectValue, collectedField, path); plan != nil {
			plans = append(plans, plan)
		}
	}
	resultMap := make(ResultMap, len(plans))
	err := state.forEach(len(plans), func(i int) error {
		value, err := completeField(state, plans[i])
		resultMap[i] = ResultField{Key: plans[i].key, Value: value}
		return err
	})
	if err != nil {
		return nil, err
	}
	return resultMap, nil
}

// resolveFieldGroup coerces arguments and invokes the resolver for one
// response key. It returns nil when the key names no field of objectType.
func resolveFieldGroup(state *executionState, objectType *schema.Type, objectValue any, collected collectedField, parentPath Path) *fieldPlan {
	field := collected.Fields[0]
	path := appendPath(parentPath, collected.ResponseName)
	plan := &fieldPlan{key: collected.ResponseName, fields: collected.Fields, path: path}

	if field.Name == typenameField {
		plan.value = objectType.Name()
		return plan
	}

	fieldDef := objectType.Field(field.Name)
	if fieldDef == nil {
		state.logger.Debug("executor: skipping unknown field",
			abstractlogger.String("type", objectType.Name()),
			abstractlogger.String("field", field.Name),
		)
		return nil
	}
	plan.def = fieldDef

	args, err := coerceArgumentValues(fieldDef, field.Arguments, state.variables)
	if err != nil {
		plan.err = newError(KindCoercion, err, err.Error(), path)
		return plan
	}

	task := FieldTask{
		ObjectType: objectType,
		Field:      fieldDef,
		Source:     objectValue,
		Args:       args,
		Path:       path,
	}
	start := time.Now()
	value, err := safeResolve(state.ctx, state.runtime, task)
	if eventbus.Enabled() {
		eventbus.Publish(state.ctx, events.FieldResolved{
			ObjectType: objectType.Name(),
			Field:      fieldDef.Name(),
			Path:       path.String(),
			Start:      start,
			Duration:   time.Since(start),
			Err:        err,
		})
	}
	if err != nil {
		plan.err = state.resolverError(err, path)
		return plan
	}
	plan.value = value
	return plan
}

// completeField completes a resolved key. Failures of nullable fields are
// recorded and the key becomes null; failures of non-null fields are
// returned for the parent to absorb.
func completeField(state *executionState, plan *fieldPlan) (any, error) {
	if plan.def == nil {
		return plan.value, nil
	}
	fieldType := plan.def.Type()

	err := plan.err
	var completed any
	if err == nil {
		completed, err = completeValue(state, fieldType, plan.fields, plan.value, plan.path)
	}
	if err != nil {
		if schema.IsNonNull(fieldType) {
			return nil, err
		}
		state.addError(err, plan.path)
		return nil, nil
	}
	return completed, nil
}

// completeValue turns a resolved value into its response form according to
// fieldType. A nil result means null. A non-nil error means the value could
// not be produced; it has not been recorded yet.
func completeValue(state *executionState, fieldType schema.TypeRef, fields []*language.Field, result any, path Path) (any, error) {
	result, err := await(state.ctx, result)
	if err != nil {
		return nil, state.resolverError(err, path)
	}

	switch t := schema.Deref(fieldType).(type) {
	case *schema.NonNull:
		completed, err := completeValue(state, t.OfType(), fields, result, path)
		if err != nil {
			return nil, err
		}
		if completed == nil {
			return nil, nonNullError(path)
		}
		return completed, nil

	case *schema.List:
		if isNullish(result) {
			return nil, nil
		}
		return completeListValue(state, t, fields, result, path)

	case *schema.Type:
		if isNullish(result) {
			return nil, nil
		}
		switch t.Kind() {
		case schema.TypeKindScalar, schema.TypeKindEnum:
			serialized, err := state.runtime.SerializeLeafValue(state.ctx, t, result)
			if err != nil {
				return nil, newError(KindCoercion, err, err.Error(), path)
			}
			if isNullish(serialized) {
				return nil, nil
			}
			return serialized, nil
		case schema.TypeKindObject:
			return completeObjectValue(state, t, fields, result, path)
		case schema.TypeKindInterface, schema.TypeKindUnion:
			return completeAbstractValue(state, t, fields, result, path)
		}
	}

	err = fmt.Errorf("%w: %v", ErrUnsupportedType, fieldType)
	state.logger.Error("executor: cannot complete value",
		abstractlogger.String("path", path.String()),
		abstractlogger.Error(err),
	)
	return nil, newError(KindSchema, err, err.Error(), path)
}

// completeListValue completes every element of a list value. A failed
// element of a nullable item type becomes null; of a non-null item type it
// fails the whole list.
func completeListValue(state *executionState, listType *schema.List, fields []*language.Field, result any, path Path) (any, error) {
	var items []any
	if direct, ok := result.([]any); ok {
		items = direct
	} else {
		rv := reflect.ValueOf(result)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			err := fmt.Errorf("Expected list value, got %T", result)
			return nil, newError(KindCoercion, err, err.Error(), path)
		}
		items = make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
	}

	inner := listType.OfType()
	itemNonNull := schema.IsNonNull(inner)
	completed := make([]any, len(items))
	err := state.forEach(len(items), func(i int) error {
		p := appendPath(path, i)
		v, err := completeValue(state, inner, fields, items[i], p)
		if err != nil {
			if itemNonNull {
				return err
			}
			state.addError(err, p)
			v = nil
		}
		completed[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func completeObjectValue(state *executionState, objectType *schema.Type, fields []*language.Field, result any, path Path) (any, error) {
	sub := mergeSelectionSets(fields)
	resultMap, err := executeSelectionSet(state, objectType, sub, result, path)
	if err != nil {
		return nil, err
	}
	return resultMap, nil
}

func completeAbstractValue(state *executionState, abstractType *schema.Type, fields []*language.Field, result any, path Path) (any, error) {
	objectType, err := state.runtime.ResolveType(state.ctx, abstractType, result)
	if err != nil {
		return nil, newError(KindSchema, err, err.Error(), path)
	}
	if objectType == nil || objectType.Kind() != schema.TypeKindObject || !state.schema.IsPossibleType(abstractType, objectType) {
		err := fmt.Errorf("Abstract type %s must resolve to an Object type at runtime. Got: %v", abstractType.Name(), objectType)
		return nil, newError(KindSchema, err, err.Error(), path)
	}
	return completeObjectValue(state, objectType, fields, result, path)
}

func nonNullError(path Path) GraphQLError {
	return newError(KindNonNull, ErrNonNull, fmt.Sprintf("Cannot return null for non-nullable field %s", path), path)
}

// resolverError logs a resolver failure and wraps it as a located error.
func (state *executionState) resolverError(err error, path Path) GraphQLError {
	var p *PanicError
	if errors.As(err, &p) {
		state.logger.Error("executor: resolver panicked",
			abstractlogger.String("path", path.String()),
			abstractlogger.Any("panic", p.Value),
			abstractlogger.String("stack", p.Stack),
		)
	} else {
		state.logger.Debug("executor: resolver failed",
			abstractlogger.String("path", path.String()),
			abstractlogger.Error(err),
		)
	}
	return newError(KindResolver, err, err.Error(), path)
}

// addError records err. Errors that are not already located GraphQL errors
// are attributed to path.
func (state *executionState) addError(err error, path Path) {
	var gqlErr GraphQLError
	if !errors.As(err, &gqlErr) {
		gqlErr = newError(KindResolver, err, err.Error(), path)
	}
	state.mu.Lock()
	state.errors = append(state.errors, gqlErr)
	state.mu.Unlock()
}

// forEach runs fn for 0..n-1. Sequential execution stops at the first
// error. Concurrent execution runs every index, returns the error of the
// lowest failing index and records the others. Work that cannot acquire the
// semaphore runs inline on the calling goroutine.
func (state *executionState) forEach(n int, fn func(i int) error) error {
	if state.sem == nil || n < 2 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		if state.sem.TryAcquire(1) {
			i := i
			g.Go(func() error {
				defer state.sem.Release(1)
				errs[i] = fn(i)
				return nil
			})
			continue
		}
		errs[i] = fn(i)
	}
	_ = g.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
			continue
		}
		state.addError(err, nil)
	}
	return first
}
