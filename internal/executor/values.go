package executor

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	language "github.com/hanpama/graphcore/internal/language"
	schema "github.com/hanpama/graphcore/internal/schema"
)

var errNotInputType = errors.New("is not an input type")

// coerceVariableValues coerces variable values according to their types
func coerceVariableValues(
	sch *schema.Schema,
	operation *language.OperationDefinition,
	variableValues map[string]any,
) (map[string]any, error) {
	if variableValues == nil {
		variableValues = make(map[string]any)
	}
	coerced := make(map[string]any)
	for _, varDef := range operation.VariableDefinitions {
		name := varDef.Variable
		t := varDef.Type
		ref, err := typeRefFromAST(sch, t)
		if err != nil {
			return nil, fmt.Errorf("variable $%s: %w", name, err)
		}
		val, ok := variableValues[name]
		if !ok {
			if v2, ok2 := variableValues[strings.TrimPrefix(name, "$")]; ok2 {
				val = v2
				ok = true
			}
		}
		if !ok {
			if varDef.DefaultValue != nil {
				val = valueFromAST(varDef.DefaultValue, nil)
			} else if t.NonNull {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, t.String())
			} else {
				continue
			}
		}
		if val == nil && t.NonNull {
			return nil, fmt.Errorf("variable $%s of type %s cannot be null", name, t.String())
		}
		cv, err := coerceInputValue(val, ref)
		if err != nil {
			return nil, fmt.Errorf("variable $%s of type %s cannot be coerced: %w", name, t.String(), err)
		}
		coerced[name] = cv
	}
	return coerced, nil
}

// coerceArgumentValues coerces argument values for a field. Arguments the
// field does not declare are ignored; declared ones that are absent take
// their default value.
func coerceArgumentValues(
	fieldDef *schema.Field,
	arguments language.ArgumentList,
	variableValues map[string]any,
) (map[string]any, error) {
	coerced := make(map[string]any)
	for _, argDef := range fieldDef.Args() {
		name := argDef.Name()
		var (
			val      any
			provided bool
		)
		if arg := arguments.ForName(name); arg != nil {
			if arg.Value.Kind != language.Variable {
				val, provided = valueFromAST(arg.Value, variableValues), true
			} else if v, ok := variableValues[arg.Value.Raw]; ok {
				// variables are coerced once per request
				if v == nil && schema.IsNonNull(argDef.Type()) {
					return nil, fmt.Errorf("argument '%s' of type %s cannot be null", name, argDef.Type())
				}
				coerced[name] = v
				continue
			}
		}
		if !provided {
			if argDef.DefaultValue() != nil {
				val, provided = argDef.DefaultValue(), true
			} else if schema.IsNonNull(argDef.Type()) {
				return nil, fmt.Errorf("argument '%s' of required type %s was not provided", name, argDef.Type())
			} else {
				continue
			}
		}
		cv, err := coerceInputValue(val, argDef.Type())
		if err != nil {
			return nil, fmt.Errorf("argument '%s' cannot be coerced: %w", name, err)
		}
		coerced[name] = cv
	}
	return coerced, nil
}

// valueFromAST converts an AST value to a Go value, substituting variables.
func valueFromAST(value *language.Value, variableValues map[string]any) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.Variable:
		if v, ok := variableValues[value.Raw]; ok {
			return v
		}
		return nil
	case language.IntValue:
		iv, _ := strconv.Atoi(value.Raw)
		return iv
	case language.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.StringValue, language.BlockValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.NullValue:
		return nil
	case language.EnumValue:
		return value.Raw
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = valueFromAST(c.Value, variableValues)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any)
		for _, f := range value.Children {
			m[f.Name] = valueFromAST(f.Value, variableValues)
		}
		return m
	default:
		return nil
	}
}

// coerceInputValue coerces a value to the specified input type: scalars
// through their coercion, enums from value names to internal values.
func coerceInputValue(value any, targetType schema.TypeRef) (any, error) {
	switch t := schema.Deref(targetType).(type) {
	case *schema.NonNull:
		if isNullish(value) {
			return nil, fmt.Errorf("cannot provide null for non-null type %s", t)
		}
		return coerceInputValue(value, t.OfType())

	case *schema.List:
		if isNullish(value) {
			return nil, nil
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			// Single value becomes a list of one
			item, err := coerceInputValue(value, t.OfType())
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			item, err := coerceInputValue(rv.Index(i).Interface(), t.OfType())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = item
		}
		return out, nil

	case *schema.Type:
		if isNullish(value) {
			return nil, nil
		}
		switch t.Kind() {
		case schema.TypeKindScalar:
			return t.Coerce(value)
		case schema.TypeKindEnum:
			if name, ok := value.(string); ok {
				if ev := t.EnumValue(name); ev != nil {
					return ev.Value(), nil
				}
			}
			// already coerced, e.g. a variable inside a list literal
			for _, ev := range t.EnumValues() {
				if reflect.DeepEqual(ev.Value(), value) {
					return value, nil
				}
			}
			return nil, fmt.Errorf("enum %s has no value %v", t.Name(), value)
		default:
			return nil, fmt.Errorf("%s %w", t.Name(), errNotInputType)
		}

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, targetType)
	}
}

// typeRefFromAST resolves a variable type against the schema.
func typeRefFromAST(sch *schema.Schema, t *language.Type) (schema.TypeRef, error) {
	if t == nil {
		return nil, fmt.Errorf("missing type")
	}
	if t.NonNull {
		inner, err := typeRefFromAST(sch, &language.Type{NamedType: t.NamedType, Elem: t.Elem})
		if err != nil {
			return nil, err
		}
		return schema.NonNullOf(inner), nil
	}
	if t.NamedType != "" {
		named := sch.Type(t.NamedType)
		if named == nil {
			return nil, fmt.Errorf("unknown type %s", t.NamedType)
		}
		return named, nil
	}
	if t.Elem != nil {
		inner, err := typeRefFromAST(sch, t.Elem)
		if err != nil {
			return nil, err
		}
		return schema.ListOf(inner), nil
	}
	return nil, fmt.Errorf("missing type")
}

// isNullish returns true for nil interfaces and typed nils (map, slice, ptr, interface)
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
