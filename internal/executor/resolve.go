package executor

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// DefaultResolve reads the field called name from source. It handles
// map[string]any and other string-keyed maps, struct fields (matched by a
// graphql or json tag, then case-insensitively by name) and exported
// methods taking no arguments and returning a value and optionally an error.
// Pointers are followed; a nil source resolves to nil.
func DefaultResolve(source any, name string) (any, error) {
	if source == nil {
		return nil, nil
	}
	if m, ok := source.(map[string]any); ok {
		return m[name], nil
	}

	orig := reflect.ValueOf(source)
	rv := orig
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct {
		if f, ok := structField(rv, name); ok {
			return f.Interface(), nil
		}
	}
	if v, ok, err := callMethod(orig, name); ok {
		return v, err
	}
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("no field or method %q on %T", name, source)
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		for _, tag := range []string{"graphql", "json"} {
			if tagName(sf.Tag.Get(tag)) == name {
				return rv.Field(i), true
			}
		}
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.IsExported() && strings.EqualFold(sf.Name, name) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func callMethod(rv reflect.Value, name string) (any, bool, error) {
	if !rv.IsValid() {
		return nil, false, nil
	}
	t := rv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		mt := m.Type
		// receiver is the first input of a method obtained from the type
		if mt.NumIn() != 1 {
			continue
		}
		switch {
		case mt.NumOut() == 1:
			return rv.Method(i).Call(nil)[0].Interface(), true, nil
		case mt.NumOut() == 2 && mt.Out(1) == errorType:
			out := rv.Method(i).Call(nil)
			err, _ := out[1].Interface().(error)
			return out[0].Interface(), true, err
		}
	}
	return nil, false, nil
}

// safeResolve calls the runtime and turns a panic into a PanicError.
func safeResolve(ctx context.Context, rt Runtime, task FieldTask) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, panicError(r)
		}
	}()
	return rt.ResolveField(ctx, task)
}
