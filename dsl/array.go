package dsl

import (
	"context"
	"reflect"
	"strconv"

	confver "github.com/confver/confver"
	js "github.com/confver/confver/jsonschema"
)

// Array returns an adapter for ordered sequences with element type E. Each
// element is converted through elem; element order is preserved.
//
// Example: Field("tags", dsl.Array[string](dsl.String()))
func Array[E any](elem AnyAdapter) AnyAdapter {
	return AnyAdapter{
		decode: func(ctx context.Context, v any) (any, error) {
			src, ok := v.([]any)
			if !ok {
				return nil, singleIssue("/", confver.CodeMalformedInput, map[string]any{"expected": "array", "got": typeName(v)})
			}
			ctx, err := confver.EnterNode(ctx, "/")
			if err != nil {
				return nil, err
			}
			out := make([]E, 0, len(src))
			var iss confver.Issues
			for i, ev := range src {
				dv, err := elem.decode(ctx, ev)
				if err != nil {
					iss = confver.AppendIssues(iss, rebase("/"+strconv.Itoa(i), err)...)
					continue
				}
				e, err := asElem[E](dv)
				if err != nil {
					iss = confver.AppendIssues(iss, rebase("/"+strconv.Itoa(i), err)...)
					continue
				}
				out = append(out, e)
			}
			if len(iss) > 0 {
				return nil, iss
			}
			return out, nil
		},
		encode: func(ctx context.Context, v any) (any, error) {
			rv := reflect.ValueOf(v)
			if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
				return nil, singleIssue("/", confver.CodeUnsupportedValue, map[string]any{"expected": "sequence", "got": typeName(v)})
			}
			ctx, err := confver.EnterNode(ctx, "/")
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				ev, err := elem.encode(ctx, rv.Index(i).Interface())
				if err != nil {
					return nil, rebase("/"+strconv.Itoa(i), err)
				}
				out = append(out, ev)
			}
			return out, nil
		},
		jsonSchema: func() (*js.Schema, error) {
			es, err := elemSchema(elem)
			if err != nil {
				return nil, err
			}
			return &js.Schema{Type: "array", Items: es}, nil
		},
	}
}

// asElem narrows a decoded element to E, converting named types when needed.
func asElem[E any](v any) (E, error) {
	if e, ok := v.(E); ok {
		return e, nil
	}
	var zero E
	et := reflect.TypeOf(zero)
	if et != nil && v != nil {
		rv := reflect.ValueOf(v)
		if rv.Type().ConvertibleTo(et) {
			return rv.Convert(et).Interface().(E), nil
		}
	}
	return zero, singleIssue("/", confver.CodeInvalidType, map[string]any{"got": typeName(v)})
}

func elemSchema(elem AnyAdapter) (*js.Schema, error) {
	if elem.jsonSchema == nil {
		return &js.Schema{}, nil
	}
	return elem.jsonSchema()
}
