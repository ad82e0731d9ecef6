package dsl

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	confver "github.com/confver/confver"
	js "github.com/confver/confver/jsonschema"
)

// String returns the string field adapter.
func String() AnyAdapter {
	return AnyAdapter{
		decode: func(ctx context.Context, v any) (any, error) {
			if s, ok := v.(string); ok {
				return s, nil
			}
			return nil, singleIssue("/", confver.CodeInvalidType, map[string]any{"expected": "string", "got": typeName(v)})
		},
		encode: func(ctx context.Context, v any) (any, error) {
			rv := reflect.ValueOf(v)
			if rv.IsValid() && rv.Kind() == reflect.String {
				return rv.String(), nil
			}
			return nil, singleIssue("/", confver.CodeUnsupportedValue, map[string]any{"expected": "string", "got": typeName(v)})
		},
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil },
	}
}

// Bool returns the bool field adapter.
func Bool() AnyAdapter {
	return AnyAdapter{
		decode: func(ctx context.Context, v any) (any, error) {
			if b, ok := v.(bool); ok {
				return b, nil
			}
			return nil, singleIssue("/", confver.CodeInvalidType, map[string]any{"expected": "bool", "got": typeName(v)})
		},
		encode: func(ctx context.Context, v any) (any, error) {
			rv := reflect.ValueOf(v)
			if rv.IsValid() && rv.Kind() == reflect.Bool {
				return rv.Bool(), nil
			}
			return nil, singleIssue("/", confver.CodeUnsupportedValue, map[string]any{"expected": "bool", "got": typeName(v)})
		},
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil },
	}
}

// Int returns the integer field adapter. Decoding accepts the number shapes
// the document sources produce (json.Number, YAML int, TOML int64, whole
// float64) and yields int64; struct binding converts to the field's kind.
func Int() AnyAdapter {
	return AnyAdapter{
		decode: func(ctx context.Context, v any) (any, error) {
			switch t := v.(type) {
			case json.Number:
				if n, err := t.Int64(); err == nil {
					return n, nil
				}
			case int:
				return int64(t), nil
			case int64:
				return t, nil
			case uint64:
				if t <= math.MaxInt64 {
					return int64(t), nil
				}
			case float64:
				if t == math.Trunc(t) && !math.IsInf(t, 0) {
					return int64(t), nil
				}
			}
			return nil, singleIssue("/", confver.CodeInvalidType, map[string]any{"expected": "integer", "got": typeName(v)})
		},
		encode: func(ctx context.Context, v any) (any, error) {
			rv := reflect.ValueOf(v)
			if rv.IsValid() {
				switch rv.Kind() {
				case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
					return rv.Int(), nil
				case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
					if rv.Uint() <= math.MaxInt64 {
						return int64(rv.Uint()), nil
					}
				}
			}
			return nil, singleIssue("/", confver.CodeUnsupportedValue, map[string]any{"expected": "integer", "got": typeName(v)})
		},
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil },
	}
}

// Float64 returns the floating-point field adapter.
func Float64() AnyAdapter {
	return AnyAdapter{
		decode: func(ctx context.Context, v any) (any, error) {
			switch t := v.(type) {
			case json.Number:
				if f, err := t.Float64(); err == nil {
					return f, nil
				}
			case float64:
				return t, nil
			case float32:
				return float64(t), nil
			case int:
				return float64(t), nil
			case int64:
				return float64(t), nil
			case uint64:
				return float64(t), nil
			}
			return nil, singleIssue("/", confver.CodeInvalidType, map[string]any{"expected": "number", "got": typeName(v)})
		},
		encode: func(ctx context.Context, v any) (any, error) {
			rv := reflect.ValueOf(v)
			if rv.IsValid() {
				switch rv.Kind() {
				case reflect.Float32, reflect.Float64:
					return rv.Float(), nil
				case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
					return float64(rv.Int()), nil
				}
			}
			return nil, singleIssue("/", confver.CodeUnsupportedValue, map[string]any{"expected": "number", "got": typeName(v)})
		},
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil },
	}
}

// Any returns a free-form field adapter: the value passes through unchanged
// in both directions after a structural check that it stays within the JSON
// value model.
func Any() AnyAdapter {
	return AnyAdapter{
		decode: func(ctx context.Context, v any) (any, error) {
			return v, checkJSONable("/", v)
		},
		encode: func(ctx context.Context, v any) (any, error) {
			return v, checkJSONable("/", v)
		},
		jsonSchema: func() (*js.Schema, error) { return &js.Schema{}, nil },
	}
}

// checkJSONable walks a free-form value and rejects anything outside the
// generic JSON value model.
func checkJSONable(path string, v any) error {
	switch t := v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	case []any:
		for i, e := range t {
			if err := checkJSONable(fmt.Sprintf("%s/%d", path, i), e); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for k, e := range t {
			if err := checkJSONable(path+"/"+k, e); err != nil {
				return err
			}
		}
		return nil
	default:
		return singleIssue(path, confver.CodeUnsupportedValue, map[string]any{"got": typeName(v)})
	}
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}
