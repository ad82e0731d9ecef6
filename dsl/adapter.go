package dsl

import (
	"context"

	confver "github.com/confver/confver"
	"github.com/confver/confver/i18n"
	js "github.com/confver/confver/jsonschema"
)

// AnyAdapter is the field-level unit of the DSL: a pair of conversions
// between the generic JSON value tree and a runtime Go value, plus an
// optional default and a JSON Schema projection.
type AnyAdapter struct {
	decode       func(ctx context.Context, v any) (any, error)
	encode       func(ctx context.Context, v any) (any, error)
	defaultValue func(ctx context.Context) (any, error)
	jsonSchema   func() (*js.Schema, error)
	orig         any
}

// Orig returns the underlying implementation used to create this adapter.
// It is intended for advanced integrations and may change.
func (ad AnyAdapter) Orig() any { return ad.orig }

// Adapter assembles an AnyAdapter from explicit conversion functions. Most
// callers use the built-in primitives; Adapter exists for custom field codecs
// (see the codec package).
func Adapter(
	decode func(ctx context.Context, v any) (any, error),
	encode func(ctx context.Context, v any) (any, error),
	schema func() (*js.Schema, error),
) AnyAdapter {
	return AnyAdapter{decode: decode, encode: encode, jsonSchema: schema}
}

// issueAt builds a single Issue with the translated message for code.
func issueAt(path, code string, params map[string]any) confver.Issue {
	return confver.Issue{Path: path, Code: code, Message: i18n.T(code, nil), Params: params}
}

func singleIssue(path, code string, params map[string]any) confver.Issues {
	return confver.Issues{issueAt(path, code, params)}
}

// rebase prefixes child issue paths with base so failures point at the
// offending field or element.
func rebase(base string, err error) confver.Issues {
	if err == nil {
		return nil
	}
	child, ok := confver.AsIssues(err)
	if !ok {
		return confver.Issues{confver.Issue{Path: base, Code: confver.CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(confver.Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		out = append(out, confver.Issue{Path: p, Code: it.Code, Message: it.Message, Hint: it.Hint, Cause: it.Cause, Params: it.Params})
	}
	return out
}
