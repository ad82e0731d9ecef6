package confver

import (
	"context"

	json "github.com/goccy/go-json"

	js "github.com/confver/confver/jsonschema"
)

// Schema converts between a JSON value tree (nil, bool, numbers, string,
// []any, map[string]any) and a typed Go value T.
type Schema[T any] interface {
	// Decode transforms a JSON value tree into T, migrating versioned
	// objects to the current schema version first. It returns Issues when
	// the tree does not fit the schema or no migration path exists.
	Decode(ctx context.Context, v any) (T, error)
	// Encode transforms T into a JSON value tree made only of generic
	// values, stamping the current version into versioned objects.
	Encode(ctx context.Context, v T) (any, error)
	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// Decode is a thin wrapper around Schema.Decode for an already-decoded JSON
// value tree (the from_json_serializable direction).
func Decode[T any](ctx context.Context, s Schema[T], v any) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	return s.Decode(ctx, v)
}

// Encode is a thin wrapper around Schema.Encode (the to_json_serializable
// direction). The result contains only maps, slices and primitives.
func Encode[T any](ctx context.Context, s Schema[T], v T) (any, error) {
	if s == nil {
		return nil, singleIssue(CodeParseError, "nil schema")
	}
	return s.Encode(ctx, v)
}

// DecodeFrom is the primary loading entry point. It decodes a document from
// the Source into a value tree and delegates to the Schema.
func DecodeFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...DecodeOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	if src == nil {
		return zero, singleIssue(CodeParseError, "nil source")
	}
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxDepth > 0 {
		ctx = WithMaxDepth(ctx, opt.MaxDepth)
	}
	v, err := src.Decode()
	if err != nil {
		return zero, toIssues(err)
	}
	return s.Decode(ctx, v)
}

// Marshal encodes v through the schema and renders the result as JSON text.
func Marshal[T any](ctx context.Context, s Schema[T], v T, opts ...EncodeOpt) ([]byte, error) {
	tree, err := encodeTree(ctx, s, v, opts)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return nil, toIssues(err)
	}
	return b, nil
}

// MarshalIndent is Marshal with indented output, for human-edited config files.
func MarshalIndent[T any](ctx context.Context, s Schema[T], v T, prefix, indent string, opts ...EncodeOpt) ([]byte, error) {
	tree, err := encodeTree(ctx, s, v, opts)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(tree, prefix, indent)
	if err != nil {
		return nil, toIssues(err)
	}
	return b, nil
}

// Unmarshal decodes JSON text through the schema.
func Unmarshal[T any](ctx context.Context, s Schema[T], data []byte, opts ...DecodeOpt) (T, error) {
	return DecodeFrom(ctx, s, JSONBytes(data), opts...)
}

func encodeTree[T any](ctx context.Context, s Schema[T], v T, opts []EncodeOpt) (any, error) {
	if s == nil {
		return nil, singleIssue(CodeParseError, "nil schema")
	}
	var opt EncodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxDepth > 0 {
		ctx = WithMaxDepth(ctx, opt.MaxDepth)
	}
	return s.Encode(ctx, v)
}

// ---- Tree-depth context (internal wiring, exported for subpackages) ----

type contextKey int

const (
	_ctxKeyDepth contextKey = iota
	_ctxKeyMaxDepth
)

// WithMaxDepth returns a child context with a recursion limit for tree walks.
// This is set by DecodeFrom/Marshal based on options and consumed by schema
// implementations.
func WithMaxDepth(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, _ctxKeyMaxDepth, n)
}

// EnterNode records one level of tree descent on the context and fails with a
// max_depth issue once the limit is exceeded. Schema implementations call it
// when recursing into objects and arrays.
func EnterNode(ctx context.Context, path string) (context.Context, error) {
	depth, _ := ctx.Value(_ctxKeyDepth).(int)
	limit := DefaultMaxDepth
	if n, ok := ctx.Value(_ctxKeyMaxDepth).(int); ok && n > 0 {
		limit = n
	}
	depth++
	if depth > limit {
		return ctx, Issues{IssueAt(path, CodeMaxDepth, "tree exceeds maximum depth", map[string]any{"max": limit})}
	}
	return context.WithValue(ctx, _ctxKeyDepth, depth), nil
}
