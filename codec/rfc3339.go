package codec

import (
	"context"
	"time"

	confver "github.com/confver/confver"
	"github.com/confver/confver/dsl"
	js "github.com/confver/confver/jsonschema"
)

// TimeRFC3339 returns an adapter carrying timestamps as RFC3339 strings in
// JSON documents. The runtime value is time.Time; encoding normalizes to UTC.
func TimeRFC3339() dsl.AnyAdapter {
	return dsl.Adapter(
		func(ctx context.Context, v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, confver.Issues{confver.Issue{Path: "/", Code: confver.CodeInvalidType, Message: "expected RFC3339 string"}}
			}
			t, err := parseRFC3339(s)
			if err != nil {
				return nil, confver.Issues{confver.Issue{Path: "/", Code: confver.CodeMalformedInput, Message: "invalid RFC3339 time", Cause: err}}
			}
			return t, nil
		},
		func(ctx context.Context, v any) (any, error) {
			t, ok := v.(time.Time)
			if !ok {
				return nil, confver.Issues{confver.Issue{Path: "/", Code: confver.CodeUnsupportedValue, Message: "expected time.Time"}}
			}
			return formatRFC3339Canonical(t), nil
		},
		func() (*js.Schema, error) {
			return &js.Schema{Type: "string", Format: "date-time"}, nil
		},
	)
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
