// Package codec provides field adapters for values whose wire form differs
// from their runtime form.
package codec

import (
	"context"
	"encoding/base64"

	confver "github.com/confver/confver"
	"github.com/confver/confver/dsl"
	js "github.com/confver/confver/jsonschema"
)

// Base64Bytes returns an adapter carrying arbitrary binary blobs as base64
// strings in JSON documents. The runtime value is []byte.
func Base64Bytes() dsl.AnyAdapter {
	return dsl.Adapter(
		func(ctx context.Context, v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, confver.Issues{confver.Issue{Path: "/", Code: confver.CodeInvalidType, Message: "expected base64 string"}}
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, confver.Issues{confver.Issue{Path: "/", Code: confver.CodeMalformedInput, Message: "invalid base64 data", Cause: err}}
			}
			return b, nil
		},
		func(ctx context.Context, v any) (any, error) {
			b, ok := v.([]byte)
			if !ok {
				return nil, confver.Issues{confver.Issue{Path: "/", Code: confver.CodeUnsupportedValue, Message: "expected []byte"}}
			}
			return base64.StdEncoding.EncodeToString(b), nil
		},
		func() (*js.Schema, error) {
			return &js.Schema{Type: "string", Format: "byte"}, nil
		},
	)
}
