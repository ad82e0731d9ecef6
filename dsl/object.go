package dsl

import (
	"context"
	"reflect"

	confver "github.com/confver/confver"
	js "github.com/confver/confver/jsonschema"
)

// ObjectBuilder accumulates the declared field list, the version declaration
// and the migration chain of an object schema. Builders are not safe for
// concurrent use; bind once during package initialization.
type ObjectBuilder struct {
	fields         []fieldSpec
	index          map[string]int
	unknown        confver.UnknownPolicy
	version        string
	defaultVersion string
	steps          []confver.Migration
}

type fieldSpec struct {
	name string
	ad   AnyAdapter
}

type fieldStep struct {
	b    *ObjectBuilder
	name string
}

// ObjectSpec is what Bind accepts: either the builder itself or the field
// step a declaration chain happens to end on.
type ObjectSpec interface {
	builder() *ObjectBuilder
}

func (b *ObjectBuilder) builder() *ObjectBuilder { return b }
func (f *fieldStep) builder() *ObjectBuilder     { return f.b }

// Object creates a new object builder with safe defaults (UnknownStrip:
// unrecognized keys in a document are dropped, not errors).
func Object() *ObjectBuilder {
	return &ObjectBuilder{index: map[string]int{}, unknown: confver.UnknownStrip}
}

// Field declares a field with its adapter. Declaration order is the
// serialization order; redeclaring a name replaces the adapter in place.
func (b *ObjectBuilder) Field(name string, ad AnyAdapter) *fieldStep {
	if i, ok := b.index[name]; ok {
		b.fields[i].ad = ad
	} else {
		b.index[name] = len(b.fields)
		b.fields = append(b.fields, fieldSpec{name: name, ad: ad})
	}
	return &fieldStep{b: b, name: name}
}

// Default sets the value assigned to the current field when a document omits
// the key. The value runs through the field adapter, so it must be given in
// wire shape.
func (f *fieldStep) Default(v any) *ObjectBuilder {
	i := f.b.index[f.name]
	ad := f.b.fields[i].ad
	ad.defaultValue = func(ctx context.Context) (any, error) { return ad.decode(ctx, v) }
	prev := ad.jsonSchema
	ad.jsonSchema = func() (*js.Schema, error) {
		if prev == nil {
			return &js.Schema{Default: v}, nil
		}
		s, err := prev()
		if err != nil {
			return nil, err
		}
		if s == nil {
			s = &js.Schema{}
		}
		s.Default = v
		return s, nil
	}
	f.b.fields[i].ad = ad
	return f.b
}

// Chaining passthroughs so field declarations read fluently.
func (f *fieldStep) Field(name string, ad AnyAdapter) *fieldStep { return f.b.Field(name, ad) }
func (f *fieldStep) Version(v string) *ObjectBuilder             { return f.b.Version(v) }
func (f *fieldStep) Migration(from, to string, fn confver.MigrateFunc) *ObjectBuilder {
	return f.b.Migration(from, to, fn)
}
func (f *fieldStep) UnknownStrict() *ObjectBuilder { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *ObjectBuilder  { return f.b.UnknownStrip() }

// Version declares the schema's current version. Encode stamps it into the
// output under confver.VersionKey; Decode migrates documents claiming an
// older version before populating the struct.
func (b *ObjectBuilder) Version(v string) *ObjectBuilder {
	b.version = v
	return b
}

// DefaultVersion opts in to treating documents with no version tag as
// conforming to v, typically the oldest version the chain starts at. Without
// it a missing tag is an error.
func (b *ObjectBuilder) DefaultVersion(v string) *ObjectBuilder {
	b.defaultVersion = v
	return b
}

// Migration appends a step to the schema's migration chain.
//
// Steps must be registered in chain order: the decoder walks them once, in
// registration order, applying each step whose From matches the running
// version. It never searches or reorders, so an out-of-order registration is
// a configuration defect that surfaces as migration_path_missing.
func (b *ObjectBuilder) Migration(from, to string, fn confver.MigrateFunc) *ObjectBuilder {
	b.steps = append(b.steps, confver.Migration{From: from, To: to, Apply: fn})
	return b
}

// UnknownStrict rejects document keys with no declared field.
func (b *ObjectBuilder) UnknownStrict() *ObjectBuilder {
	b.unknown = confver.UnknownStrict
	return b
}

// UnknownStrip drops document keys with no declared field (default).
func (b *ObjectBuilder) UnknownStrip() *ObjectBuilder {
	b.unknown = confver.UnknownStrip
	return b
}

// Bind resolves the builder against struct type T and returns the schema.
// Struct fields are matched by key (confver tag > json tag > field name); a
// declared field with no struct home is a configuration defect reported
// here, not at decode time.
func Bind[T any](spec ObjectSpec) (confver.Schema[T], error) {
	b := spec.builder()
	var probe T
	rt := reflect.TypeOf(probe)
	ptr := false
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
		ptr = true
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, singleIssue("/", confver.CodeConstruction, map[string]any{"reason": "Bind[T] requires a struct type"})
	}

	idxByKey := make(map[string]int)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := confver.ResolveStructKey(sf)
		if key == "-" || key == "" {
			continue
		}
		idxByKey[key] = i
	}

	bound := make([]boundField, 0, len(b.fields))
	for _, f := range b.fields {
		if b.version != "" && f.name == confver.VersionKey {
			return nil, singleIssue("/", confver.CodeReservedKey,
				map[string]any{"type": rt.Name(), "key": confver.VersionKey})
		}
		i, ok := idxByKey[f.name]
		if !ok {
			return nil, singleIssue("/", confver.CodeConstruction,
				map[string]any{"type": rt.Name(), "field": f.name, "reason": "no struct field for declared key"})
		}
		bound = append(bound, boundField{name: f.name, ad: f.ad, idx: i})
	}

	return &typedObjectSchema[T]{
		name:           rt.Name(),
		rt:             rt,
		ptr:            ptr,
		fields:         bound,
		unknown:        b.unknown,
		version:        b.version,
		defaultVersion: b.defaultVersion,
		steps:          b.steps,
	}, nil
}

// MustBind is like Bind but panics on error, for package-level schema vars.
func MustBind[T any](spec ObjectSpec) confver.Schema[T] {
	s, err := Bind[T](spec)
	if err != nil {
		panic(err)
	}
	return s
}

// boundField carries one declared field resolved to its struct index.
type boundField struct {
	name string
	ad   AnyAdapter
	idx  int
}

// typedObjectSchema converts between map documents and struct type T,
// applying version migration on the way in.
type typedObjectSchema[T any] struct {
	name           string
	rt             reflect.Type
	ptr            bool
	fields         []boundField
	unknown        confver.UnknownPolicy
	version        string
	defaultVersion string
	steps          []confver.Migration
}

var _ confver.Schema[struct{}] = (*typedObjectSchema[struct{}])(nil)

func (s *typedObjectSchema[T]) Decode(ctx context.Context, v any) (T, error) {
	var zero T
	src, ok := v.(map[string]any)
	if !ok {
		return zero, singleIssue("/", confver.CodeMalformedInput,
			map[string]any{"type": s.name, "expected": "object", "got": typeName(v)})
	}
	ctx, err := confver.EnterNode(ctx, "/")
	if err != nil {
		return zero, err
	}

	// Work on a copy: migrations may mutate their mapping and the caller's
	// tree must stay intact.
	m := make(map[string]any, len(src))
	for k, val := range src {
		m[k] = val
	}

	if s.version != "" {
		m, err = s.migrate(m)
		if err != nil {
			return zero, err
		}
	}

	var iss confver.Issues
	if s.unknown == confver.UnknownStrict {
		for k := range m {
			if _, ok := s.fieldByName(k); !ok {
				iss = confver.AppendIssues(iss, issueAt("/"+k, confver.CodeUnknownKey, map[string]any{"type": s.name, "key": k}))
			}
		}
	}

	rv := reflect.New(s.rt).Elem()
	for _, f := range s.fields {
		val, exists := m[f.name]
		if !exists {
			if f.ad.defaultValue != nil {
				dv, err := f.ad.defaultValue(ctx)
				if err != nil {
					iss = confver.AppendIssues(iss, rebase("/"+f.name, err)...)
					continue
				}
				if err := assignField(rv.Field(f.idx), dv); err != nil {
					iss = confver.AppendIssues(iss, rebase("/"+f.name, err)...)
				}
			}
			// Absent without a default: keep the zero value.
			continue
		}
		if val == nil {
			rv.Field(f.idx).Set(reflect.Zero(rv.Field(f.idx).Type()))
			continue
		}
		dv, err := f.ad.decode(ctx, val)
		if err != nil {
			iss = confver.AppendIssues(iss, rebase("/"+f.name, err)...)
			continue
		}
		if err := assignField(rv.Field(f.idx), dv); err != nil {
			iss = confver.AppendIssues(iss, rebase("/"+f.name, err)...)
		}
	}
	if len(iss) > 0 {
		return zero, iss
	}
	if s.ptr {
		return rv.Addr().Interface().(T), nil
	}
	return rv.Interface().(T), nil
}

// migrate extracts the version tag and brings the mapping up to the current
// version. The tag never survives into field population.
func (s *typedObjectSchema[T]) migrate(m map[string]any) (map[string]any, error) {
	raw, ok := m[confver.VersionKey]
	if !ok {
		if s.defaultVersion == "" {
			return nil, singleIssue("/", confver.CodeMissingVersion,
				map[string]any{"type": s.name, "current": s.version, "key": confver.VersionKey})
		}
		return confver.Migrate(s.name, s.defaultVersion, s.version, s.steps, m)
	}
	declared, ok := raw.(string)
	if !ok {
		return nil, singleIssue("/"+confver.VersionKey, confver.CodeMalformedInput,
			map[string]any{"type": s.name, "expected": "string", "got": typeName(raw)})
	}
	delete(m, confver.VersionKey)
	return confver.Migrate(s.name, declared, s.version, s.steps, m)
}

func (s *typedObjectSchema[T]) fieldByName(name string) (boundField, bool) {
	for _, f := range s.fields {
		if f.name == name {
			return f, true
		}
	}
	return boundField{}, false
}

func (s *typedObjectSchema[T]) Encode(ctx context.Context, v T) (any, error) {
	rv := reflect.ValueOf(v)
	if s.ptr {
		if !rv.IsValid() || rv.IsNil() {
			return nil, singleIssue("/", confver.CodeUnsupportedValue, map[string]any{"type": s.name, "got": "nil"})
		}
		rv = rv.Elem()
	}
	ctx, err := confver.EnterNode(ctx, "/")
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(s.fields)+1)
	for _, f := range s.fields {
		ev, err := f.ad.encode(ctx, rv.Field(f.idx).Interface())
		if err != nil {
			return nil, rebase("/"+f.name, err)
		}
		out[f.name] = ev
	}
	if s.version != "" {
		// Always the current version, never one carried over from load.
		out[confver.VersionKey] = s.version
	}
	return out, nil
}

func (s *typedObjectSchema[T]) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(s.fields)+1)
	for _, f := range s.fields {
		if f.ad.jsonSchema == nil {
			props[f.name] = &js.Schema{}
			continue
		}
		fs, err := f.ad.jsonSchema()
		if err != nil {
			return nil, err
		}
		props[f.name] = fs
	}
	out := &js.Schema{Type: "object", Properties: props}
	if s.version != "" {
		props[confver.VersionKey] = &js.Schema{Type: "string"}
		out.Required = []string{confver.VersionKey}
	}
	if s.unknown == confver.UnknownStrict {
		out.AdditionalProperties = false
	}
	return out, nil
}

// ObjectOf adapts an object schema for use as a nested field. Nested
// versioned objects migrate independently with their own chains.
func ObjectOf[T any](s confver.Schema[T]) AnyAdapter {
	return AnyAdapter{
		decode: func(ctx context.Context, v any) (any, error) {
			return s.Decode(ctx, v)
		},
		encode: func(ctx context.Context, v any) (any, error) {
			tv, ok := v.(T)
			if !ok {
				return nil, singleIssue("/", confver.CodeUnsupportedValue, map[string]any{"got": typeName(v)})
			}
			return s.Encode(ctx, tv)
		},
		jsonSchema: s.JSONSchema,
		orig:       s,
	}
}

// assignField stores a decoded value into a struct field, converting named
// types when needed.
func assignField(fv reflect.Value, val any) error {
	if !fv.CanSet() {
		return singleIssue("/", confver.CodeConstruction, map[string]any{"reason": "field not settable"})
	}
	if val == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	vv := reflect.ValueOf(val)
	switch {
	case vv.Type().AssignableTo(fv.Type()):
		fv.Set(vv)
	case vv.Type().ConvertibleTo(fv.Type()):
		fv.Set(vv.Convert(fv.Type()))
	default:
		return singleIssue("/", confver.CodeInvalidType,
			map[string]any{"expected": fv.Type().String(), "got": vv.Type().String()})
	}
	return nil
}
