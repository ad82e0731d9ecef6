package dsl_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	confver "github.com/confver/confver"
	"github.com/confver/confver/dsl"
)

type database struct {
	Host    string   `json:"host"`
	Port    int      `json:"port"`
	Replica bool     `json:"replica"`
	Tags    []string `json:"tags"`
}

func databaseSchema() confver.Schema[database] {
	return dsl.MustBind[database](dsl.Object().
		Field("host", dsl.String()).
		Field("port", dsl.Int()).
		Field("replica", dsl.Bool()).
		Field("tags", dsl.Array[string](dsl.String())))
}

func TestObject_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := databaseSchema()
	in := database{Host: "db1", Port: 5432, Replica: true, Tags: []string{"prod", "eu"}}

	tree, err := s.Encode(ctx, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := s.Decode(ctx, tree)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_RoundTripThroughJSONText(t *testing.T) {
	ctx := context.Background()
	s := databaseSchema()
	in := database{Host: "db1", Port: 5432, Tags: []string{"a"}}

	b, err := confver.Marshal(ctx, s, in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := confver.Unmarshal(ctx, s, b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_UnknownKeysDroppedByDefault(t *testing.T) {
	type pair struct {
		Var1 int `json:"var1"`
		Var2 int `json:"var2"`
	}
	s := dsl.MustBind[pair](dsl.Object().
		Field("var1", dsl.Int()).
		Field("var2", dsl.Int()))

	v, err := s.Decode(context.Background(), map[string]any{"var1": 1, "var2": 2, "var5": "extra"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Var1 != 1 || v.Var2 != 2 {
		t.Fatalf("fields not populated: %+v", v)
	}
}

func TestObject_UnknownStrict(t *testing.T) {
	type pair struct {
		Var1 int `json:"var1"`
	}
	s := dsl.MustBind[pair](dsl.Object().
		Field("var1", dsl.Int()).
		UnknownStrict())

	_, err := s.Decode(context.Background(), map[string]any{"var1": 1, "var5": "extra"})
	iss, ok := confver.AsIssues(err)
	if !ok || iss[0].Code != confver.CodeUnknownKey || iss[0].Path != "/var5" {
		t.Fatalf("expected unknown_key at /var5, got %v", err)
	}
}

func TestObject_MissingKeysKeepDefaults(t *testing.T) {
	type server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	s := dsl.MustBind[server](dsl.Object().
		Field("host", dsl.String()).
		Field("port", dsl.Int()).Default(8080))

	v, err := s.Decode(context.Background(), map[string]any{"host": "a"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Port != 8080 {
		t.Fatalf("port = %d, want builder default 8080", v.Port)
	}

	v, err = s.Decode(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Host != "" || v.Port != 8080 {
		t.Fatalf("expected zero host and default port, got %+v", v)
	}
}

func TestObject_NullAssignsZero(t *testing.T) {
	type server struct {
		Host string `json:"host"`
	}
	s := dsl.MustBind[server](dsl.Object().Field("host", dsl.String()))

	v, err := s.Decode(context.Background(), map[string]any{"host": nil})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Host != "" {
		t.Fatalf("host = %q, want zero", v.Host)
	}
}

func TestObject_MalformedInput(t *testing.T) {
	s := databaseSchema()
	_, err := s.Decode(context.Background(), []any{"not", "an", "object"})
	iss, ok := confver.AsIssues(err)
	if !ok || iss[0].Code != confver.CodeMalformedInput {
		t.Fatalf("expected malformed_input, got %v", err)
	}
}

func TestObject_NestedPlainObjects(t *testing.T) {
	type inner struct {
		V1 float64 `json:"v1"`
		V2 bool    `json:"v2"`
	}
	type outer struct {
		V1 float64 `json:"v1"`
		V2 inner   `json:"v2"`
	}
	innerSchema := dsl.MustBind[inner](dsl.Object().
		Field("v1", dsl.Float64()).
		Field("v2", dsl.Bool()))
	outerSchema := dsl.MustBind[outer](dsl.Object().
		Field("v1", dsl.Float64()).
		Field("v2", dsl.ObjectOf(innerSchema)))

	ctx := context.Background()
	in := outer{V1: 99.9, V2: inner{V1: 0, V2: true}}
	tree, err := outerSchema.Encode(ctx, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	m := tree.(map[string]any)
	if m["v1"] != 99.9 {
		t.Fatalf("v1 = %v", m["v1"])
	}
	nested := m["v2"].(map[string]any)
	if nested["v1"] != float64(0) || nested["v2"] != true {
		t.Fatalf("nested = %v", nested)
	}
	// Plain objects carry no version tag.
	if _, ok := nested[confver.VersionKey]; ok {
		t.Fatalf("plain nested object must not carry %s", confver.VersionKey)
	}

	out, err := outerSchema.Decode(ctx, tree)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_NestedFieldErrorsCarryPath(t *testing.T) {
	type inner struct {
		Flag bool `json:"flag"`
	}
	type outer struct {
		In inner `json:"in"`
	}
	innerSchema := dsl.MustBind[inner](dsl.Object().Field("flag", dsl.Bool()))
	s := dsl.MustBind[outer](dsl.Object().Field("in", dsl.ObjectOf(innerSchema)))

	_, err := s.Decode(context.Background(), map[string]any{"in": map[string]any{"flag": "yes"}})
	iss, ok := confver.AsIssues(err)
	if !ok || iss[0].Path != "/in/flag" || iss[0].Code != confver.CodeInvalidType {
		t.Fatalf("expected invalid_type at /in/flag, got %v", err)
	}
}

func TestObject_EncodeUnsupportedValue(t *testing.T) {
	type weird struct {
		Fn any `json:"fn"`
	}
	s := dsl.MustBind[weird](dsl.Object().Field("fn", dsl.Any()))

	_, err := s.Encode(context.Background(), weird{Fn: func() {}})
	iss, ok := confver.AsIssues(err)
	if !ok || iss[0].Code != confver.CodeUnsupportedValue {
		t.Fatalf("expected unsupported_value, got %v", err)
	}
}

func TestObject_PointerBinding(t *testing.T) {
	type server struct {
		Host string `json:"host"`
	}
	s := dsl.MustBind[*server](dsl.Object().Field("host", dsl.String()))

	v, err := s.Decode(context.Background(), map[string]any{"host": "a"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v == nil || v.Host != "a" {
		t.Fatalf("got %+v", v)
	}

	tree, err := s.Encode(context.Background(), v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if tree.(map[string]any)["host"] != "a" {
		t.Fatalf("tree = %v", tree)
	}
}

func TestBind_DeclaredFieldWithoutStructHome(t *testing.T) {
	type server struct {
		Host string `json:"host"`
	}
	_, err := dsl.Bind[server](dsl.Object().Field("nope", dsl.String()))
	iss, ok := confver.AsIssues(err)
	if !ok || iss[0].Code != confver.CodeConstruction {
		t.Fatalf("expected construction_failure, got %v", err)
	}
}

func TestBind_NonStructType(t *testing.T) {
	_, err := dsl.Bind[int](dsl.Object())
	iss, ok := confver.AsIssues(err)
	if !ok || iss[0].Code != confver.CodeConstruction {
		t.Fatalf("expected construction_failure, got %v", err)
	}
}

func TestBind_ConfverTagWinsOverJSONTag(t *testing.T) {
	type server struct {
		Host string `json:"hostname" confver:"name=host"`
	}
	s := dsl.MustBind[server](dsl.Object().Field("host", dsl.String()))
	v, err := s.Decode(context.Background(), map[string]any{"host": "a"})
	if err != nil || v.Host != "a" {
		t.Fatalf("got %+v err=%v", v, err)
	}
}
