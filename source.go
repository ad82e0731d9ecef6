package confver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source abstracts over polymorphic document inputs. A Source yields one
// decoded JSON value tree; all file and text handling stays here, outside the
// Encode/Decode core.
type Source interface {
	Decode() (any, error)
	Name() string
}

// JSONBytes wraps a byte slice holding JSON text.
func JSONBytes(b []byte) Source { return jsonSource{r: bytes.NewReader(b)} }

// JSONReader wraps an io.Reader producing JSON text.
func JSONReader(r io.Reader) Source { return jsonSource{r: r} }

// YAMLBytes wraps a byte slice holding YAML text.
func YAMLBytes(b []byte) Source { return yamlSource{r: bytes.NewReader(b)} }

// YAMLReader wraps an io.Reader producing YAML text.
func YAMLReader(r io.Reader) Source { return yamlSource{r: r} }

// TOMLBytes wraps a byte slice holding TOML text.
func TOMLBytes(b []byte) Source { return tomlSource{r: bytes.NewReader(b)} }

// TOMLReader wraps an io.Reader producing TOML text.
func TOMLReader(r io.Reader) Source { return tomlSource{r: r} }

// File selects a source by file extension (.json, .yaml/.yml, .toml).
func File(path string) Source { return fileSource{path: path} }

type jsonSource struct{ r io.Reader }

func (s jsonSource) Name() string { return "json" }

func (s jsonSource) Decode() (any, error) {
	dec := json.NewDecoder(s.r)
	// Numbers stay textual so integer precision survives until a field
	// adapter decides the target type.
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "invalid JSON document", Cause: err}}
	}
	return v, nil
}

type yamlSource struct{ r io.Reader }

func (s yamlSource) Name() string { return "yaml" }

func (s yamlSource) Decode() (any, error) {
	var v any
	if err := yaml.NewDecoder(s.r).Decode(&v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "invalid YAML document", Cause: err}}
	}
	return normalizeKeys(v), nil
}

type tomlSource struct{ r io.Reader }

func (s tomlSource) Name() string { return "toml" }

func (s tomlSource) Decode() (any, error) {
	m := map[string]any{}
	if _, err := toml.NewDecoder(s.r).Decode(&m); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "invalid TOML document", Cause: err}}
	}
	return m, nil
}

type fileSource struct{ path string }

func (s fileSource) Name() string { return s.path }

func (s fileSource) Decode() (any, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "reading " + s.path, Cause: err}}
	}
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		return JSONBytes(b).Decode()
	case ".yaml", ".yml":
		return YAMLBytes(b).Decode()
	case ".toml":
		return TOMLBytes(b).Decode()
	default:
		return nil, singleIssue(CodeParseError, fmt.Sprintf("unsupported config extension %q", filepath.Ext(s.path)))
	}
}

// normalizeKeys rewrites map[any]any nodes (older YAML shapes) into
// map[string]any so the decode core sees one object representation.
func normalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeKeys(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalizeKeys(e)
		}
		return t
	default:
		return v
	}
}
