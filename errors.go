package confver

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMalformedInput   = "malformed_input"
	CodeInvalidType      = "invalid_type"
	CodeUnsupportedValue = "unsupported_value"
	CodeMissingVersion   = "missing_version"
	CodeMigrationPath    = "migration_path_missing"
	CodeConstruction     = "construction_failure"
	CodeUnknownKey       = "unknown_key"
	CodeReservedKey      = "reserved_key"
	CodeMaxDepth         = "max_depth"
	CodeParseError       = "parse_error"
)

// Issue represents a single encode/decode/migration failure entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /servers/2/port).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"type":"Server",
	// "declared":"1.0.0", "current":"1.0.2"}) for i18n and observability.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. migration_path_missing at /database
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueAt creates an Issue at the given path with provided code, message and
// params map. Convenience for call sites with many parameters.
func IssueAt(path, code, msg string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: msg, Params: params}
}

func singleIssue(code, msg string) Issues {
	return Issues{Issue{Path: "/", Code: code, Message: msg}}
}

// toIssues converts an arbitrary error into Issues, wrapping foreign errors
// with CodeParseError.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}
