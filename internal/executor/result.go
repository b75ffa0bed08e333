package executor

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

// Path locates a value in the response: field response keys (string) and
// list indices (int).
type Path []PathElement

type PathElement any

// String renders the path as hero.friends[0].name.
func (p Path) String() string {
	var b strings.Builder
	for i, elem := range p {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func appendPath(path Path, elem PathElement) Path {
	newPath := make(Path, len(path)+1)
	copy(newPath, path)
	newPath[len(path)] = elem
	return newPath
}

// ErrorKind classifies a GraphQLError. It is reported as extensions.code.
type ErrorKind string

const (
	KindResolver ErrorKind = "RESOLVER_ERROR"
	KindNonNull  ErrorKind = "NON_NULL_VIOLATION"
	KindCoercion ErrorKind = "COERCION_ERROR"
	KindSchema   ErrorKind = "SCHEMA_ERROR"
	KindRequest  ErrorKind = "REQUEST_ERROR"
)

var (
	// ErrNonNull is the cause of every non-null violation.
	ErrNonNull = errors.New("non-null violation")
	// ErrUnsupportedType is returned for values whose declared type the
	// completer cannot handle.
	ErrUnsupportedType = errors.New("unsupported type")
)

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       Path           `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`

	cause error
}

func newError(kind ErrorKind, cause error, message string, path Path) GraphQLError {
	return GraphQLError{
		Message:    message,
		Path:       path,
		Extensions: map[string]any{"code": string(kind)},
		cause:      cause,
	}
}

func (e GraphQLError) Error() string {
	return e.Message
}

// Unwrap returns the underlying resolver, coercion or schema error.
func (e GraphQLError) Unwrap() error { return e.cause }

// Kind returns the classification stored in extensions.code.
func (e GraphQLError) Kind() ErrorKind {
	code, _ := e.Extensions["code"].(string)
	return ErrorKind(code)
}

// ExecutionResult represents the result of executing a GraphQL query
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// Err aggregates the result's errors, or returns nil when there are none.
func (r *ExecutionResult) Err() error {
	var merr *multierror.Error
	for _, e := range r.Errors {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// ResultField is one entry of a ResultMap.
type ResultField struct {
	Key   string
	Value any
}

// ResultMap is a response object. Entries keep the order in which their keys
// were first collected from the selection set.
type ResultMap []ResultField

// Get returns the value stored under key.
func (m ResultMap) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the response keys in order.
func (m ResultMap) Keys() []string {
	keys := make([]string, len(m))
	for i, f := range m {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON encodes the map as a JSON object with keys in response order.
func (m ResultMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
