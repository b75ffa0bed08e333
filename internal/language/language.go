package language

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	ErrNoOperation        = errors.New("document contains no operations")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrOperationAmbiguous = errors.New("must provide operation name if query contains multiple operations")
)

// ParseQuery parses an executable document.
func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// MustParseQuery is like ParseQuery but panics on a syntax error.
func MustParseQuery(source string) *QueryDocument {
	doc, err := ParseQuery(source)
	if err != nil {
		panic(err)
	}
	return doc
}

// Fragment looks up a fragment definition by name. A nil document or an
// unknown name yields nil.
func Fragment(doc *QueryDocument, name string) *FragmentDefinition {
	if doc == nil {
		return nil
	}
	return doc.Fragments.ForName(name)
}

// Operation selects the operation to run. An empty name is only allowed when
// the document holds exactly one operation.
func Operation(doc *QueryDocument, name string) (*OperationDefinition, error) {
	if doc == nil || len(doc.Operations) == 0 {
		return nil, ErrNoOperation
	}
	if name == "" {
		if len(doc.Operations) > 1 {
			return nil, ErrOperationAmbiguous
		}
		return doc.Operations[0], nil
	}
	if op := doc.Operations.ForName(name); op != nil {
		return op, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownOperation, name)
}
