package executor

import (
	"github.com/jensneuse/abstractlogger"

	language "github.com/hanpama/graphcore/internal/language"
	schema "github.com/hanpama/graphcore/internal/schema"
)

// collectedFieldMap preserves field order from the query
type collectedFieldMap struct {
	fields []collectedField
	index  map[string]int
}

type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

func newCollectedFieldMap() *collectedFieldMap {
	return &collectedFieldMap{
		fields: make([]collectedField, 0),
		index:  make(map[string]int),
	}
}

func (cfm *collectedFieldMap) add(responseName string, field *language.Field) {
	idx, exists := cfm.index[responseName]
	if !exists {
		cfm.index[responseName] = len(cfm.fields)
		cfm.fields = append(cfm.fields, collectedField{
			ResponseName: responseName,
			Fields:       []*language.Field{field},
		})
		return
	}
	// the same node reached twice through repeated fragment spreads
	for _, f := range cfm.fields[idx].Fields {
		if f == field {
			return
		}
	}
	cfm.fields[idx].Fields = append(cfm.fields[idx].Fields, field)
}

func (cfm *collectedFieldMap) orderedFields() []collectedField {
	return cfm.fields
}

// collectFields groups the selections that apply to objectType by response
// key, in the order keys are first encountered.
func collectFields(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet) *collectedFieldMap {
	groupedFields := newCollectedFieldMap()
	visiting := make(map[string]struct{})

	collectFieldsImpl(state, objectType, selectionSet, groupedFields, visiting)

	return groupedFields
}

// collectFieldsImpl is the recursive implementation of field collection.
// visiting holds the fragment names expanded along the current descent; a
// spread of one of them is a cycle and contributes nothing.
func collectFieldsImpl(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet, groupedFields *collectedFieldMap, visiting map[string]struct{}) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}

			responseName := sel.Alias
			if responseName == "" {
				responseName = sel.Name
			}

			groupedFields.add(responseName, sel)

		case *language.InlineFragment:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			if !doesFragmentTypeApply(state, objectType, sel.TypeCondition) {
				continue
			}

			collectFieldsImpl(state, objectType, sel.SelectionSet, groupedFields, visiting)

		case *language.FragmentSpread:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			if _, cyclic := visiting[sel.Name]; cyclic {
				state.logger.Debug("executor: fragment cycle",
					abstractlogger.String("fragment", sel.Name),
				)
				continue
			}

			fragmentDef := language.Fragment(state.document, sel.Name)
			if fragmentDef == nil {
				continue
			}
			if !doesFragmentTypeApply(state, objectType, fragmentDef.TypeCondition) {
				continue
			}
			if !shouldIncludeNode(state, fragmentDef.Directives) {
				continue
			}

			visiting[sel.Name] = struct{}{}
			collectFieldsImpl(state, objectType, fragmentDef.SelectionSet, groupedFields, visiting)
			delete(visiting, sel.Name)
		}
	}
}

// doesFragmentTypeApply reports whether a fragment with the given type
// condition applies to objectType: the same type, an interface it
// implements, or a union it belongs to.
func doesFragmentTypeApply(state *executionState, objectType *schema.Type, typeCondition string) bool {
	if typeCondition == "" || typeCondition == objectType.Name() {
		return true
	}
	if objectType.Implements(typeCondition) {
		return true
	}
	conditionType := state.schema.Type(typeCondition)
	if conditionType == nil || !conditionType.IsAbstract() {
		return false
	}
	return state.schema.IsPossibleType(conditionType, objectType)
}

// shouldIncludeNode checks if a node should be included based on directives
func shouldIncludeNode(state *executionState, directives language.DirectiveList) bool {
	if skip := directives.ForName("skip"); skip != nil {
		if skipBool, ok := directiveArgument(state, skip, "if").(bool); ok && skipBool {
			return false
		}
	}

	if include := directives.ForName("include"); include != nil {
		if includeBool, ok := directiveArgument(state, include, "if").(bool); ok && !includeBool {
			return false
		}
	}

	return true
}

func directiveArgument(state *executionState, directive *language.Directive, argName string) any {
	if arg := directive.Arguments.ForName(argName); arg != nil {
		return valueFromAST(arg.Value, state.variables)
	}
	return nil
}

// mergeSelectionSets concatenates the sub-selections of every field node of
// one response key, in order.
func mergeSelectionSets(fields []*language.Field) language.SelectionSet {
	var merged language.SelectionSet
	for _, f := range fields {
		if len(f.SelectionSet) > 0 {
			merged = append(merged, f.SelectionSet...)
		}
	}
	return merged
}
