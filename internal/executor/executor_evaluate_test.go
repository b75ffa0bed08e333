package executor

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Pattern: Result comparison
func TestEvaluate_HumanIDName_Result(t *testing.T) {
	sw := newStarWars(t)
	exec := NewExecutor(sw.schema)
	want := obj("id", "1000", "name", "Luke Skywalker")

	t.Run("Evaluate against an object", func(t *testing.T) {
		doc := mustParseQuery(t, `{ id name }`)
		ec := &ExecutionContext{Schema: sw.schema, Document: doc}

		gotRes := exec.Evaluate(context.Background(), ec, sw.human, luke, doc.Operations[0].SelectionSet)

		wantRes := &ExecutionResult{Data: want}
		if diff := cmp.Diff(wantRes, gotRes, diffOpts...); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Empty selection set", func(t *testing.T) {
		ec := &ExecutionContext{Schema: sw.schema}

		gotRes := exec.Evaluate(context.Background(), ec, sw.human, luke, nil)

		wantRes := &ExecutionResult{Data: obj()}
		if diff := cmp.Diff(wantRes, gotRes, diffOpts...); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Execute request from the query root", func(t *testing.T) {
		doc := mustParseQuery(t, `{ human(id: "1000") { id name } }`)

		gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		wantRes := &ExecutionResult{Data: obj("human", want)}
		if diff := cmp.Diff(wantRes, gotRes, diffOpts...); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}

// Pattern: Result comparison
func TestEvaluate_Shapes_Result(t *testing.T) {
	sw := newStarWars(t)
	exec := NewExecutor(sw.schema)

	cases := []struct {
		name      string
		query     string
		variables map[string]any
		want      any
	}{
		{
			name:  "Key order follows the query",
			query: `{ hero { name id __typename } }`,
			want:  obj("hero", obj("name", "R2-D2", "id", "2001", "__typename", "Droid")),
		},
		{
			name:  "Reordered keys",
			query: `{ hero { __typename id name } }`,
			want:  obj("hero", obj("__typename", "Droid", "id", "2001", "name", "R2-D2")),
		},
		{
			name:  "Sibling sub-selections merge",
			query: `{ hero { name } hero { id } }`,
			want:  obj("hero", obj("name", "R2-D2", "id", "2001")),
		},
		{
			name:  "Aliases",
			query: `{ r2: hero { name } luke: hero(episode: EMPIRE) { name } }`,
			want:  obj("r2", obj("name", "R2-D2"), "luke", obj("name", "Luke Skywalker")),
		},
		{
			name:  "Nested lists keep order",
			query: `{ hero { friends { name } } }`,
			want:  obj("hero", obj("friends", []any{obj("name", "Luke Skywalker"), obj("name", "Han Solo")})),
		},
		{
			name:  "Enum values serialize by name",
			query: `{ hero(episode: EMPIRE) { appearsIn } }`,
			want:  obj("hero", obj("appearsIn", []any{"NEWHOPE", "EMPIRE", "JEDI"})),
		},
		{
			name:      "Variables",
			query:     `query ($ep: Episode, $id: ID!) { hero(episode: $ep) { name } droid(id: $id) { primaryFunction } }`,
			variables: map[string]any{"ep": "EMPIRE", "id": 2001},
			want:      obj("hero", obj("name", "Luke Skywalker"), "droid", obj("primaryFunction", "Astromech")),
		},
		{
			name:  "Variable default value",
			query: `query ($ep: Episode = EMPIRE) { hero(episode: $ep) { name } }`,
			want:  obj("hero", obj("name", "Luke Skywalker")),
		},
		{
			name:  "Absent object is null",
			query: `{ human(id: "2001") { name } }`,
			want:  obj("human", nil),
		},
		{
			name:  "Unknown field is skipped",
			query: `{ hero { name starships } }`,
			want:  obj("hero", obj("name", "R2-D2")),
		},
		{
			name:  "Fragments on interface and union",
			query: `{ search { __typename ... on Character { name } ...H ... on Droid { primaryFunction } } } fragment H on Human { homePlanet }`,
			want: obj("search", []any{
				obj("__typename", "Human", "name", "Luke Skywalker", "homePlanet", "Tatooine"),
				obj("__typename", "Droid", "name", "R2-D2", "primaryFunction", "Astromech"),
			}),
		},
		{
			name:  "Recursive fragment terminates",
			query: `{ hero { ...F } } fragment F on Character { name ...F }`,
			want:  obj("hero", obj("name", "R2-D2")),
		},
		{
			name:  "Typename on the root",
			query: `{ __typename }`,
			want:  obj("__typename", "Query"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParseQuery(t, tc.query)
			gotRes := exec.ExecuteRequest(context.Background(), doc, "", tc.variables, nil)

			wantRes := &ExecutionResult{Data: tc.want}
			if diff := cmp.Diff(wantRes, gotRes, diffOpts...); diff != "" {
				t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Pattern: Result comparison
func TestEvaluate_ResolverCalls_Result(t *testing.T) {
	sw := newStarWars(t)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.hero": NewMockValueResolver(luke),
	})
	exec := NewExecutor(sw.schema, WithRuntime(rt))
	doc := mustParseQuery(t, `{ hero(episode: JEDI) { id name } hero { name } }`)

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, "root")
	gotCalls := rt.GetCalls()

	wantRes := &ExecutionResult{Data: obj("hero", obj("id", "1000", "name", "Luke Skywalker"))}
	if diff := cmp.Diff(wantRes, gotRes, diffOpts...); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	// one call per response key; arguments come from the first node
	wantCalls := []Call{
		{ObjectType: "Query", Field: "hero", Source: "root", Args: map[string]any{"episode": 6}},
		{ObjectType: "Human", Field: "id", Source: luke, Args: map[string]any{}},
		{ObjectType: "Human", Field: "name", Source: luke, Args: map[string]any{}},
	}
	if diff := cmp.Diff(wantCalls, gotCalls); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}
