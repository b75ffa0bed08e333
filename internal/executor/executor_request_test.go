package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	config "github.com/hanpama/graphcore/internal/config"
	eventbus "github.com/hanpama/graphcore/internal/eventbus"
	events "github.com/hanpama/graphcore/internal/events"
	language "github.com/hanpama/graphcore/internal/language"
	reqid "github.com/hanpama/graphcore/internal/reqid"
	schema "github.com/hanpama/graphcore/internal/schema"
)

func requestErr(message string) *ExecutionResult {
	return &ExecutionResult{Errors: []GraphQLError{gqlErr(KindRequest, message)}}
}

// Pattern: Result comparison
func TestExecuteRequest_RequestErrors_Result(t *testing.T) {
	sw := newStarWars(t)
	exec := NewExecutor(sw.schema)

	cases := []struct {
		name      string
		query     string
		operation string
		variables map[string]any
		want      *ExecutionResult
	}{
		{
			name:  "No operation",
			query: `fragment F on Query { hero { name } }`,
			want:  requestErr("document contains no operations"),
		},
		{
			name:      "Unknown operation",
			query:     `query A { hero { name } }`,
			operation: "B",
			want:      requestErr(`unknown operation "B"`),
		},
		{
			name:  "Ambiguous operation",
			query: `query A { hero { name } } query B { hero { id } }`,
			want:  requestErr("must provide operation name if query contains multiple operations"),
		},
		{
			name:  "Subscription",
			query: `subscription { hero { name } }`,
			want:  requestErr("unsupported operation type: subscription"),
		},
		{
			name:  "Missing mutation root",
			query: `mutation { hero { name } }`,
			want:  requestErr("root type not found for mutation operation"),
		},
		{
			name:  "Required variable missing",
			query: `query ($id: ID!) { human(id: $id) { name } }`,
			want:  requestErr("variable $id of required type ID! was not provided"),
		},
		{
			name:      "Required variable null",
			query:     `query ($id: ID!) { human(id: $id) { name } }`,
			variables: map[string]any{"id": nil},
			want:      requestErr("variable $id of type ID! cannot be null"),
		},
		{
			name:      "Variable fails coercion",
			query:     `query ($ep: Episode) { hero(episode: $ep) { name } }`,
			variables: map[string]any{"ep": "PHANTOM"},
			want:      requestErr("variable $ep of type Episode cannot be coerced: enum Episode has no value PHANTOM"),
		},
		{
			name:      "Unknown variable type",
			query:     `query ($x: Starship) { hero { name } }`,
			variables: map[string]any{"x": 1},
			want:      requestErr("variable $x: unknown type Starship"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParseQuery(t, tc.query)
			got := exec.ExecuteRequest(context.Background(), doc, tc.operation, tc.variables, nil)
			if diff := cmp.Diff(tc.want, got, diffOpts...); diff != "" {
				t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("Cause is kept", func(t *testing.T) {
		got := exec.ExecuteRequest(context.Background(), &language.QueryDocument{}, "", nil, nil)
		require.ErrorIs(t, got.Err(), language.ErrNoOperation)
	})
}

// Pattern: Result comparison
func TestEvaluate_InvalidInput_Result(t *testing.T) {
	sw := newStarWars(t)
	exec := NewExecutor(sw.schema)

	got := exec.Evaluate(context.Background(), nil, sw.human, luke, nil)
	require.Nil(t, got.Data)
	require.Equal(t, KindRequest, got.Errors[0].Kind())

	got = exec.Evaluate(context.Background(), &ExecutionContext{Schema: sw.schema}, sw.character, luke, nil)
	require.Nil(t, got.Data)
	require.True(t, errors.Is(got.Err(), ErrUnsupportedType))
}

// Pattern: Result comparison
func TestExecuteRequest_Mutation_Result(t *testing.T) {
	var log []string
	query := object("Query", func(c *config.Configuration) {
		schema.AddField(c, "log", schema.ListOf(schema.String), resolver(func(ctx context.Context, p schema.ResolveParams) (any, error) {
			return log, nil
		}))
	})
	mutation := object("Mutation", func(c *config.Configuration) {
		echo := schema.AddField(c, "echo", schema.String, resolver(func(ctx context.Context, p schema.ResolveParams) (any, error) {
			text := p.Args["text"].(string)
			log = append(log, text)
			return text, nil
		}))
		schema.AddArgument(echo.Config(), "text", schema.NonNullOf(schema.String))
	})
	sch, err := schema.NewSchema(config.Options{"query": query, "mutation": mutation})
	require.NoError(t, err)
	exec := NewExecutor(sch)

	doc := mustParseQuery(t, `
		query Read { log }
		mutation Write($t: String!) { first: echo(text: "a") second: echo(text: $t) }
	`)

	got := exec.ExecuteRequest(context.Background(), doc, "Write", map[string]any{"t": "b"}, nil)
	want := &ExecutionResult{Data: obj("first", "a", "second", "b")}
	if diff := cmp.Diff(want, got, diffOpts...); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	got = exec.ExecuteRequest(context.Background(), doc, "Read", nil, nil)
	want = &ExecutionResult{Data: obj("log", []any{"a", "b"})}
	if diff := cmp.Diff(want, got, diffOpts...); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

// Pattern: Result comparison
func TestExecuteRequest_Events_Result(t *testing.T) {
	sw := newStarWars(t)
	exec := NewExecutor(sw.schema)

	bus := eventbus.New()
	eventbus.Use(bus)
	defer eventbus.Use(nil)

	var (
		got        []any
		requestIDs []int64
	)
	eventbus.SubscribeTo(bus, func(ctx context.Context, e events.ExecutionStart) {
		id, ok := reqid.FromContext(ctx)
		require.True(t, ok)
		requestIDs = append(requestIDs, id)
		got = append(got, e)
	})
	eventbus.SubscribeTo(bus, func(ctx context.Context, e events.FieldResolved) {
		id, _ := reqid.FromContext(ctx)
		requestIDs = append(requestIDs, id)
		got = append(got, e)
	})
	eventbus.SubscribeTo(bus, func(ctx context.Context, e events.ExecutionFinish) {
		id, _ := reqid.FromContext(ctx)
		requestIDs = append(requestIDs, id)
		got = append(got, e)
	})

	doc := mustParseQuery(t, `query Hero { hero { name } }`)
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	require.Empty(t, res.Errors)

	want := []any{
		events.ExecutionStart{OperationName: "Hero", OperationType: "query", RootType: "Query"},
		events.FieldResolved{ObjectType: "Query", Field: "hero", Path: "hero"},
		events.FieldResolved{ObjectType: "Droid", Field: "name", Path: "hero.name"},
		events.ExecutionFinish{OperationName: "Hero", OperationType: "query", RootType: "Query"},
	}
	opts := []cmp.Option{
		cmpopts.IgnoreFields(events.FieldResolved{}, "Start", "Duration"),
		cmpopts.IgnoreFields(events.ExecutionFinish{}, "Duration"),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	// every event of one request carries the same request id
	require.Len(t, requestIDs, 4)
	for _, id := range requestIDs[1:] {
		require.Equal(t, requestIDs[0], id)
	}
}
