package executor

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jensneuse/abstractlogger"

	config "github.com/hanpama/graphcore/internal/config"
	language "github.com/hanpama/graphcore/internal/language"
	schema "github.com/hanpama/graphcore/internal/schema"
)

// diffOpts compares results without the wrapped causes of errors and treats
// nil and empty slices alike.
var diffOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(GraphQLError{}),
	cmpopts.EquateEmpty(),
}

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

// obj builds a ResultMap from alternating keys and values.
func obj(kv ...any) ResultMap {
	m := make(ResultMap, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m = append(m, ResultField{Key: kv[i].(string), Value: kv[i+1]})
	}
	return m
}

func gqlErr(kind ErrorKind, message string, path ...PathElement) GraphQLError {
	return GraphQLError{Message: message, Path: Path(path), Extensions: map[string]any{"code": string(kind)}}
}

func newTestState(sch *schema.Schema, doc *language.QueryDocument, vars map[string]any) *executionState {
	return &executionState{
		ctx:       context.Background(),
		runtime:   SchemaRuntime{},
		logger:    abstractlogger.NoopLogger,
		schema:    sch,
		document:  doc,
		variables: vars,
	}
}

// object builds an object type named name; build adds its fields.
func object(name string, build func(c *config.Configuration)) *schema.Type {
	return schema.MustObject(func(c *config.Configuration) {
		schema.Name.Set(c, name)
		build(c)
	})
}

func resolver(fn func(ctx context.Context, p schema.ResolveParams) (any, error)) config.Options {
	return config.Options{"resolve": schema.ResolveFunc(fn)}
}

func mustSchema(t *testing.T, query *schema.Type, extra ...*schema.Type) *schema.Schema {
	t.Helper()
	opts := config.Options{"query": query}
	if len(extra) > 0 {
		opts["types"] = extra
	}
	s, err := schema.NewSchema(opts)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

type human struct {
	ID         string
	Name       string
	FriendIDs  []string `graphql:"-"`
	AppearsIn  []int
	HomePlanet string
}

type droid struct {
	ID              string
	Name            string
	FriendIDs       []string `graphql:"-"`
	AppearsIn       []int
	PrimaryFunction string
}

var (
	luke = &human{ID: "1000", Name: "Luke Skywalker", FriendIDs: []string{"1002", "2001"}, AppearsIn: []int{4, 5, 6}, HomePlanet: "Tatooine"}
	han  = &human{ID: "1002", Name: "Han Solo", FriendIDs: []string{"1000", "2001"}, AppearsIn: []int{4, 5, 6}}
	r2d2 = &droid{ID: "2001", Name: "R2-D2", FriendIDs: []string{"1000", "1002"}, AppearsIn: []int{4, 5, 6}, PrimaryFunction: "Astromech"}
)

func character(id string) any {
	switch id {
	case luke.ID:
		return luke
	case han.ID:
		return han
	case r2d2.ID:
		return r2d2
	}
	return nil
}

func friendsOf(ctx context.Context, p schema.ResolveParams) (any, error) {
	var ids []string
	switch c := p.Source.(type) {
	case *human:
		ids = c.FriendIDs
	case *droid:
		ids = c.FriendIDs
	}
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = character(id)
	}
	return out, nil
}

// starWars is the schema most executor tests run against:
//
//	enum Episode { NEWHOPE EMPIRE JEDI }
//	interface Character { id: ID! name: String friends: [Character] appearsIn: [Episode] }
//	type Human implements Character { ... homePlanet: String }
//	type Droid implements Character { ... primaryFunction: String }
//	union SearchResult = Human | Droid
//	type Query {
//	  hero(episode: Episode): Character
//	  human(id: ID!): Human
//	  droid(id: ID!): Droid
//	  search: [SearchResult]
//	}
type starWars struct {
	schema    *schema.Schema
	query     *schema.Type
	human     *schema.Type
	droid     *schema.Type
	character *schema.Type
}

func newStarWars(t *testing.T) *starWars {
	t.Helper()
	sw := &starWars{}

	episode := schema.MustEnum(func(c *config.Configuration) {
		schema.Name.Set(c, "Episode")
		schema.AddValue(c, "NEWHOPE", 4)
		schema.AddValue(c, "EMPIRE", 5)
		schema.AddValue(c, "JEDI", 6)
	})
	characterRef := schema.Lazy(func() schema.TypeRef { return sw.character })

	commonFields := func(c *config.Configuration) {
		schema.AddField(c, "id", schema.NonNullOf(schema.ID))
		schema.AddField(c, "name", schema.String)
		schema.AddField(c, "friends", schema.ListOf(characterRef), resolver(friendsOf))
		schema.AddField(c, "appearsIn", schema.ListOf(episode))
	}

	sw.character = schema.MustInterface(func(c *config.Configuration) {
		schema.Name.Set(c, "Character")
		commonFields(c)
		schema.TypeResolver.Set(c, func(ctx context.Context, v any) (*schema.Type, error) {
			switch v.(type) {
			case *human:
				return sw.human, nil
			case *droid:
				return sw.droid, nil
			}
			return nil, nil
		})
	})
	sw.human = object("Human", func(c *config.Configuration) {
		schema.Implements(c, sw.character)
		commonFields(c)
		schema.AddField(c, "homePlanet", schema.String)
	})
	sw.droid = object("Droid", func(c *config.Configuration) {
		schema.Implements(c, sw.character)
		commonFields(c)
		schema.AddField(c, "primaryFunction", schema.String)
	})
	searchResult := schema.MustUnion(func(c *config.Configuration) {
		schema.Name.Set(c, "SearchResult")
		schema.Members(c, sw.human, sw.droid)
		schema.TypeResolver.Set(c, schema.TypeResolver.Get(sw.character.Config()))
	})

	sw.query = object("Query", func(c *config.Configuration) {
		hero := schema.AddField(c, "hero", sw.character, resolver(func(ctx context.Context, p schema.ResolveParams) (any, error) {
			if p.Args["episode"] == 5 {
				return luke, nil
			}
			return r2d2, nil
		}))
		schema.AddArgument(hero.Config(), "episode", episode)

		humanField := schema.AddField(c, "human", sw.human, resolver(func(ctx context.Context, p schema.ResolveParams) (any, error) {
			if h, ok := character(p.Args["id"].(string)).(*human); ok {
				return h, nil
			}
			return nil, nil
		}))
		schema.AddArgument(humanField.Config(), "id", schema.NonNullOf(schema.ID))

		droidField := schema.AddField(c, "droid", sw.droid, resolver(func(ctx context.Context, p schema.ResolveParams) (any, error) {
			if d, ok := character(p.Args["id"].(string)).(*droid); ok {
				return d, nil
			}
			return nil, nil
		}))
		schema.AddArgument(droidField.Config(), "id", schema.NonNullOf(schema.ID))

		schema.AddField(c, "search", schema.ListOf(searchResult), resolver(func(ctx context.Context, p schema.ResolveParams) (any, error) {
			return []any{luke, r2d2}, nil
		}))
	})

	sw.schema = mustSchema(t, sw.query, sw.human, sw.droid)
	return sw
}
