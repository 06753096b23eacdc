package resolve

import (
	"testing"

	"github.com/pkg/errors"
)

func manorScope() Scope {
	return Scope{Items: []Item{
		{ID: "brass_lamp", Name: "brass lamp", Aliases: []string{"lamp", "lantern"}, Where: "carried", Priority: PriorityInventory, Decl: 0},
		{ID: "rusty_sword", Name: "rusty sword", Aliases: []string{"sword", "blade"}, Where: "here", Priority: PriorityRoom, Decl: 1},
		{ID: "ornate_sword", Name: "ornate sword", Aliases: []string{"sword", "blade"}, Where: "here", Priority: PriorityRoom, Decl: 2},
		{ID: "oak_chest", Name: "oak chest", Aliases: []string{"chest"}, Where: "here", Priority: PriorityRoom, Decl: 3},
		{ID: "silver_locket", Name: "silver locket", Aliases: []string{"locket"}, Where: "inside the oak chest", Priority: PriorityContainer, Decl: 4},
	}}
}

func TestResolve(t *testing.T) {
	for _, tc := range []struct {
		name  string
		query string
		want  string
	}{
		{name: "exact id", query: "rusty_sword", want: "rusty_sword"},
		{name: "exact name", query: "ornate sword", want: "ornate_sword"},
		{name: "case insensitive name", query: "Brass Lamp", want: "brass_lamp"},
		{name: "alias", query: "lantern", want: "brass_lamp"},
		{name: "substring", query: "lock", want: "silver_locket"},
		{name: "plural retried as singular", query: "lanterns", want: "brass_lamp"},
		{name: "container contents reachable", query: "locket", want: "silver_locket"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := manorScope().Resolve(tc.query)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	for _, query := range []string{"ghost", "", "   "} {
		_, err := manorScope().Resolve(query)
		notFound := NotFoundError{}
		if !errors.As(err, &notFound) {
			t.Errorf("Resolve(%q) error = %v, want NotFoundError", query, err)
		}
	}
}

func TestResolveAmbiguous(t *testing.T) {
	_, err := manorScope().Resolve("sword")
	ambiguous := AmbiguousError{}
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Resolve(sword) error = %v, want AmbiguousError", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(ambiguous.Candidates))
	}
	// Candidates arrive in declaration order for stable prompts.
	if ambiguous.Candidates[0].ID != "rusty_sword" || ambiguous.Candidates[1].ID != "ornate_sword" {
		t.Errorf("got candidates %v, want rusty_sword then ornate_sword", ambiguous.Candidates)
	}
}

func TestResolveExactNameBeatsSubstring(t *testing.T) {
	// "rusty sword" matches rusty_sword exactly and nothing else at that
	// tier, even though "sword" appears in two names.
	got, err := manorScope().Resolve("rusty sword")
	if err != nil {
		t.Fatal(err)
	}
	if got != "rusty_sword" {
		t.Errorf("got %q, want rusty_sword", got)
	}
}

func TestResolveInventoryWins(t *testing.T) {
	scope := Scope{Items: []Item{
		{ID: "carried_key", Name: "iron key", Aliases: []string{"key"}, Where: "carried", Priority: PriorityInventory, Decl: 5},
		{ID: "floor_key", Name: "bone key", Aliases: []string{"key"}, Where: "here", Priority: PriorityRoom, Decl: 1},
	}}
	got, err := scope.Resolve("key")
	if err != nil {
		t.Fatal(err)
	}
	if got != "carried_key" {
		t.Errorf("got %q, want carried_key", got)
	}
}

func TestResolveTwoCarriedStillAmbiguous(t *testing.T) {
	scope := Scope{Items: []Item{
		{ID: "iron_key", Name: "iron key", Aliases: []string{"key"}, Where: "carried", Priority: PriorityInventory, Decl: 0},
		{ID: "bone_key", Name: "bone key", Aliases: []string{"key"}, Where: "carried", Priority: PriorityInventory, Decl: 1},
	}}
	_, err := scope.Resolve("key")
	ambiguous := AmbiguousError{}
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Resolve(key) error = %v, want AmbiguousError", err)
	}
}

func TestResolveSameObjectTwicePaths(t *testing.T) {
	// The same id visible through two paths is not ambiguous.
	scope := Scope{Items: []Item{
		{ID: "candle", Name: "candle", Where: "carried", Priority: PriorityInventory, Decl: 0},
		{ID: "candle", Name: "candle", Where: "here", Priority: PriorityRoom, Decl: 0},
	}}
	got, err := scope.Resolve("candle")
	if err != nil {
		t.Fatal(err)
	}
	if got != "candle" {
		t.Errorf("got %q, want candle", got)
	}
}
