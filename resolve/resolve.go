// Package resolve turns free-text object references into unique ids, a
// not-found outcome, or an explicit candidate set for disambiguation.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hollowmoor/dreadhall/lang"
	"github.com/hollowmoor/dreadhall/structs"
)

// Priority classes for tie-breaking: carried objects shadow room objects,
// which shadow container contents.
const (
	PriorityInventory = iota
	PriorityRoom
	PriorityContainer
)

// Item is one object visible in the current scope.
type Item struct {
	ID       string
	Name     string
	Aliases  []string
	Where    string
	Priority int
	Decl     int
}

// Scope is the set of objects a name may refer to right now: the room's
// visible items, the inventory, and the contents of open containers in
// scope. The caller builds it; resolution itself is pure.
type Scope struct {
	Items []Item
}

// NotFoundError means nothing in scope matches the name.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no %q in scope", e.Name)
}

// AmbiguousError carries the candidate set, ordered by priority then
// declaration order. The next full command must supply a qualifier; no
// server-side clarification state is kept.
type AmbiguousError struct {
	Name       string
	Candidates []structs.Candidate
}

func (e AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.Name
	}
	return fmt.Sprintf("%q could mean %s", e.Name, lang.Enumerator{Operator: "or"}.Do(names...))
}

// Match tiers, strongest first.
const (
	tierNone = iota
	tierSubstring
	tierAlias
	tierName
	tierID
)

func (i *Item) tier(query string) int {
	if strings.EqualFold(i.ID, query) {
		return tierID
	}
	if strings.EqualFold(i.Name, query) {
		return tierName
	}
	for _, alias := range i.Aliases {
		if strings.EqualFold(alias, query) {
			return tierAlias
		}
	}
	lowered := strings.ToLower(query)
	if strings.Contains(strings.ToLower(i.Name), lowered) {
		return tierSubstring
	}
	for _, alias := range i.Aliases {
		if strings.Contains(strings.ToLower(alias), lowered) {
			return tierSubstring
		}
	}
	return tierNone
}

func (s Scope) matchesAt(query string) (int, []Item) {
	best := tierNone
	var matches []Item
	for _, item := range s.Items {
		tier := item.tier(query)
		if tier == tierNone || tier < best {
			continue
		}
		if tier > best {
			best = tier
			matches = matches[:0]
		}
		matches = append(matches, item)
	}
	return best, matches
}

// Resolve maps a name to a unique object id. Matching precedence is exact
// id, exact display name, alias, then substring, case-insensitive; plural
// references are retried in singular form. Among equal-tier matches a
// carried object silently wins over others; beyond that the candidate set
// is returned as an AmbiguousError rather than guessed at.
func (s Scope) Resolve(name string) (string, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return "", NotFoundError{Name: name}
	}
	best, matches := s.matchesAt(query)
	if best == tierNone {
		if singular := lang.Singular(query); singular != query {
			best, matches = s.matchesAt(singular)
		}
	}
	if best == tierNone || len(matches) == 0 {
		return "", NotFoundError{Name: query}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority < matches[j].Priority
		}
		return matches[i].Decl < matches[j].Decl
	})

	// Distinct ids only; the same object reachable through two paths is
	// not ambiguous.
	distinct := matches[:0]
	seen := map[string]bool{}
	for _, match := range matches {
		if !seen[match.ID] {
			seen[match.ID] = true
			distinct = append(distinct, match)
		}
	}
	if len(distinct) == 1 {
		return distinct[0].ID, nil
	}

	// Inventory-before-room: a single carried match shadows the rest.
	if distinct[0].Priority == PriorityInventory && distinct[1].Priority != PriorityInventory {
		return distinct[0].ID, nil
	}

	candidates := make([]structs.Candidate, len(distinct))
	for i, match := range distinct {
		candidates[i] = structs.Candidate{ID: match.ID, Name: match.Name, Where: match.Where}
	}
	return "", AmbiguousError{Name: query, Candidates: candidates}
}
