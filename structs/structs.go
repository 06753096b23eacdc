// Package structs holds the data model of the engine: world content types,
// per-session state, and the result contract handlers communicate through.
package structs

import (
	"fmt"
	"strings"
)

// Direction is a canonical direction token. Surface forms ("n", "ne",
// "upward") are canonicalized by the parser.
type Direction string

const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
	Up        Direction = "up"
	Down      Direction = "down"
	In        Direction = "in"
	Out       Direction = "out"
)

// Directions is the canonical direction set.
var Directions = map[Direction]bool{
	North: true, South: true, East: true, West: true,
	Northeast: true, Northwest: true, Southeast: true, Southwest: true,
	Up: true, Down: true, In: true, Out: true,
}

// FlagValue is a world or session flag. Booleans are stored as 0/1 so the
// whole flag table stays uniformly numeric; content may declare either.
type FlagValue int

func (f FlagValue) Bool() bool {
	return f != 0
}

func Bool(b bool) FlagValue {
	if b {
		return 1
	}
	return 0
}

// UnmarshalYAML accepts both booleans and integers from content tables.
func (f *FlagValue) UnmarshalYAML(unmarshal func(any) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		*f = Bool(b)
		return nil
	}
	var i int
	if err := unmarshal(&i); err != nil {
		return err
	}
	*f = FlagValue(i)
	return nil
}

// Kind is the object type variant.
type Kind string

const (
	KindItem      Kind = "item"
	KindScenery   Kind = "scenery"
	KindContainer Kind = "container"
	KindDoor      Kind = "door"
	KindNPC       Kind = "npc"
	KindTreasure  Kind = "treasure"
)

var Kinds = map[Kind]bool{
	KindItem: true, KindScenery: true, KindContainer: true,
	KindDoor: true, KindNPC: true, KindTreasure: true,
}

// Well-known state bag keys.
const (
	StateOpen   = "open"
	StateLit    = "lit"
	StateLocked = "locked"
)

// StateKey is the flattened session key for one object's state entry.
func StateKey(objectID, key string) string {
	return fmt.Sprintf("%s.%s", objectID, key)
}

// SplitStateKey is the inverse of StateKey.
func SplitStateKey(key string) (objectID, stateKey string, ok bool) {
	idx := strings.IndexByte(key, '.')
	if idx <= 0 || idx+1 >= len(key) {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}

// Interaction is one row of an object's interaction table: a verb, an
// optional precondition, and the response plus deltas applied on success.
type Interaction struct {
	Verb     string               `yaml:"verb"`
	When     *Cond                `yaml:"when,omitempty"`
	Response string               `yaml:"response"`
	Fail     string               `yaml:"fail,omitempty"`
	SetState map[string]string    `yaml:"set_state,omitempty"`
	SetFlags map[string]FlagValue `yaml:"set_flags,omitempty"`
	Sanity   int                  `yaml:"sanity,omitempty"`
}

// LightSpec marks an object as a light source whose charge lives in the
// named session flag.
type LightSpec struct {
	BatteryFlag string `yaml:"battery_flag"`
}

// Object is an interactable entity. Immutable after world load; all mutable
// state lives in the Session (state bag overrides, placement).
type Object struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Aliases      []string          `yaml:"aliases,omitempty"`
	Kind         Kind              `yaml:"kind"`
	Description  string            `yaml:"description"`
	Takeable     bool              `yaml:"takeable,omitempty"`
	Capacity     int               `yaml:"capacity,omitempty"`
	Transparent  bool              `yaml:"transparent,omitempty"`
	Points       int               `yaml:"points,omitempty"`
	State        map[string]string `yaml:"state,omitempty"`
	Contents     []string          `yaml:"contents,omitempty"`
	Light        *LightSpec        `yaml:"light,omitempty"`
	Interactions []Interaction     `yaml:"interactions,omitempty"`
}

// Interaction returns the first interaction row matching verb.
func (o *Object) Interaction(verb string) *Interaction {
	for i := range o.Interactions {
		if o.Interactions[i].Verb == verb {
			return &o.Interactions[i]
		}
	}
	return nil
}

// InteractionsFor returns all rows for verb in declaration order. The
// engine fires the first row whose precondition holds.
func (o *Object) InteractionsFor(verb string) []*Interaction {
	var result []*Interaction
	for i := range o.Interactions {
		if o.Interactions[i].Verb == verb {
			result = append(result, &o.Interactions[i])
		}
	}
	return result
}

// Exit leads from a room towards another, optionally gated by a predicate.
type Exit struct {
	To      string `yaml:"to"`
	When    *Cond  `yaml:"when,omitempty"`
	Blocked string `yaml:"blocked,omitempty"`
}

// Room is one location of the world graph.
type Room struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Dark        string             `yaml:"dark,omitempty"`
	Bands       map[string]string  `yaml:"bands,omitempty"`
	Exits       map[Direction]Exit `yaml:"exits,omitempty"`
	Items       []string           `yaml:"items,omitempty"`
	Class       string             `yaml:"class,omitempty"`
	Lit         bool               `yaml:"lit"`
}

// Band is one of the four sanity severity tiers.
type Band int

const (
	BandStable Band = iota
	BandUneasy
	BandDisturbed
	BandShattered
)

func (b Band) String() string {
	switch b {
	case BandStable:
		return "stable"
	case BandUneasy:
		return "uneasy"
	case BandDisturbed:
		return "disturbed"
	case BandShattered:
		return "shattered"
	}
	return "unknown"
}

// BandFor buckets a sanity value into its severity tier.
func BandFor(sanity int) Band {
	switch {
	case sanity >= 75:
		return BandStable
	case sanity >= 50:
		return BandUneasy
	case sanity >= 25:
		return BandDisturbed
	}
	return BandShattered
}
