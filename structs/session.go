package structs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	goccy "github.com/goccy/go-json"
	"github.com/hollowmoor/dreadhall"
)

// Well-known session flags with typed accessors.
const (
	FlagSanity = "sanity"
)

const (
	SanityMin = 0
	SanityMax = 100
)

// VisitHistoryLimit bounds the visited-room stack.
const VisitHistoryLimit = 32

// recordVersion is the serialization schema version. Records with any other
// version fail closed.
const recordVersion = "1"

// Placement is where an object currently is. Exactly one of the fields is
// set; the zero value means offstage (not reachable from any scope).
type Placement struct {
	Room      string
	Container string
	Held      bool
}

func HeldBy() Placement               { return Placement{Held: true} }
func InRoom(roomID string) Placement  { return Placement{Room: roomID} }
func InContainer(id string) Placement { return Placement{Container: id} }

func (p Placement) Offstage() bool {
	return !p.Held && p.Room == "" && p.Container == ""
}

func (p Placement) String() string {
	switch {
	case p.Held:
		return "held"
	case p.Room != "":
		return "room:" + p.Room
	case p.Container != "":
		return "container:" + p.Container
	}
	return "void"
}

// ParsePlacement is the inverse of Placement.String.
func ParsePlacement(s string) (Placement, error) {
	switch {
	case s == "held":
		return Placement{Held: true}, nil
	case s == "void":
		return Placement{}, nil
	case strings.HasPrefix(s, "room:"):
		return Placement{Room: s[len("room:"):]}, nil
	case strings.HasPrefix(s, "container:"):
		return Placement{Container: s[len("container:"):]}, nil
	}
	return Placement{}, fmt.Errorf("unknown placement %q", s)
}

// Session is one player's complete mutable state. The world model is never
// mutated; everything a command may change lives here. Object placement is
// a single map keyed by object id, which makes the one-location invariant
// structural rather than enforced.
type Session struct {
	ID         string
	Room       string
	Flags      map[string]FlagValue
	State      map[string]string
	Placements map[string]Placement
	Visited    []string
	Moves      int
	Score      int
	Scored     map[string]bool
	Modified   time.Time
}

// Flag implements CondEnv.
func (s *Session) Flag(name string) (FlagValue, bool) {
	val, found := s.Flags[name]
	return val, found
}

func (s *Session) SetFlag(name string, val FlagValue) {
	if s.Flags == nil {
		s.Flags = map[string]FlagValue{}
	}
	s.Flags[name] = val
}

// ObjectState implements CondEnv.
func (s *Session) ObjectState(objectID, key string) (string, bool) {
	val, found := s.State[StateKey(objectID, key)]
	return val, found
}

func (s *Session) SetObjectState(objectID, key, val string) {
	if s.State == nil {
		s.State = map[string]string{}
	}
	s.State[StateKey(objectID, key)] = val
}

func clampSanity(v int) int {
	if v < SanityMin {
		return SanityMin
	}
	if v > SanityMax {
		return SanityMax
	}
	return v
}

// Sanity returns the current sanity value, clamped to its band range.
func (s *Session) Sanity() int {
	val, _ := s.Flag(FlagSanity)
	return clampSanity(int(val))
}

func (s *Session) SetSanity(v int) {
	s.SetFlag(FlagSanity, FlagValue(clampSanity(v)))
}

// Battery returns the charge behind a light source's battery flag.
func (s *Session) Battery(flagName string) int {
	val, _ := s.Flag(flagName)
	if val < 0 {
		return 0
	}
	return int(val)
}

// PlacementOf returns where an object is, if it is anywhere at all.
func (s *Session) PlacementOf(objectID string) (Placement, bool) {
	p, found := s.Placements[objectID]
	return p, found
}

func (s *Session) Place(objectID string, p Placement) {
	if s.Placements == nil {
		s.Placements = map[string]Placement{}
	}
	if p.Offstage() {
		delete(s.Placements, objectID)
		return
	}
	s.Placements[objectID] = p
}

// Carrying reports whether the player holds the object.
func (s *Session) Carrying(objectID string) bool {
	p, found := s.Placements[objectID]
	return found && p.Held
}

// Inventory is derived from placements and returned sorted for
// deterministic listing and serialization.
func (s *Session) Inventory() []string {
	var result []string
	for id, p := range s.Placements {
		if p.Held {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result
}

// ItemsIn lists object ids placed directly in the given room. Order is
// unspecified; callers wanting declaration order sort against the world.
func (s *Session) ItemsIn(roomID string) []string {
	var result []string
	for id, p := range s.Placements {
		if p.Room == roomID {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result
}

// ContentsOf lists object ids inside the given container.
func (s *Session) ContentsOf(containerID string) []string {
	var result []string
	for id, p := range s.Placements {
		if p.Container == containerID {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result
}

// pushVisited appends to the bounded visit history, dropping the oldest
// entry when full.
func (s *Session) pushVisited(roomID string) {
	s.Visited = append(s.Visited, roomID)
	if len(s.Visited) > VisitHistoryLimit {
		s.Visited = s.Visited[len(s.Visited)-VisitHistoryLimit:]
	}
}

// Apply folds a handler result into the session at a single point. Failed
// results change nothing. The move counter and modification stamp are
// maintained here so every successful command stamps exactly once.
func (s *Session) Apply(res *Result, now time.Time) {
	if res == nil || !res.Success {
		return
	}
	if res.Room != "" && res.Room != s.Room {
		s.pushVisited(s.Room)
		s.Room = res.Room
	}
	for _, move := range res.Moved {
		s.Place(move.Object, move.To)
	}
	for name, val := range res.SetFlags {
		s.SetFlag(name, val)
	}
	for key, val := range res.SetState {
		if s.State == nil {
			s.State = map[string]string{}
		}
		s.State[key] = val
	}
	if res.SanityDelta != 0 {
		s.SetSanity(s.Sanity() + res.SanityDelta)
	}
	if res.ScoreDelta != 0 {
		// A treasure scores exactly once.
		if res.ScoreObject == "" || !s.Scored[res.ScoreObject] {
			s.Score += res.ScoreDelta
			if res.ScoreObject != "" {
				if s.Scored == nil {
					s.Scored = map[string]bool{}
				}
				s.Scored[res.ScoreObject] = true
			}
		}
	}
	s.Moves++
	s.Modified = now
}

// InvalidSessionError reports a stored record that cannot be trusted.
// Loading fails closed on it: the caller starts a fresh session instead of
// guessing at state.
type InvalidSessionError struct {
	Field  string
	Detail string
}

func (e InvalidSessionError) Error() string {
	return fmt.Sprintf("invalid session record: field %q: %s", e.Field, e.Detail)
}

// Record serializes the session to a flat string-keyed, string-valued
// schema. Structured fields are JSON-encoded with sorted keys; list fields
// are comma-joined in sorted or stack order, so serialization is
// deterministic for equal sessions.
func (s *Session) Record() (map[string]string, error) {
	flags, err := goccy.Marshal(s.Flags)
	if err != nil {
		return nil, dreadhall.WithStack(err)
	}
	state, err := goccy.Marshal(s.State)
	if err != nil {
		return nil, dreadhall.WithStack(err)
	}
	placements := map[string]string{}
	for id, p := range s.Placements {
		placements[id] = p.String()
	}
	placementsJSON, err := goccy.Marshal(placements)
	if err != nil {
		return nil, dreadhall.WithStack(err)
	}
	scored := make([]string, 0, len(s.Scored))
	for id, is := range s.Scored {
		if is {
			scored = append(scored, id)
		}
	}
	sort.Strings(scored)
	return map[string]string{
		"v":          recordVersion,
		"id":         s.ID,
		"room":       s.Room,
		"inventory":  strings.Join(s.Inventory(), ","),
		"flags":      string(flags),
		"state":      string(state),
		"placements": string(placementsJSON),
		"visited":    strings.Join(s.Visited, ","),
		"moves":      strconv.Itoa(s.Moves),
		"score":      strconv.Itoa(s.Score),
		"scored":     strings.Join(scored, ","),
		"modified":   s.Modified.UTC().Format(time.RFC3339Nano),
	}, nil
}

func need(rec map[string]string, field string) (string, error) {
	val, found := rec[field]
	if !found {
		return "", dreadhall.WithStack(InvalidSessionError{Field: field, Detail: "missing"})
	}
	return val, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// FromRecord deserializes a flat record. Any missing or malformed required
// field fails closed with InvalidSessionError.
func FromRecord(rec map[string]string) (*Session, error) {
	version, err := need(rec, "v")
	if err != nil {
		return nil, err
	}
	if version != recordVersion {
		return nil, dreadhall.WithStack(InvalidSessionError{Field: "v", Detail: fmt.Sprintf("unsupported version %q", version)})
	}
	s := &Session{
		Flags:      map[string]FlagValue{},
		State:      map[string]string{},
		Placements: map[string]Placement{},
		Scored:     map[string]bool{},
	}
	if s.ID, err = need(rec, "id"); err != nil {
		return nil, err
	}
	if s.ID == "" {
		return nil, dreadhall.WithStack(InvalidSessionError{Field: "id", Detail: "empty"})
	}
	if s.Room, err = need(rec, "room"); err != nil {
		return nil, err
	}
	if s.Room == "" {
		return nil, dreadhall.WithStack(InvalidSessionError{Field: "room", Detail: "empty"})
	}
	for field, target := range map[string]any{
		"flags": &s.Flags,
		"state": &s.State,
	} {
		raw, err := need(rec, field)
		if err != nil {
			return nil, err
		}
		if err := goccy.Unmarshal([]byte(raw), target); err != nil {
			return nil, dreadhall.WithStack(InvalidSessionError{Field: field, Detail: err.Error()})
		}
	}
	rawPlacements, err := need(rec, "placements")
	if err != nil {
		return nil, err
	}
	encoded := map[string]string{}
	if err := goccy.Unmarshal([]byte(rawPlacements), &encoded); err != nil {
		return nil, dreadhall.WithStack(InvalidSessionError{Field: "placements", Detail: err.Error()})
	}
	for id, enc := range encoded {
		p, err := ParsePlacement(enc)
		if err != nil {
			return nil, dreadhall.WithStack(InvalidSessionError{Field: "placements", Detail: err.Error()})
		}
		s.Placements[id] = p
	}
	inventory, err := need(rec, "inventory")
	if err != nil {
		return nil, err
	}
	// The inventory list is derived from placements; a disagreement means
	// the record was tampered with or truncated.
	for _, id := range splitList(inventory) {
		if p, found := s.Placements[id]; !found || !p.Held {
			return nil, dreadhall.WithStack(InvalidSessionError{Field: "inventory", Detail: fmt.Sprintf("object %q not held per placements", id)})
		}
	}
	visited, err := need(rec, "visited")
	if err != nil {
		return nil, err
	}
	s.Visited = splitList(visited)
	for _, field := range []string{"moves", "score"} {
		raw, err := need(rec, field)
		if err != nil {
			return nil, err
		}
		val, err := strconv.Atoi(raw)
		if err != nil || val < 0 {
			return nil, dreadhall.WithStack(InvalidSessionError{Field: field, Detail: fmt.Sprintf("not a non-negative integer: %q", raw)})
		}
		if field == "moves" {
			s.Moves = val
		} else {
			s.Score = val
		}
	}
	scored, err := need(rec, "scored")
	if err != nil {
		return nil, err
	}
	for _, id := range splitList(scored) {
		s.Scored[id] = true
	}
	modified, err := need(rec, "modified")
	if err != nil {
		return nil, err
	}
	if s.Modified, err = time.Parse(time.RFC3339Nano, modified); err != nil {
		return nil, dreadhall.WithStack(InvalidSessionError{Field: "modified", Detail: err.Error()})
	}
	return s, nil
}

// MarshalRecord renders the flat record as JSON for storage payloads.
func (s *Session) MarshalRecord() ([]byte, error) {
	rec, err := s.Record()
	if err != nil {
		return nil, err
	}
	b, err := goccy.Marshal(rec)
	return b, dreadhall.WithStack(err)
}

// UnmarshalRecord parses a storage payload produced by MarshalRecord.
func UnmarshalRecord(b []byte) (*Session, error) {
	rec := map[string]string{}
	if err := goccy.Unmarshal(b, &rec); err != nil {
		return nil, dreadhall.WithStack(InvalidSessionError{Field: "record", Detail: err.Error()})
	}
	return FromRecord(rec)
}
