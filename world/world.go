// Package world builds the immutable world model from content tables and
// validates every cross-reference before the engine serves a single
// command.
package world

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hollowmoor/dreadhall"
	"github.com/hollowmoor/dreadhall/structs"
	"gopkg.in/yaml.v3"
)

// Config is the world-level header of the flag table.
type Config struct {
	Start            string         `yaml:"start"`
	ScoringContainer string         `yaml:"scoring_container"`
	Classes          map[string]int `yaml:"classes"`
}

// World is the process-wide content: rooms, objects and flag defaults.
// Built once, validated once, and shared read-only across all sessions.
type World struct {
	Rooms       map[string]*structs.Room
	Objects     map[string]*structs.Object
	Flags       map[string]structs.FlagValue
	Config      Config
	MaxScore    int
	roomOrder   []string
	objectOrder []string
	declIndex   map[string]int
}

// LoadError is the only fatal error class of the core: content whose
// cross-references do not hold. It collects every problem found so content
// authors fix them in one pass.
type LoadError struct {
	Problems []string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("world content invalid: %s", strings.Join(e.Problems, "; "))
}

type roomsDoc struct {
	Rooms []*structs.Room `yaml:"rooms"`
}

type objectsDoc struct {
	Objects []*structs.Object `yaml:"objects"`
}

type flagsDoc struct {
	World Config                       `yaml:"world"`
	Flags map[string]structs.FlagValue `yaml:"flags"`
}

func decodeStrict(raw []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dreadhall.WithStack(dec.Decode(target))
}

// Load parses the three content tables and validates them. On any
// validation problem it returns a *LoadError naming all of them; the
// engine must refuse to serve sessions until content loads cleanly.
func Load(roomsYAML, objectsYAML, flagsYAML []byte) (*World, error) {
	var rooms roomsDoc
	if err := decodeStrict(roomsYAML, &rooms); err != nil {
		return nil, err
	}
	var objects objectsDoc
	if err := decodeStrict(objectsYAML, &objects); err != nil {
		return nil, err
	}
	var flags flagsDoc
	if err := decodeStrict(flagsYAML, &flags); err != nil {
		return nil, err
	}

	w := &World{
		Rooms:     map[string]*structs.Room{},
		Objects:   map[string]*structs.Object{},
		Flags:     flags.Flags,
		Config:    flags.World,
		declIndex: map[string]int{},
	}
	if w.Flags == nil {
		w.Flags = map[string]structs.FlagValue{}
	}
	problems := []string{}
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, room := range rooms.Rooms {
		if room.ID == "" {
			report("room with empty id")
			continue
		}
		if _, dup := w.Rooms[room.ID]; dup {
			report("duplicate room id %q", room.ID)
			continue
		}
		w.Rooms[room.ID] = room
		w.roomOrder = append(w.roomOrder, room.ID)
	}
	for idx, object := range objects.Objects {
		if object.ID == "" {
			report("object with empty id")
			continue
		}
		if _, dup := w.Objects[object.ID]; dup {
			report("duplicate object id %q", object.ID)
			continue
		}
		w.Objects[object.ID] = object
		w.objectOrder = append(w.objectOrder, object.ID)
		w.declIndex[object.ID] = idx
	}

	w.validate(report)
	if len(problems) > 0 {
		return nil, dreadhall.WithStack(&LoadError{Problems: problems})
	}
	for _, object := range w.Objects {
		if object.Kind == structs.KindTreasure {
			w.MaxScore += object.Points
		}
	}
	return w, nil
}

func (w *World) checkCond(cond *structs.Cond, where string, report func(string, ...any)) {
	if cond == nil {
		return
	}
	if err := cond.Check(); err != nil {
		report("%s: %v", where, err)
		return
	}
	cond.Refs(func(name string) {
		if _, found := w.Flags[name]; !found {
			report("%s: references undefined flag %q", where, name)
		}
	}, func(id string) {
		if _, found := w.Objects[id]; !found {
			report("%s: references undefined object %q", where, id)
		}
	})
}

func (w *World) validate(report func(string, ...any)) {
	if _, found := w.Rooms[w.Config.Start]; !found {
		report("world: start room %q does not exist", w.Config.Start)
	}
	if w.Config.ScoringContainer != "" {
		target, found := w.Objects[w.Config.ScoringContainer]
		if !found {
			report("world: scoring container %q does not exist", w.Config.ScoringContainer)
		} else if target.Kind != structs.KindContainer {
			report("world: scoring container %q is a %s, not a container", target.ID, target.Kind)
		}
	}
	if _, found := w.Flags[structs.FlagSanity]; !found {
		report("flags: no default for %q", structs.FlagSanity)
	}

	// An object id may appear in at most one initial location: one room's
	// item set or one container's contents.
	placed := map[string]string{}
	claim := func(objectID, where string) {
		if prior, found := placed[objectID]; found {
			report("object %q placed both in %s and in %s", objectID, prior, where)
			return
		}
		placed[objectID] = where
	}

	for _, roomID := range w.roomOrder {
		room := w.Rooms[roomID]
		for direction, exit := range room.Exits {
			where := fmt.Sprintf("room %q exit %q", roomID, direction)
			if !structs.Directions[direction] {
				report("%s: unknown direction", where)
			}
			if _, found := w.Rooms[exit.To]; !found {
				report("%s: leads to undefined room %q", where, exit.To)
			}
			w.checkCond(exit.When, where, report)
		}
		for _, itemID := range room.Items {
			if _, found := w.Objects[itemID]; !found {
				report("room %q lists undefined item %q", roomID, itemID)
				continue
			}
			claim(itemID, fmt.Sprintf("room %q", roomID))
		}
		for band := range room.Bands {
			switch band {
			case structs.BandStable.String(), structs.BandUneasy.String(),
				structs.BandDisturbed.String(), structs.BandShattered.String():
			default:
				report("room %q: unknown sanity band %q", roomID, band)
			}
		}
		if room.Class != "" {
			if _, found := w.Config.Classes[room.Class]; !found {
				report("room %q: unknown classification %q", roomID, room.Class)
			}
		}
	}

	for _, objectID := range w.objectOrder {
		object := w.Objects[objectID]
		where := fmt.Sprintf("object %q", objectID)
		if object.Name == "" {
			report("%s: empty name", where)
		}
		if !structs.Kinds[object.Kind] {
			report("%s: unknown kind %q", where, object.Kind)
		}
		if len(object.Contents) > 0 && object.Kind != structs.KindContainer {
			report("%s: has contents but is not a container", where)
		}
		if object.Kind == structs.KindContainer && object.Capacity <= 0 {
			report("%s: container needs a positive capacity", where)
		}
		if object.Kind == structs.KindTreasure && object.Points <= 0 {
			report("%s: treasure needs a positive point value", where)
		}
		if object.Kind != structs.KindTreasure && object.Points != 0 {
			report("%s: only treasures carry points", where)
		}
		if object.Light != nil {
			if _, found := w.Flags[object.Light.BatteryFlag]; !found {
				report("%s: battery flag %q has no default", where, object.Light.BatteryFlag)
			}
		}
		for _, contentID := range object.Contents {
			if _, found := w.Objects[contentID]; !found {
				report("%s: contains undefined object %q", where, contentID)
				continue
			}
			claim(contentID, where)
		}
		if len(object.Contents) > object.Capacity && object.Kind == structs.KindContainer {
			report("%s: initial contents exceed capacity %d", where, object.Capacity)
		}
		for idx, interaction := range object.Interactions {
			iwhere := fmt.Sprintf("%s interaction %d (%q)", where, idx, interaction.Verb)
			if strings.TrimSpace(interaction.Verb) == "" {
				report("%s: empty verb", iwhere)
			}
			if strings.TrimSpace(interaction.Response) == "" {
				report("%s: empty response", iwhere)
			}
			w.checkCond(interaction.When, iwhere, report)
			for name := range interaction.SetFlags {
				if _, found := w.Flags[name]; !found {
					report("%s: sets undefined flag %q", iwhere, name)
				}
			}
		}
	}

	w.checkContainmentCycles(report)
}

// checkContainmentCycles rejects initial containment that forms a cycle, so
// every command stays a bounded, non-recursive computation.
func (w *World) checkContainmentCycles(report func(string, ...any)) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}
	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case visiting:
			return false
		case done:
			return true
		}
		state[id] = visiting
		if object, found := w.Objects[id]; found {
			for _, contentID := range object.Contents {
				if !visit(contentID) {
					report("containment cycle through %q", id)
					state[id] = done
					return true // reported once, keep walking
				}
			}
		}
		state[id] = done
		return true
	}
	for _, id := range w.objectOrder {
		visit(id)
	}
}

// Room returns a room by id.
func (w *World) Room(id string) (*structs.Room, bool) {
	room, found := w.Rooms[id]
	return room, found
}

// Object returns an object by id.
func (w *World) Object(id string) (*structs.Object, bool) {
	object, found := w.Objects[id]
	return object, found
}

// DeclIndex is the content declaration position of an object, used as the
// final tie-breaker during disambiguation.
func (w *World) DeclIndex(objectID string) int {
	if idx, found := w.declIndex[objectID]; found {
		return idx
	}
	return len(w.declIndex)
}

// SortDecl sorts object ids by declaration order in place.
func (w *World) SortDecl(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return w.DeclIndex(ids[i]) < w.DeclIndex(ids[j])
	})
}

// ClassDelta is the sanity entry delta for a room classification.
func (w *World) ClassDelta(class string) int {
	return w.Config.Classes[class]
}

// NewSession creates a fresh session at the start room, seeding the flag
// table from world defaults, object placements from room item sets and
// container contents, and state bags from object defaults.
func (w *World) NewSession(id string, now time.Time) *structs.Session {
	s := &structs.Session{
		ID:         id,
		Room:       w.Config.Start,
		Flags:      map[string]structs.FlagValue{},
		State:      map[string]string{},
		Placements: map[string]structs.Placement{},
		Scored:     map[string]bool{},
		Modified:   now,
	}
	for name, val := range w.Flags {
		s.Flags[name] = val
	}
	for _, roomID := range w.roomOrder {
		for _, itemID := range w.Rooms[roomID].Items {
			s.Place(itemID, structs.InRoom(roomID))
		}
	}
	for _, objectID := range w.objectOrder {
		object := w.Objects[objectID]
		for _, contentID := range object.Contents {
			s.Place(contentID, structs.InContainer(objectID))
		}
		for key, val := range object.State {
			s.SetObjectState(objectID, key, val)
		}
	}
	return s
}
