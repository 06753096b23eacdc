package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hollowmoor/dreadhall/lang"
	"github.com/hollowmoor/dreadhall/resolve"
	"github.com/hollowmoor/dreadhall/structs"
)

const defaultDarkness = "It is pitch black. You cannot see a thing."

// lightActive reports whether objectID is a working, switched-on light
// source right now.
func (t *turn) lightActive(objectID string) bool {
	object, found := t.game.world.Object(objectID)
	if !found || object.Light == nil {
		return false
	}
	if lit, _ := t.sess.ObjectState(objectID, structs.StateLit); lit != "true" {
		return false
	}
	return t.sess.Battery(object.Light.BatteryFlag) > 0
}

// roomLit computes effective light: intrinsic room light, or any carried
// active light source with charge left.
func (t *turn) roomLit(roomID string) bool {
	room, found := t.game.world.Room(roomID)
	if found && room.Lit {
		return true
	}
	for _, objectID := range t.sess.Inventory() {
		if t.lightActive(objectID) {
			return true
		}
	}
	return false
}

func (t *turn) isOpen(objectID string) bool {
	open, _ := t.sess.ObjectState(objectID, structs.StateOpen)
	return open == "true"
}

// scope assembles everything a name may currently refer to: the inventory,
// the room's items when there is light to see them, and the contents of
// open containers in either place.
func (t *turn) scope() resolve.Scope {
	w := t.game.world
	var items []resolve.Item
	add := func(objectID, where string, priority int) {
		object, found := w.Object(objectID)
		if !found {
			return
		}
		items = append(items, resolve.Item{
			ID:       objectID,
			Name:     object.Name,
			Aliases:  object.Aliases,
			Where:    where,
			Priority: priority,
			Decl:     w.DeclIndex(objectID),
		})
	}

	var containers []string
	for _, objectID := range t.sess.Inventory() {
		add(objectID, "carried", resolve.PriorityInventory)
		containers = append(containers, objectID)
	}
	if t.roomLit(t.sess.Room) {
		roomItems := t.sess.ItemsIn(t.sess.Room)
		w.SortDecl(roomItems)
		for _, objectID := range roomItems {
			add(objectID, "here", resolve.PriorityRoom)
			containers = append(containers, objectID)
		}
	}
	for _, containerID := range containers {
		container, found := w.Object(containerID)
		if !found || container.Kind != structs.KindContainer || !t.isOpen(containerID) {
			continue
		}
		contents := t.sess.ContentsOf(containerID)
		w.SortDecl(contents)
		for _, objectID := range contents {
			add(objectID, fmt.Sprintf("inside the %s", container.Name), resolve.PriorityContainer)
		}
	}
	return resolve.Scope{Items: items}
}

// resolveObject resolves a player-written name against the current scope.
// NOT_FOUND and AMBIGUOUS come back as distinct failed results; neither
// mutates anything.
func (t *turn) resolveObject(name string) (string, *structs.Result) {
	id, err := t.scope().Resolve(name)
	if err == nil {
		return id, nil
	}
	ambiguous := resolve.AmbiguousError{}
	if errors.As(err, &ambiguous) {
		descriptors := make([]string, len(ambiguous.Candidates))
		for i, candidate := range ambiguous.Candidates {
			descriptors[i] = fmt.Sprintf("the %s (%s)", candidate.Name, candidate.Where)
		}
		res := structs.Fail(fmt.Sprintf("Which %s do you mean: %s?",
			ambiguous.Name, lang.Enumerator{Operator: "or"}.Do(descriptors...)))
		res.Candidates = ambiguous.Candidates
		return "", res
	}
	return "", structs.Fail(fmt.Sprintf("You see no %s here.", strings.TrimSpace(name)))
}

// describeRoom renders a room for look or entry. The band variant is
// selected from the sanity value the caller passes, which for movement is
// the pre-mutation value.
func (t *turn) describeRoom(roomID string, sanity int) string {
	return t.describeRoomWithLight(roomID, sanity, t.roomLit(roomID))
}

// describeRoomWithLight is describeRoom with the effective-light decision
// made by the caller, for the turn where a light source comes on before
// its state delta is applied.
func (t *turn) describeRoomWithLight(roomID string, sanity int, lit bool) string {
	w := t.game.world
	room, found := w.Room(roomID)
	if !found {
		return defaultDarkness
	}
	if !lit {
		if room.Dark != "" {
			return room.Dark
		}
		return defaultDarkness
	}
	parts := []string{fmt.Sprintf("%s\n%s", room.Name, room.Description)}
	if band := structs.BandFor(sanity); band != structs.BandStable {
		if variant, found := room.Bands[band.String()]; found {
			parts = append(parts, variant)
		}
	}
	roomItems := t.sess.ItemsIn(roomID)
	w.SortDecl(roomItems)
	var names []string
	for _, objectID := range roomItems {
		object, found := w.Object(objectID)
		if !found || object.Kind == structs.KindScenery {
			continue
		}
		names = append(names, object.Name)
	}
	if len(names) > 0 {
		parts = append(parts, fmt.Sprintf("You see %s here.",
			lang.Enumerator{}.Do(lang.Articles(names)...)))
	}
	if len(room.Exits) > 0 {
		var exits []string
		for direction := range room.Exits {
			exits = append(exits, string(direction))
		}
		// Stable order for tests and players alike.
		sort.Strings(exits)
		parts = append(parts, fmt.Sprintf("Obvious exits: %s.", strings.Join(exits, ", ")))
	}
	return strings.Join(parts, "\n")
}
