package game

import (
	"fmt"
	"strings"

	"github.com/hollowmoor/dreadhall/lang"
	"github.com/hollowmoor/dreadhall/parser"
	"github.com/hollowmoor/dreadhall/structs"
)

func (t *turn) look() *structs.Result {
	return structs.Say(t.describeRoom(t.sess.Room, t.sess.Sanity()))
}

func (t *turn) examine() *structs.Result {
	if t.cmd.Object == "" {
		return t.look()
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)

	// Content may override examine wholesale (haunted things look back).
	if len(object.InteractionsFor(string(parser.VerbExamine))) > 0 {
		return t.runInteraction(object, string(parser.VerbExamine))
	}

	parts := []string{object.Description}
	if object.Kind == structs.KindContainer {
		switch {
		case t.isOpen(objectID) || object.Transparent:
			contents := t.sess.ContentsOf(objectID)
			t.game.world.SortDecl(contents)
			var names []string
			for _, contentID := range contents {
				if content, found := t.game.world.Object(contentID); found {
					names = append(names, content.Name)
				}
			}
			if len(names) == 0 {
				parts = append(parts, fmt.Sprintf("The %s is empty.", object.Name))
			} else {
				parts = append(parts, fmt.Sprintf("The %s contains %s.",
					object.Name, lang.Enumerator{}.Do(lang.Articles(names)...)))
			}
		default:
			parts = append(parts, fmt.Sprintf("The %s is closed.", object.Name))
		}
	}
	return structs.Say(strings.Join(parts, "\n"))
}

func (t *turn) take() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Take what?")
	}
	// "take X from Y" routes through the container path.
	if t.cmd.Preposition == "from" && t.cmd.Target != "" {
		return t.takeFrom()
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if t.sess.Carrying(objectID) {
		return structs.Fail(fmt.Sprintf("You're already carrying the %s.", object.Name))
	}
	if !object.Takeable {
		return structs.Fail(fmt.Sprintf("The %s stays where it is.", object.Name))
	}
	res := structs.Say("Taken.")
	res.MoveObject(objectID, structs.HeldBy())
	return res
}

func (t *turn) drop() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Drop what?")
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if !t.sess.Carrying(objectID) {
		return structs.Fail(fmt.Sprintf("You're not carrying the %s.", object.Name))
	}
	res := structs.Say("Dropped.")
	res.MoveObject(objectID, structs.InRoom(t.sess.Room))
	return res
}

func (t *turn) inventory() *structs.Result {
	var names []string
	for _, objectID := range t.sess.Inventory() {
		if object, found := t.game.world.Object(objectID); found {
			names = append(names, object.Name)
		}
	}
	if len(names) == 0 {
		return structs.Say("You are empty-handed.")
	}
	return structs.Say(fmt.Sprintf("You are carrying %s.",
		lang.Enumerator{}.Do(lang.Articles(names)...)))
}

func (t *turn) search() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Search what?")
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if len(object.InteractionsFor(string(parser.VerbSearch))) > 0 {
		return t.runInteraction(object, string(parser.VerbSearch))
	}
	return structs.Say(fmt.Sprintf("You find nothing of interest about the %s.", object.Name))
}

// Flavor responses for verbs used without an object. These succeed: the
// player did something, the house just didn't care.
var objectlessResponses = map[parser.Verb]string{
	parser.VerbListen: "You hold your breath. The house holds its own.",
	parser.VerbSmell:  "Dust, tallow, and under it all something older.",
	parser.VerbPray:   "You mutter a prayer to no one in particular. No one in particular answers.",
	parser.VerbShout:  "Your voice dies a few feet from your mouth. The echo arrives late, and wrong.",
	parser.VerbTalk:   "You say a few brave words to the empty air.",
}

// interact is the shared handler for verbs that act through an object's
// interaction table. It distinguishes "this verb works on nothing here"
// from "this object doesn't answer to that verb".
func (t *turn) interact() *structs.Result {
	verb := t.cmd.Verb
	if t.cmd.Object == "" {
		if response, found := objectlessResponses[verb]; found {
			return structs.Say(response)
		}
		return structs.Fail(fmt.Sprintf("%s what?", lang.Capitalize(string(verb))))
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	// An instrument must at least exist in scope, even where it changes
	// nothing ("attack the warden with the sword").
	if t.cmd.Instrument != "" {
		if _, fail := t.resolveObject(t.cmd.Instrument); fail != nil {
			return fail
		}
	}
	object, _ := t.game.world.Object(objectID)
	return t.runInteraction(object, string(verb))
}

// runInteraction fires the first row for verb whose precondition holds.
// Rows exist but none hold: that is a precondition failure, reported with
// the row's fail text. No rows at all: the object doesn't support the
// verb.
func (t *turn) runInteraction(object *structs.Object, verb string) *structs.Result {
	rows := object.InteractionsFor(verb)
	if len(rows) == 0 {
		return structs.Fail(fmt.Sprintf("You can't %s the %s.", verb, object.Name))
	}
	for _, row := range rows {
		if !row.When.Eval(t.sess, object.ID) {
			continue
		}
		res := structs.Say(row.Response)
		for key, val := range row.SetState {
			res.SetObjectState(object.ID, key, val)
		}
		for name, val := range row.SetFlags {
			res.SetFlag(name, val)
		}
		res.SanityDelta = row.Sanity
		if row.Sanity < 0 {
			res.Notify(structs.NoteSanity, fmt.Sprintf("The %s takes something from you.", object.Name))
		}
		return res
	}
	if fail := rows[0].Fail; fail != "" {
		return structs.Fail(fail)
	}
	return structs.Fail(fmt.Sprintf("The %s refuses. Perhaps the time isn't right.", object.Name))
}
