package game

import (
	"fmt"

	"github.com/hollowmoor/dreadhall/lang"
	"github.com/hollowmoor/dreadhall/structs"
)

func (t *turn) open() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Open what?")
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if object.Kind != structs.KindContainer && object.Kind != structs.KindDoor {
		return structs.Fail(fmt.Sprintf("The %s doesn't open.", object.Name))
	}
	if locked, _ := t.sess.ObjectState(objectID, structs.StateLocked); locked == "true" {
		return structs.Fail(fmt.Sprintf("The %s is locked.", object.Name))
	}
	if t.isOpen(objectID) {
		return structs.Fail(fmt.Sprintf("The %s is already open.", object.Name))
	}
	message := fmt.Sprintf("You open the %s.", object.Name)
	if object.Kind == structs.KindContainer {
		contents := t.sess.ContentsOf(objectID)
		t.game.world.SortDecl(contents)
		var names []string
		for _, contentID := range contents {
			if content, found := t.game.world.Object(contentID); found {
				names = append(names, content.Name)
			}
		}
		if len(names) > 0 {
			message = fmt.Sprintf("%s Inside you find %s.", message,
				lang.Enumerator{}.Do(lang.Articles(names)...))
		}
	}
	res := structs.Say(message)
	res.SetObjectState(objectID, structs.StateOpen, "true")
	return res
}

func (t *turn) close() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Close what?")
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if object.Kind != structs.KindContainer && object.Kind != structs.KindDoor {
		return structs.Fail(fmt.Sprintf("The %s doesn't close.", object.Name))
	}
	if !t.isOpen(objectID) {
		return structs.Fail(fmt.Sprintf("The %s is already closed.", object.Name))
	}
	res := structs.Say(fmt.Sprintf("You close the %s.", object.Name))
	res.SetObjectState(objectID, structs.StateOpen, "false")
	return res
}

// put moves a carried object into an open container with room to spare,
// and scores treasures placed in the scoring container exactly once.
func (t *turn) put() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Put what?")
	}
	if t.cmd.Target == "" {
		return structs.Fail("Put it where?")
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if !t.sess.Carrying(objectID) {
		return structs.Fail(fmt.Sprintf("You're not holding the %s.", object.Name))
	}
	targetID, fail := t.resolveObject(t.cmd.Target)
	if fail != nil {
		return fail
	}
	target, _ := t.game.world.Object(targetID)
	if target.Kind != structs.KindContainer {
		return structs.Fail(fmt.Sprintf("The %s won't hold anything.", target.Name))
	}
	if targetID == objectID {
		return structs.Fail(fmt.Sprintf("The %s cannot contain itself, whatever it believes.", target.Name))
	}
	if !t.isOpen(targetID) {
		return structs.Fail(fmt.Sprintf("The %s is closed.", target.Name))
	}
	if len(t.sess.ContentsOf(targetID)) >= target.Capacity {
		return structs.Fail(fmt.Sprintf("There's no room left in the %s.", target.Name))
	}
	res := structs.Say(fmt.Sprintf("You put the %s in the %s.", object.Name, target.Name))
	res.MoveObject(objectID, structs.InContainer(targetID))
	if targetID == t.game.world.Config.ScoringContainer &&
		object.Kind == structs.KindTreasure && !t.sess.Scored[objectID] {
		res.ScoreDelta = object.Points
		res.ScoreObject = objectID
		res.Notify(structs.NoteScore, fmt.Sprintf("The house exhales. (+%d points)", object.Points))
	}
	return res
}

// takeFrom is the explicit container form of take: the container must be
// open and actually hold the object.
func (t *turn) takeFrom() *structs.Result {
	targetID, fail := t.resolveObject(t.cmd.Target)
	if fail != nil {
		return fail
	}
	target, _ := t.game.world.Object(targetID)
	if target.Kind != structs.KindContainer {
		return structs.Fail(fmt.Sprintf("The %s doesn't hold things.", target.Name))
	}
	if !t.isOpen(targetID) {
		return structs.Fail(fmt.Sprintf("The %s is closed.", target.Name))
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if placement, _ := t.sess.PlacementOf(objectID); placement.Container != targetID {
		return structs.Fail(fmt.Sprintf("There's no %s in the %s.", object.Name, target.Name))
	}
	if !object.Takeable {
		return structs.Fail(fmt.Sprintf("The %s stays where it is.", object.Name))
	}
	res := structs.Say("Taken.")
	res.MoveObject(objectID, structs.HeldBy())
	return res
}
