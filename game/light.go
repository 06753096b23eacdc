package game

import (
	"fmt"

	"github.com/hollowmoor/dreadhall/structs"
)

// Battery level at or below which each turn carries a warning.
const batteryWarnAt = 5

func (t *turn) activate() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Turn on what?")
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if object.Light == nil {
		// Not a light source, but content may still define the verb.
		if len(object.InteractionsFor("activate")) > 0 {
			return t.runInteraction(object, "activate")
		}
		return structs.Fail(fmt.Sprintf("The %s has no switch, wick, or mercy.", object.Name))
	}
	if lit, _ := t.sess.ObjectState(objectID, structs.StateLit); lit == "true" {
		return structs.Fail(fmt.Sprintf("The %s is already burning.", object.Name))
	}
	if t.sess.Battery(object.Light.BatteryFlag) <= 0 {
		return structs.Fail(fmt.Sprintf("The %s is spent.", object.Name))
	}
	wasDark := !t.roomLit(t.sess.Room)
	res := structs.Say(fmt.Sprintf("The %s flares to life.", object.Name))
	res.SetObjectState(objectID, structs.StateLit, "true")
	if wasDark && t.sess.Carrying(objectID) {
		// Light reveals the room the player is standing in.
		res.Message = fmt.Sprintf("%s\n%s", res.Message,
			t.describeRoomWithLight(t.sess.Room, t.sess.Sanity(), true))
	}
	return res
}

func (t *turn) deactivate() *structs.Result {
	if t.cmd.Object == "" {
		return structs.Fail("Turn off what?")
	}
	objectID, fail := t.resolveObject(t.cmd.Object)
	if fail != nil {
		return fail
	}
	object, _ := t.game.world.Object(objectID)
	if object.Light == nil {
		if len(object.InteractionsFor("deactivate")) > 0 {
			return t.runInteraction(object, "deactivate")
		}
		return structs.Fail(fmt.Sprintf("The %s isn't the sort of thing you turn off.", object.Name))
	}
	if lit, _ := t.sess.ObjectState(objectID, structs.StateLit); lit != "true" {
		return structs.Fail(fmt.Sprintf("The %s isn't lit.", object.Name))
	}
	res := structs.Say(fmt.Sprintf("You snuff the %s. The darkness has been waiting.", object.Name))
	res.SetObjectState(objectID, structs.StateLit, "false")
	return res
}

// tickLight burns one unit of charge per successful turn from every
// carried, switched-on light source, folding the decrement into the same
// result so application stays atomic. Sources auto-extinguish at zero.
func (t *turn) tickLight(res *structs.Result) {
	for _, objectID := range t.sess.Inventory() {
		object, found := t.game.world.Object(objectID)
		if !found || object.Light == nil {
			continue
		}
		if !t.litAfter(res, objectID) {
			continue
		}
		battery := t.sess.Battery(object.Light.BatteryFlag)
		if pending, found := res.SetFlags[object.Light.BatteryFlag]; found {
			battery = int(pending)
		}
		if battery <= 0 {
			continue
		}
		battery--
		res.SetFlag(object.Light.BatteryFlag, structs.FlagValue(battery))
		switch {
		case battery == 0:
			res.SetObjectState(objectID, structs.StateLit, "false")
			res.Notify(structs.NoteBattery, fmt.Sprintf("The %s gutters and dies.", object.Name))
		case battery <= batteryWarnAt:
			res.Notify(structs.NoteBattery, fmt.Sprintf("The %s is guttering. %d turns of light remain.", object.Name, battery))
		}
	}
}

// litAfter reports whether the object will be switched on once res is
// applied: the handler's own state deltas take precedence over the
// session.
func (t *turn) litAfter(res *structs.Result, objectID string) bool {
	if val, found := res.SetState[structs.StateKey(objectID, structs.StateLit)]; found {
		return val == "true"
	}
	val, _ := t.sess.ObjectState(objectID, structs.StateLit)
	return val == "true"
}
