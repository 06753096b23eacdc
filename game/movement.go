package game

import (
	"fmt"

	"github.com/hollowmoor/dreadhall/structs"
)

// Probability (out of 100) that a shattered-band player blacks out when
// entering another cursed room.
const blackoutChance = 25

func (t *turn) move() *structs.Result {
	if t.cmd.Direction == "" {
		if t.cmd.Object != "" {
			return structs.Fail(fmt.Sprintf("%q is not a direction you can walk in.", t.cmd.Object))
		}
		return structs.Fail("Go where?")
	}
	room, found := t.game.world.Room(t.sess.Room)
	if !found {
		return structs.Fail("You are nowhere at all, which should worry you.")
	}
	exit, found := room.Exits[t.cmd.Direction]
	if !found {
		return structs.Fail(fmt.Sprintf("You can't go %s from here.", t.cmd.Direction))
	}
	if !exit.When.Eval(t.sess, "") {
		if exit.Blocked != "" {
			return structs.Fail(exit.Blocked)
		}
		return structs.Fail("Something bars the way.")
	}
	return t.enterRoom(exit.To)
}

// enterRoom builds the movement result: room change, classification-driven
// sanity delta, band text chosen from the pre-mutation value, and the
// seeded blackout effect for shattered players.
func (t *turn) enterRoom(roomID string) *structs.Result {
	w := t.game.world
	dest, found := w.Room(roomID)
	if !found {
		return structs.Fail("The way leads nowhere you can follow.")
	}
	preSanity := t.sess.Sanity()
	delta := w.ClassDelta(dest.Class)

	// In the deepest band, hostile rooms may refuse the player entirely.
	if structs.BandFor(preSanity) == structs.BandShattered && delta < 0 {
		if t.rng().Intn(100) < blackoutChance {
			res := structs.Say(fmt.Sprintf(
				"The darkness rears up and swallows you. You come to, shaking, back where you started.\n%s",
				t.describeRoom(w.Config.Start, preSanity)))
			res.Room = w.Config.Start
			res.SanityDelta = delta
			res.Notify(structs.NoteSanity, "You blacked out.")
			return res
		}
	}

	res := structs.Say(t.describeRoom(roomID, preSanity))
	res.Room = roomID
	res.SanityDelta = delta
	if delta != 0 {
		postBand := structs.BandFor(clamp(preSanity+delta, structs.SanityMin, structs.SanityMax))
		if preBand := structs.BandFor(preSanity); postBand != preBand {
			if delta < 0 {
				res.Notify(structs.NoteSanity, fmt.Sprintf("Your grip on the evening loosens. You feel %s.", postBand))
			} else {
				res.Notify(structs.NoteSanity, fmt.Sprintf("The stillness helps. You feel %s.", postBand))
			}
		}
	}
	return res
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
