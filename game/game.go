// Package game dispatches parsed commands to verb handlers and folds their
// results into the session. Handlers never mutate state themselves: they
// compute a Result, and the dispatcher applies it at a single point.
package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/hollowmoor/dreadhall/lang"
	"github.com/hollowmoor/dreadhall/parser"
	"github.com/hollowmoor/dreadhall/structs"
	"github.com/hollowmoor/dreadhall/world"
)

// handler computes the result of one command. It must never return nil and
// must never panic; all failures are in-band.
type handler func(t *turn) *structs.Result

// turn is the context of a single command execution.
type turn struct {
	game *Game
	sess *structs.Session
	cmd  parser.Command
	seed int64
}

// Game is the dispatch engine. It is immutable after New and safe to share
// across sessions; all mutable state lives in the Session passed to
// Execute.
type Game struct {
	world    *world.World
	handlers map[parser.Verb]handler
	clock    func() time.Time
}

// New builds the engine over a validated world. The handler registry is
// assembled once, here, so dispatch stays a map lookup.
func New(w *world.World) *Game {
	g := &Game{
		world: w,
		clock: time.Now,
	}
	g.handlers = map[parser.Verb]handler{
		parser.VerbGo:         (*turn).move,
		parser.VerbLook:       (*turn).look,
		parser.VerbExamine:    (*turn).examine,
		parser.VerbTake:       (*turn).take,
		parser.VerbDrop:       (*turn).drop,
		parser.VerbPut:        (*turn).put,
		parser.VerbOpen:       (*turn).open,
		parser.VerbClose:      (*turn).close,
		parser.VerbInventory:  (*turn).inventory,
		parser.VerbActivate:   (*turn).activate,
		parser.VerbDeactivate: (*turn).deactivate,
		parser.VerbSearch:     (*turn).search,
		parser.VerbWait:       (*turn).wait,
		parser.VerbScore:      (*turn).score,
		parser.VerbHelp:       (*turn).help,
	}
	// Everything else that names an object goes through the interaction
	// table.
	for _, verb := range []parser.Verb{
		parser.VerbRead, parser.VerbUse, parser.VerbAttack, parser.VerbEat,
		parser.VerbDrink, parser.VerbListen, parser.VerbSmell,
		parser.VerbTouch, parser.VerbPray, parser.VerbShout,
		parser.VerbClimb, parser.VerbEnter, parser.VerbPush,
		parser.VerbPull, parser.VerbKnock, parser.VerbTalk,
	} {
		g.handlers[verb] = (*turn).interact
	}
	return g
}

// SetClock overrides the modification-stamp clock. Tests use it for
// reproducible stamps.
func (g *Game) SetClock(clock func() time.Time) {
	g.clock = clock
}

// World exposes the immutable world model.
func (g *Game) World() *world.World {
	return g.world
}

// Describe renders the session's current room without spending a turn.
// Front ends use it for the banner on connect and resume.
func (g *Game) Describe(sess *structs.Session) string {
	t := &turn{game: g, sess: sess}
	return t.describeRoom(sess.Room, sess.Sanity())
}

// Execute runs one command against a session: parse, dispatch, apply. The
// seed feeds any randomized effect this turn, so identical (session, text,
// seed) triples behave identically. Failures surface as failed results,
// never as errors.
func (g *Game) Execute(sess *structs.Session, text string, seed int64) *structs.Result {
	cmd := parser.Parse(text)
	t := &turn{game: g, sess: sess, cmd: cmd, seed: seed}
	res := t.dispatch()
	if res == nil {
		res = structs.Fail("Nothing happens, which is somehow worse.")
	}
	if res.Success {
		t.tickLight(res)
	}
	sess.Apply(res, g.clock())
	return res
}

func (t *turn) dispatch() *structs.Result {
	if t.cmd.Verb == parser.VerbUnknown {
		word := firstWord(t.cmd.Raw)
		if word == "" {
			return structs.Fail("The house waits for you to say something.")
		}
		return structs.Fail(fmt.Sprintf("%q is not a word this house understands.", word))
	}
	h, found := t.game.handlers[t.cmd.Verb]
	if !found {
		// Recognized verb, no handler: distinct from an unknown word.
		return structs.Fail(fmt.Sprintf("You know how to %s, but nothing here will let you.", t.cmd.Verb))
	}
	return h(t)
}

func firstWord(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// rng derives this turn's random source from the session, its move
// counter, and the caller-supplied seed, so randomized effects replay
// identically in tests.
func (t *turn) rng() *rand.Rand {
	h := fnv.New64()
	h.Write([]byte(t.sess.ID))
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b, uint64(t.sess.Moves))
	binary.BigEndian.PutUint64(b[8:], uint64(t.seed))
	h.Write(b)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func (t *turn) wait() *structs.Result {
	return structs.Say("Time passes. Somewhere above, a floorboard answers a question nobody asked.")
}

func (t *turn) score() *structs.Result {
	return structs.Say(fmt.Sprintf("You have scored %d of a possible %d points, in %d moves.",
		t.sess.Score, t.game.world.MaxScore, t.sess.Moves))
}

func (t *turn) help() *structs.Result {
	verbs := parser.Canonical()
	names := make([]string, 0, len(verbs))
	for _, verb := range verbs {
		if verb == parser.VerbUnknown {
			continue
		}
		names = append(names, string(verb))
	}
	return structs.Say(fmt.Sprintf("Some things you might try: %s.", lang.Enumerator{}.Do(names...)))
}
