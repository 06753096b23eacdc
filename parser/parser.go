// Package parser turns free player text into a structured command. Parsing
// is a pure function of its input: it never consults world or session
// state, never fails, and always returns a value.
package parser

import (
	"sort"
	"strings"

	"github.com/buildkite/shellwords"
	"github.com/hollowmoor/dreadhall/structs"
)

// Verb is a canonical verb. Surface synonyms are folded into these by the
// synonym table below.
type Verb string

const (
	VerbUnknown Verb = "unknown"

	VerbGo         Verb = "go"
	VerbLook       Verb = "look"
	VerbExamine    Verb = "examine"
	VerbTake       Verb = "take"
	VerbDrop       Verb = "drop"
	VerbPut        Verb = "put"
	VerbOpen       Verb = "open"
	VerbClose      Verb = "close"
	VerbLock       Verb = "lock"
	VerbUnlock     Verb = "unlock"
	VerbInventory  Verb = "inventory"
	VerbRead       Verb = "read"
	VerbUse        Verb = "use"
	VerbAttack     Verb = "attack"
	VerbActivate   Verb = "activate"
	VerbDeactivate Verb = "deactivate"
	VerbEat        Verb = "eat"
	VerbDrink      Verb = "drink"
	VerbListen     Verb = "listen"
	VerbSmell      Verb = "smell"
	VerbTouch      Verb = "touch"
	VerbSearch     Verb = "search"
	VerbWait       Verb = "wait"
	VerbScore      Verb = "score"
	VerbPray       Verb = "pray"
	VerbShout      Verb = "shout"
	VerbClimb      Verb = "climb"
	VerbEnter      Verb = "enter"
	VerbPush       Verb = "push"
	VerbPull       Verb = "pull"
	VerbKnock      Verb = "knock"
	VerbTalk       Verb = "talk"
	VerbGive       Verb = "give"
	VerbHelp       Verb = "help"
)

// Command is the parsed form of one line of input.
type Command struct {
	Raw         string
	Verb        Verb
	Object      string
	Target      string
	Instrument  string
	Direction   structs.Direction
	Preposition string
}

// Multi-word verbs, matched greedily against the first two tokens before
// single-token verbs are tried.
var multiwordVerbs = map[string]Verb{
	"turn on":     VerbActivate,
	"switch on":   VerbActivate,
	"turn off":    VerbDeactivate,
	"switch off":  VerbDeactivate,
	"pick up":     VerbTake,
	"put down":    VerbDrop,
	"look at":     VerbExamine,
	"look inside": VerbExamine,
	"look under":  VerbSearch,
	"look in":     VerbExamine,
}

var verbSynonyms = map[string]Verb{
	"go": VerbGo, "walk": VerbGo, "move": VerbGo, "travel": VerbGo,
	"head": VerbGo, "run": VerbGo, "proceed": VerbGo, "wander": VerbGo,

	"look": VerbLook, "l": VerbLook, "gaze": VerbLook, "survey": VerbLook,

	"examine": VerbExamine, "x": VerbExamine, "inspect": VerbExamine,
	"check": VerbExamine, "study": VerbExamine, "view": VerbExamine,
	"describe": VerbExamine,

	"take": VerbTake, "get": VerbTake, "grab": VerbTake, "acquire": VerbTake,
	"snatch": VerbTake, "steal": VerbTake, "collect": VerbTake,

	"drop": VerbDrop, "discard": VerbDrop, "release": VerbDrop,
	"toss": VerbDrop,

	"put": VerbPut, "place": VerbPut, "insert": VerbPut, "store": VerbPut,
	"stash": VerbPut, "stick": VerbPut,

	"open": VerbOpen, "unseal": VerbOpen,
	"close": VerbClose, "shut": VerbClose, "seal": VerbClose,
	"lock":   VerbLock,
	"unlock": VerbUnlock,

	"inventory": VerbInventory, "i": VerbInventory, "inv": VerbInventory,
	"possessions": VerbInventory,

	"read": VerbRead, "peruse": VerbRead,

	"use": VerbUse, "apply": VerbUse, "operate": VerbUse, "employ": VerbUse,

	"attack": VerbAttack, "hit": VerbAttack, "strike": VerbAttack,
	"fight": VerbAttack, "kill": VerbAttack, "stab": VerbAttack,
	"slash": VerbAttack, "swing": VerbAttack, "punch": VerbAttack,
	"kick": VerbAttack, "smash": VerbAttack, "break": VerbAttack,
	"destroy": VerbAttack,

	"activate": VerbActivate, "light": VerbActivate, "ignite": VerbActivate,
	"kindle": VerbActivate,
	"deactivate": VerbDeactivate, "extinguish": VerbDeactivate,
	"douse": VerbDeactivate, "snuff": VerbDeactivate,

	"eat": VerbEat, "devour": VerbEat, "consume": VerbEat, "taste": VerbEat,
	"drink": VerbDrink, "sip": VerbDrink, "quaff": VerbDrink,
	"swig": VerbDrink,

	"listen": VerbListen, "hear": VerbListen,
	"smell": VerbSmell, "sniff": VerbSmell,
	"touch": VerbTouch, "feel": VerbTouch,

	"search": VerbSearch, "rummage": VerbSearch, "probe": VerbSearch,

	"wait": VerbWait, "z": VerbWait, "rest": VerbWait, "linger": VerbWait,

	"score": VerbScore, "points": VerbScore,

	"pray": VerbPray, "worship": VerbPray, "kneel": VerbPray,
	"shout": VerbShout, "yell": VerbShout, "scream": VerbShout,
	"holler": VerbShout,

	"climb": VerbClimb, "scale": VerbClimb, "clamber": VerbClimb,
	"enter": VerbEnter,

	"push": VerbPush, "press": VerbPush, "shove": VerbPush,
	"pull": VerbPull, "tug": VerbPull, "yank": VerbPull, "drag": VerbPull,
	"ring": VerbPull,
	"knock": VerbKnock, "rap": VerbKnock, "tap": VerbKnock,

	"talk": VerbTalk, "speak": VerbTalk, "say": VerbTalk, "greet": VerbTalk,
	"ask": VerbTalk, "tell": VerbTalk,

	"give": VerbGive, "offer": VerbGive, "hand": VerbGive,

	"help": VerbHelp, "verbs": VerbHelp, "commands": VerbHelp, "?": VerbHelp,
}

var directionSynonyms = map[string]structs.Direction{
	"north": structs.North, "n": structs.North,
	"south": structs.South, "s": structs.South,
	"east": structs.East, "e": structs.East,
	"west": structs.West, "w": structs.West,
	"northeast": structs.Northeast, "ne": structs.Northeast,
	"northwest": structs.Northwest, "nw": structs.Northwest,
	"southeast": structs.Southeast, "se": structs.Southeast,
	"southwest": structs.Southwest, "sw": structs.Southwest,
	"up": structs.Up, "u": structs.Up, "upward": structs.Up,
	"upwards": structs.Up, "upstairs": structs.Up,
	"down": structs.Down, "d": structs.Down, "downward": structs.Down,
	"downwards": structs.Down, "downstairs": structs.Down,
	"in": structs.In, "inside": structs.In,
	"out": structs.Out, "outside": structs.Out,
}

// Determiners and filler dropped from argument spans.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "some": true, "my": true,
	"this": true, "that": true, "please": true,
}

// Fixed preposition set splitting two-argument forms. "with"/"using" bind
// the right span to the instrument slot, the rest to the target slot.
var prepositions = map[string]bool{
	"in": true, "into": true, "inside": true, "on": true, "onto": true,
	"with": true, "using": true, "at": true, "from": true, "under": true,
	"to": true,
}

var instrumentPrepositions = map[string]bool{
	"with": true, "using": true,
}

// Verbs that double as movement when their sole argument is a direction
// token ("climb up", "enter in"). Pure object verbs keep their object even
// when it collides with a direction word.
var movementCapable = map[Verb]bool{
	VerbClimb: true, VerbEnter: true,
}

// IsDirection canonicalizes a direction surface form.
func IsDirection(token string) (structs.Direction, bool) {
	d, found := directionSynonyms[strings.ToLower(token)]
	return d, found
}

// Canonical lists every canonical verb, sorted, for help output and
// registry validation.
func Canonical() []Verb {
	seen := map[Verb]bool{}
	for _, verb := range verbSynonyms {
		seen[verb] = true
	}
	for _, verb := range multiwordVerbs {
		seen[verb] = true
	}
	seen[VerbGo] = true
	result := make([]string, 0, len(seen))
	for verb := range seen {
		result = append(result, string(verb))
	}
	sort.Strings(result)
	verbs := make([]Verb, len(result))
	for i, s := range result {
		verbs[i] = Verb(s)
	}
	return verbs
}

func trimPunctuation(token string) string {
	return strings.Trim(token, ".,!?;:'\"")
}

// tokenize lowercases and splits input, honoring quoted spans so players
// can write `take "brass lamp"`. Unbalanced quotes fall back to plain
// whitespace splitting rather than failing the parse.
func tokenize(input string) []string {
	lowered := strings.ToLower(strings.TrimSpace(input))
	parts, err := shellwords.SplitPosix(lowered)
	if err != nil {
		parts = strings.Fields(lowered)
	}
	var tokens []string
	for _, part := range parts {
		if part = trimPunctuation(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

func dropStopwords(tokens []string) []string {
	var result []string
	for _, token := range tokens {
		if !stopwords[token] {
			result = append(result, token)
		}
	}
	return result
}

// Parse turns one line of player input into a Command. It always returns a
// value: an unrecognized first token yields VerbUnknown with the remainder
// preserved in Object.
func Parse(input string) Command {
	cmd := Command{Raw: input, Verb: VerbUnknown}
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return cmd
	}

	// A bare direction token is movement.
	if len(tokens) == 1 {
		if direction, found := IsDirection(tokens[0]); found {
			cmd.Verb = VerbGo
			cmd.Direction = direction
			return cmd
		}
	}

	rest := tokens[1:]
	if len(tokens) >= 2 {
		if verb, found := multiwordVerbs[tokens[0]+" "+tokens[1]]; found {
			cmd.Verb = verb
			rest = tokens[2:]
		}
	}
	if cmd.Verb == VerbUnknown {
		if verb, found := verbSynonyms[tokens[0]]; found {
			cmd.Verb = verb
		}
	}
	if cmd.Verb == VerbUnknown {
		cmd.Object = strings.Join(tokens[1:], " ")
		return cmd
	}

	rest = dropStopwords(rest)

	if cmd.Verb == VerbGo {
		if len(rest) > 0 {
			if direction, found := IsDirection(rest[0]); found {
				cmd.Direction = direction
				return cmd
			}
			cmd.Object = strings.Join(rest, " ")
		}
		return cmd
	}

	// Movement-capable object verbs yield to a sole direction argument.
	if movementCapable[cmd.Verb] && len(rest) == 1 {
		if direction, found := IsDirection(rest[0]); found {
			cmd.Verb = VerbGo
			cmd.Direction = direction
			return cmd
		}
	}

	// A leading preposition binds to the verb ("talk to warden", "knock on
	// door"); the object is whatever follows it.
	if len(rest) > 1 && prepositions[rest[0]] {
		cmd.Preposition = rest[0]
		rest = rest[1:]
	}

	// Split two-argument forms on the first preposition past the object
	// span.
	for idx := 1; idx < len(rest); idx++ {
		if prepositions[rest[idx]] {
			cmd.Object = strings.Join(rest[:idx], " ")
			span := strings.Join(rest[idx+1:], " ")
			cmd.Preposition = rest[idx]
			if instrumentPrepositions[rest[idx]] {
				cmd.Instrument = span
			} else {
				cmd.Target = span
			}
			return cmd
		}
	}
	cmd.Object = strings.Join(rest, " ")
	return cmd
}
