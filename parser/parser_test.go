package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hollowmoor/dreadhall/structs"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  Command
	}{
		{
			input: "go north",
			want:  Command{Verb: VerbGo, Direction: structs.North},
		},
		{
			input: "n",
			want:  Command{Verb: VerbGo, Direction: structs.North},
		},
		{
			input: "upstairs",
			want:  Command{Verb: VerbGo, Direction: structs.Up},
		},
		{
			input: "walk se",
			want:  Command{Verb: VerbGo, Direction: structs.Southeast},
		},
		{
			input: "go nowhere",
			want:  Command{Verb: VerbGo, Object: "nowhere"},
		},
		{
			input: "take the brass lamp",
			want:  Command{Verb: VerbTake, Object: "brass lamp"},
		},
		{
			input: "pick up lamp",
			want:  Command{Verb: VerbTake, Object: "lamp"},
		},
		{
			input: "Take The LAMP!",
			want:  Command{Verb: VerbTake, Object: "lamp"},
		},
		{
			input: "put the gold idol in the trophy case",
			want:  Command{Verb: VerbPut, Object: "gold idol", Target: "trophy case", Preposition: "in"},
		},
		{
			input: "attack warden with sword",
			want:  Command{Verb: VerbAttack, Object: "warden", Instrument: "sword", Preposition: "with"},
		},
		{
			input: "take locket from chest",
			want:  Command{Verb: VerbTake, Object: "locket", Target: "chest", Preposition: "from"},
		},
		{
			input: "turn on lamp",
			want:  Command{Verb: VerbActivate, Object: "lamp"},
		},
		{
			input: "switch off the lantern",
			want:  Command{Verb: VerbDeactivate, Object: "lantern"},
		},
		{
			input: "look at portrait",
			want:  Command{Verb: VerbExamine, Object: "portrait"},
		},
		{
			input: "x case",
			want:  Command{Verb: VerbExamine, Object: "case"},
		},
		{
			input: "l",
			want:  Command{Verb: VerbLook},
		},
		{
			input: "i",
			want:  Command{Verb: VerbInventory},
		},
		{
			input: "ring bell",
			want:  Command{Verb: VerbPull, Object: "bell"},
		},
		{
			// A leading preposition binds to the verb, not the object.
			input: "talk to the warden",
			want:  Command{Verb: VerbTalk, Object: "warden", Preposition: "to"},
		},
		{
			input: "knock on the door",
			want:  Command{Verb: VerbKnock, Object: "door", Preposition: "on"},
		},
		{
			input: `take "brass lamp"`,
			want:  Command{Verb: VerbTake, Object: "brass lamp"},
		},
		{
			// Unbalanced quotes degrade to whitespace splitting.
			input: `take "brass lamp`,
			want:  Command{Verb: VerbTake, Object: "brass lamp"},
		},
		{
			// A movement-capable verb with a sole direction argument is
			// movement.
			input: "climb up",
			want:  Command{Verb: VerbGo, Direction: structs.Up},
		},
		{
			input: "enter in",
			want:  Command{Verb: VerbGo, Direction: structs.In},
		},
		{
			// With a real object it stays an object verb.
			input: "climb shelves",
			want:  Command{Verb: VerbClimb, Object: "shelves"},
		},
		{
			// Pure object verbs keep direction-colliding objects.
			input: "take down",
			want:  Command{Verb: VerbTake, Object: "down"},
		},
		{
			// Unknown verbs keep the raw remainder for the error message.
			input: "frobnicate the lamp",
			want:  Command{Verb: VerbUnknown, Object: "the lamp"},
		},
		{
			input: "",
			want:  Command{Verb: VerbUnknown},
		},
		{
			input: "   ",
			want:  Command{Verb: VerbUnknown},
		},
	} {
		t.Run(tc.input, func(t *testing.T) {
			got := Parse(tc.input)
			if diff := cmp.Diff(tc.want, got, cmpopts.IgnoreFields(Command{}, "Raw")); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "put the gold idol into the trophy case"
	first := Parse(input)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Parse(input)); diff != "" {
			t.Fatalf("Parse(%q) not deterministic (-first +later):\n%s", input, diff)
		}
	}
}

func TestCanonicalCoversRegistry(t *testing.T) {
	verbs := Canonical()
	seen := map[Verb]bool{}
	for _, verb := range verbs {
		if seen[verb] {
			t.Errorf("Canonical() lists %q twice", verb)
		}
		seen[verb] = true
	}
	for _, verb := range []Verb{VerbGo, VerbTake, VerbActivate, VerbHelp} {
		if !seen[verb] {
			t.Errorf("Canonical() missing %q", verb)
		}
	}
	if seen[VerbUnknown] {
		t.Error("Canonical() lists the unknown verb")
	}
}
