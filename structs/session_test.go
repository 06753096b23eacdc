package structs

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	return &Session{
		ID:   "sess-1",
		Room: "foyer",
		Flags: map[string]FlagValue{
			FlagSanity:        80,
			"lamp_battery":    12,
			"chapel_unlocked": 0,
		},
		State: map[string]string{
			StateKey("brass_lamp", StateLit):   "false",
			StateKey("trophy_case", StateOpen): "false",
		},
		Placements: map[string]Placement{
			"brass_lamp":    HeldBy(),
			"gold_idol":     InRoom("cellar"),
			"silver_locket": InContainer("oak_chest"),
		},
		Visited:  []string{"foyer", "gallery"},
		Moves:    9,
		Score:    5,
		Scored:   map[string]bool{"silver_locket": true},
		Modified: time.Date(2026, 2, 1, 18, 30, 0, 123456789, time.UTC),
	}
}

func TestRecordRoundTrip(t *testing.T) {
	want := testSession(t)
	rec, err := want.Record()
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromRecord(Record()) mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalRecordRoundTrip(t *testing.T) {
	want := testSession(t)
	b, err := want.MarshalRecord()
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalRecord(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UnmarshalRecord(MarshalRecord()) mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecordFailsClosed(t *testing.T) {
	base := func(t *testing.T) map[string]string {
		t.Helper()
		rec, err := testSession(t).Record()
		if err != nil {
			t.Fatal(err)
		}
		return rec
	}
	for _, tc := range []struct {
		name   string
		tamper func(rec map[string]string)
		field  string
	}{
		{
			name:   "missing room",
			tamper: func(rec map[string]string) { delete(rec, "room") },
			field:  "room",
		},
		{
			name:   "empty id",
			tamper: func(rec map[string]string) { rec["id"] = "" },
			field:  "id",
		},
		{
			name:   "unsupported version",
			tamper: func(rec map[string]string) { rec["v"] = "9" },
			field:  "v",
		},
		{
			name:   "negative moves",
			tamper: func(rec map[string]string) { rec["moves"] = "-3" },
			field:  "moves",
		},
		{
			name:   "score not a number",
			tamper: func(rec map[string]string) { rec["score"] = "lots" },
			field:  "score",
		},
		{
			name:   "flags not JSON",
			tamper: func(rec map[string]string) { rec["flags"] = "{" },
			field:  "flags",
		},
		{
			name:   "unknown placement form",
			tamper: func(rec map[string]string) { rec["placements"] = `{"gold_idol":"orbit"}` },
			field:  "placements",
		},
		{
			name:   "inventory disagrees with placements",
			tamper: func(rec map[string]string) { rec["inventory"] = "brass_lamp,gold_idol" },
			field:  "inventory",
		},
		{
			name:   "unparseable modified stamp",
			tamper: func(rec map[string]string) { rec["modified"] = "yesterday" },
			field:  "modified",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := base(t)
			tc.tamper(rec)
			_, err := FromRecord(rec)
			invalid := InvalidSessionError{}
			if !errors.As(err, &invalid) {
				t.Fatalf("FromRecord() error = %v, want InvalidSessionError", err)
			}
			if invalid.Field != tc.field {
				t.Errorf("got field %q, want %q", invalid.Field, tc.field)
			}
		})
	}
}

func TestApplyFailedResultChangesNothing(t *testing.T) {
	sess := testSession(t)
	want := testSession(t)
	res := Fail("You see no such thing.")
	res.Room = "cellar"
	res.SanityDelta = -50
	res.ScoreDelta = 10
	res.MoveObject("gold_idol", HeldBy())
	sess.Apply(res, time.Now())
	if diff := cmp.Diff(want, sess); diff != "" {
		t.Errorf("failed result mutated session (-want +got):\n%s", diff)
	}
}

func TestApplySuccess(t *testing.T) {
	sess := testSession(t)
	now := time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC)
	res := Say("You creep down the stairs.")
	res.Room = "cellar"
	res.SanityDelta = -10
	res.SetFlag("chapel_unlocked", 1)
	res.SetObjectState("trophy_case", StateOpen, "true")
	res.MoveObject("gold_idol", HeldBy())
	sess.Apply(res, now)

	if sess.Room != "cellar" {
		t.Errorf("got room %q, want %q", sess.Room, "cellar")
	}
	if want := []string{"foyer", "gallery", "foyer"}; !cmp.Equal(want, sess.Visited) {
		t.Errorf("got visited %v, want %v", sess.Visited, want)
	}
	if got := sess.Sanity(); got != 70 {
		t.Errorf("got sanity %d, want 70", got)
	}
	if val, _ := sess.Flag("chapel_unlocked"); val != 1 {
		t.Errorf("got chapel_unlocked %d, want 1", val)
	}
	if open, _ := sess.ObjectState("trophy_case", StateOpen); open != "true" {
		t.Errorf("got trophy_case open %q, want %q", open, "true")
	}
	if !sess.Carrying("gold_idol") {
		t.Error("gold_idol not carried after move")
	}
	if sess.Moves != 10 {
		t.Errorf("got moves %d, want 10", sess.Moves)
	}
	if !sess.Modified.Equal(now) {
		t.Errorf("got modified %v, want %v", sess.Modified, now)
	}
}

func TestApplyScoresEachTreasureOnce(t *testing.T) {
	sess := testSession(t)
	score := func() *Result {
		res := Say("The house exhales.")
		res.ScoreDelta = 10
		res.ScoreObject = "gold_idol"
		return res
	}
	sess.Apply(score(), time.Now())
	if sess.Score != 15 {
		t.Fatalf("got score %d, want 15", sess.Score)
	}
	sess.Apply(score(), time.Now())
	if sess.Score != 15 {
		t.Errorf("got score %d after rescore, want 15", sess.Score)
	}
}

func TestApplyClampsSanity(t *testing.T) {
	for _, tc := range []struct {
		start, delta, want int
	}{
		{start: 10, delta: -40, want: 0},
		{start: 95, delta: 40, want: 100},
		{start: 50, delta: -10, want: 40},
	} {
		sess := testSession(t)
		sess.SetSanity(tc.start)
		res := Say("ok")
		res.SanityDelta = tc.delta
		sess.Apply(res, time.Now())
		if got := sess.Sanity(); got != tc.want {
			t.Errorf("start %d delta %d: got %d, want %d", tc.start, tc.delta, got, tc.want)
		}
	}
}

func TestVisitHistoryBounded(t *testing.T) {
	sess := testSession(t)
	sess.Visited = nil
	for i := 0; i < VisitHistoryLimit+10; i++ {
		res := Say("onward")
		res.Room = fmt.Sprintf("room-%d", i)
		sess.Apply(res, time.Now())
	}
	if len(sess.Visited) != VisitHistoryLimit {
		t.Errorf("got %d visited entries, want %d", len(sess.Visited), VisitHistoryLimit)
	}
	if got := sess.Visited[len(sess.Visited)-1]; got != fmt.Sprintf("room-%d", VisitHistoryLimit+8) {
		t.Errorf("got last visited %q, want %q", got, fmt.Sprintf("room-%d", VisitHistoryLimit+8))
	}
}

func TestPlacementRoundTrip(t *testing.T) {
	for _, p := range []Placement{HeldBy(), InRoom("foyer"), InContainer("oak_chest"), {}} {
		got, err := ParsePlacement(p.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("got %v, want %v", got, p)
		}
	}
	if _, err := ParsePlacement("orbit"); err == nil {
		t.Error("ParsePlacement(orbit) succeeded, want error")
	}
}

func TestBandFor(t *testing.T) {
	for _, tc := range []struct {
		sanity int
		want   Band
	}{
		{sanity: 100, want: BandStable},
		{sanity: 75, want: BandStable},
		{sanity: 74, want: BandUneasy},
		{sanity: 50, want: BandUneasy},
		{sanity: 49, want: BandDisturbed},
		{sanity: 25, want: BandDisturbed},
		{sanity: 24, want: BandShattered},
		{sanity: 0, want: BandShattered},
	} {
		if got := BandFor(tc.sanity); got != tc.want {
			t.Errorf("BandFor(%d) = %v, want %v", tc.sanity, got, tc.want)
		}
	}
}
