package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hollowmoor/dreadhall/game"
	"github.com/hollowmoor/dreadhall/storage"
	"github.com/hollowmoor/dreadhall/world"
)

func newREPL(t *testing.T, sessionID string, store storage.SessionStore) *REPL {
	t.Helper()
	w, err := world.Default()
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(context.Background(), Config{
		Game:      game.New(w),
		Store:     store,
		SessionID: sessionID,
		Seed:      1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRunSavesEveryTurn(t *testing.T) {
	store := storage.NewMemStore(time.Minute)
	defer store.Close()
	r := newREPL(t, "", store)
	out := &bytes.Buffer{}
	in := strings.NewReader("take lamp\ngo north\nquit\n")
	if err := r.Run(context.Background(), in, out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Entrance Foyer") {
		t.Errorf("output %q missing the opening room description", out.String())
	}
	if !strings.Contains(out.String(), "Portrait Gallery") {
		t.Errorf("output %q missing the gallery description", out.String())
	}

	saved, err := store.Load(context.Background(), r.Session().ID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Room != "gallery" {
		t.Errorf("got saved room %q, want gallery", saved.Room)
	}
	if !saved.Carrying("brass_lamp") {
		t.Error("saved session not carrying the lamp")
	}
	if saved.Moves != 2 {
		t.Errorf("got saved moves %d, want 2", saved.Moves)
	}
}

func TestResumeExistingSession(t *testing.T) {
	store := storage.NewMemStore(time.Minute)
	defer store.Close()
	first := newREPL(t, "", store)
	out := &bytes.Buffer{}
	if err := first.Run(context.Background(), strings.NewReader("take lamp\n"), out); err != nil {
		t.Fatal(err)
	}

	resumed := newREPL(t, first.Session().ID, store)
	if !resumed.Session().Carrying("brass_lamp") {
		t.Error("resumed session lost the lamp")
	}
}

func TestResumeUnknownSessionFails(t *testing.T) {
	store := storage.NewMemStore(time.Minute)
	defer store.Close()
	w, err := world.Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background(), Config{
		Game:      game.New(w),
		Store:     store,
		SessionID: "no-such-session",
	}); err == nil {
		t.Error("New() resumed a missing session, want error")
	}
}

func TestTranscriptMirrorsOutput(t *testing.T) {
	store := storage.NewMemStore(time.Minute)
	defer store.Close()
	w, err := world.Default()
	if err != nil {
		t.Fatal(err)
	}
	transcript := &bytes.Buffer{}
	r, err := New(context.Background(), Config{
		Game:       game.New(w),
		Store:      store,
		Seed:       1,
		Transcript: transcript,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	if err := r.Run(context.Background(), strings.NewReader("look\nquit\n"), out); err != nil {
		t.Fatal(err)
	}
	if transcript.String() != out.String() {
		t.Errorf("transcript diverges from output:\n%q\n%q", transcript.String(), out.String())
	}
}
