// Package repl runs the line-oriented front end: read a command, execute
// it against the session, print the result, save. It knows nothing about
// parsing or game rules; those live behind game.Game.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hollowmoor/dreadhall"
	"github.com/hollowmoor/dreadhall/game"
	"github.com/hollowmoor/dreadhall/storage"
	"github.com/hollowmoor/dreadhall/structs"
)

// Config wires a REPL together. Game and Store are required; the rest
// have usable defaults.
type Config struct {
	Game  *game.Game
	Store storage.SessionStore
	// SessionID resumes an existing session. Empty starts a new one.
	SessionID string
	// Seed feeds randomized effects. Sessions replay identically for the
	// same seed and command sequence.
	Seed int64
	// Transcript, if set, receives a copy of every prompt line and
	// response.
	Transcript io.Writer
}

type REPL struct {
	config Config
	sess   *structs.Session
}

// New loads or creates the session. A missing SessionID gets a fresh
// session under a new UUID; a set one must exist in the store.
func New(ctx context.Context, config Config) (*REPL, error) {
	if config.Game == nil || config.Store == nil {
		return nil, errors.New("repl: Game and Store are required")
	}
	r := &REPL{config: config}
	if config.SessionID == "" {
		r.sess = config.Game.World().NewSession(uuid.NewString(), time.Now())
		if err := config.Store.Save(ctx, r.sess); err != nil {
			return nil, err
		}
		return r, nil
	}
	sess, err := config.Store.Load(ctx, config.SessionID)
	if err != nil {
		return nil, err
	}
	r.sess = sess
	return r, nil
}

// Session exposes the live session, mostly for tests and the admin tool.
func (r *REPL) Session() *structs.Session {
	return r.sess
}

// Run reads commands from in until EOF or "quit", executing each and
// saving after every turn. The session survives crashes up to the last
// completed command.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	g := r.config.Game
	r.printf(out, "%s\n\n", g.Describe(r.sess))
	scanner := bufio.NewScanner(in)
	for {
		r.printf(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			r.printf(out, "The house will keep your place.\n")
			break
		}
		res := g.Execute(r.sess, line, r.config.Seed)
		r.printf(out, "%s\n", res.Message)
		for _, note := range res.Notifications {
			r.printf(out, "[%s] %s\n", note.Kind, note.Text)
		}
		r.printf(out, "\n")
		if err := r.config.Store.Save(ctx, r.sess); err != nil {
			return err
		}
	}
	return dreadhall.WithStack(scanner.Err())
}

func (r *REPL) printf(out io.Writer, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	io.WriteString(out, text)
	if r.config.Transcript != nil {
		io.WriteString(r.config.Transcript, text)
	}
}
