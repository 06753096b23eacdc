// dreadhall is the interactive front end: it loads the built-in manor,
// opens a session store, and runs a read-eval-print loop on stdin.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hollowmoor/dreadhall/game"
	"github.com/hollowmoor/dreadhall/repl"
	"github.com/hollowmoor/dreadhall/storage"
	"github.com/hollowmoor/dreadhall/world"
)

func main() {
	dir := flag.String("dir", filepath.Join(os.Getenv("HOME"), ".dreadhall"), "Where to keep the session database and transcripts.")
	store := flag.String("store", "sqlite", "Session store backend: sqlite or mem.")
	session := flag.String("session", "", "Session ID to resume. Empty starts a new session.")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for randomized effects.")
	transcribe := flag.Bool("transcript", true, "Keep a rotating transcript under -dir.")

	flag.Parse()

	if err := os.MkdirAll(*dir, 0700); err != nil {
		log.Fatal(err)
	}

	w, err := world.Default()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var sessions storage.SessionStore
	switch *store {
	case "sqlite":
		if sessions, err = storage.NewSQLiteStore(ctx, filepath.Join(*dir, "sessions.db")); err != nil {
			log.Fatal(err)
		}
	case "mem":
		sessions = storage.NewMemStore(storage.DefaultSessionTTL)
	default:
		log.Fatalf("unknown store backend %q", *store)
	}
	defer sessions.Close()

	config := repl.Config{
		Game:      game.New(w),
		Store:     sessions,
		SessionID: *session,
		Seed:      *seed,
	}
	if *transcribe {
		config.Transcript = &lumberjack.Logger{
			Filename:   filepath.Join(*dir, "transcript.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 5,
		}
	}

	r, err := repl.New(ctx, config)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Session %s", r.Session().ID)

	if err := r.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
