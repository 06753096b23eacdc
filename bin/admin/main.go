// dreadhall-admin inspects session databases and lints world content
// without starting the game.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rodaine/table"

	"github.com/hollowmoor/dreadhall/storage"
	"github.com/hollowmoor/dreadhall/world"
)

func main() {
	dir := flag.String("dir", filepath.Join(os.Getenv("HOME"), ".dreadhall"), "Where the session database lives.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  lint [content-dir]  Validate world content; default is the built-in world\n")
		fmt.Fprintf(os.Stderr, "  sessions            List stored sessions\n")
		fmt.Fprintf(os.Stderr, "  dump <session-id>   Print a session as its flat record\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "lint":
		contentDir := ""
		if len(args) > 1 {
			contentDir = args[1]
		}
		err = lint(contentDir)
	case "sessions":
		err = sessions(*dir)
	case "dump":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(1)
		}
		err = dump(*dir, args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func lint(contentDir string) error {
	var w *world.World
	var err error
	if contentDir == "" {
		w, err = world.Default()
	} else {
		var rooms, objects, flags []byte
		if rooms, err = os.ReadFile(filepath.Join(contentDir, "rooms.yaml")); err != nil {
			return err
		}
		if objects, err = os.ReadFile(filepath.Join(contentDir, "objects.yaml")); err != nil {
			return err
		}
		if flags, err = os.ReadFile(filepath.Join(contentDir, "flags.yaml")); err != nil {
			return err
		}
		w, err = world.Load(rooms, objects, flags)
	}
	if err != nil {
		return err
	}
	fmt.Printf("OK: %d rooms, %d objects, max score %d\n",
		len(w.Rooms), len(w.Objects), w.MaxScore)
	return nil
}

func sessions(dir string) error {
	store, err := storage.NewSQLiteStore(context.Background(), filepath.Join(dir, "sessions.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	ids, err := store.IDs(context.Background())
	if err != nil {
		return err
	}
	t := table.New("Session", "Room", "Moves", "Score", "Sanity", "Modified")
	for _, id := range ids {
		sess, err := store.Load(context.Background(), id)
		if err != nil {
			t.AddRow(id, "error", "", "", "", err.Error())
			continue
		}
		t.AddRow(sess.ID, sess.Room, sess.Moves, sess.Score, sess.Sanity(),
			sess.Modified.Format("2006-01-02 15:04:05"))
	}
	t.Print()
	return nil
}

func dump(dir, id string) error {
	store, err := storage.NewSQLiteStore(context.Background(), filepath.Join(dir, "sessions.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	sess, err := store.Load(context.Background(), id)
	if err != nil {
		return err
	}
	rec, err := sess.Record()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(rec))
	for key := range rec {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	t := table.New("Key", "Value")
	for _, key := range keys {
		t.AddRow(key, rec[key])
	}
	t.Print()
	return nil
}
