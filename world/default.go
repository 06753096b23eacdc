package world

import (
	_ "embed"
)

// The demo manor shipped with the engine. The REPL and most tests run
// against it.
var (
	//go:embed content/rooms.yaml
	defaultRooms []byte
	//go:embed content/objects.yaml
	defaultObjects []byte
	//go:embed content/flags.yaml
	defaultFlags []byte
)

// Default loads the embedded demo world.
func Default() (*World, error) {
	return Load(defaultRooms, defaultObjects, defaultFlags)
}
