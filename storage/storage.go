// Package storage persists sessions. Every store speaks the same flat
// record format, so a session saved by one backend loads from another.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hollowmoor/dreadhall/structs"
)

// ErrSessionNotFound is returned by Load and Delete when no session with
// the given ID exists (or it has expired).
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the persistence contract. Implementations must be safe
// for concurrent use.
type SessionStore interface {
	// Load returns the session with the given ID, or ErrSessionNotFound.
	Load(ctx context.Context, id string) (*structs.Session, error)
	// Save stores the session under its own ID, overwriting any previous
	// version.
	Save(ctx context.Context, sess *structs.Session) error
	// Delete removes the session. Deleting an absent session returns
	// ErrSessionNotFound.
	Delete(ctx context.Context, id string) error
	// IDs lists the IDs of all stored sessions, sorted.
	IDs(ctx context.Context) ([]string, error)
	// Close releases any resources held by the store.
	Close() error
}
