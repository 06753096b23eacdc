package storage

import (
	"context"
	"sort"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/hollowmoor/dreadhall"
	"github.com/hollowmoor/dreadhall/structs"
)

// DefaultSessionTTL is how long an untouched session survives in the
// memory store.
const DefaultSessionTTL = 24 * time.Hour

// MemStore keeps sessions in process memory with a per-session TTL that
// resets on every Save. Sessions are stored as serialized records, so
// Load always hands back an independent copy.
type MemStore struct {
	cache cache.Cache[string, []byte]
}

// NewMemStore builds a memory store. A zero or negative ttl falls back to
// DefaultSessionTTL.
func NewMemStore(ttl time.Duration) *MemStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemStore{
		cache: cache.NewCache[string, []byte]().WithTTL(ttl),
	}
}

func (m *MemStore) Load(_ context.Context, id string) (*structs.Session, error) {
	b, found := m.cache.Get(id)
	if !found {
		return nil, dreadhall.WithStack(ErrSessionNotFound)
	}
	return structs.UnmarshalRecord(b)
}

func (m *MemStore) Save(_ context.Context, sess *structs.Session) error {
	b, err := sess.MarshalRecord()
	if err != nil {
		return err
	}
	m.cache.Set(sess.ID, b, 0)
	return nil
}

func (m *MemStore) Delete(_ context.Context, id string) error {
	if _, found := m.cache.Get(id); !found {
		return dreadhall.WithStack(ErrSessionNotFound)
	}
	m.cache.Invalidate(id)
	return nil
}

func (m *MemStore) IDs(_ context.Context) ([]string, error) {
	ids := m.cache.Keys()
	sort.Strings(ids)
	return ids, nil
}

func (m *MemStore) Close() error {
	m.cache.Purge()
	return nil
}
