package storage

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/hollowmoor/dreadhall"
	"github.com/hollowmoor/dreadhall/structs"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	record TEXT NOT NULL,
	modified TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_modified ON sessions (modified);
`

// SQLiteStore persists sessions in a SQLite database. Each row holds the
// full serialized record, with the modification stamp duplicated into its
// own column for inspection and pruning.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
// ":memory:" works for tests.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, dreadhall.WithStack(err)
	}
	// modernc's driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent savers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, dreadhall.WithStack(err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*structs.Session, error) {
	var record string
	err := s.db.GetContext(ctx, &record, "SELECT record FROM sessions WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, dreadhall.WithStack(ErrSessionNotFound)
	} else if err != nil {
		return nil, dreadhall.WithStack(err)
	}
	return structs.UnmarshalRecord([]byte(record))
}

func (s *SQLiteStore) Save(ctx context.Context, sess *structs.Session) error {
	b, err := sess.MarshalRecord()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO sessions (id, record, modified) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET record = excluded.record, modified = excluded.modified`,
		sess.ID, string(b), sess.Modified.UTC().Format("2006-01-02T15:04:05.000Z"))
	return dreadhall.WithStack(err)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return dreadhall.WithStack(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return dreadhall.WithStack(err)
	}
	if affected == 0 {
		return dreadhall.WithStack(ErrSessionNotFound)
	}
	return nil
}

func (s *SQLiteStore) IDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := s.db.SelectContext(ctx, &ids, "SELECT id FROM sessions ORDER BY id"); err != nil {
		return nil, dreadhall.WithStack(err)
	}
	return ids, nil
}

func (s *SQLiteStore) Close() error {
	return dreadhall.WithStack(s.db.Close())
}
