package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    message_count INTEGER NOT NULL,
    messages TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_created_at ON sessions (created_at);`

// SQLiteStore keeps sessions in a SQLite database, messages as JSON.
type SQLiteStore struct {
	db  *sql.DB
	max int
	now clock
}

// OpenSQLite opens (and creates when needed) the database at path.
func OpenSQLite(ctx context.Context, path string, maxSessions int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &SQLiteStore{db: db, max: capacity(maxSessions), now: time.Now}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, in Session) (*Session, error) {
	sess, ok, err := normalize(in, s.now())
	if err != nil || !ok {
		return nil, err
	}

	msgs, err := json.Marshal(sess.Messages)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO sessions (id, title, created_at, updated_at, message_count, messages)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            updated_at = excluded.updated_at,
            message_count = excluded.message_count,
            messages = excluded.messages;`,
		sess.ID, sess.Title, sess.CreatedAt.UnixNano(), s.now().UnixNano(), sess.MessageCount, string(msgs)); err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id NOT IN (
        SELECT id FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT ?);`, s.max); err != nil {
		return nil, fmt.Errorf("evict sessions: %w", err)
	}

	var created int64
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM sessions WHERE id = ?;`, sess.ID).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		// older than everything kept, evicted by its own insert
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.CreatedAt = time.Unix(0, created)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &sess, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, created_at, message_count, messages FROM sessions ORDER BY created_at DESC, rowid DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, created_at, message_count, messages FROM sessions WHERE id = ?;`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll implements Store.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions;`); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(r scanner) (*Session, error) {
	var (
		sess    Session
		created int64
		msgs    string
	)
	if err := r.Scan(&sess.ID, &sess.Title, &created, &sess.MessageCount, &msgs); err != nil {
		return nil, err
	}
	sess.CreatedAt = time.Unix(0, created)
	if err := json.Unmarshal([]byte(msgs), &sess.Messages); err != nil {
		return nil, fmt.Errorf("decode messages of %s: %w", sess.ID, err)
	}
	return &sess, nil
}
