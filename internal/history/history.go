// Package history stores chat sessions. SQLite is used when the database
// can be opened; otherwise sessions live in memory for the process lifetime.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/logger"
)

var (
	// ErrNotFound is returned for unknown session ids.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidRole is returned for messages that are neither user nor assistant.
	ErrInvalidRole = errors.New("invalid message role")
)

// DefaultMaxSessions caps the store when no limit is configured.
const DefaultMaxSessions = 100

// Store persists chat sessions, newest first, evicting the oldest beyond
// its capacity.
type Store interface {
	// Save upserts s and returns the stored session. It returns nil, nil
	// when nothing was kept: s has fewer than MinMessages messages, or the
	// store is full and s is older than every stored session.
	Save(ctx context.Context, s Session) (*Session, error)
	List(ctx context.Context) ([]Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Close() error
}

// Open returns a SQLite store at cfg.DBPath, or a memory store if that
// fails or the path is ":memory:".
func Open(ctx context.Context, cfg config.HistoryConfig) Store {
	if cfg.DBPath == "" || cfg.DBPath == ":memory:" {
		return NewMemoryStore(cfg.MaxSessions)
	}
	s, err := OpenSQLite(ctx, cfg.DBPath, cfg.MaxSessions)
	if err != nil {
		logger.L.Warn("sqlite open failed; using in-memory history", "error", err)
		return NewMemoryStore(cfg.MaxSessions)
	}
	logger.L.Info("sqlite history DB initialized", "path", cfg.DBPath)
	return s
}

func capacity(n int) int {
	if n <= 0 {
		return DefaultMaxSessions
	}
	return n
}

type clock func() time.Time
