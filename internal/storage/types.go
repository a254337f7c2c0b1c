package storage

import (
	"context"
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (one JSON document per key)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty, "file" is assumed.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store persists named snapshot documents. Values round-trip through JSON
// exactly; Load reports ok=false when no document exists under the key
// (including after a corrupt document was quarantined).
type Store interface {
	Load(ctx context.Context, key string, v any) (ok bool, err error)
	Save(ctx context.Context, key string, v any) error
	Close() error
}
