package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dailiesbot/pkg/logx"
)

// fileStore is a dependency-free persistence backend.
//
// Each key maps to <prefix>.<key>.json. Saves go through a temp file and
// rename so a crash never leaves a half-written document. A document that
// fails to decode on load is renamed aside with a random suffix and
// reported as absent, so the caller reinitializes defaults instead of
// refusing to start.
type fileStore struct {
	log logx.Logger

	mu     sync.Mutex
	prefix string
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &fileStore{log: log, prefix: prefix}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) keyPath(key string) string {
	return s.prefix + "." + key + ".json"
}

func (s *fileStore) Load(ctx context.Context, key string, v any) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.keyPath(key)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		target := s.quarantine(path)
		s.log.Warn("could not decode snapshot, quarantined it and using defaults",
			logx.String("path", path), logx.String("quarantined", target), logx.Err(err))
		return false, nil
	}
	return true, nil
}

func (s *fileStore) Save(ctx context.Context, key string, v any) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	path := s.keyPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// quarantine renames a corrupt document aside with a random 6-digit suffix
// and returns the target path (best-effort; the original path on failure).
func (s *fileStore) quarantine(path string) string {
	suffix := randomSequence(6)
	ext := filepath.Ext(path)
	target := strings.TrimSuffix(path, ext) + "_" + suffix + ext
	if err := os.Rename(path, target); err != nil {
		s.log.Warn("quarantine rename failed", logx.String("path", path), logx.Err(err))
		return path
	}
	return target
}

func randomSequence(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d", rand.Intn(10))
	}
	return b.String()
}
