package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	scheduleout "jarvis/internal/modules/schedule/port/out"
)

// LocalArtifactStore writes exports under one directory.
type LocalArtifactStore struct {
	dir string
	mu  sync.Mutex
}

func NewLocalArtifactStore(dir string) (scheduleout.ArtifactStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve export dir: %w", err)
	}
	return &LocalArtifactStore{dir: abs}, nil
}

func (s *LocalArtifactStore) Write(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	full := filepath.Join(s.dir, filepath.Base(name))
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename export: %w", err)
	}
	return full, nil
}
