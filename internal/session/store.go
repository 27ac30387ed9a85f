package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// TokenStore persists the auth token under a stable name so a restarted
// process can pick the session back up.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
}

// MemStore keeps the token for the process lifetime only.
type MemStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemStore) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemStore) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// FileStore keeps the token in a single file.
type FileStore struct {
	Path string
}

func (f *FileStore) Load(ctx context.Context) (string, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *FileStore) Save(ctx context.Context, token string) error {
	return os.WriteFile(f.Path, []byte(token+"\n"), 0o600)
}
