package zarr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Store.Get when a key does not exist. Callers
// distinguish missing chunks (filled with the array's fill value) from missing
// metadata (fatal) by where the error surfaces.
var ErrNotFound = errors.New("not found")

// Store is a read-only mapping from path-like keys to blobs. Implementations
// must be safe for concurrent Get calls.
type Store interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Type() string
}

// WritableStore extends Store with writes. Only the in-memory and local
// stores support it; the remote object store is read-only by construction.
type WritableStore interface {
	Store
	Put(key string, val []byte) error
}

const (
	memoryStoreType = "memory"
	localStoreType  = "local"
)

// MemoryStore is a map-backed store for tests and fixtures.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ WritableStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Type() string { return memoryStoreType }

func (s *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(d)), nil
}

func (s *MemoryStore) Put(key string, val []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), val...)
	return nil
}

// Keys returns all stored keys, for test assertions.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// LocalStore maps keys onto a directory tree. Used by cmd/genstore and for
// offline development against generated fixtures.
type LocalStore struct {
	base string
}

var _ WritableStore = (*LocalStore)(nil)

func NewLocalStore(base string) (*LocalStore, error) {
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{base: base}, nil
}

func (s *LocalStore) Type() string { return localStoreType }

func (s *LocalStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.base, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return f, err
}

func (s *LocalStore) Put(key string, val []byte) error {
	path := filepath.Join(s.base, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, val, 0o644)
}
