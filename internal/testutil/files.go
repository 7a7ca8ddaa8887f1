package testutil

import (
	"context"
	"sync"

	"github.com/mcoot/crackthecode/internal/filestore"
)

// MemoryFiles is an in-memory filestore.Store
type MemoryFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ filestore.Store = (*MemoryFiles)(nil)

// NewMemoryFiles creates an empty store
func NewMemoryFiles() *MemoryFiles {
	return &MemoryFiles{files: make(map[string][]byte)}
}

func (m *MemoryFiles) Store(ctx context.Context, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "/uploads/" + name
	m.files[url] = append([]byte(nil), data...)
	return url, nil
}

func (m *MemoryFiles) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	return nil
}

// Has reports whether url is stored
func (m *MemoryFiles) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[url]
	return ok
}

// Len returns the number of stored files
func (m *MemoryFiles) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
