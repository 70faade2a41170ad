package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process. It backs the memory database
// driver and tests; its download URLs are not fetchable.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

func (m *MemoryStorage) PutObject(_ context.Context, objectKey, contentType string, body io.Reader, _ int64) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey] = memoryObject{contentType: contentType, data: buf.Bytes()}
	return nil
}

func (m *MemoryStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[objectKey]; !ok {
		return "", ErrObjectNotFound
	}
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	return "memory:///" + url.PathEscape(objectKey) + "?expires=" + expires.String(), nil
}

func (m *MemoryStorage) DeleteObjects(_ context.Context, objectKeys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range nonEmpty(objectKeys) {
		delete(m.objects, k)
	}
	return nil
}

// Object returns a stored object's bytes and content type.
func (m *MemoryStorage) Object(objectKey string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[objectKey]
	return o.data, o.contentType, ok
}

// Len reports how many objects are stored.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
