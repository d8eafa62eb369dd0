package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process ImageStore for tests and local runs without an
// object store.
type Memory struct {
	mu      sync.Mutex
	base    string
	objects map[string]memoryObject

	// PutErr, when set, is returned by every Put.
	PutErr error
	// Now stamps LastModified; defaults to time.Now.
	Now func() time.Time
}

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

func NewMemory(base string) *Memory {
	return &Memory{base: base, objects: make(map[string]memoryObject)}
}

func (m *Memory) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	if size >= 0 && int64(buf.Len()) != size {
		return errors.New("storage: short body")
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: buf.Bytes(), contentType: contentType, lastModified: now()}
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return m.base + "/" + key
}

// KeyFromURL treats the last segment of the base URL as the bucket.
func (m *Memory) KeyFromURL(rawURL string) (string, bool) {
	return KeyFromURL(path.Base(m.base), rawURL)
}

func (m *Memory) List(ctx context.Context) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Object, 0, len(m.objects))
	for k, o := range m.objects {
		out = append(out, Object{Key: k, Size: int64(len(o.data)), LastModified: o.lastModified})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Keys returns the stored keys in order.
func (m *Memory) Keys() []string {
	objs, _ := m.List(context.Background())
	keys := make([]string, len(objs))
	for i, o := range objs {
		keys[i] = o.Key
	}
	return keys
}

// ContentType returns the content type stored with key.
func (m *Memory) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key].contentType
}
