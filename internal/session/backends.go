package session

import (
	"sync"

	"github.com/gorilla/sessions"
)

// MemoryBackend keeps values in a map guarded by a mutex.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend creates an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Load(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Save(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryBackend) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Snapshot copies the current values.
func (m *MemoryBackend) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// CookieBackend stores values in a gorilla/sessions session.
//
// Changes only touch the in-memory session; the caller must call Save on the session before writing the response.
type CookieBackend struct {
	Session *sessions.Session
}

// NewCookieBackend wraps s.
func NewCookieBackend(s *sessions.Session) *CookieBackend {
	return &CookieBackend{Session: s}
}

func (c *CookieBackend) Load(key string) (string, bool, error) {
	v, ok := c.Session.Values[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (c *CookieBackend) Save(values map[string]string) error {
	for k, v := range values {
		c.Session.Values[k] = v
	}
	return nil
}

func (c *CookieBackend) Remove(keys ...string) error {
	for _, k := range keys {
		delete(c.Session.Values, k)
	}
	return nil
}
