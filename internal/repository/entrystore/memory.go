package entrystore

import "sync"

// MemoryStore backs the persistent tier with process memory. It serves as
// the fallback when the configured backend fails to initialize and as a
// test double.
type MemoryStore struct {
	m *typedSyncMap
}

type typedSyncMap struct {
	m sync.Map
}

func (c *typedSyncMap) Load(k string) (Entry, bool) {
	v, exists := c.m.Load(k)
	if !exists {
		return Entry{}, false
	}
	return v.(Entry), exists
}

func (c *typedSyncMap) Store(k string, e Entry) {
	c.m.Store(k, e)
}

func (c *typedSyncMap) Delete(k string) {
	c.m.Delete(k)
}

func (c *typedSyncMap) Clear() {
	c.m.Clear()
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: &typedSyncMap{},
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	e, exists := s.m.Load(key)
	return e, exists, nil
}

func (s *MemoryStore) Put(e Entry) error {
	s.m.Store(e.Key, e)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.m.Delete(key)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.m.Clear()
	return nil
}
