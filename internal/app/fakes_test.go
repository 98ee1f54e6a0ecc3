package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"hotelverse/internal/domain"
)

// ---- fakes ----

// memStore keeps documents as decoded JSON objects so filters see what a real store sees.
type memStore struct {
	mu      sync.Mutex
	colls   map[string][]map[string]any
	seq     int
	findErr error
	finds   int
}

func newMemStore() *memStore { return &memStore{colls: map[string][]map[string]any{}} }

func (m *memStore) Ready() error   { return nil }
func (m *memStore) Driver() string { return "memory" }

func (m *memStore) Insert(ctx context.Context, coll string, doc any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(coll, doc)
}

func (m *memStore) insertLocked(coll string, doc any) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return "", err
	}
	m.seq++
	id := fmt.Sprintf("%s-%d", coll, m.seq)
	obj["id"] = id
	m.colls[coll] = append(m.colls[coll], obj)
	return id, nil
}

func (m *memStore) InsertManyIfEmpty(ctx context.Context, coll string, docs []any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.colls[coll]) > 0 {
		return 0, nil
	}
	for _, d := range docs {
		if _, err := m.insertLocked(coll, d); err != nil {
			return 0, err
		}
	}
	return len(docs), nil
}

func (m *memStore) Count(ctx context.Context, coll string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.colls[coll])), nil
}

func (m *memStore) Find(ctx context.Context, coll string, f domain.Filter, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	if m.findErr != nil {
		return m.findErr
	}
	matched := []map[string]any{}
	for _, obj := range m.colls[coll] {
		if matches(obj, f) {
			matched = append(matched, obj)
		}
	}
	b, err := json.Marshal(matched)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (m *memStore) Collections(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for k := range m.colls {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func matches(obj map[string]any, f domain.Filter) bool {
	for _, c := range f {
		v, ok := obj[c.Field]
		if !ok {
			return false
		}
		switch c.Op {
		case domain.OpEq:
			if fmt.Sprint(v) != fmt.Sprint(c.Value) {
				return false
			}
		case domain.OpGte:
			if toFloat(v) < toFloat(c.Value) {
				return false
			}
		}
	}
	return true
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

// unavailableStore mirrors storage.Unconfigured without importing it.
type unavailableStore struct{ memStore }

func (*unavailableStore) Ready() error { return domain.ErrServiceUnavailable }
func (*unavailableStore) Find(context.Context, string, domain.Filter, any) error {
	return domain.ErrServiceUnavailable
}
func (*unavailableStore) InsertManyIfEmpty(context.Context, string, []any) (int, error) {
	return 0, domain.ErrServiceUnavailable
}

// fakeCache stores JSON so Get can decode into any destination.
type fakeCache struct {
	store  map[string][]byte
	dels   []string
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	c.dels = append(c.dels, prefix)
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
