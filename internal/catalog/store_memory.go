package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in a slice so the collection preserves insertion
// order, with an id index for lookups. It is process-lifetime state: seeded at
// construction, lost on restart.
type MemStore struct {
	mu    sync.RWMutex
	items []Product
	index map[string]int
}

func NewMemStore() *MemStore {
	s := &MemStore{index: make(map[string]int)}

	seed := []Product{
		{ID: "p1", Name: "Laptop", Description: "High-performance laptop", Price: 1200, Category: "electronics", InStock: true},
		{ID: "p2", Name: "Smartphone", Description: "Latest model smartphone", Price: 800, Category: "electronics", InStock: true},
		{ID: "p3", Name: "Coffee Maker", Description: "Automatic drip coffee maker", Price: 49.99, Category: "kitchen", InStock: false},
	}
	for _, p := range seed {
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, p)
	}

	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Product{}, false, nil
	}
	return s.items[i], true, nil
}

func (s *MemStore) Insert(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[p.ID]; ok {
		return ErrDuplicateID
	}

	s.index[p.ID] = len(s.items)
	s.items = append(s.items, p)
	return nil
}

func (s *MemStore) Replace(ctx context.Context, id string, p Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}

	p.ID = id
	s.items[i] = p
	return true, nil
}

func (s *MemStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false, nil
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}

	return true, nil
}
