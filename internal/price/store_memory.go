package price

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[uuid.UUID]uint64

	newID func() uuid.UUID
}

func NewMemStore() *MemStore {
	return &MemStore{
		m:     make(map[uuid.UUID]uint64),
		newID: uuid.New,
	}
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Create(ctx context.Context, value uint64) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for {
		if _, taken := s.m[id]; !taken {
			break
		}
		id = s.newID()
	}

	s.m[id] = value
	return id, nil
}

func (s *MemStore) List(ctx context.Context) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]uint64, 0, len(s.m))
	for _, v := range s.m {
		out = append(out, v)
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id uuid.UUID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[id]
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}

func (s *MemStore) Update(ctx context.Context, id uuid.UUID, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return ErrNotFound
	}
	s.m[id] = value
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return ErrNotFound
	}
	delete(s.m, id)
	return nil
}

func (s *MemStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
