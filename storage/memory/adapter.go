package memory

import (
	"context"
	"sync"

	"github.com/rs/xid"

	"github.com/sig-0/fxfinder/storage"
	"github.com/sig-0/fxfinder/storage/types"
)

type Storage struct {
	data map[xid.ID]types.JobStatus

	// latest is the most recently started job
	latest *xid.ID

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[xid.ID]types.JobStatus),
	}
}

func (s *Storage) SaveStatus(_ context.Context, st *types.JobStatus) error {
	elem := *st
	elem.StartedAt = elem.StartedAt.UTC()
	elem.UpdatedAt = elem.UpdatedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[elem.ID]; !ok && s.isLater(elem) {
		id := elem.ID
		s.latest = &id
	}

	s.data[elem.ID] = elem // whole record swap

	return nil
}

func (s *Storage) Status(_ context.Context, id xid.ID) (*types.JobStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &v, nil
}

func (s *Storage) LatestStatus(_ context.Context) (*types.JobStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, storage.ErrNotFound
	}

	v := s.data[*s.latest]

	return &v, nil
}

func (s *Storage) DeleteStatus(_ context.Context, id xid.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.data, id)

	if s.latest == nil || *s.latest != id {
		return nil
	}

	// Fall back to the latest remaining job
	s.latest = nil

	for k, v := range s.data {
		if s.isLater(v) {
			next := k
			s.latest = &next
		}
	}

	return nil
}

// isLater returns true if the status started no earlier than the current latest.
// Caller must hold the lock
func (s *Storage) isLater(st types.JobStatus) bool {
	if s.latest == nil {
		return true
	}

	cur := s.data[*s.latest]

	return !st.StartedAt.Before(cur.StartedAt)
}
