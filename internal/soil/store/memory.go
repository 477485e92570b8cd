package store

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgerror"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
}

type sessionRecord struct {
	mu       sync.RWMutex
	session  entity.Session
	datasets []*entity.Dataset
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*sessionRecord),
	}
}

func (s *InMemoryStore) CreateSession(ctx context.Context, session entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return pkgerror.NewBusiness("session already exists", pkgerror.CodeConflict)
	}

	s.sessions[session.ID] = &sessionRecord{
		session: session,
	}

	return nil
}

func (s *InMemoryStore) GetSession(ctx context.Context, sessionID string) (entity.Session, error) {
	rec, err := s.get(sessionID)
	if err != nil {
		return entity.Session{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.session, nil
}

// ReplaceDatasets swaps the session's datasets wholesale; earlier datasets and
// their chart output are dropped.
func (s *InMemoryStore) ReplaceDatasets(ctx context.Context, sessionID string, datasets []entity.Dataset, at time.Time) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	items := make([]*entity.Dataset, len(datasets))
	for i := range datasets {
		ds := datasets[i]
		items[i] = &ds
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.datasets = items
	rec.session.UpdatedAt = at

	return nil
}

func (s *InMemoryStore) ListDatasets(ctx context.Context, sessionID string) ([]entity.Dataset, entity.Session, error) {
	rec, err := s.get(sessionID)
	if err != nil {
		return nil, entity.Session{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	items := make([]entity.Dataset, len(rec.datasets))
	for i, ds := range rec.datasets {
		items[i] = *ds
	}

	return items, rec.session, nil
}

func (s *InMemoryStore) GetDataset(ctx context.Context, sessionID, datasetID string) (entity.Dataset, error) {
	rec, err := s.get(sessionID)
	if err != nil {
		return entity.Dataset{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	ds := rec.find(datasetID)
	if ds == nil {
		return entity.Dataset{}, pkgerror.ErrNotFound
	}

	return *ds, nil
}

// UpdateDataset runs fn on the stored dataset under the session lock. An error
// from fn leaves the dataset untouched.
func (s *InMemoryStore) UpdateDataset(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	ds := rec.find(datasetID)
	if ds == nil {
		return pkgerror.ErrNotFound
	}

	next := *ds
	if err := fn(&next); err != nil {
		return err
	}
	*ds = next

	return nil
}

// Close drops every session.
func (s *InMemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*sessionRecord)

	return nil
}

func (s *InMemoryStore) get(sessionID string) (*sessionRecord, error) {
	s.mu.RLock()
	rec, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

func (r *sessionRecord) find(datasetID string) *entity.Dataset {
	for _, ds := range r.datasets {
		if ds.ID == datasetID {
			return ds
		}
	}
	return nil
}
