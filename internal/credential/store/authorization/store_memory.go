package authorization

import (
	"context"
	"sync"

	"kycmint/internal/credential/models"
	"kycmint/pkg/platform/sentinel"
)

// InMemoryStore keeps authorizations in a map from digest to record.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[models.Digest]*models.AuthorizationRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[models.Digest]*models.AuthorizationRecord)}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.AuthorizationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Digest]; ok {
		return sentinel.ErrConflict
	}
	stored := *record
	s.records[record.Digest] = &stored
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, digest models.Digest) (*models.AuthorizationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[digest]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *record
	return &out, nil
}

func (s *InMemoryStore) Consume(_ context.Context, digest models.Digest, validate func(*models.AuthorizationRecord) error) (*models.AuthorizationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[digest]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *record
	if validate != nil {
		if err := validate(&out); err != nil {
			return nil, err
		}
	}
	delete(s.records, digest)
	return &out, nil
}

// Len reports the number of pending authorizations.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
