package contract

import (
	"context"
	"sync"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	contracts map[id.ContractID]models.Contract
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{contracts: make(map[id.ContractID]models.Contract)}
}

// Load returns a copy; changes are only visible after Save.
func (s *InMemoryStore) Load(_ context.Context, contractID id.ContractID) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[contractID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) Save(_ context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contract.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.contracts[contract.ID] = *contract
	return nil
}

func (s *InMemoryStore) Create(_ context.Context, contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contract.ID]; ok {
		return sentinel.ErrConflict
	}
	s.contracts[contract.ID] = *contract
	return nil
}
