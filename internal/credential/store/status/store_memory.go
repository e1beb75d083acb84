package status

import (
	"context"
	"sync"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	states map[id.CredentialID]models.CredentialState
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[id.CredentialID]models.CredentialState)}
}

func (s *InMemoryStore) Save(_ context.Context, credentialID id.CredentialID, state models.CredentialState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.Status.Expiry != nil {
		expiry := *state.Status.Expiry
		state.Status.Expiry = &expiry
	}
	s.states[credentialID] = state
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, credentialID id.CredentialID) (models.CredentialState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[credentialID]
	return state, ok, nil
}
