package ownership

import (
	"context"
	"sync"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	"kycmint/pkg/platform/sentinel"
)

type entry struct {
	owner    id.AccountID
	metadata models.TokenMetadata
	paid     id.Amount
}

// InMemoryLedger keeps ownership in process memory.
type InMemoryLedger struct {
	mu      sync.RWMutex
	entries map[id.CredentialID]*entry
	byOwner map[id.AccountID][]id.CredentialID
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		entries: make(map[id.CredentialID]*entry),
		byOwner: make(map[id.AccountID][]id.CredentialID),
	}
}

func (l *InMemoryLedger) Create(_ context.Context, credentialID id.CredentialID, owner id.AccountID, metadata models.TokenMetadata, paid id.Amount) (*models.CredentialView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[credentialID]; ok {
		return nil, sentinel.ErrConflict
	}
	l.entries[credentialID] = &entry{owner: owner, metadata: metadata, paid: paid}
	l.byOwner[owner] = append(l.byOwner[owner], credentialID)
	return &models.CredentialView{ID: credentialID, Owner: owner, Metadata: metadata}, nil
}

func (l *InMemoryLedger) OwnerOf(_ context.Context, credentialID id.CredentialID) (id.AccountID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[credentialID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return e.owner, nil
}

func (l *InMemoryLedger) IDsOwnedBy(_ context.Context, owner id.AccountID) ([]id.CredentialID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := l.byOwner[owner]
	out := make([]id.CredentialID, len(ids))
	copy(out, ids)
	return out, nil
}

func (l *InMemoryLedger) Metadata(_ context.Context, credentialID id.CredentialID) (*models.TokenMetadata, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	metadata := e.metadata
	return &metadata, nil
}

func (l *InMemoryLedger) Count(_ context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.entries)), nil
}
