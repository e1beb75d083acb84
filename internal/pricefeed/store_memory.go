package pricefeed

import (
	"context"
	"sync"

	"kycmint/internal/credential/models"
	"kycmint/pkg/platform/sentinel"
)

// InMemoryStore caches the quote in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	quote *models.PriceQuote
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Current(_ context.Context) (models.PriceQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quote == nil {
		return models.PriceQuote{}, sentinel.ErrNotFound
	}
	return *s.quote, nil
}

func (s *InMemoryStore) Set(_ context.Context, quote models.PriceQuote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quote = &quote
	return nil
}

func (s *InMemoryStore) Invalidate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quote = nil
	return nil
}
