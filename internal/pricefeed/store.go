// Package pricefeed caches the contract's current native-to-USD price quote
// for read paths. The contract aggregate holds the authoritative value.
package pricefeed

import (
	"context"

	"kycmint/internal/credential/models"
)

// Store is a quote cache.
//
// Error contract: Current returns sentinel.ErrNotFound when nothing is
// cached. Invalidate on an empty cache is not an error.
type Store interface {
	Current(ctx context.Context) (models.PriceQuote, error)
	Set(ctx context.Context, quote models.PriceQuote) error
	Invalidate(ctx context.Context) error
}
