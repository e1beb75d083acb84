// Package authorization stores pending mint authorizations keyed by digest.
package authorization

import (
	"context"

	"kycmint/internal/credential/models"
)

// Store is the authorization ledger.
//
// Error contract: Create returns sentinel.ErrConflict when the digest slot is
// taken; Find and Consume return sentinel.ErrNotFound when it is empty.
type Store interface {
	Create(ctx context.Context, record *models.AuthorizationRecord) error
	Find(ctx context.Context, digest models.Digest) (*models.AuthorizationRecord, error)
	// Consume finds the record, runs validate on it and deletes it, as one
	// step. When validate fails the record is left in place and its error
	// is returned unwrapped.
	Consume(ctx context.Context, digest models.Digest, validate func(*models.AuthorizationRecord) error) (*models.AuthorizationRecord, error)
}
