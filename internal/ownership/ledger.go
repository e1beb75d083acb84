// Package ownership records which account holds each issued credential.
//
// The ledger has no transfer operation: once created, a credential stays with
// its first owner.
package ownership

import (
	"context"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

//go:generate mockgen -source=ledger.go -destination=mocks/ledger-mocks.go -package=mocks Ledger

// Ledger is the ownership record of issued credentials.
//
// Error contract: OwnerOf and Metadata return sentinel.ErrNotFound for an
// unknown id; Create returns sentinel.ErrConflict when the id is taken.
type Ledger interface {
	Create(ctx context.Context, credentialID id.CredentialID, owner id.AccountID, metadata models.TokenMetadata, paid id.Amount) (*models.CredentialView, error)
	OwnerOf(ctx context.Context, credentialID id.CredentialID) (id.AccountID, error)
	IDsOwnedBy(ctx context.Context, owner id.AccountID) ([]id.CredentialID, error)
	Metadata(ctx context.Context, credentialID id.CredentialID) (*models.TokenMetadata, error)
	Count(ctx context.Context) (uint64, error)
}
