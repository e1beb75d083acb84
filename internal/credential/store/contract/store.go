// Package contract stores the Contract aggregate: configuration, role
// holders, the credential counter and the unwithdrawn balance.
package contract

import (
	"context"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

// Store loads and saves the whole aggregate.
//
// Error contract: Load and Save return sentinel.ErrNotFound for an unknown
// contract; Create returns sentinel.ErrConflict when it already exists.
type Store interface {
	Load(ctx context.Context, contractID id.ContractID) (*models.Contract, error)
	Save(ctx context.Context, contract *models.Contract) error
	Create(ctx context.Context, contract *models.Contract) error
}
