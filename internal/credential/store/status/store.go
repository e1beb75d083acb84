// Package status stores the verification status and tier of issued
// credentials.
package status

import (
	"context"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

// Store keeps one CredentialState per credential id. Find reports false for
// ids with no stored state; callers apply models.DefaultState.
type Store interface {
	Save(ctx context.Context, credentialID id.CredentialID, state models.CredentialState) error
	Find(ctx context.Context, credentialID id.CredentialID) (models.CredentialState, bool, error)
}
