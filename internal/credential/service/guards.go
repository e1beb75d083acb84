package service

import (
	"context"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

const (
	roleOwner          = "owner"
	roleMintAuthorizer = "mint_authorizer"
)

func (s *Service) requireOwner(ctx context.Context, c *models.Contract, caller id.AccountID) error {
	if caller.IsNil() || caller != c.Owner {
		s.denied(ctx, roleOwner, caller)
		return models.ErrUnauthorized
	}
	return nil
}

func (s *Service) requireMintAuthorizer(ctx context.Context, c *models.Contract, caller id.AccountID) error {
	if caller.IsNil() || caller != c.MintAuthorizer {
		s.denied(ctx, roleMintAuthorizer, caller)
		return models.ErrUnauthorized
	}
	return nil
}

func (s *Service) denied(ctx context.Context, role string, caller id.AccountID) {
	s.metrics.IncGuardDenial(role)
	s.logger.WarnContext(ctx, "role guard rejected caller",
		"role", role,
		"caller", caller.String(),
		"contract", s.contractID.String(),
	)
}
