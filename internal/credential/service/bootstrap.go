package service

import (
	"context"
	"errors"
	"math"
	"strconv"

	"kycmint/internal/credential/models"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/audit"
	"kycmint/pkg/platform/middleware/requesttime"
	"kycmint/pkg/platform/sentinel"
)

// Bootstrap creates the contract from genesis on first start. On later
// starts the stored aggregate wins and genesis is ignored; created reports
// which case applied.
func (s *Service) Bootstrap(ctx context.Context, genesis models.Genesis) (c *models.Contract, created bool, err error) {
	ctx, span := s.startSpan(ctx, "bootstrap")
	defer func() { endSpan(span, err) }()

	if genesis.ContractID != s.contractID {
		return nil, false, dErrors.New(dErrors.CodeInvalidInput, "genesis is for a different contract")
	}
	if genesis.Owner.IsNil() {
		return nil, false, dErrors.New(dErrors.CodeInvalidInput, "genesis owner is required")
	}

	if genesis.SubscriptionCostPerYearUSD > math.MaxInt64 {
		return nil, false, dErrors.New(dErrors.CodeInvalidInput, "subscription cost out of range")
	}

	var ev audit.Event
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		existing, err := st.Contracts.Load(ctx, s.contractID)
		if err == nil {
			c = existing
			return nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contract")
		}

		c = models.NewContract(genesis, requesttime.Now(ctx))
		if err := st.Contracts.Create(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				// Another replica won the race; use its aggregate.
				existing, loadErr := st.Contracts.Load(ctx, s.contractID)
				if loadErr != nil {
					return dErrors.Wrap(loadErr, dErrors.CodeInternal, "failed to load contract")
				}
				c = existing
				return nil
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create contract")
		}
		created = true
		ev = s.newEvent(ctx, audit.ActionContractBootstrapped, c.Owner, c.ID.String(), map[string]string{
			"mint_authorizer":       c.MintAuthorizer.String(),
			"subscription_cost_usd": strconv.FormatUint(c.SubscriptionCostPerYearUSD, 10),
			"price_feed":            c.PriceFeed,
		})
		return appendEvent(ctx, st, ev)
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logEvent(ctx, ev)
	}
	return c, created, nil
}
