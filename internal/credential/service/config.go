package service

import (
	"context"
	"errors"
	"math"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/audit"
	"kycmint/pkg/platform/middleware/requesttime"
	"kycmint/pkg/platform/sentinel"
)

// contractMutation changes c in place and returns the audit attributes.
type contractMutation func(ctx context.Context, st Stores, c *models.Contract) (map[string]string, error)

// updateContract runs an owner-only change of the aggregate.
func (s *Service) updateContract(ctx context.Context, caller id.AccountID, setting string, action audit.Action, mutate contractMutation) error {
	return s.applyContractUpdate(ctx, caller, setting, action, mutate, false)
}

// updateQuote runs an owner-only change that touches the price quote. The
// cache is written as the last step while the contract lock is held, so
// cache writes land in commit order. A change that does not commit drops
// the cache and readers fall back to the contract.
func (s *Service) updateQuote(ctx context.Context, caller id.AccountID, setting string, mutate contractMutation) error {
	return s.applyContractUpdate(ctx, caller, setting, audit.ActionContractUpdated, mutate, true)
}

func (s *Service) applyContractUpdate(ctx context.Context, caller id.AccountID, setting string, action audit.Action, mutate contractMutation, cacheQuote bool) (err error) {
	ctx, span := s.startSpan(ctx, "update_contract", attribute.String("setting", setting))
	defer func() { endSpan(span, err) }()

	var (
		ev     audit.Event
		cached bool
	)
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		c, err := s.loadContract(ctx, st)
		if err != nil {
			return err
		}
		if err := s.requireOwner(ctx, c, caller); err != nil {
			return err
		}
		attrs, err := mutate(ctx, st, c)
		if err != nil {
			return err
		}
		c.UpdatedAt = requesttime.Now(ctx)
		if err := s.saveContract(ctx, st, c); err != nil {
			return err
		}
		attrs["setting"] = setting
		ev = s.newEvent(ctx, action, caller, c.ID.String(), attrs)
		if err := appendEvent(ctx, st, ev); err != nil {
			return err
		}

		if !cacheQuote {
			return nil
		}
		cached = true
		if err := s.prices.Set(ctx, c.Quote); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to cache price quote")
		}
		return nil
	})
	if err != nil {
		if cached {
			s.dropQuoteCache(ctx)
		}
		return err
	}

	s.metrics.IncConfigChange(setting)
	s.logEvent(ctx, ev)
	return nil
}

func (s *Service) dropQuoteCache(ctx context.Context) {
	if err := s.prices.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate price quote cache", "error", err)
	}
}

func (s *Service) SetBaseURI(ctx context.Context, caller id.AccountID, baseURI string) error {
	return s.updateContract(ctx, caller, "base_uri", audit.ActionContractUpdated,
		func(_ context.Context, _ Stores, c *models.Contract) (map[string]string, error) {
			c.BaseURI = baseURI
			return map[string]string{"base_uri": c.BaseURI}, nil
		})
}

// SetSubscriptionCost sets the yearly price in USD with 8 implied decimals.
func (s *Service) SetSubscriptionCost(ctx context.Context, caller id.AccountID, costUSD uint64) error {
	if costUSD > math.MaxInt64 {
		return dErrors.New(dErrors.CodeInvalidInput, "subscription cost out of range")
	}
	return s.updateContract(ctx, caller, "subscription_cost", audit.ActionContractUpdated,
		func(_ context.Context, _ Stores, c *models.Contract) (map[string]string, error) {
			c.SubscriptionCostPerYearUSD = costUSD
			return map[string]string{"subscription_cost_usd": strconv.FormatUint(costUSD, 10)}, nil
		})
}

func (s *Service) SetMintAuthorizer(ctx context.Context, caller id.AccountID, authorizer id.AccountID) error {
	if authorizer.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "mint authorizer is required")
	}
	return s.updateContract(ctx, caller, "mint_authorizer", audit.ActionContractUpdated,
		func(_ context.Context, _ Stores, c *models.Contract) (map[string]string, error) {
			previous := c.MintAuthorizer
			c.MintAuthorizer = authorizer
			return map[string]string{"previous": previous.String(), "mint_authorizer": authorizer.String()}, nil
		})
}

// TransferOwnership hands the owner role to newOwner. The mint authorizer is
// not affected.
func (s *Service) TransferOwnership(ctx context.Context, caller id.AccountID, newOwner id.AccountID) error {
	if newOwner.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "owner is required")
	}
	return s.updateContract(ctx, caller, "owner", audit.ActionContractUpdated,
		func(_ context.Context, _ Stores, c *models.Contract) (map[string]string, error) {
			previous := c.Owner
			c.Owner = newOwner
			return map[string]string{"previous": previous.String(), "owner": newOwner.String()}, nil
		})
}

// SetPriceFeed replaces the quote source. The current quote goes back to the
// default until the new source reports.
func (s *Service) SetPriceFeed(ctx context.Context, caller id.AccountID, source string) error {
	return s.updateQuote(ctx, caller, "price_feed",
		func(_ context.Context, _ Stores, c *models.Contract) (map[string]string, error) {
			c.PriceFeed = source
			c.Quote = models.DefaultPriceQuote()
			return map[string]string{"price_feed": source}, nil
		})
}

func (s *Service) SetPriceQuote(ctx context.Context, caller id.AccountID, quote models.PriceQuote) error {
	if quote.Price == 0 {
		return models.ErrInvalidPriceQuote
	}
	return s.updateQuote(ctx, caller, "price_quote",
		func(_ context.Context, _ Stores, c *models.Contract) (map[string]string, error) {
			c.Quote = quote
			return map[string]string{
				"price":    strconv.FormatUint(quote.Price, 10),
				"decimals": strconv.FormatUint(uint64(quote.Decimals), 10),
			}, nil
		})
}

// Withdraw pays the whole accumulated balance out to recipient. Settlement
// of the payout happens downstream of the balance_withdrawn event.
func (s *Service) Withdraw(ctx context.Context, caller id.AccountID, recipient id.AccountID) (*models.Withdrawal, error) {
	if recipient.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "recipient is required")
	}
	var out *models.Withdrawal
	err := s.updateContract(ctx, caller, "balance", audit.ActionBalanceWithdrawn,
		func(_ context.Context, _ Stores, c *models.Contract) (map[string]string, error) {
			if c.Balance.IsZero() {
				return nil, models.ErrNothingToWithdraw
			}
			out = &models.Withdrawal{Recipient: recipient, Amount: c.Balance}
			c.Balance = id.Amount{}
			return map[string]string{"recipient": recipient.String(), "amount": out.Amount.String()}, nil
		})
	if err != nil {
		return nil, err
	}
	s.metrics.IncWithdrawals()
	return out, nil
}

func (s *Service) MintAuthorizer(ctx context.Context) (id.AccountID, error) {
	c, err := s.loadContract(ctx, s.stores)
	if err != nil {
		return "", err
	}
	return c.MintAuthorizer, nil
}

// CurrentPriceQuote serves the cached quote. A miss or a cache failure falls
// back to the contract, without refilling the cache.
func (s *Service) CurrentPriceQuote(ctx context.Context) (models.PriceQuote, error) {
	quote, err := s.prices.Current(ctx)
	if err == nil {
		return quote, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "price quote cache unavailable", "error", err)
	}
	c, err := s.loadContract(ctx, s.stores)
	if err != nil {
		return models.PriceQuote{}, err
	}
	return c.Quote, nil
}

func (s *Service) ContractInfo(ctx context.Context) (*models.ContractInfo, error) {
	c, err := s.loadContract(ctx, s.stores)
	if err != nil {
		return nil, err
	}
	issued, err := s.stores.Ownership.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count credentials")
	}
	return &models.ContractInfo{
		ID:                         c.ID,
		Name:                       models.CollectionName,
		Symbol:                     models.CollectionSymbol,
		Version:                    models.Version,
		Owner:                      c.Owner,
		MintAuthorizer:             c.MintAuthorizer,
		BaseURI:                    c.BaseURI,
		SubscriptionCostPerYearUSD: c.SubscriptionCostPerYearUSD,
		PriceFeed:                  c.PriceFeed,
		TotalIssued:                issued,
		Balance:                    c.Balance,
	}, nil
}

// TokenURI locates the credential's JSON document: <base uri>/<extra>.json.
func (s *Service) TokenURI(ctx context.Context, credentialID id.CredentialID) (string, error) {
	c, err := s.loadContract(ctx, s.stores)
	if err != nil {
		return "", err
	}
	if _, err := requireCredential(ctx, s.stores.Ownership, credentialID); err != nil {
		return "", err
	}
	metadata, err := s.stores.Ownership.Metadata(ctx, credentialID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read credential metadata")
	}
	if c.BaseURI == "" || metadata.Extra == nil || *metadata.Extra == "" {
		return "", models.ErrMissingTokenURIData
	}
	return c.BaseURI + "/" + *metadata.Extra + ".json", nil
}
