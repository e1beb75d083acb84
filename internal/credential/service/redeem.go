package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"kycmint/internal/credential/models"
	"kycmint/internal/credential/pricing"
	"kycmint/internal/ownership"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/audit"
	"kycmint/pkg/platform/middleware/requesttime"
	"kycmint/pkg/platform/sentinel"
)

// Authorize records a single-use grant for destination to redeem code.
// Only the mint authorizer may call it, and a digest slot holds at most one
// pending authorization.
func (s *Service) Authorize(ctx context.Context, caller id.AccountID, in models.AuthorizeInput) (rec *models.AuthorizationRecord, err error) {
	ctx, span := s.startSpan(ctx, "authorize", attribute.String("destination", in.Destination.String()))
	defer func() { endSpan(span, err) }()

	var ev audit.Event
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		c, err := s.loadContract(ctx, st)
		if err != nil {
			return err
		}
		if err := s.requireMintAuthorizer(ctx, c, caller); err != nil {
			return err
		}

		digest := models.DeriveDigest(in.Code, in.Destination, c.ID)
		rec = &models.AuthorizationRecord{
			Digest:       digest,
			Destination:  in.Destination,
			Metadata:     in.Metadata,
			Status:       &models.Status{Verified: true, Expiry: in.Expiry},
			Tier:         in.Tier,
			SecondsToPay: in.SecondsToPay,
			CreatedAt:    requesttime.Now(ctx),
		}
		if err := st.Authorizations.Create(ctx, rec); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return models.ErrCodeAlreadyAuthorized
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store authorization")
		}

		_, tier, seconds := rec.Resolve()
		ev = s.newEvent(ctx, audit.ActionAuthorizationCreated, caller, digest.String(), map[string]string{
			"destination":    in.Destination.String(),
			"tier":           tier,
			"seconds_to_pay": strconv.FormatUint(seconds, 10),
		})
		return appendEvent(ctx, st, ev)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAuthorizationsCreated()
	s.logEvent(ctx, ev)
	return rec, nil
}

// Redeem turns the caller's pending authorization for code into a credential.
//
// The digest is derived from the caller, so only the authorized destination
// can redeem. Every check runs before the first write: payment must cover the
// cost for the authorized seconds at the quote loaded under the contract
// lock, the id counter must not be exhausted, and the next id must be free in
// the ownership ledger. The authorization is deleted last, so a failed write
// leaves it redeemable. Payment above the cost is returned as Refund.
func (s *Service) Redeem(ctx context.Context, caller id.AccountID, code id.AuthCode, attached id.Amount) (result *models.RedeemResult, err error) {
	ctx, span := s.startSpan(ctx, "redeem", attribute.String("caller", caller.String()))
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedeemLatency(time.Since(start).Seconds())
		if err != nil {
			s.metrics.IncRedeemFailure(string(dErrors.CodeOf(err)))
		}
		endSpan(span, err)
	}()

	var ev audit.Event
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		c, err := s.loadContract(ctx, st)
		if err != nil {
			return err
		}

		digest := models.DeriveDigest(code, caller, c.ID)
		rec, err := st.Authorizations.Find(ctx, digest)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrUnauthorizedCode
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to find authorization")
		}

		status, tier, seconds := rec.Resolve()
		cost, err := pricing.CostForSeconds(c.SubscriptionCostPerYearUSD, c.Quote, seconds)
		if err != nil {
			return err
		}
		if !cost.IsZero() && attached.Cmp(cost) < 0 {
			return models.ErrInsufficientPayment
		}
		if c.NextCredentialID == math.MaxUint64 {
			return models.ErrIDOverflow
		}
		credentialID := id.CredentialID(c.NextCredentialID)
		if err := requireUnissued(ctx, st.Ownership, credentialID); err != nil {
			return err
		}

		state := models.CredentialState{Status: status, Tier: tier}
		view, err := st.Ownership.Create(ctx, credentialID, caller, rec.Metadata, cost)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record credential ownership")
		}
		if err := st.States.Save(ctx, credentialID, state); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save credential state")
		}

		c.NextCredentialID++
		c.Balance = c.Balance.Add(cost)
		c.UpdatedAt = requesttime.Now(ctx)
		if err := s.saveContract(ctx, st, c); err != nil {
			return err
		}

		result = &models.RedeemResult{
			Credential: *view,
			Cost:       cost,
			Refund:     attached.Sub(cost),
		}
		ev = s.newEvent(ctx, audit.ActionCredentialIssued, caller, credentialID.String(), map[string]string{
			"tier": state.Tier,
			"cost": cost.String(),
		})
		if err := appendEvent(ctx, st, ev); err != nil {
			return err
		}

		if _, err := st.Authorizations.Consume(ctx, digest, func(*models.AuthorizationRecord) error { return nil }); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume authorization")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("credential.id", result.Credential.ID.String()))
	s.metrics.IncCredentialsIssued(ev.Attributes["tier"])
	s.logEvent(ctx, ev)
	return result, nil
}

// requireUnissued confirms no credential holds credentialID yet. A taken id
// means the counter and the ledger disagree.
func requireUnissued(ctx context.Context, ledger ownership.Ledger, credentialID id.CredentialID) error {
	_, err := ledger.OwnerOf(ctx, credentialID)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeInternal, "next credential id is already issued")
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up credential")
	}
}

// RequiredCostForSeconds prices a subscription of the given length at the
// current quote.
func (s *Service) RequiredCostForSeconds(ctx context.Context, seconds uint64) (id.Amount, error) {
	c, err := s.loadContract(ctx, s.stores)
	if err != nil {
		return id.Amount{}, err
	}
	return pricing.CostForSeconds(c.SubscriptionCostPerYearUSD, c.Quote, seconds)
}

// RequiredCostForCode is the payment destination must attach to redeem code.
func (s *Service) RequiredCostForCode(ctx context.Context, code id.AuthCode, destination id.AccountID) (id.Amount, error) {
	c, err := s.loadContract(ctx, s.stores)
	if err != nil {
		return id.Amount{}, err
	}
	rec, err := s.stores.Authorizations.Find(ctx, models.DeriveDigest(code, destination, c.ID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.Amount{}, models.ErrUnauthorizedCode
		}
		return id.Amount{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find authorization")
	}
	_, _, seconds := rec.Resolve()
	return pricing.CostForSeconds(c.SubscriptionCostPerYearUSD, c.Quote, seconds)
}
