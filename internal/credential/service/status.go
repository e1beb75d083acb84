package service

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/audit"
	"kycmint/pkg/platform/middleware/requesttime"
)

// credentialState returns the stored state of an existing credential, with
// the default state standing in when none was stored.
func (s *Service) credentialState(ctx context.Context, st Stores, credentialID id.CredentialID) (models.CredentialState, error) {
	if _, err := requireCredential(ctx, st.Ownership, credentialID); err != nil {
		return models.CredentialState{}, err
	}
	state, ok, err := st.States.Find(ctx, credentialID)
	if err != nil {
		return models.CredentialState{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read credential state")
	}
	if !ok {
		return models.DefaultState(), nil
	}
	return state, nil
}

// IsCredentialValid reports whether the credential is verified and unexpired
// at the request time.
func (s *Service) IsCredentialValid(ctx context.Context, credentialID id.CredentialID) (bool, error) {
	state, err := s.credentialState(ctx, s.stores, credentialID)
	if err != nil {
		return false, err
	}
	valid := state.Status.IsValid(requesttime.Now(ctx))
	s.metrics.IncValidityCheck(valid)
	return valid, nil
}

func (s *Service) CredentialExpiry(ctx context.Context, credentialID id.CredentialID) (*time.Time, error) {
	state, err := s.credentialState(ctx, s.stores, credentialID)
	if err != nil {
		return nil, err
	}
	return state.Status.Expiry, nil
}

func (s *Service) CredentialTier(ctx context.Context, credentialID id.CredentialID) (string, error) {
	state, err := s.credentialState(ctx, s.stores, credentialID)
	if err != nil {
		return "", err
	}
	return state.Tier, nil
}

// CredentialVerified returns the raw verified flag, ignoring expiry. It is
// restricted to the mint authorizer.
func (s *Service) CredentialVerified(ctx context.Context, caller id.AccountID, credentialID id.CredentialID) (bool, error) {
	c, err := s.loadContract(ctx, s.stores)
	if err != nil {
		return false, err
	}
	if err := s.requireMintAuthorizer(ctx, c, caller); err != nil {
		return false, err
	}
	state, err := s.credentialState(ctx, s.stores, credentialID)
	if err != nil {
		return false, err
	}
	return state.Status.Verified, nil
}

// HasValidAny reports whether account holds at least one valid credential.
// It stops at the first valid one; iteration order is unspecified.
func (s *Service) HasValidAny(ctx context.Context, account id.AccountID) (bool, error) {
	ids, err := s.stores.Ownership.IDsOwnedBy(ctx, account)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list owned credentials")
	}
	now := requesttime.Now(ctx)
	for _, credentialID := range ids {
		state, ok, err := s.stores.States.Find(ctx, credentialID)
		if err != nil {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read credential state")
		}
		if !ok {
			state = models.DefaultState()
		}
		if state.Status.IsValid(now) {
			return true, nil
		}
	}
	return false, nil
}

// SetVerified overwrites the verified flag and leaves expiry untouched.
func (s *Service) SetVerified(ctx context.Context, caller id.AccountID, credentialID id.CredentialID, verified bool) (*models.CredentialState, error) {
	return s.updateStatus(ctx, caller, credentialID, "verified", func(st *models.Status) map[string]string {
		st.Verified = verified
		return map[string]string{"verified": strconv.FormatBool(verified)}
	})
}

// SetExpiry overwrites the expiry and leaves the verified flag untouched. A
// nil expiry removes it.
func (s *Service) SetExpiry(ctx context.Context, caller id.AccountID, credentialID id.CredentialID, expiry *time.Time) (*models.CredentialState, error) {
	return s.updateStatus(ctx, caller, credentialID, "expiry", func(st *models.Status) map[string]string {
		st.Expiry = expiry
		value := "none"
		if expiry != nil {
			value = strconv.FormatInt(expiry.Unix(), 10)
		}
		return map[string]string{"expiry": value}
	})
}

func (s *Service) updateStatus(ctx context.Context, caller id.AccountID, credentialID id.CredentialID, field string, mutate func(*models.Status) map[string]string) (updated *models.CredentialState, err error) {
	ctx, span := s.startSpan(ctx, "set_"+field, attribute.String("credential.id", credentialID.String()))
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
		state, err := s.credentialState(ctx, st, credentialID)
		if err != nil {
			return err
		}

		attrs := mutate(&state.Status)
		attrs["field"] = field
		if err := st.States.Save(ctx, credentialID, state); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save credential state")
		}
		updated = &state
		ev = s.newEvent(ctx, audit.ActionCredentialStatusUpdated, caller, credentialID.String(), attrs)
		return appendEvent(ctx, st, ev)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusUpdate(field)
	s.logEvent(ctx, ev)
	return updated, nil
}
