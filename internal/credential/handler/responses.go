package handler

import (
	"time"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

// Timestamps in responses are epoch seconds, matching the request side.

type AuthorizationResponse struct {
	Digest       string       `json:"digest"`
	Destination  id.AccountID `json:"destination"`
	Tier         string       `json:"tier"`
	SecondsToPay uint64       `json:"seconds_to_pay"`
	Expiry       *int64       `json:"expiry"`
	CreatedAt    int64        `json:"created_at"`
}

func toAuthorizationResponse(rec *models.AuthorizationRecord) AuthorizationResponse {
	status, tier, seconds := rec.Resolve()
	return AuthorizationResponse{
		Digest:       rec.Digest.String(),
		Destination:  rec.Destination,
		Tier:         tier,
		SecondsToPay: seconds,
		Expiry:       timeToEpoch(status.Expiry),
		CreatedAt:    rec.CreatedAt.Unix(),
	}
}

type CostResponse struct {
	Cost id.Amount `json:"cost"`
}

type CredentialStateResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	Verified     bool            `json:"verified"`
	Expiry       *int64          `json:"expiry"`
	Tier         string          `json:"tier"`
}

func toStateResponse(credentialID id.CredentialID, state *models.CredentialState) CredentialStateResponse {
	return CredentialStateResponse{
		CredentialID: credentialID,
		Verified:     state.Status.Verified,
		Expiry:       timeToEpoch(state.Status.Expiry),
		Tier:         state.Tier,
	}
}

type ValidityResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	Valid        bool            `json:"valid"`
}

type ExpiryResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	Expiry       *int64          `json:"expiry"`
}

type TierResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	Tier         string          `json:"tier"`
}

type VerifiedResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	Verified     bool            `json:"verified"`
}

type TokenURIResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	URI          string          `json:"uri"`
}

type AccountValidityResponse struct {
	Account id.AccountID `json:"account"`
	Valid   bool         `json:"valid"`
}

type MintAuthorizerResponse struct {
	MintAuthorizer id.AccountID `json:"mint_authorizer"`
}

func timeToEpoch(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}
