package models

import (
	"time"

	id "kycmint/pkg/domain"
)

const (
	// DefaultTier is the verification tier of a credential that was
	// authorized without one.
	DefaultTier = "KYC_1"

	// Version is the version string reported by ContractInfo.
	Version = "0.4.2"

	CollectionName   = "KYC Identity"
	CollectionSymbol = "PEOPLE"
)

// Status is the verification state of one credential. Expiry is epoch-second
// precision; nil means the credential never expires.
type Status struct {
	Verified bool       `json:"verified"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}

// DefaultStatus applies to credentials with no stored status.
func DefaultStatus() Status {
	return Status{Verified: true}
}

// IsValid reports whether the credential is verified and has not reached
// its expiry. A credential expires at the expiry instant itself.
func (s Status) IsValid(now time.Time) bool {
	if !s.Verified {
		return false
	}
	if s.Expiry != nil && !now.Before(*s.Expiry) {
		return false
	}
	return true
}

// CredentialState is the status and tier this service owns for an issued
// credential. Ownership and metadata live in the ownership ledger.
type CredentialState struct {
	Status Status `json:"status"`
	Tier   string `json:"tier"`
}

// DefaultState is the state assumed when none was stored.
func DefaultState() CredentialState {
	return CredentialState{Status: DefaultStatus(), Tier: DefaultTier}
}

// TokenMetadata is NEP-177 style per-credential metadata. The service treats
// it as opaque except for Extra, which names the credential's JSON document.
type TokenMetadata struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Media         *string `json:"media,omitempty"`
	MediaHash     *string `json:"media_hash,omitempty"`
	Copies        *uint64 `json:"copies,omitempty"`
	IssuedAt      *string `json:"issued_at,omitempty"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	StartsAt      *string `json:"starts_at,omitempty"`
	UpdatedAt     *string `json:"updated_at,omitempty"`
	Extra         *string `json:"extra,omitempty"`
	Reference     *string `json:"reference,omitempty"`
	ReferenceHash *string `json:"reference_hash,omitempty"`
}

// CredentialView is the public shape of an issued credential.
type CredentialView struct {
	ID       id.CredentialID `json:"id"`
	Owner    id.AccountID    `json:"owner"`
	Metadata TokenMetadata   `json:"metadata"`
}

// PriceQuote is a native-to-USD price: Price units of USD per coin, with
// Decimals implied decimal places.
type PriceQuote struct {
	Price    uint64 `json:"price"`
	Decimals uint8  `json:"decimals"`
}

// DefaultPriceQuote is used until an owner sets a quote, and after every
// price feed change.
func DefaultPriceQuote() PriceQuote {
	return PriceQuote{Price: 17370, Decimals: 4}
}

// AuthorizationRecord is a pending, single-use mint authorization keyed by
// its digest. Metadata is mandatory; the other fields are optional and fall
// back to their own defaults independently.
type AuthorizationRecord struct {
	Digest       Digest
	Destination  id.AccountID
	Metadata     TokenMetadata
	Status       *Status
	Tier         *string
	SecondsToPay *uint64
	CreatedAt    time.Time
}

// Resolve returns the status, tier and seconds to pay with defaults applied.
func (r *AuthorizationRecord) Resolve() (Status, string, uint64) {
	status := DefaultStatus()
	if r.Status != nil {
		status = *r.Status
	}
	tier := DefaultTier
	if r.Tier != nil {
		tier = *r.Tier
	}
	var seconds uint64
	if r.SecondsToPay != nil {
		seconds = *r.SecondsToPay
	}
	return status, tier, seconds
}

// Contract is the aggregate holding every configuration value and counter of
// one issuing contract. It is loaded and saved as a whole inside a
// transaction. Quote is the authoritative price quote; any pricefeed store
// only caches it.
type Contract struct {
	ID                         id.ContractID
	Owner                      id.AccountID
	MintAuthorizer             id.AccountID
	BaseURI                    string
	SubscriptionCostPerYearUSD uint64
	PriceFeed                  string
	Quote                      PriceQuote
	NextCredentialID           uint64
	Balance                    id.Amount
	UpdatedAt                  time.Time
}

// Genesis is the initial configuration a contract is created with.
type Genesis struct {
	ContractID                 id.ContractID
	Owner                      id.AccountID
	MintAuthorizer             id.AccountID
	BaseURI                    string
	SubscriptionCostPerYearUSD uint64
	PriceFeed                  string
}

// NewContract builds the aggregate for g. A zero MintAuthorizer defaults to
// the owner.
func NewContract(g Genesis, now time.Time) *Contract {
	authorizer := g.MintAuthorizer
	if authorizer.IsNil() {
		authorizer = g.Owner
	}
	return &Contract{
		ID:                         g.ContractID,
		Owner:                      g.Owner,
		MintAuthorizer:             authorizer,
		BaseURI:                    g.BaseURI,
		SubscriptionCostPerYearUSD: g.SubscriptionCostPerYearUSD,
		PriceFeed:                  g.PriceFeed,
		Quote:                      DefaultPriceQuote(),
		UpdatedAt:                  now,
	}
}

// ContractInfo is the read model returned by the contract info query.
type ContractInfo struct {
	ID                         id.ContractID `json:"contract_id"`
	Name                       string        `json:"name"`
	Symbol                     string        `json:"symbol"`
	Version                    string        `json:"version"`
	Owner                      id.AccountID  `json:"owner"`
	MintAuthorizer             id.AccountID  `json:"mint_authorizer"`
	BaseURI                    string        `json:"base_uri"`
	SubscriptionCostPerYearUSD uint64        `json:"subscription_cost_per_year_usd"`
	PriceFeed                  string        `json:"price_feed"`
	TotalIssued                uint64        `json:"total_issued"`
	Balance                    id.Amount     `json:"balance"`
}

// RedeemResult is what a successful redemption hands back to the caller.
type RedeemResult struct {
	Credential CredentialView `json:"credential"`
	Cost       id.Amount      `json:"cost"`
	Refund     id.Amount      `json:"refund"`
}

// Withdrawal is the payout produced by draining the contract balance.
type Withdrawal struct {
	Recipient id.AccountID `json:"recipient"`
	Amount    id.Amount    `json:"amount"`
}

// AuthorizeInput is what the mint authorizer supplies for one authorization.
// Expiry, SecondsToPay and Tier are optional.
type AuthorizeInput struct {
	Code         id.AuthCode
	Destination  id.AccountID
	Metadata     TokenMetadata
	Expiry       *time.Time
	SecondsToPay *uint64
	Tier         *string
}
