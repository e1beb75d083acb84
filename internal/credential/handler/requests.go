package handler

import (
	"strconv"
	"strings"
	"time"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
	dErrors "kycmint/pkg/domain-errors"
	"kycmint/pkg/platform/validation"
)

// maxQuoteDecimals bounds price quote decimals so the scale factor stays
// reasonable.
const maxQuoteDecimals = 24

type AuthorizeRequest struct {
	Code         *uint32               `json:"code" validate:"required"`
	Destination  string                `json:"destination" validate:"required,account"`
	Metadata     *models.TokenMetadata `json:"metadata" validate:"required"`
	Expiry       *int64                `json:"expiry,omitempty" validate:"omitempty,gte=0"`
	SecondsToPay *uint64               `json:"seconds_to_pay,omitempty"`
	Tier         *string               `json:"tier,omitempty" validate:"omitempty,notblank"`
}

func (r *AuthorizeRequest) Sanitize() {
	r.Destination = strings.TrimSpace(r.Destination)
	if r.Tier != nil {
		tier := strings.TrimSpace(*r.Tier)
		r.Tier = &tier
	}
}

func (r *AuthorizeRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	if err := validation.CheckOptionalStringLength("tier", r.Tier, validation.MaxTierLength); err != nil {
		return err
	}
	return validateMetadata(r.Metadata)
}

func (r *AuthorizeRequest) Input() models.AuthorizeInput {
	return models.AuthorizeInput{
		Code:         id.AuthCode(*r.Code),
		Destination:  id.AccountID(r.Destination),
		Metadata:     *r.Metadata,
		Expiry:       epochToTime(r.Expiry),
		SecondsToPay: r.SecondsToPay,
		Tier:         r.Tier,
	}
}

func validateMetadata(m *models.TokenMetadata) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"metadata.title", m.Title},
		{"metadata.description", m.Description},
		{"metadata.media", m.Media},
		{"metadata.media_hash", m.MediaHash},
		{"metadata.issued_at", m.IssuedAt},
		{"metadata.expires_at", m.ExpiresAt},
		{"metadata.starts_at", m.StartsAt},
		{"metadata.updated_at", m.UpdatedAt},
		{"metadata.extra", m.Extra},
		{"metadata.reference", m.Reference},
		{"metadata.reference_hash", m.ReferenceHash},
	}
	for _, f := range fields {
		if err := validation.CheckOptionalStringLength(f.name, f.value, validation.MaxMetadataFieldLength); err != nil {
			return err
		}
	}
	return nil
}

// RedeemRequest carries the attached payment as a decimal string of native
// base units; it may be omitted for free credentials.
type RedeemRequest struct {
	Code            *uint32 `json:"code" validate:"required"`
	AttachedDeposit string  `json:"attached_deposit" validate:"omitempty,decimal"`
}

func (r *RedeemRequest) Sanitize() {
	r.AttachedDeposit = strings.TrimSpace(r.AttachedDeposit)
}

func (r *RedeemRequest) Validate() error {
	return validation.Validate(r)
}

func (r *RedeemRequest) Deposit() (id.Amount, error) {
	return id.ParseAmount(r.AttachedDeposit)
}

type SetVerifiedRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

func (r *SetVerifiedRequest) Validate() error {
	return validation.Validate(r)
}

// SetExpiryRequest takes epoch seconds; null removes the expiry.
type SetExpiryRequest struct {
	Expiry *int64 `json:"expiry" validate:"omitempty,gte=0"`
}

func (r *SetExpiryRequest) Validate() error {
	return validation.Validate(r)
}

type SetBaseURIRequest struct {
	BaseURI string `json:"base_uri" validate:"omitempty,url"`
}

func (r *SetBaseURIRequest) Sanitize() {
	r.BaseURI = strings.TrimSpace(r.BaseURI)
}

func (r *SetBaseURIRequest) Validate() error {
	if err := validation.CheckStringLength("base_uri", r.BaseURI, validation.MaxBaseURILength); err != nil {
		return err
	}
	return validation.Validate(r)
}

// SetSubscriptionCostRequest is USD with 8 implied decimals.
type SetSubscriptionCostRequest struct {
	SubscriptionCostUSD *uint64 `json:"subscription_cost_usd" validate:"required"`
}

func (r *SetSubscriptionCostRequest) Validate() error {
	return validation.Validate(r)
}

// SetAccountRequest names the new holder of a role.
type SetAccountRequest struct {
	Account string `json:"account" validate:"required,account"`
}

func (r *SetAccountRequest) Sanitize() {
	r.Account = strings.TrimSpace(r.Account)
}

func (r *SetAccountRequest) Validate() error {
	return validation.Validate(r)
}

type SetPriceFeedRequest struct {
	PriceFeed string `json:"price_feed" validate:"required,notblank"`
}

func (r *SetPriceFeedRequest) Sanitize() {
	r.PriceFeed = strings.TrimSpace(r.PriceFeed)
}

func (r *SetPriceFeedRequest) Validate() error {
	if err := validation.CheckStringLength("price_feed", r.PriceFeed, validation.MaxPriceFeedLength); err != nil {
		return err
	}
	return validation.Validate(r)
}

// SetPriceQuoteRequest is USD per coin: price with decimals implied places.
// A zero price is rejected by the service, not here, so it carries the
// invalid_price_quote code.
type SetPriceQuoteRequest struct {
	Price    *uint64 `json:"price" validate:"required"`
	Decimals *uint8  `json:"decimals" validate:"required"`
}

func (r *SetPriceQuoteRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	if *r.Decimals > maxQuoteDecimals {
		return dErrors.New(dErrors.CodeValidation, "decimals must be at most 24")
	}
	return nil
}

func (r *SetPriceQuoteRequest) Quote() models.PriceQuote {
	return models.PriceQuote{Price: *r.Price, Decimals: *r.Decimals}
}

type WithdrawRequest struct {
	Recipient string `json:"recipient" validate:"required,account"`
}

func (r *WithdrawRequest) Sanitize() {
	r.Recipient = strings.TrimSpace(r.Recipient)
}

func (r *WithdrawRequest) Validate() error {
	return validation.Validate(r)
}

func epochToTime(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

func parseSeconds(s string) (uint64, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "seconds is required")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "seconds must be a non-negative integer")
	}
	return v, nil
}
