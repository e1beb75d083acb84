package models

import (
	dErrors "kycmint/pkg/domain-errors"
)

// Domain failures of the issuance core. Each carries its own code, so
// errors.Is distinguishes them and the transport maps them to statuses.
var (
	ErrUnauthorized          = dErrors.New(dErrors.CodeForbidden, "caller lacks the required role")
	ErrUnauthorizedCode      = dErrors.New(dErrors.CodeUnauthorizedCode, "unauthorized code")
	ErrCodeAlreadyAuthorized = dErrors.New(dErrors.CodeCodeAlreadyAuthorized, "code already authorized")
	ErrInsufficientPayment   = dErrors.New(dErrors.CodeInsufficientPayment, "insufficient payment for minting")
	ErrCredentialNotFound    = dErrors.New(dErrors.CodeCredentialNotFound, "credential not found")
	ErrIDOverflow            = dErrors.New(dErrors.CodeIDOverflow, "credential id overflow")
	ErrInvalidPriceQuote     = dErrors.New(dErrors.CodeInvalidPriceQuote, "price quote must be positive")

	ErrNothingToWithdraw   = dErrors.New(dErrors.CodeConflict, "contract balance is zero")
	ErrContractNotFound    = dErrors.New(dErrors.CodeNotFound, "contract not bootstrapped")
	ErrMissingTokenURIData = dErrors.New(dErrors.CodeInvalidInput, "base uri and metadata extra are required for a token uri")
)
