// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"regexp"
	"strconv"

	dErrors "kycmint/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing an AccountID where a ContractID is expected.
type (
	// AccountID names an on-chain style account (caller, owner, destination).
	AccountID string
	// ContractID scopes digests and stored state to one issuing contract instance.
	ContractID string
	// CredentialID is the sequential id of an issued credential, starting at 0.
	CredentialID uint64
	// AuthCode is the one-time code the mint authorizer hands to a recipient.
	AuthCode uint32
)

const (
	minAccountIDLength = 2
	maxAccountIDLength = 64
)

// accountPattern follows NEAR account naming: lowercase alphanumeric parts
// separated by single '-', '_' or '.'.
var accountPattern = regexp.MustCompile(`^(([a-z\d]+[-_])*[a-z\d]+\.)*([a-z\d]+[-_])*[a-z\d]+$`)

// Parse functions - use at trust boundaries (handlers, API inputs, config).

func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account ID cannot be empty")
	}
	if len(s) < minAccountIDLength || len(s) > maxAccountIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account ID must be between 2 and 64 characters")
	}
	if !accountPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid account ID format")
	}
	return AccountID(s), nil
}

func ParseContractID(s string) (ContractID, error) {
	account, err := ParseAccountID(s)
	if err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid contract ID format")
	}
	return ContractID(account), nil
}

func ParseCredentialID(s string) (CredentialID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credential ID cannot be empty")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid credential ID format")
	}
	return CredentialID(v), nil
}

func ParseAuthCode(s string) (AuthCode, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "authorization code cannot be empty")
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid authorization code format")
	}
	return AuthCode(v), nil
}

// String methods - for logging, hashing and storage keys.

func (id AccountID) String() string    { return string(id) }
func (id ContractID) String() string   { return string(id) }
func (id CredentialID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (c AuthCode) String() string      { return strconv.FormatUint(uint64(c), 10) }

// IsNil checks - used for service-layer validation.

func (id AccountID) IsNil() bool  { return id == "" }
func (id ContractID) IsNil() bool { return id == "" }
