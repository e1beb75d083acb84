package validation

import (
	"fmt"

	dErrors "kycmint/pkg/domain-errors"
)

// MaxBodySize is the maximum accepted request body (64 KB).
const MaxBodySize = 64 * 1024

const (
	// MaxBaseURILength bounds the contract base URI.
	MaxBaseURILength = 2048

	// MaxTierLength bounds a credential tier label.
	MaxTierLength = 64

	// MaxPriceFeedLength bounds the price feed source identity.
	MaxPriceFeedLength = 128

	// MaxMetadataFieldLength bounds any single free-form metadata string.
	MaxMetadataFieldLength = 4096

	// MaxAmountDigits bounds decimal amounts; 2^256 has 78 digits.
	MaxAmountDigits = 78
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckOptionalStringLength is CheckStringLength for nullable fields.
func CheckOptionalStringLength(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return CheckStringLength(fieldName, *value, max)
}
