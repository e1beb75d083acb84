package validation

import (
	"strings"
	"testing"

	dErrors "kycmint/pkg/domain-errors"

	"github.com/stretchr/testify/suite"
)

// LimitsSuite checks the trust-boundary length helpers at max and max+1.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes at the limit", func() {
		s.NoError(CheckStringLength("tier", strings.Repeat("a", MaxTierLength), MaxTierLength))
	})

	s.Run("passes for empty string", func() {
		s.NoError(CheckStringLength("tier", "", MaxTierLength))
	})

	s.Run("fails one past the limit", func() {
		err := CheckStringLength("tier", strings.Repeat("a", MaxTierLength+1), MaxTierLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "tier exceeds max length of 64")
	})
}

func (s *LimitsSuite) TestCheckOptionalStringLength() {
	s.NoError(CheckOptionalStringLength("tier", nil, 1))

	long := "xyz"
	err := CheckOptionalStringLength("tier", &long, 2)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
