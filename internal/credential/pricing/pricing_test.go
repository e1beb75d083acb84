package pricing

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycmint/internal/credential/models"
)

const subscriptionCost = 500_000_000 // $5.00

func TestPricePerYear(t *testing.T) {
	got, err := PricePerYear(subscriptionCost, models.DefaultPriceQuote())
	require.NoError(t, err)
	assert.Equal(t, "2878526194588370754173862", got.String())
}

func TestCostForSeconds(t *testing.T) {
	quote := models.DefaultPriceQuote()

	t.Run("zero seconds costs nothing", func(t *testing.T) {
		got, err := CostForSeconds(subscriptionCost, quote, 0)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("one year equals the yearly price", func(t *testing.T) {
		got, err := CostForSeconds(subscriptionCost, quote, SecondsPerYear)
		require.NoError(t, err)
		assert.Equal(t, "2878526194588370754173862", got.String())
	})

	t.Run("one day truncates", func(t *testing.T) {
		got, err := CostForSeconds(subscriptionCost, quote, 86400)
		require.NoError(t, err)
		assert.Equal(t, "7886373135858550011435", got.String())
	})

	t.Run("free subscription", func(t *testing.T) {
		got, err := CostForSeconds(0, quote, SecondsPerYear)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("large inputs do not overflow", func(t *testing.T) {
		got, err := CostForSeconds(1_000_000_000, models.PriceQuote{Price: 1, Decimals: 8}, 1_000_000_000)
		require.NoError(t, err)

		want := new(big.Int).Exp(big.NewInt(10), big.NewInt(33), nil)
		want.Mul(want, big.NewInt(1_000_000_000))
		want.Quo(want, big.NewInt(SecondsPerYear))
		assert.Equal(t, want.String(), got.String())
	})
}

func TestZeroPriceQuoteIsRejected(t *testing.T) {
	quote := models.PriceQuote{Price: 0, Decimals: 4}

	_, err := CostForSeconds(subscriptionCost, quote, 100)
	assert.True(t, errors.Is(err, models.ErrInvalidPriceQuote))

	_, err = PricePerYear(subscriptionCost, quote)
	assert.True(t, errors.Is(err, models.ErrInvalidPriceQuote))
}
