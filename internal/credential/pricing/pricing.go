// Package pricing converts the USD subscription cost into native base units
// using the current price quote.
package pricing

import (
	"math/big"

	"kycmint/internal/credential/models"
	id "kycmint/pkg/domain"
)

const (
	NativeDecimals = 24
	USDDecimals    = 8
	SecondsPerYear = 365 * 24 * 60 * 60
)

// PricePerYear returns the yearly subscription price in native base units:
// subscriptionCostUSD * 10^(NativeDecimals-USDDecimals+quote.Decimals) / quote.Price.
func PricePerYear(subscriptionCostUSD uint64, quote models.PriceQuote) (id.Amount, error) {
	if quote.Price == 0 {
		return id.Amount{}, models.ErrInvalidPriceQuote
	}
	return id.NewAmount(pricePerYear(subscriptionCostUSD, quote)), nil
}

// CostForSeconds prorates PricePerYear over seconds. Both divisions truncate.
func CostForSeconds(subscriptionCostUSD uint64, quote models.PriceQuote, seconds uint64) (id.Amount, error) {
	if quote.Price == 0 {
		return id.Amount{}, models.ErrInvalidPriceQuote
	}
	cost := pricePerYear(subscriptionCostUSD, quote)
	cost.Mul(cost, new(big.Int).SetUint64(seconds))
	cost.Quo(cost, big.NewInt(SecondsPerYear))
	return id.NewAmount(cost), nil
}

func pricePerYear(subscriptionCostUSD uint64, quote models.PriceQuote) *big.Int {
	exp := big.NewInt(int64(NativeDecimals - USDDecimals + int(quote.Decimals)))
	scale := new(big.Int).Exp(big.NewInt(10), exp, nil)

	v := new(big.Int).SetUint64(subscriptionCostUSD)
	v.Mul(v, scale)
	return v.Quo(v, new(big.Int).SetUint64(quote.Price))
}
