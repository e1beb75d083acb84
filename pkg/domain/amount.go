package domain

import (
	"encoding/json"
	"math/big"

	dErrors "kycmint/pkg/domain-errors"
)

// Amount is a non-negative quantity of native currency in base units
// (10^-24 of one coin). The zero value is zero.
type Amount struct {
	v *big.Int
}

// NewAmount wraps a copy of v. Negative or nil input yields zero.
func NewAmount(v *big.Int) Amount {
	if v == nil || v.Sign() < 0 {
		return Amount{}
	}
	return Amount{v: new(big.Int).Set(v)}
}

// AmountFromUint64 is a convenience for small literal amounts.
func AmountFromUint64(v uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(v)}
}

// ParseAmount parses a base-10 integer string.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, dErrors.New(dErrors.CodeInvalidInput, "invalid amount format")
	}
	if v.Sign() < 0 {
		return Amount{}, dErrors.New(dErrors.CodeInvalidInput, "amount cannot be negative")
	}
	return Amount{v: v}, nil
}

// Int returns a copy of the underlying value.
func (a Amount) Int() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.v)
}

func (a Amount) String() string {
	if a.v == nil {
		return "0"
	}
	return a.v.String()
}

func (a Amount) IsZero() bool { return a.v == nil || a.v.Sign() == 0 }

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.Int().Cmp(b.Int()) }

func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.Int(), b.Int())}
}

// Sub returns a-b, clamped at zero.
func (a Amount) Sub(b Amount) Amount {
	return NewAmount(new(big.Int).Sub(a.Int(), b.Int()))
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be a decimal string")
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
