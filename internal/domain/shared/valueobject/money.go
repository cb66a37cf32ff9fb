// Package valueobject holds the monetary rules shared by the ledgers.
package valueobject

import "github.com/shopspring/decimal"

// Decimal places the schema stores each kind of number with.
const (
	MinorUnitPlaces  int32 = 2
	PercentagePlaces int32 = 2
	QuantityPlaces   int32 = 4
)

var hundred = decimal.NewFromInt(100)

// RoundAmount rounds an amount to the minor unit, half away from zero.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MinorUnitPlaces)
}

// PercentOf returns round(base * percent / 100, 2).
func PercentOf(base, percent decimal.Decimal) decimal.Decimal {
	return RoundAmount(base.Mul(percent).Div(hundred))
}

// IsValidPercentage reports whether p lies in [0, 100] with at most
// PercentagePlaces decimals.
func IsValidPercentage(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred) && FitsPlaces(p, PercentagePlaces)
}

// FitsPlaces reports whether v can be stored with places decimals without
// rounding. Trailing zeros do not count.
func FitsPlaces(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Truncate(places))
}
