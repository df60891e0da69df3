// Package pricing holds the pure price derivation rules of the catalog:
// cost-to-sale markup, upward rounding to the nearest hundred, per-tier
// margins and the stock availability flag.
package pricing

import (
	"errors"
	"math"
)

// Default markup fractions applied when a sale price tier is not supplied
// explicitly. One consistent policy for create and update paths.
const (
	MarkupNormal    = 0.50
	MarkupWholesale = 0.35
	MarkupResale    = 0.31
)

// ErrInvalidAmount is returned when an amount is not a finite number.
var ErrInvalidAmount = errors.New("amount must be a finite number")

// RoundUpToHundred rounds n up to the next multiple of 100. A value that is
// already a multiple of 100 is returned unchanged.
func RoundUpToHundred(n float64) (float64, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrInvalidAmount
	}
	if math.Mod(n, 100) == 0 {
		return n, nil
	}
	return (math.Floor(n/100) + 1) * 100, nil
}

// Margin is the profit of one sale tier: sale price minus cost price.
func Margin(salePrice, costPrice float64) float64 {
	return salePrice - costPrice
}

// Price derives a sale price from the cost price and a markup fraction,
// rounded up to the nearest hundred.
func Price(costPrice, markup float64) (float64, error) {
	return RoundUpToHundred(costPrice + costPrice*markup)
}

// Available derives the availability flag from the current stock quantity.
func Available(stockCurrent int) bool {
	return stockCurrent > 0
}
