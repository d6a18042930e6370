package convert

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/shopspring/decimal"
)

const (
	// AmountPrecision decimals of a converted amount
	AmountPrecision = 2
	// RatePrecision decimals of a displayed rate
	RatePrecision = 6
)

var (
	ErrInvalidAmount = errors.New("amount must be a finite non-negative number")
	ErrMissingRate   = errors.New("rate is not available")
	ErrBaseMismatch  = errors.New("rate table base does not match source currency")
)

// Result of one conversion
type Result struct {
	AmountIn  decimal.Decimal
	From      label.Symbol
	To        label.Symbol
	AmountOut decimal.Decimal
	Rate      decimal.Decimal
}

// Convert multiplies amount by the table rate for to. The table must be based on from
func Convert(amount decimal.Decimal, from, to label.Symbol, table provider.RateTable) (Result, error) {
	if amount.IsNegative() {
		return Result{}, fmt.Errorf("%s: %w", amount, ErrInvalidAmount)
	}

	result := Result{AmountIn: amount, From: from, To: to}

	if from == to {
		result.AmountOut = amount
		result.Rate = decimal.NewFromInt(1)
		return result, nil
	}

	if table.Base() != from {
		return Result{}, fmt.Errorf("convert %s to %s with %s table: %w", from, to, table.Base(), ErrBaseMismatch)
	}

	rate, ok := table.Rate(to)
	if !ok {
		return Result{}, fmt.Errorf("%s: %w", to, ErrMissingRate)
	}

	result.Rate = rate
	result.AmountOut = amount.Mul(rate).Round(AmountPrecision)

	return result, nil
}

// ConvertString parses raw with ParseAmount and converts it
func ConvertString(raw string, from, to label.Symbol, table provider.RateTable) (Result, error) {
	amount, err := ParseAmount(raw)
	if err != nil {
		return Result{}, err
	}

	return Convert(amount, from, to, table)
}

// ConvertFloat converts a binary float amount, NaN and infinities are rejected
func ConvertFloat(amount float64, from, to label.Symbol, table provider.RateTable) (Result, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Result{}, fmt.Errorf("%v: %w", amount, ErrInvalidAmount)
	}

	return Convert(decimal.NewFromFloat(amount), from, to, table)
}

// ParseAmount reads a user amount. Empty and unparsable input is zero, negative and non-finite input is an error
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}

	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "nan", "inf", "infinity":
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrInvalidAmount)
	}

	// the sanitizer lets "12." and ".5" through while the user is typing
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, nil
	}

	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrInvalidAmount)
	}

	return amount, nil
}
