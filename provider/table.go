package provider

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

// TableInfo carries the metadata of a fetched table
type TableInfo struct {
	// Source provider name
	Source string
	// Date the provider published the rates for, zero if the provider does not report it
	Date time.Time
	// FetchedAt capture timestamp, defaults to now
	FetchedAt time.Time
}

// RateTable is an immutable snapshot of rates relative to one base currency.
// Rate is the amount of the target currency for one unit of the base
type RateTable struct {
	base  label.Symbol
	rates map[label.Symbol]decimal.Decimal
	info  TableInfo
}

// NewRateTable validates the rates and builds a table. The input map is copied and the base rate is
// normalized to exactly 1 so callers never special case a self conversion
func NewRateTable(base label.Symbol, rates map[label.Symbol]decimal.Decimal, info TableInfo) (RateTable, error) {
	if base == "" {
		return RateTable{}, ErrEmptyBase
	}

	copied := make(map[label.Symbol]decimal.Decimal, len(rates)+1)
	for sym, rate := range rates {
		if sym == "" {
			return RateTable{}, ParseError(errors.New("empty currency code"))
		}

		if !rate.IsPositive() {
			return RateTable{}, ParseError(fmt.Errorf("rate for %s is not positive: %s", sym, rate))
		}

		copied[sym] = rate
	}

	copied[base] = decimal.NewFromInt(1)

	if info.FetchedAt.IsZero() {
		info.FetchedAt = time.Now().UTC()
	}

	return RateTable{base: base, rates: copied, info: info}, nil
}

// IsZero reports whether t is the zero table
func (t RateTable) IsZero() bool {
	return t.base == ""
}

func (t RateTable) Base() label.Symbol {
	return t.base
}

// Rate returns the rate for the target currency
func (t RateTable) Rate(to label.Symbol) (decimal.Decimal, bool) {
	rate, ok := t.rates[to]
	return rate, ok
}

// Symbols returns the quoted currencies in lexical order, base included
func (t RateTable) Symbols() []label.Symbol {
	list := make([]label.Symbol, 0, len(t.rates))
	for sym := range t.rates {
		list = append(list, sym)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i] < list[j]
	})

	return list
}

func (t RateTable) Len() int {
	return len(t.rates)
}

func (t RateTable) FetchedAt() time.Time {
	return t.info.FetchedAt
}

func (t RateTable) Date() time.Time {
	return t.info.Date
}

func (t RateTable) Source() string {
	return t.info.Source
}
