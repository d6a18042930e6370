package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

func TestNewRateTable(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		base     label.Symbol
		rates    map[label.Symbol]decimal.Decimal
		expected []label.Symbol
		err      error
	}{
		{
			name: "test_base_added",
			base: label.USD,
			rates: map[label.Symbol]decimal.Decimal{
				label.EUR: decimal.RequireFromString("0.92"),
				label.JPY: decimal.RequireFromString("155.7"),
			},
			expected: []label.Symbol{label.EUR, label.JPY, label.USD},
		},
		{
			name: "test_base_normalized",
			base: label.USD,
			rates: map[label.Symbol]decimal.Decimal{
				label.USD: decimal.RequireFromString("0.99999"),
			},
			expected: []label.Symbol{label.USD},
		},
		{
			name: "test_empty_base",
			base: "",
			err:  ErrEmptyBase,
		},
		{
			name: "test_zero_rate",
			base: label.USD,
			rates: map[label.Symbol]decimal.Decimal{
				label.EUR: decimal.Zero,
			},
			err: ErrParse,
		},
		{
			name: "test_negative_rate",
			base: label.USD,
			rates: map[label.Symbol]decimal.Decimal{
				label.EUR: decimal.NewFromInt(-1),
			},
			err: ErrParse,
		},
		{
			name: "test_empty_symbol",
			base: label.USD,
			rates: map[label.Symbol]decimal.Decimal{
				"": decimal.NewFromInt(1),
			},
			err: ErrParse,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			table, err := NewRateTable(tc.base, tc.rates, TableInfo{Source: "test"})
			if diff := cmp.Diff(tc.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("mismatch (-want, +got):\n%s", diff)
			}

			if tc.err != nil {
				if !table.IsZero() {
					t.Errorf("expected zero table on error")
				}
				return
			}

			if diff := cmp.Diff(tc.expected, table.Symbols()); diff != "" {
				t.Errorf("symbols mismatch (-want, +got):\n%s", diff)
			}

			rate, ok := table.Rate(tc.base)
			if !ok || !rate.Equal(decimal.NewFromInt(1)) {
				t.Errorf("expected base rate 1, got %s, %t", rate, ok)
			}
		})
	}
}

func TestRateTable_Immutable(t *testing.T) {
	t.Parallel()

	rates := map[label.Symbol]decimal.Decimal{
		label.EUR: decimal.RequireFromString("0.92"),
	}

	table, err := NewRateTable(label.USD, rates, TableInfo{})
	if err != nil {
		t.Fatalf("new rate table: %v", err)
	}

	rates[label.EUR] = decimal.RequireFromString("100")
	rates[label.GBP] = decimal.RequireFromString("0.8")

	rate, _ := table.Rate(label.EUR)
	if diff := cmp.Diff("0.92", rate.String()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if _, ok := table.Rate(label.GBP); ok {
		t.Errorf("table must not observe input map changes")
	}
}

func TestRateTable_Info(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	fetched := time.Date(2024, 5, 17, 16, 0, 0, 0, time.UTC)

	table, err := NewRateTable(label.USD, nil, TableInfo{Source: "test", Date: date, FetchedAt: fetched})
	if err != nil {
		t.Fatalf("new rate table: %v", err)
	}

	if diff := cmp.Diff("test", table.Source()); diff != "" {
		t.Errorf("source mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff(date, table.Date()); diff != "" {
		t.Errorf("date mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff(fetched, table.FetchedAt()); diff != "" {
		t.Errorf("fetched at mismatch (-want, +got):\n%s", diff)
	}

	defaulted, err := NewRateTable(label.USD, nil, TableInfo{})
	if err != nil {
		t.Fatalf("new rate table: %v", err)
	}

	if defaulted.FetchedAt().IsZero() {
		t.Errorf("expected fetched at to default to now")
	}
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	if err := NetworkError(cause); !errors.Is(err, ErrNetwork) || !errors.Is(err, cause) {
		t.Errorf("network error must wrap both sentinel and cause: %v", err)
	}

	if err := ParseError(cause); !errors.Is(err, ErrParse) || !errors.Is(err, cause) {
		t.Errorf("parse error must wrap both sentinel and cause: %v", err)
	}
}
