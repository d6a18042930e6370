package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/shopspring/decimal"
)

func newTable(t *testing.T, base label.Symbol, rates map[label.Symbol]string) provider.RateTable {
	t.Helper()

	m := make(map[label.Symbol]decimal.Decimal, len(rates))
	for sym, r := range rates {
		m[sym] = decimal.RequireFromString(r)
	}

	table, err := provider.NewRateTable(base, m, provider.TableInfo{Source: "test"})
	if err != nil {
		t.Fatalf("new rate table: %v", err)
	}

	return table
}

func TestConvertString(t *testing.T) {
	t.Parallel()

	usd := newTable(t, label.USD, map[label.Symbol]string{
		label.EUR: "0.92",
		label.JPY: "155.734",
		label.GBP: "0.786125",
	})

	testCases := []struct {
		name    string
		raw     string
		from    label.Symbol
		to      label.Symbol
		table   provider.RateTable
		wantOut string
		wantRt  string
		err     error
	}{
		{
			name:    "test_usd_eur",
			raw:     "1000",
			from:    label.USD,
			to:      label.EUR,
			table:   usd,
			wantOut: "920.00",
			wantRt:  "0.920000",
		},
		{
			name:    "test_round_half_up",
			raw:     "1",
			from:    label.USD,
			to:      label.GBP,
			table:   usd,
			wantOut: "0.79",
			wantRt:  "0.786125",
		},
		{
			name:    "test_round_half_up_exact_half",
			raw:     "0.125",
			from:    label.USD,
			to:      label.USD,
			table:   usd,
			wantOut: "0.13",
			wantRt:  "1.000000",
		},
		{
			name:    "test_empty_is_zero",
			raw:     "",
			from:    label.USD,
			to:      label.EUR,
			table:   usd,
			wantOut: "0.00",
			wantRt:  "0.920000",
		},
		{
			name:    "test_garbage_is_zero",
			raw:     "abc",
			from:    label.USD,
			to:      label.EUR,
			table:   usd,
			wantOut: "0.00",
			wantRt:  "0.920000",
		},
		{
			name:    "test_trailing_point",
			raw:     "12.",
			from:    label.USD,
			to:      label.EUR,
			table:   usd,
			wantOut: "11.04",
			wantRt:  "0.920000",
		},
		{
			name:    "test_leading_point",
			raw:     ".5",
			from:    label.USD,
			to:      label.JPY,
			table:   usd,
			wantOut: "77.87",
			wantRt:  "155.734000",
		},
		{
			name:  "test_missing_rate",
			raw:   "10",
			from:  label.USD,
			to:    label.AED,
			table: usd,
			err:   ErrMissingRate,
		},
		{
			name:  "test_base_mismatch",
			raw:   "10",
			from:  label.EUR,
			to:    label.USD,
			table: usd,
			err:   ErrBaseMismatch,
		},
		{
			name:  "test_negative",
			raw:   "-5",
			from:  label.USD,
			to:    label.EUR,
			table: usd,
			err:   ErrInvalidAmount,
		},
		{
			name:  "test_nan",
			raw:   "NaN",
			from:  label.USD,
			to:    label.EUR,
			table: usd,
			err:   ErrInvalidAmount,
		},
		{
			name:  "test_inf",
			raw:   "-Inf",
			from:  label.USD,
			to:    label.EUR,
			table: usd,
			err:   ErrInvalidAmount,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result, err := ConvertString(tc.raw, tc.from, tc.to, tc.table)
			if diff := cmp.Diff(tc.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("error mismatch (-want, +got):\n%s", diff)
			}

			if tc.err != nil {
				return
			}

			if diff := cmp.Diff(tc.wantOut, FormatAmount(result.AmountOut)); diff != "" {
				t.Errorf("amount mismatch (-want, +got):\n%s", diff)
			}

			if diff := cmp.Diff(tc.wantRt, FormatRate(result.Rate)); diff != "" {
				t.Errorf("rate mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestConvert_SelfConversion(t *testing.T) {
	t.Parallel()

	table := newTable(t, label.EUR, map[label.Symbol]string{label.USD: "1.08"})

	for _, raw := range []string{"0", "1", "1234.5678", "0.001"} {
		amount := decimal.RequireFromString(raw)

		result, err := Convert(amount, label.USD, label.USD, table)
		if err != nil {
			t.Fatalf("convert %s: %v", raw, err)
		}

		if !result.AmountOut.Equal(amount) {
			t.Errorf("self conversion of %s gave %s", raw, result.AmountOut)
		}

		if !result.Rate.Equal(decimal.NewFromInt(1)) {
			t.Errorf("self conversion rate is %s", result.Rate)
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	t.Parallel()

	// EUR per USD and its reciprocal as a provider would publish them
	usd := newTable(t, label.USD, map[label.Symbol]string{label.EUR: "0.9217"})
	eur := newTable(t, label.EUR, map[label.Symbol]string{label.USD: "1.084952"})

	tolerance := decimal.RequireFromString("0.01")

	for _, raw := range []string{"1", "10", "99.99", "1000", "12345.67"} {
		amount := decimal.RequireFromString(raw)

		there, err := Convert(amount, label.USD, label.EUR, usd)
		if err != nil {
			t.Fatalf("convert %s: %v", raw, err)
		}

		back, err := Convert(there.AmountOut, label.EUR, label.USD, eur)
		if err != nil {
			t.Fatalf("convert back %s: %v", raw, err)
		}

		if back.AmountOut.Sub(amount).Abs().GreaterThan(tolerance) {
			t.Errorf("round trip of %s gave %s", raw, back.AmountOut)
		}
	}
}

func TestConvertFloat(t *testing.T) {
	t.Parallel()

	table := newTable(t, label.USD, map[label.Symbol]string{label.EUR: "0.92"})

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		if _, err := ConvertFloat(f, label.USD, label.EUR, table); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected invalid amount for %v, got %v", f, err)
		}
	}

	result, err := ConvertFloat(1000, label.USD, label.EUR, table)
	if err != nil {
		t.Fatalf("convert float: %v", err)
	}

	if diff := cmp.Diff("920.00", FormatAmount(result.AmountOut)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestLocalizeAmount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "test_small", amount: "920", expected: "920.00"},
		{name: "test_grouped", amount: "1234.5", expected: "1,234.50"},
		{name: "test_millions", amount: "1234567.891", expected: "1,234,567.89"},
		{name: "test_carry", amount: "999.996", expected: "1,000.00"},
		{name: "test_zero", amount: "0", expected: "0.00"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := LocalizeAmount(decimal.RequireFromString(tc.amount))
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
