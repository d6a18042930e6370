package provider

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

func testTable(t *testing.T, base label.Symbol) RateTable {
	t.Helper()

	table, err := NewRateTable(base, map[label.Symbol]decimal.Decimal{
		label.EUR: decimal.RequireFromString("0.92"),
	}, TableInfo{Source: "mock"})
	if err != nil {
		t.Fatalf("new rate table: %v", err)
	}

	return table
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "test_ok", expected: OutcomeOK},
		{name: "test_network", err: NetworkError(errors.New("dial")), expected: OutcomeNetworkError},
		{name: "test_parse", err: ParseError(errors.New("json")), expected: OutcomeParseError},
		{name: "test_other", err: ErrEmptyBase, expected: OutcomeError},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.expected, Outcome(tc.err)); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestLoggingSource_FetchRates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := NewMockSource(ctrl)
	mock.EXPECT().Name().Return("mock").AnyTimes()
	gomock.InOrder(
		mock.EXPECT().FetchRates(gomock.Any(), label.USD).Return(testTable(t, label.USD), nil),
		mock.EXPECT().FetchRates(gomock.Any(), label.EUR).Return(RateTable{}, NetworkError(errors.New("timeout"))),
	)

	var buf bytes.Buffer
	src := NewLoggingSource(log.NewLogfmtLogger(&buf), mock)

	if _, err := src.FetchRates(context.Background(), label.USD); err != nil {
		t.Fatalf("fetch rates: %v", err)
	}

	if _, err := src.FetchRates(context.Background(), label.EUR); !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if diff := cmp.Diff(2, len(lines)); diff != "" {
		t.Fatalf("log lines mismatch (-want, +got):\n%s", diff)
	}

	for _, want := range []string{"level=debug", "method=fetch_rates", "source=mock", "base=USD", "rates=2"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("first line %q does not contain %q", lines[0], want)
		}
	}

	for _, want := range []string{"level=warn", "base=EUR", "err="} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("second line %q does not contain %q", lines[1], want)
		}
	}
}

func TestInstrumentedSource_FetchRates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := NewMockSource(ctrl)
	mock.EXPECT().Name().Return("mock").AnyTimes()
	gomock.InOrder(
		mock.EXPECT().FetchRates(gomock.Any(), label.USD).Return(testTable(t, label.USD), nil).Times(2),
		mock.EXPECT().FetchRates(gomock.Any(), label.EUR).Return(RateTable{}, ParseError(errors.New("bad body"))),
	)

	reg := prometheus.NewRegistry()
	src, err := NewInstrumentedSource(reg, mock)
	if err != nil {
		t.Fatalf("new instrumented source: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := src.FetchRates(context.Background(), label.USD); err != nil {
			t.Fatalf("fetch rates: %v", err)
		}
	}

	if _, err := src.FetchRates(context.Background(), label.EUR); !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}

	instrumented := src.(*instrumentedSource)

	if diff := cmp.Diff(2.0, testutil.ToFloat64(instrumented.fetches.WithLabelValues("mock", OutcomeOK))); diff != "" {
		t.Errorf("ok fetches mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff(1.0, testutil.ToFloat64(instrumented.fetches.WithLabelValues("mock", OutcomeParseError))); diff != "" {
		t.Errorf("parse error fetches mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff(1, testutil.CollectAndCount(instrumented.duration)); diff != "" {
		t.Errorf("duration series mismatch (-want, +got):\n%s", diff)
	}

	if _, err := NewInstrumentedSource(reg, mock); err == nil {
		t.Errorf("expected duplicate registration to fail")
	}
}
