package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robotomize/fxcalc/label"
)

const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
	OutcomeParseError   = "parse_error"
	OutcomeError        = "error"
)

// Outcome classifies a fetch error for metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNetwork):
		return OutcomeNetworkError
	case errors.Is(err, ErrParse):
		return OutcomeParseError
	default:
		return OutcomeError
	}
}

type instrumentedSource struct {
	next     Source
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewInstrumentedSource registers fetch metrics in reg and returns a Source that records them
func NewInstrumentedSource(reg prometheus.Registerer, next Source) (Source, error) {
	s := &instrumentedSource{
		next: next,
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fxcalc",
			Subsystem: "provider",
			Name:      "fetch_total",
			Help:      "Number of rate table fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fxcalc",
			Subsystem: "provider",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of rate table fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}

	for _, c := range []prometheus.Collector{s.fetches, s.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return s, nil
}

func (s *instrumentedSource) Name() string {
	return s.next.Name()
}

func (s *instrumentedSource) FetchRates(ctx context.Context, base label.Symbol) (RateTable, error) {
	begin := time.Now()
	table, err := s.next.FetchRates(ctx, base)

	name := s.next.Name()
	s.duration.WithLabelValues(name).Observe(time.Since(begin).Seconds())
	s.fetches.WithLabelValues(name, Outcome(err)).Inc()

	return table, err
}
