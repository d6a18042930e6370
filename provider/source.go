package provider

import (
	"context"

	"github.com/robotomize/fxcalc/label"
)

// Source is an interface for getting rate tables from an external provider. A Source performs exactly one
// outbound call per FetchRates and never retries, retry policy belongs to the caller
//
//go:generate mockgen -source source.go -destination mock_source.go -package provider
type Source interface {
	// FetchRates returns the table of rates relative to base. Failures wrap ErrNetwork or ErrParse,
	// a failure never yields a partial table
	FetchRates(ctx context.Context, base label.Symbol) (RateTable, error)

	// Name of the provider, used in logs and metrics
	Name() string
}
