package cae

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/robotomize/fxcalc/provider/httputil"
	"github.com/shopspring/decimal"
)

const Name = "cae"

const hostname = "www.centralbank.ae"

var defaultRatesURL = url.URL{Scheme: "https", Host: hostname, Path: "/en/fx-rates"}

var errNoRates = errors.New("rates table is empty")

var _ provider.Source = (*source)(nil)

// NewSource returns the Central Bank of the UAE source. An empty rawURL selects the official rates page
func NewSource(client *http.Client, rawURL string) (*source, error) {
	ratesURL := defaultRatesURL
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
		}
		ratesURL = *u
	}

	return &source{
		ratesURL: ratesURL,
		client:   httputil.NewClient(client),
	}, nil
}

type source struct {
	ratesURL url.URL
	client   httputil.Client
}

func (s *source) Name() string {
	return Name
}

// FetchRates scrapes the dirham rates page and rebases it on base
func (s *source) FetchRates(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	if base == "" {
		return provider.RateTable{}, provider.ErrEmptyBase
	}

	b, err := s.client.Get(ctx, s.ratesURL)
	if err != nil {
		return provider.RateTable{}, httputil.SourceError(err)
	}

	table, err := s.decode(b, base)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("decode: %w", err)
	}

	return table, nil
}

func (s *source) decode(b []byte, base label.Symbol) (provider.RateTable, error) {
	daily, err := parseHTML(b)
	if err != nil {
		return provider.RateTable{}, provider.ParseError(err)
	}

	if len(daily.rates) == 0 {
		return provider.RateTable{}, provider.ParseError(errNoRates)
	}

	one := decimal.NewFromInt(1)
	perHome := make(map[label.Symbol]decimal.Decimal, len(daily.rates))
	for sym, aed := range daily.rates {
		perHome[sym] = one.Div(aed)
	}

	rates, err := provider.Rebase(label.AED, perHome, base)
	if err != nil {
		return provider.RateTable{}, err
	}

	return provider.NewRateTable(base, rates, provider.TableInfo{Source: Name, Date: daily.time})
}
