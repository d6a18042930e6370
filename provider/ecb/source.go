package ecb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/robotomize/fxcalc/provider/httputil"
)

const Name = "ecb"

const hostname = "www.ecb.europa.eu"

const latestXMLRawPath = "/stats/eurofxref/eurofxref-daily.xml"

var defaultLatestResourceXML = url.URL{Scheme: "https", Host: hostname, Path: latestXMLRawPath}

var _ provider.Source = (*source)(nil)

// NewSource returns the ECB reference rates source. An empty rawURL selects the official daily feed
func NewSource(client *http.Client, rawURL string) (*source, error) {
	latestURL := defaultLatestResourceXML
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
		}
		latestURL = *u
	}

	return &source{
		latestURL:  latestURL,
		decodeFunc: decodeXML(),
		client:     httputil.NewClient(client),
	}, nil
}

type source struct {
	latestURL  url.URL
	decodeFunc decodeFunc
	client     httputil.Client
}

func (s *source) Name() string {
	return Name
}

// FetchRates downloads the euro reference rates and rebases them on base
func (s *source) FetchRates(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	if base == "" {
		return provider.RateTable{}, provider.ErrEmptyBase
	}

	b, err := s.client.Get(ctx, s.latestURL)
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
	var latest euroDailyRates

	if err := s.decodeFunc(b, func(r euroDailyRates) error {
		// the daily feed has one day, keep the newest should it ever carry more
		if latest.rates == nil || r.time.After(latest.time) {
			latest = r
		}

		return nil
	}); err != nil {
		return provider.RateTable{}, provider.ParseError(err)
	}

	if latest.rates == nil {
		return provider.RateTable{}, provider.ParseError(errNoDailyRates)
	}

	rates, err := provider.Rebase(label.EUR, latest.rates, base)
	if err != nil {
		return provider.RateTable{}, err
	}

	return provider.NewRateTable(base, rates, provider.TableInfo{Source: Name, Date: latest.time})
}
