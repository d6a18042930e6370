package rcb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/robotomize/fxcalc/provider/httputil"
)

const Name = "rcb"

const hostname = "cbr.ru"

var defaultDailyURL = url.URL{Scheme: "https", Host: hostname, Path: "/scripts/XML_daily.asp"}

var errNoDailyRates = errors.New("document has no quotation")

var _ provider.Source = (*source)(nil)

// NewSource returns the Central Bank of Russia source. An empty rawURL selects the official daily feed
func NewSource(client *http.Client, rawURL string) (*source, error) {
	dailyURL := defaultDailyURL
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
		}
		dailyURL = *u
	}

	return &source{
		dailyURL: dailyURL,
		client:   httputil.NewClient(client),
		nowFunc:  time.Now,
	}, nil
}

type source struct {
	dailyURL url.URL
	client   httputil.Client
	nowFunc  func() time.Time
}

func (s *source) Name() string {
	return Name
}

// FetchRates requests the quotation for the current date and rebases it from rubles on base
func (s *source) FetchRates(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	if base == "" {
		return provider.RateTable{}, provider.ErrEmptyBase
	}

	u := s.dailyURL
	query := u.Query()
	query.Set("date_req", s.nowFunc().UTC().Format("02/01/2006"))
	u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, u)
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
	daily, err := decodeXML(b)
	if err != nil {
		return provider.RateTable{}, provider.ParseError(err)
	}

	if daily.rates == nil {
		return provider.RateTable{}, provider.ParseError(errNoDailyRates)
	}

	rates, err := provider.Rebase(label.RUB, daily.rates, base)
	if err != nil {
		return provider.RateTable{}, err
	}

	return provider.NewRateTable(base, rates, provider.TableInfo{Source: Name, Date: daily.time})
}
