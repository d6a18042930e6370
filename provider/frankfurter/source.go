package frankfurter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/robotomize/fxcalc/provider/httputil"
	"github.com/shopspring/decimal"
)

const Name = "frankfurter"

const DefaultURL = "https://api.frankfurter.dev/v1/latest"

var errMissingRates = errors.New("rates field is missing")

var _ provider.Source = (*source)(nil)

type response struct {
	Base  string                 `json:"base"`
	Date  string                 `json:"date"`
	Rates map[string]json.Number `json:"rates"`
}

// NewSource returns the Frankfurter source. An empty rawURL selects DefaultURL
func NewSource(client *http.Client, rawURL string) (*source, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	return &source{
		latestURL: *u,
		client:    httputil.NewClient(client),
	}, nil
}

type source struct {
	latestURL url.URL
	client    httputil.Client
}

func (s *source) Name() string {
	return Name
}

// FetchRates performs GET <url>?base=<CODE>
func (s *source) FetchRates(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	if base == "" {
		return provider.RateTable{}, provider.ErrEmptyBase
	}

	u := s.latestURL
	query := u.Query()
	query.Set("base", base.String())
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
	var resp response

	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.UseNumber()
	if err := decoder.Decode(&resp); err != nil {
		return provider.RateTable{}, provider.ParseError(err)
	}

	if resp.Rates == nil {
		return provider.RateTable{}, provider.ParseError(errMissingRates)
	}

	if resp.Base != "" && label.Symbol(resp.Base) != base {
		return provider.RateTable{}, provider.ParseError(
			fmt.Errorf("response base %s does not match requested %s", resp.Base, base),
		)
	}

	rates := make(map[label.Symbol]decimal.Decimal, len(resp.Rates))
	for code, num := range resp.Rates {
		rate, err := decimal.NewFromString(num.String())
		if err != nil {
			return provider.RateTable{}, provider.ParseError(fmt.Errorf("rate for %s: %w", code, err))
		}
		rates[label.Symbol(code)] = rate
	}

	var date time.Time
	if resp.Date != "" {
		t, err := time.Parse("2006-01-02", resp.Date)
		if err != nil {
			return provider.RateTable{}, provider.ParseError(fmt.Errorf("date %q: %w", resp.Date, err))
		}
		date = t
	}

	return provider.NewRateTable(base, rates, provider.TableInfo{Source: Name, Date: date})
}
