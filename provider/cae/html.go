package cae

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/robotomize/fxcalc/internal/strutil"
	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

var (
	errParseAttrNotValid = errors.New("attr is not valid")
	errHTMLNotValid      = errors.New("html not valid")
)

const (
	datePrefix = "Date"
	dateLayout = "02-01-2006"
)

// namesIndex maps folded catalog names to symbols
var namesIndex = func() map[string]label.Symbol {
	m := make(map[string]label.Symbol, len(label.Names))
	for name, sym := range label.Names {
		m[strutil.FoldName(name)] = sym
	}

	return m
}()

// aedDailyRates holds the dirham price of one unit of each currency
type aedDailyRates struct {
	time  time.Time
	rates map[label.Symbol]decimal.Decimal
}

func parseHTML(b []byte) (aedDailyRates, error) {
	var dailyRates aedDailyRates

	root, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return dailyRates, fmt.Errorf("%w: html parse: %v", errHTMLNotValid, err)
	}

	doc := goquery.NewDocumentFromNode(root)

	date := strings.TrimSpace(doc.Find("#ratesDatePicker > h3 > span > span").First().Text())
	if !strings.HasPrefix(date, datePrefix) {
		return dailyRates, fmt.Errorf("%w: date label %q", errParseAttrNotValid, date)
	}

	dt, err := time.Parse(dateLayout, strings.TrimPrefix(date, datePrefix))
	if err != nil {
		return dailyRates, fmt.Errorf("%w: %v", errParseAttrNotValid, err)
	}

	dailyRates.time = dt
	dailyRates.rates = make(map[label.Symbol]decimal.Decimal)

	var rowErr error
	doc.Find("#ratesDateTable tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			rowErr = fmt.Errorf("%w: row has %d cells", errParseAttrNotValid, cells.Length())
			return false
		}

		name := strutil.FoldName(cells.Eq(0).Text())
		if name == "" {
			rowErr = fmt.Errorf("%w: empty currency name", errParseAttrNotValid)
			return false
		}

		symbol, ok := namesIndex[name]
		if !ok {
			return true
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(cells.Eq(1).Text()))
		if err != nil {
			rowErr = fmt.Errorf("%w: rate for %s: %v", errParseAttrNotValid, symbol, err)
			return false
		}

		if !rate.IsPositive() {
			rowErr = fmt.Errorf("%w: rate for %s is not positive", errParseAttrNotValid, symbol)
			return false
		}

		dailyRates.rates[symbol] = rate

		return true
	})

	if rowErr != nil {
		return aedDailyRates{}, rowErr
	}

	return dailyRates, nil
}
