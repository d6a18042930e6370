package ecb

import (
	"errors"
	"time"

	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

var (
	errDecodeToken       = errors.New("decoding of the markup failed")
	errAttributeNotValid = errors.New("attr is not valid")
	errMissingIterFunc   = errors.New("missing iter function")
	errNoDailyRates      = errors.New("document has no daily rates")
)

// decodeFunc for parsing data and processing it in streaming mode
type decodeFunc func([]byte, func(rates euroDailyRates) error) error

// euroDailyRates amount of each currency for one euro on a given day
type euroDailyRates struct {
	time  time.Time
	rates map[label.Symbol]decimal.Decimal
}
