package rcb

import (
	"errors"
	"time"

	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

var (
	errDecodeToken       = errors.New("decoding of the markup failed")
	errAttributeNotValid = errors.New("attr is not valid")
	errUnknownCharset    = errors.New("charset is not defined")
)

// rubDailyRates holds the amount of each currency for one ruble
type rubDailyRates struct {
	time  time.Time
	rates map[label.Symbol]decimal.Decimal
}
