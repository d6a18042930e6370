package provider

import (
	"fmt"

	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

// Rebase converts rates published against a home currency into rates against base.
// perHome maps a currency to its amount for one unit of home, home itself may be omitted
func Rebase(home label.Symbol, perHome map[label.Symbol]decimal.Decimal, base label.Symbol) (map[label.Symbol]decimal.Decimal, error) {
	all := make(map[label.Symbol]decimal.Decimal, len(perHome)+1)
	for sym, v := range perHome {
		all[sym] = v
	}
	all[home] = decimal.NewFromInt(1)

	divisor, ok := all[base]
	if !ok {
		return nil, ParseError(fmt.Errorf("base %s is not quoted against %s", base, home))
	}

	if !divisor.IsPositive() {
		return nil, ParseError(fmt.Errorf("rate for %s is not positive: %s", base, divisor))
	}

	rates := make(map[label.Symbol]decimal.Decimal, len(all))
	for sym, v := range all {
		if !v.IsPositive() {
			return nil, ParseError(fmt.Errorf("rate for %s is not positive: %s", sym, v))
		}
		rates[sym] = v.Div(divisor)
	}

	return rates, nil
}
