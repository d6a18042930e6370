package label

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var ErrInvalidSymbol = errors.New("currency symbol must be three latin letters")

// UnknownFlag is shown for codes that are missing from the catalog
const UnknownFlag = "🌐"

// Symbol is an ISO 4217 alphabetic currency code
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Currency describes a catalog entry
type Currency struct {
	Symbol Symbol
	Name   string
	Sign   string
	Flag   string
}

// Parse normalizes user input into a Symbol. Parse checks only the shape of the code,
// use Known to check the catalog
func Parse(s string) (Symbol, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}

	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
		}
	}

	return Symbol(code), nil
}

// Known reports whether the symbol is present in the catalog
func Known(s Symbol) bool {
	_, ok := Currencies[s]
	return ok
}

// Lookup returns the catalog entry for the symbol. Codes outside the catalog get a degraded
// entry: unknown flag, empty sign and the code itself as the name
func Lookup(s Symbol) Currency {
	if c, ok := Currencies[s]; ok {
		return c
	}

	return Currency{
		Symbol: s,
		Name:   string(s),
		Flag:   UnknownFlag,
	}
}

// Catalog returns the catalog in display order
func Catalog() []Currency {
	list := make([]Currency, 0, len(ordered))
	for _, s := range ordered {
		list = append(list, Currencies[s])
	}

	return list
}

// ValidateCatalog checks the built-in catalog
func ValidateCatalog() error {
	return validate(Currencies, ordered)
}

func validate(entries map[Symbol]Currency, order []Symbol) error {
	var result *multierror.Error

	names := make(map[string]Symbol, len(entries))
	for key, c := range entries {
		if _, err := Parse(key.String()); err != nil {
			result = multierror.Append(result, err)
		}

		if c.Symbol != key {
			result = multierror.Append(result, fmt.Errorf("entry %s holds symbol %s", key, c.Symbol))
		}

		if c.Name == "" {
			result = multierror.Append(result, fmt.Errorf("entry %s has no name", key))
			continue
		}

		if prev, ok := names[c.Name]; ok {
			result = multierror.Append(result, fmt.Errorf("name %q used by %s and %s", c.Name, prev, key))
		}
		names[c.Name] = key
	}

	seen := make(map[Symbol]struct{}, len(order))
	for _, s := range order {
		if _, ok := entries[s]; !ok {
			result = multierror.Append(result, fmt.Errorf("display order lists unknown %s", s))
		}

		if _, ok := seen[s]; ok {
			result = multierror.Append(result, fmt.Errorf("display order lists %s twice", s))
		}
		seen[s] = struct{}{}
	}

	if len(seen) != len(entries) {
		result = multierror.Append(result, fmt.Errorf("display order has %d entries, catalog %d", len(seen), len(entries)))
	}

	return result.ErrorOrNil()
}
