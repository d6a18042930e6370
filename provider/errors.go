package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is returned when the rate provider could not be reached or answered with a
	// non-success status
	ErrNetwork = errors.New("rate provider unavailable")
	// ErrParse is returned when the provider answered but the body is not a valid rate table
	ErrParse = errors.New("rate provider response malformed")
	// ErrEmptyBase is returned before any network call when the base currency is empty
	ErrEmptyBase = errors.New("base currency is empty")
)

// NetworkError marks err as a transport failure
func NetworkError(err error) error {
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// ParseError marks err as a decoding failure
func ParseError(err error) error {
	return fmt.Errorf("%w: %w", ErrParse, err)
}
