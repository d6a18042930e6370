package fxcalc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/robotomize/fxcalc/provider"
	"github.com/robotomize/fxcalc/provider/cae"
	"github.com/robotomize/fxcalc/provider/ecb"
	"github.com/robotomize/fxcalc/provider/frankfurter"
	"github.com/robotomize/fxcalc/provider/rcb"
)

const (
	// ProviderNameFrankfurter source name for the Frankfurter API, quotes any base
	ProviderNameFrankfurter = frankfurter.Name
	// ProviderNameECB source name for European central bank
	ProviderNameECB = ecb.Name
	// ProviderNameRCB source name for the Russia central bank
	ProviderNameRCB = rcb.Name
	// ProviderNameCAE source name for the UAE central bank
	ProviderNameCAE = cae.Name
)

var ErrUnknownProvider = errors.New("unknown rate provider")

// ProviderNames lists the supported providers, the first one is the default
func ProviderNames() []string {
	return []string{ProviderNameFrankfurter, ProviderNameECB, ProviderNameRCB, ProviderNameCAE}
}

// NewSource builds the named provider. An empty rawURL keeps the provider's official endpoint
func NewSource(name string, client *http.Client, rawURL string) (provider.Source, error) {
	var (
		src provider.Source
		err error
	)

	switch name {
	case ProviderNameFrankfurter:
		src, err = frankfurter.NewSource(client, rawURL)
	case ProviderNameECB:
		src, err = ecb.NewSource(client, rawURL)
	case ProviderNameRCB:
		src, err = rcb.NewSource(client, rawURL)
	case ProviderNameCAE:
		src, err = cae.NewSource(client, rawURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	if err != nil {
		return nil, fmt.Errorf("%s source: %w", name, err)
	}

	return src, nil
}
