package fxcalc

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSource(t *testing.T) {
	t.Parallel()

	for _, name := range ProviderNames() {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, err := NewSource(name, http.DefaultClient, "")
			if err != nil {
				t.Fatalf("new source: %v", err)
			}

			if diff := cmp.Diff(name, src.Name()); diff != "" {
				t.Errorf("name mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestNewSource_Unknown(t *testing.T) {
	t.Parallel()

	_, err := NewSource("oanda", http.DefaultClient, "")
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected unknown provider, got %v", err)
	}
}

func TestProviderNames(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff(ProviderNameFrankfurter, ProviderNames()[0]); diff != "" {
		t.Errorf("default provider mismatch (-want, +got):\n%s", diff)
	}
}
