package fxcalc

import (
	"github.com/robotomize/fxcalc/cache"
	"github.com/robotomize/fxcalc/history"
)

// Store groups the state shared by sessions: the rate cache and the conversion history
type Store struct {
	Rates   *cache.Cache
	History *history.Ledger
}

func NewStore(rates *cache.Cache, ledger *history.Ledger) *Store {
	return &Store{
		Rates:   rates,
		History: ledger,
	}
}
