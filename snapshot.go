package fxcalc

import (
	"errors"
	"fmt"
	"time"

	"github.com/robotomize/fxcalc/amount"
	"github.com/robotomize/fxcalc/convert"
	"github.com/robotomize/fxcalc/history"
	"github.com/robotomize/fxcalc/label"
)

// Unavailable is displayed in place of an amount or rate that can not be computed
const Unavailable = "—"

const msgFetchFailed = "Unable to fetch rates. Please try again."

// Status of the rate table backing a session
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}

	return "unknown"
}

// Snapshot is everything a presentation layer renders
type Snapshot struct {
	Amount             string
	AmountState        amount.State
	From               label.Currency
	To                 label.Currency
	DisplayAmountOut   string
	LocalizedAmountOut string
	DisplayRate        string
	LastUpdatedAt      time.Time
	IsLoading          bool
	Status             Status
	ErrorMessage       string
	History            []history.Entry
}

func missingRateMessage(to label.Symbol) string {
	return fmt.Sprintf("Rate for %s is not available.", to)
}

// snapshot must be called with s.mtx held
func (s *Session) snapshot() Snapshot {
	raw := s.amount.Value()

	snap := Snapshot{
		Amount:             raw,
		AmountState:        amount.StateOf(raw),
		From:               label.Lookup(s.from),
		To:                 label.Lookup(s.to),
		DisplayAmountOut:   Unavailable,
		LocalizedAmountOut: Unavailable,
		DisplayRate:        Unavailable,
		LastUpdatedAt:      s.lastUpdatedAt,
		IsLoading:          s.status == StatusLoading,
		Status:             s.status,
		History:            s.store.History.List(),
	}

	switch s.status {
	case StatusFailed:
		snap.ErrorMessage = msgFetchFailed
	case StatusReady:
		result, err := convert.ConvertString(raw, s.from, s.to, s.table)
		if err != nil {
			if errors.Is(err, convert.ErrMissingRate) {
				snap.ErrorMessage = missingRateMessage(s.to)
			}
			return snap
		}

		snap.DisplayAmountOut = convert.FormatAmount(result.AmountOut)
		snap.LocalizedAmountOut = convert.LocalizeAmount(result.AmountOut)
		snap.DisplayRate = convert.FormatRate(result.Rate)
	}

	return snap
}
