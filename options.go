package fxcalc

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/robotomize/fxcalc/label"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryNum       = 0
	DefaultRetryDuration  = 1 * time.Second
	DefaultAmount         = "1000"
	DefaultFrom           = label.USD
	DefaultTo             = label.EUR
)

type Option func(*Session)

type Options struct {
	RetryNum       uint64
	RetryDuration  time.Duration
	RequestTimeout time.Duration
}

// WithContext set the parent context of every fetch, cancelling it stops the session
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		s.parent = ctx
	}
}

// WithPair set the initial source and target currencies
func WithPair(from, to label.Symbol) Option {
	return func(s *Session) {
		s.from = from
		s.to = to
	}
}

// WithAmount set the initial amount, it goes through the sanitizer
func WithAmount(raw string) Option {
	return func(s *Session) {
		s.initialAmount = raw
	}
}

// WithRetryNum set number of repeated requests when the provider is unreachable
func WithRetryNum(n uint64) Option {
	return func(s *Session) {
		s.opts.RetryNum = n
	}
}

// WithRetryDuration constant pause between repeated requests
func WithRetryDuration(t time.Duration) Option {
	return func(s *Session) {
		s.opts.RetryDuration = t
	}
}

// WithRequestTimeout set a timeout for one provider request
func WithRequestTimeout(t time.Duration) Option {
	return func(s *Session) {
		s.opts.RequestTimeout = t
	}
}

// WithObserver set the function receiving a snapshot after every transition
func WithObserver(f func(Snapshot)) Option {
	return func(s *Session) {
		s.observer = f
	}
}

func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}
