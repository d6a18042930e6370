package fxcalc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/robotomize/fxcalc/amount"
	"github.com/robotomize/fxcalc/cache"
	"github.com/robotomize/fxcalc/convert"
	"github.com/robotomize/fxcalc/history"
	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/sethvargo/go-retry"
)

var (
	ErrNotReady    = errors.New("rates are not loaded")
	ErrEmptyAmount = errors.New("amount is empty")
	ErrClosed      = errors.New("session is closed")

	errOutdated = errors.New("fetch belongs to an outdated request")
)

// maxSupersededRefetch bounds how often a current fetch is repeated after an outdated fetch of the
// same session overtook it in the cache
const maxSupersededRefetch = 3

// Session is one converter screen: an amount, a currency pair and the rate table for the source currency.
// Fetches run in the background, a completion that belongs to an outdated request is dropped
type Session struct {
	store         *Store
	rates         *cache.Requester
	opts          Options
	logger        log.Logger
	observer      func(Snapshot)
	parent        context.Context
	initialAmount string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	amount *amount.Sanitizer

	// observer deliveries, drained by one goroutine at a time
	notifyMtx sync.Mutex
	pending   []Snapshot
	draining  bool

	mtx           sync.Mutex
	from          label.Symbol
	to            label.Symbol
	status        Status
	table         provider.RateTable
	err           error
	epoch         uint64
	lastUpdatedAt time.Time
	closed        bool
}

// NewSession returns an idle session, call Start to load the rates of the initial pair
func NewSession(store *Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		opts: Options{
			RetryNum:       DefaultRetryNum,
			RetryDuration:  DefaultRetryDuration,
			RequestTimeout: DefaultRequestTimeout,
		},
		logger:        log.NewNopLogger(),
		parent:        context.Background(),
		from:          DefaultFrom,
		to:            DefaultTo,
		initialAmount: DefaultAmount,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.opts.RetryDuration <= 0 {
		s.opts.RetryDuration = DefaultRetryDuration
	}

	if s.opts.RequestTimeout <= 0 {
		s.opts.RequestTimeout = DefaultRequestTimeout
	}

	s.rates = store.Rates.NewRequester()
	s.ctx, s.cancel = context.WithCancel(s.parent)
	s.amount = amount.New(s.initialAmount)

	return s
}

// Start loads the rates for the current source currency
func (s *Session) Start() {
	s.mtx.Lock()
	s.refreshLocked()
	s.mtx.Unlock()

	s.notify()
}

// SetFromCurrency changes the source currency and loads its rates
func (s *Session) SetFromCurrency(code label.Symbol) {
	s.mtx.Lock()
	if code == s.from {
		s.mtx.Unlock()
		return
	}

	s.from = code
	s.refreshLocked()
	s.mtx.Unlock()

	s.notify()
}

// SetToCurrency changes the target currency, the loaded table already quotes it
func (s *Session) SetToCurrency(code label.Symbol) {
	s.mtx.Lock()
	s.to = code
	s.mtx.Unlock()

	s.notify()
}

// Swap exchanges the currencies and loads the rates for the new source
func (s *Session) Swap() {
	s.mtx.Lock()
	if s.from == s.to {
		s.mtx.Unlock()
		return
	}

	s.from, s.to = s.to, s.from
	s.refreshLocked()
	s.mtx.Unlock()

	s.notify()
}

// SetAmount replaces the amount, ok is false when the input was rejected
func (s *Session) SetAmount(raw string) (string, bool) {
	value, ok := s.amount.Apply(raw)
	s.notify()

	return value, ok
}

// TypeAmount appends one keystroke to the amount
func (s *Session) TypeAmount(key string) (string, bool) {
	value, ok := s.amount.Type(key)
	s.notify()

	return value, ok
}

// Retry drops the cached table and loads the rates again
func (s *Session) Retry() {
	s.store.Rates.Invalidate()

	s.mtx.Lock()
	s.refreshLocked()
	s.mtx.Unlock()

	s.notify()
}

// Save converts the current amount and records it in the history
func (s *Session) Save() (history.Entry, error) {
	s.mtx.Lock()

	if s.status != StatusReady {
		s.mtx.Unlock()
		return history.Entry{}, ErrNotReady
	}

	raw := s.amount.Value()
	if raw == "" {
		s.mtx.Unlock()
		return history.Entry{}, ErrEmptyAmount
	}

	result, err := convert.ConvertString(raw, s.from, s.to, s.table)
	if err != nil {
		s.mtx.Unlock()
		return history.Entry{}, fmt.Errorf("convert: %w", err)
	}

	entry, err := s.store.History.Record(result)
	s.mtx.Unlock()

	if err != nil {
		return history.Entry{}, fmt.Errorf("record: %w", err)
	}

	s.notify()

	return entry, nil
}

// Snapshot returns the current state as the presentation layer renders it
func (s *Session) Snapshot() Snapshot {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.snapshot()
}

// Err returns the error of the last failed fetch
func (s *Session) Err() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.err
}

// Wait blocks until every started fetch has completed
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight fetches and waits for them
func (s *Session) Close() {
	s.mtx.Lock()
	s.closed = true
	s.mtx.Unlock()

	s.cancel()
	s.wg.Wait()
}

// refreshLocked must be called with s.mtx held
func (s *Session) refreshLocked() {
	if s.closed {
		s.status = StatusFailed
		s.err = ErrClosed
		return
	}

	s.epoch++
	s.status = StatusLoading
	s.err = nil
	s.table = provider.RateTable{}

	s.wg.Add(1)
	go s.fetch(s.epoch, s.from)
}

func (s *Session) fetch(epoch uint64, base label.Symbol) {
	defer s.wg.Done()

	table, err := s.fetchTable(epoch, base)

	s.mtx.Lock()
	if epoch != s.epoch {
		s.mtx.Unlock()
		_ = level.Debug(s.logger).Log("msg", "discard outdated fetch", "base", base, "epoch", epoch)
		return
	}

	if err != nil {
		s.status = StatusFailed
		s.err = err
		s.mtx.Unlock()

		_ = level.Warn(s.logger).Log("msg", "unable to fetch rates", "base", base, "err", err)
		s.notify()
		return
	}

	s.status = StatusReady
	s.table = table
	s.lastUpdatedAt = table.FetchedAt()
	s.mtx.Unlock()

	_ = level.Info(s.logger).Log("msg", "rates loaded", "base", base, "source", table.Source(), "rates", table.Len())
	s.notify()
}

func (s *Session) isCurrent(epoch uint64) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return epoch == s.epoch
}

func (s *Session) fetchTable(epoch uint64, base label.Symbol) (provider.RateTable, error) {
	for attempt := 0; ; attempt++ {
		table, err := s.fetchWithRetry(epoch, base)
		if errors.Is(err, cache.ErrSuperseded) && attempt < maxSupersededRefetch && s.isCurrent(epoch) {
			_ = level.Debug(s.logger).Log("msg", "refetch superseded table", "base", base, "epoch", epoch)
			continue
		}

		return table, err
	}
}

func (s *Session) fetchWithRetry(epoch uint64, base label.Symbol) (provider.RateTable, error) {
	b, err := retry.NewConstant(s.opts.RetryDuration)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("retry backoff: %w", err)
	}

	b = retry.WithMaxRetries(s.opts.RetryNum, b)

	var table provider.RateTable
	if err := retry.Do(s.ctx, b, func(ctx context.Context) error {
		if !s.isCurrent(epoch) {
			return errOutdated
		}

		ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()

		t, err := s.rates.Table(ctx, base)
		if err != nil {
			if errors.Is(err, provider.ErrNetwork) {
				return retry.RetryableError(err)
			}
			return err
		}

		table = t

		return nil
	}); err != nil {
		return provider.RateTable{}, err
	}

	return table, nil
}

// notify queues the current snapshot for the observer. The first caller that finds no delivery in
// progress drains the queue, the observer runs without any session lock held and may call back into
// the session; such nested notifications are queued and delivered after the current one returns
func (s *Session) notify() {
	if s.observer == nil {
		return
	}

	s.notifyMtx.Lock()
	s.pending = append(s.pending, s.Snapshot())
	if s.draining {
		s.notifyMtx.Unlock()
		return
	}
	s.draining = true

	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		s.notifyMtx.Unlock()

		s.observer(snap)

		s.notifyMtx.Lock()
	}

	s.draining = false
	s.notifyMtx.Unlock()
}
