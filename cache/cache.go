package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"golang.org/x/sync/singleflight"
)

// DefaultFetchTimeout bounds one provider call made on behalf of the callers waiting for it
const DefaultFetchTimeout = 10 * time.Second

// ErrSuperseded is returned when a newer request replaced the one whose result arrived
var ErrSuperseded = errors.New("rate table request superseded")

// Stats counters of the cache
type Stats struct {
	Hits      uint64
	Misses    uint64
	Fetches   uint64
	Failures  uint64
	Discarded uint64
}

type Option func(*Cache)

// WithLogger sets the logger, nop by default
func WithLogger(logger log.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithFetchTimeout sets the timeout of a provider call. The call does not inherit the deadline or
// cancellation of the caller that started it, callers sharing it stop waiting on their own context
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// Cache keeps the most recent rate table. A table is served only for the exact base it was fetched for.
// Stale results are judged per Requester, so independent callers never discard each other's tables
type Cache struct {
	src          provider.Source
	logger       log.Logger
	fetchTimeout time.Duration
	group        singleflight.Group
	def          *Requester

	mtx      sync.Mutex
	current  provider.RateTable
	inflight map[label.Symbol]int
	stats    Stats
}

func New(src provider.Source, opts ...Option) *Cache {
	c := &Cache{
		src:          src,
		logger:       log.NewNopLogger(),
		fetchTimeout: DefaultFetchTimeout,
		inflight:     make(map[label.Symbol]int),
	}

	for _, o := range opts {
		o(c)
	}

	c.def = c.NewRequester()

	return c
}

// Requester is one independent line of requests, a session for example. Only a newer request of
// the same Requester supersedes a result
type Requester struct {
	c *Cache

	// guarded by c.mtx
	seq       uint64
	want      label.Symbol
	committed uint64
	last      provider.RateTable
}

func (c *Cache) NewRequester() *Requester {
	return &Requester{c: c}
}

// Table is Requester.Table for the cache's own requester
func (c *Cache) Table(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	return c.def.Table(ctx, base)
}

// Table returns the table for base, fetching it when the cached one is for another base.
// Concurrent calls for one base share a single fetch, whichever Requester makes them
func (r *Requester) Table(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	c := r.c

	c.mtx.Lock()
	r.seq++
	ticket := r.seq
	r.want = base

	if !c.current.IsZero() && c.current.Base() == base {
		c.stats.Hits++
		table := c.current
		r.last = table
		if ticket > r.committed {
			r.committed = ticket
		}
		c.mtx.Unlock()
		return table, nil
	}

	c.stats.Misses++
	c.inflight[base]++
	c.mtx.Unlock()

	table, err := c.fetch(ctx, base)

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.inflight[base]--; c.inflight[base] <= 0 {
		delete(c.inflight, base)
	}

	if err != nil {
		c.stats.Failures++
		return provider.RateTable{}, fmt.Errorf("fetch rates for %s: %w", base, err)
	}

	switch {
	case base != r.want:
		c.stats.Discarded++
		_ = level.Debug(c.logger).Log(
			"msg", "discard stale rate table",
			"base", base,
			"want", r.want,
			"ticket", ticket,
		)
		return provider.RateTable{}, fmt.Errorf("table for %s: %w", base, ErrSuperseded)
	case ticket < r.committed && r.last.Base() == base:
		// a newer request for the same base already committed its table
		return r.last, nil
	}

	c.current = table
	r.last = table
	if ticket > r.committed {
		r.committed = ticket
	}

	return table, nil
}

// fetch joins or starts the provider call for base and waits for it or for ctx
func (c *Cache) fetch(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	ch := c.group.DoChan(base.String(), func() (interface{}, error) {
		c.mtx.Lock()
		c.stats.Fetches++
		c.mtx.Unlock()

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		return c.src.FetchRates(fetchCtx, base)
	})

	select {
	case <-ctx.Done():
		return provider.RateTable{}, provider.NetworkError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return provider.RateTable{}, res.Err
		}
		return res.Val.(provider.RateTable), nil
	}
}

// Current returns the last committed table
func (c *Cache) Current() (provider.RateTable, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.current, !c.current.IsZero()
}

// Invalidate drops the cached table and forgets in-flight requests, the next Table call fetches afresh
func (c *Cache) Invalidate() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !c.current.IsZero() {
		c.group.Forget(c.current.Base().String())
	}

	for base := range c.inflight {
		c.group.Forget(base.String())
	}

	c.current = provider.RateTable{}
}

func (c *Cache) Stats() Stats {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.stats
}
