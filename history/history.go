package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robotomize/fxcalc/convert"
	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

const DefaultCapacity = 5

var ErrUndefinedRate = errors.New("conversion has no defined rate")

// Entry is an immutable record of a saved conversion
type Entry struct {
	ID         uuid.UUID
	Seq        uint64
	From       label.Symbol
	To         label.Symbol
	AmountIn   decimal.Decimal
	AmountOut  decimal.Decimal
	Rate       decimal.Decimal
	CapturedAt time.Time
}

type Option func(*Ledger)

// WithCapacity sets the number of kept entries, values below 1 are ignored
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.capacity = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.nowFunc = now
	}
}

// Ledger keeps the most recent conversions, newest first
type Ledger struct {
	capacity int
	nowFunc  func() time.Time

	mtx     sync.RWMutex
	seq     uint64
	entries []Entry
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		capacity: DefaultCapacity,
		nowFunc:  time.Now,
	}

	for _, o := range opts {
		o(l)
	}

	l.entries = make([]Entry, 0, l.capacity)

	return l
}

// Record prepends the conversion and evicts the oldest entry beyond capacity
func (l *Ledger) Record(r convert.Result) (Entry, error) {
	if !r.Rate.IsPositive() {
		return Entry{}, fmt.Errorf("%s to %s: %w", r.From, r.To, ErrUndefinedRate)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("uuid.NewV7: %w", err)
	}

	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.seq++
	entry := Entry{
		ID:         id,
		Seq:        l.seq,
		From:       r.From,
		To:         r.To,
		AmountIn:   r.AmountIn,
		AmountOut:  r.AmountOut,
		Rate:       r.Rate,
		CapturedAt: l.nowFunc().UTC(),
	}

	n := len(l.entries) + 1
	if n > l.capacity {
		n = l.capacity
	}

	entries := make([]Entry, 0, l.capacity)
	entries = append(entries, entry)
	entries = append(entries, l.entries[:n-1]...)
	l.entries = entries

	return entry, nil
}

// List returns a copy of the entries, newest first
func (l *Ledger) List() []Entry {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	list := make([]Entry, len(l.entries))
	copy(list, l.entries)

	return list
}

func (l *Ledger) Len() int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return len(l.entries)
}

func (l *Ledger) Capacity() int {
	return l.capacity
}

// Clear drops all entries, sequence numbers keep growing
func (l *Ledger) Clear() {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.entries = make([]Entry, 0, l.capacity)
}
