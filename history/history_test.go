package history

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/robotomize/fxcalc/convert"
	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

func result(amount string) convert.Result {
	in := decimal.RequireFromString(amount)
	rate := decimal.RequireFromString("0.92")

	return convert.Result{
		AmountIn:  in,
		From:      label.USD,
		To:        label.EUR,
		AmountOut: in.Mul(rate).Round(convert.AmountPrecision),
		Rate:      rate,
	}
}

func amountsIn(entries []Entry) []string {
	list := make([]string, 0, len(entries))
	for _, e := range entries {
		list = append(list, e.AmountIn.String())
	}

	return list
}

func TestLedger_RecordBounded(t *testing.T) {
	t.Parallel()

	l := New()
	for _, amount := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		if _, err := l.Record(result(amount)); err != nil {
			t.Fatalf("record %s: %v", amount, err)
		}
	}

	if diff := cmp.Diff(DefaultCapacity, l.Len()); diff != "" {
		t.Fatalf("len mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"7", "6", "5", "4", "3"}, amountsIn(l.List())); diff != "" {
		t.Errorf("order mismatch (-want, +got):\n%s", diff)
	}

	seqs := make([]uint64, 0, l.Len())
	for _, e := range l.List() {
		seqs = append(seqs, e.Seq)
	}

	if diff := cmp.Diff([]uint64{7, 6, 5, 4, 3}, seqs); diff != "" {
		t.Errorf("seq mismatch (-want, +got):\n%s", diff)
	}
}

func TestLedger_RecordEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 17, 12, 30, 0, 0, time.UTC)
	l := New(WithCapacity(2), WithClock(func() time.Time { return now }))

	entry, err := l.Record(result("1000"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if diff := cmp.Diff(uuid.Version(7), entry.ID.Version()); diff != "" {
		t.Errorf("id version mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff(now, entry.CapturedAt); diff != "" {
		t.Errorf("captured at mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff("920", entry.AmountOut.String()); diff != "" {
		t.Errorf("amount out mismatch (-want, +got):\n%s", diff)
	}

	for i := 0; i < 3; i++ {
		if _, err := l.Record(result("1")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if diff := cmp.Diff(2, l.Len()); diff != "" {
		t.Errorf("capacity not honored (-want, +got):\n%s", diff)
	}
}

func TestLedger_RecordUndefinedRate(t *testing.T) {
	t.Parallel()

	l := New()

	r := result("10")
	r.Rate = decimal.Zero

	if _, err := l.Record(r); !errors.Is(err, ErrUndefinedRate) {
		t.Fatalf("expected undefined rate, got %v", err)
	}

	if diff := cmp.Diff(0, l.Len()); diff != "" {
		t.Errorf("ledger must stay empty (-want, +got):\n%s", diff)
	}
}

func TestLedger_ListIsCopy(t *testing.T) {
	t.Parallel()

	l := New()
	if _, err := l.Record(result("1")); err != nil {
		t.Fatalf("record: %v", err)
	}

	list := l.List()
	list[0].AmountIn = decimal.NewFromInt(100)

	if diff := cmp.Diff([]string{"1"}, amountsIn(l.List())); diff != "" {
		t.Errorf("entries must not be mutable through List (-want, +got):\n%s", diff)
	}
}

func TestLedger_Clear(t *testing.T) {
	t.Parallel()

	l := New()
	for i := 0; i < 3; i++ {
		if _, err := l.Record(result("1")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	l.Clear()

	if diff := cmp.Diff(0, l.Len()); diff != "" {
		t.Errorf("len mismatch (-want, +got):\n%s", diff)
	}

	entry, err := l.Record(result("2"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if diff := cmp.Diff(uint64(4), entry.Seq); diff != "" {
		t.Errorf("seq mismatch (-want, +got):\n%s", diff)
	}
}

func TestLedger_RecordConcurrent(t *testing.T) {
	t.Parallel()

	l := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Record(result("1"))
		}()
	}
	wg.Wait()

	list := l.List()
	if diff := cmp.Diff(DefaultCapacity, len(list)); diff != "" {
		t.Fatalf("len mismatch (-want, +got):\n%s", diff)
	}

	for i := 1; i < len(list); i++ {
		if list[i-1].Seq <= list[i].Seq {
			t.Errorf("entries not newest first at %d: %d then %d", i, list[i-1].Seq, list[i].Seq)
		}
	}

	if diff := cmp.Diff(uint64(50), list[0].Seq); diff != "" {
		t.Errorf("head seq mismatch (-want, +got):\n%s", diff)
	}
}
