package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/robotomize/fxcalc"
	"github.com/robotomize/fxcalc/convert"
	"github.com/robotomize/fxcalc/label"
)

const prompt = "> "

const helpText = `commands:
  amount <value>   set the amount
  type <keys>      type keys into the amount one by one
  from <code>      set the source currency
  to <code>        set the target currency
  swap             swap the currencies
  save             save the conversion into the history
  history          list saved conversions
  currencies       list known currencies
  retry            fetch the rates again
  stats            cache counters
  help             this text
  quit             exit`

var errQuit = errors.New("quit")

type repl struct {
	session *fxcalc.Session
	store   *fxcalc.Store
	out     io.Writer

	ok   func(a ...interface{}) string
	warn func(a ...interface{}) string
	dim  func(a ...interface{}) string
}

func newREPL(session *fxcalc.Session, store *fxcalc.Store, out io.Writer) *repl {
	return &repl{
		session: session,
		store:   store,
		out:     out,
		ok:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		warn:    color.New(color.FgRed).SprintFunc(),
		dim:     color.New(color.Faint).SprintFunc(),
	}
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	r.render()

	for {
		fmt.Fprint(r.out, prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			if err := r.exec(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintln(r.out, r.warn(err))
			}
		}
	}
}

func (r *repl) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	arg := strings.Join(args, "")

	switch cmd {
	case "amount":
		if _, ok := r.session.SetAmount(arg); !ok {
			return fmt.Errorf("amount %q rejected, only one decimal point is allowed", arg)
		}
	case "type":
		for _, key := range arg {
			r.session.TypeAmount(string(key))
		}
	case "from", "to":
		sym, err := parseCurrency(arg)
		if err != nil {
			return err
		}

		if cmd == "from" {
			r.session.SetFromCurrency(sym)
		} else {
			r.session.SetToCurrency(sym)
		}
		r.session.Wait()
	case "swap":
		r.session.Swap()
		r.session.Wait()
	case "retry":
		r.session.Retry()
		r.session.Wait()
	case "save":
		entry, err := r.session.Save()
		if err != nil {
			return err
		}

		fmt.Fprintln(r.out, r.ok("saved"), formatEntry(convert.FormatAmount(entry.AmountIn), entry.From, convert.FormatAmount(entry.AmountOut), entry.To))
		return nil
	case "history":
		r.history()
		return nil
	case "currencies":
		for _, c := range label.Catalog() {
			fmt.Fprintf(r.out, "%s %s %s %s\n", c.Flag, c.Symbol, c.Sign, c.Name)
		}
		return nil
	case "stats":
		st := r.store.Rates.Stats()
		fmt.Fprintf(r.out, "hits=%d misses=%d fetches=%d failures=%d discarded=%d\n",
			st.Hits, st.Misses, st.Fetches, st.Failures, st.Discarded)
		return nil
	case "help", "?":
		fmt.Fprintln(r.out, helpText)
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}

	r.render()

	return nil
}

func (r *repl) render() {
	snap := r.session.Snapshot()

	amountIn := snap.Amount
	if amountIn == "" {
		amountIn = "0"
	}

	line := fmt.Sprintf("%s %s %s = %s %s %s",
		snap.From.Flag, amountIn, snap.From.Symbol,
		snap.To.Flag, r.ok(snap.LocalizedAmountOut), snap.To.Symbol,
	)

	if snap.IsLoading {
		line += r.dim(" (loading)")
	}

	fmt.Fprintln(r.out, line)

	if snap.DisplayRate != fxcalc.Unavailable {
		fmt.Fprintln(r.out, r.dim(fmt.Sprintf("1 %s = %s %s, updated %s",
			snap.From.Symbol, snap.DisplayRate, snap.To.Symbol, snap.LastUpdatedAt.Local().Format(time.Kitchen))))
	}

	if snap.ErrorMessage != "" {
		fmt.Fprintln(r.out, r.warn(snap.ErrorMessage))
	}
}

func (r *repl) history() {
	entries := r.session.Snapshot().History
	if len(entries) == 0 {
		fmt.Fprintln(r.out, r.dim("history is empty"))
		return
	}

	for _, e := range entries {
		fmt.Fprintf(r.out, "%d. %s %s\n",
			e.Seq,
			formatEntry(convert.FormatAmount(e.AmountIn), e.From, convert.FormatAmount(e.AmountOut), e.To),
			r.dim(e.CapturedAt.Local().Format(time.Kitchen)),
		)
	}
}

func formatEntry(amountIn string, from label.Symbol, amountOut string, to label.Symbol) string {
	return fmt.Sprintf("%s %s = %s %s", amountIn, from, amountOut, to)
}

func parseCurrency(s string) (label.Symbol, error) {
	sym, err := label.Parse(s)
	if err != nil {
		return "", err
	}

	if !label.Known(sym) {
		return "", fmt.Errorf("currency %s is not supported", sym)
	}

	return sym, nil
}
