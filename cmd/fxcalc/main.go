package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robotomize/fxcalc"
	"github.com/robotomize/fxcalc/cache"
	"github.com/robotomize/fxcalc/history"
	"github.com/robotomize/fxcalc/internal/config"
	"github.com/robotomize/fxcalc/internal/logging"
	"github.com/robotomize/fxcalc/label"
	"github.com/robotomize/fxcalc/provider"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	flags := config.NewFlagSet("fxcalc")
	flags.SetOutput(errOut)

	cfg, err := config.Load(flags, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := label.ValidateCatalog(); err != nil {
		return fmt.Errorf("currency catalog: %w", err)
	}

	logger, err := logging.NewLogger(errOut, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	ctx = logging.WithLogger(ctx, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	session, store, err := newSession(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer session.Close()

	if cfg.MetricsAddr != "" {
		stopMetrics, err := serveMetrics(ctx, cfg.MetricsAddr, reg)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	session.Start()
	session.Wait()

	return newREPL(session, store, out).run(ctx, in)
}

// newSession wires the provider chain: source, logging, metrics, cache
func newSession(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (*fxcalc.Session, *fxcalc.Store, error) {
	logger := logging.FromContext(ctx)

	src, err := fxcalc.NewSource(cfg.Provider, &http.Client{Timeout: cfg.RequestTimeout}, cfg.ProviderURL)
	if err != nil {
		return nil, nil, err
	}

	src = provider.NewLoggingSource(log.With(logger, "component", "provider"), src)

	src, err = provider.NewInstrumentedSource(reg, src)
	if err != nil {
		return nil, nil, fmt.Errorf("instrument source: %w", err)
	}

	store := fxcalc.NewStore(
		cache.New(src,
			cache.WithLogger(log.With(logger, "component", "cache")),
			cache.WithFetchTimeout(cfg.RequestTimeout),
		),
		history.New(history.WithCapacity(cfg.HistorySize)),
	)

	session := fxcalc.NewSession(store,
		fxcalc.WithContext(ctx),
		fxcalc.WithPair(cfg.From, cfg.To),
		fxcalc.WithAmount(cfg.Amount),
		fxcalc.WithRetryNum(cfg.RetryNum),
		fxcalc.WithRetryDuration(cfg.RetryDuration),
		fxcalc.WithRequestTimeout(cfg.RequestTimeout),
		fxcalc.WithLogger(log.With(logger, "component", "session")),
	)

	return session, store, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) (func(), error) {
	logger := logging.FromContext(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = level.Error(logger).Log("msg", "metrics server stopped", "err", err)
		}
	}()

	_ = level.Info(logger).Log("msg", "serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			_ = level.Warn(logger).Log("msg", "metrics server shutdown", "err", err)
		}
	}, nil
}
