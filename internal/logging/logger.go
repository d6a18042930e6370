package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type contextKey string

const loggerKey = contextKey("logger")

const (
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

var (
	defaultLogger     log.Logger
	defaultLoggerOnce sync.Once
)

// DefaultLogger returns a logfmt logger on stderr that lets info and above through
func DefaultLogger() log.Logger {
	defaultLoggerOnce.Do(func() {
		logger, err := NewLogger(os.Stderr, FormatLogfmt, "info")
		if err != nil {
			panic(err)
		}
		defaultLogger = logger
	})
	return defaultLogger
}

// NewLogger builds a logger writing format to w, filtered at levelName (debug, info, warn, error)
func NewLogger(w io.Writer, format, levelName string) (log.Logger, error) {
	sw := log.NewSyncWriter(w)

	var logger log.Logger
	switch strings.ToLower(format) {
	case "", FormatLogfmt:
		logger = log.NewLogfmtLogger(sw)
	case FormatJSON:
		logger = log.NewJSONLogger(sw)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	opt, err := levelOption(levelName)
	if err != nil {
		return nil, err
	}

	logger = level.NewFilter(logger, opt)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	return logger, nil
}

func levelOption(name string) (level.Option, error) {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}

	return nil, fmt.Errorf("unknown log level %q", name)
}

// NewNopLogger discards everything
func NewNopLogger() log.Logger {
	return log.NewNopLogger()
}

func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) log.Logger {
	if logger, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return logger
	}
	return DefaultLogger()
}
