package provider

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/robotomize/fxcalc/label"
)

// loggingSource decorates a Source with logging
type loggingSource struct {
	next   Source
	logger log.Logger
}

// NewLoggingSource returns a Source that logs every fetch of next
func NewLoggingSource(logger log.Logger, next Source) Source {
	return &loggingSource{
		next:   next,
		logger: logger,
	}
}

func (s *loggingSource) Name() string {
	return s.next.Name()
}

func (s *loggingSource) FetchRates(ctx context.Context, base label.Symbol) (table RateTable, err error) {
	defer func(begin time.Time) {
		logger := level.Debug(s.logger)
		if err != nil {
			logger = level.Warn(s.logger)
		}

		_ = logger.Log(
			"method", "fetch_rates",
			"source", s.next.Name(),
			"base", base,
			"rates", table.Len(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	return s.next.FetchRates(ctx, base)
}
