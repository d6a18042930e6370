package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/robotomize/fxcalc"
	"github.com/robotomize/fxcalc/amount"
	"github.com/robotomize/fxcalc/history"
	"github.com/robotomize/fxcalc/internal/logging"
	"github.com/robotomize/fxcalc/label"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix every key can be set from the environment as FXCALC_<KEY>, dashes become underscores
const EnvPrefix = "FXCALC"

const (
	KeyProvider       = "provider"
	KeyProviderURL    = "provider-url"
	KeyRequestTimeout = "request-timeout"
	KeyRetryNum       = "retry-num"
	KeyRetryDuration  = "retry-duration"
	KeyHistorySize    = "history-size"
	KeyFrom           = "from"
	KeyTo             = "to"
	KeyAmount         = "amount"
	KeyLogLevel       = "log-level"
	KeyLogFormat      = "log-format"
	KeyMetricsAddr    = "metrics-addr"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Provider       string
	ProviderURL    string
	RequestTimeout time.Duration
	RetryNum       uint64
	RetryDuration  time.Duration
	HistorySize    int
	From           label.Symbol
	To             label.Symbol
	Amount         string
	LogLevel       string
	LogFormat      string
	MetricsAddr    string
}

// NewFlagSet registers every key as a flag with its default value
func NewFlagSet(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)

	f.String(KeyProvider, fxcalc.ProviderNameFrankfurter,
		"rate provider: "+strings.Join(fxcalc.ProviderNames(), ", "))
	f.String(KeyProviderURL, "", "override the provider endpoint")
	f.Duration(KeyRequestTimeout, fxcalc.DefaultRequestTimeout, "timeout of one provider request")
	f.Uint64(KeyRetryNum, fxcalc.DefaultRetryNum, "repeated requests when the provider is unreachable")
	f.Duration(KeyRetryDuration, fxcalc.DefaultRetryDuration, "pause between repeated requests")
	f.Int(KeyHistorySize, history.DefaultCapacity, "number of saved conversions to keep")
	f.String(KeyFrom, fxcalc.DefaultFrom.String(), "initial source currency")
	f.String(KeyTo, fxcalc.DefaultTo.String(), "initial target currency")
	f.String(KeyAmount, fxcalc.DefaultAmount, "initial amount")
	f.String(KeyLogLevel, "info", "debug, info, warn, error or none")
	f.String(KeyLogFormat, logging.FormatLogfmt, "logfmt or json")
	f.String(KeyMetricsAddr, "", "serve prometheus metrics on this address, empty disables")

	return f
}

// Load parses args into flags and resolves every key. A flag set on the command line wins over the
// environment, the environment wins over the defaults. Missing env files are ignored
func Load(flags *pflag.FlagSet, args []string, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	cfg := Config{
		Provider:       strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider))),
		ProviderURL:    v.GetString(KeyProviderURL),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		RetryNum:       v.GetUint64(KeyRetryNum),
		RetryDuration:  v.GetDuration(KeyRetryDuration),
		HistorySize:    v.GetInt(KeyHistorySize),
		From:           label.Symbol(strings.ToUpper(strings.TrimSpace(v.GetString(KeyFrom)))),
		To:             label.Symbol(strings.ToUpper(strings.TrimSpace(v.GetString(KeyTo)))),
		Amount:         v.GetString(KeyAmount),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		MetricsAddr:    v.GetString(KeyMetricsAddr),
	}

	return cfg, nil
}

// Validate reports every invalid key at once
func (c Config) Validate() error {
	var result *multierror.Error

	if !slices.Contains(fxcalc.ProviderNames(), c.Provider) {
		result = multierror.Append(result, fmt.Errorf("%s: unknown provider %q", KeyProvider, c.Provider))
	}

	if c.ProviderURL != "" {
		if u, err := url.Parse(c.ProviderURL); err != nil || u.Scheme == "" || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("%s: %q is not an absolute url", KeyProviderURL, c.ProviderURL))
		}
	}

	if c.RequestTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("%s: must be positive", KeyRequestTimeout))
	}

	if c.RetryDuration <= 0 {
		result = multierror.Append(result, fmt.Errorf("%s: must be positive", KeyRetryDuration))
	}

	if c.HistorySize <= 0 {
		result = multierror.Append(result, fmt.Errorf("%s: must be positive", KeyHistorySize))
	}

	if !label.Known(c.From) {
		result = multierror.Append(result, fmt.Errorf("%s: unknown currency %q", KeyFrom, c.From))
	}

	if !label.Known(c.To) {
		result = multierror.Append(result, fmt.Errorf("%s: unknown currency %q", KeyTo, c.To))
	}

	if _, ok := amount.Sanitize(c.Amount); !ok {
		result = multierror.Append(result, fmt.Errorf("%s: %q has more than one decimal point", KeyAmount, c.Amount))
	}

	if _, err := logging.NewLogger(io.Discard, c.LogFormat, c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("logging: %w", err))
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
