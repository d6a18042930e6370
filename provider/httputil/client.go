package httputil

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robotomize/fxcalc/provider"
)

const (
	defaultUserAgent = "fxcalc/0.1.0"
	DefaultTimeout   = 10 * time.Second
)

var (
	ErrStatusCode = errors.New("http status is not successful")
	// ErrMalformedBody is returned when the response arrived but its compressed body can not be decoded
	ErrMalformedBody = errors.New("response body malformed")
)

// StatusError reports a non-success HTTP status
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status: %d, %s", e.Code, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrStatusCode
}

// DefaultClient return preconfigured HTTP client. The client timeout bounds the whole exchange so a
// hung provider surfaces as an error instead of blocking forever
func DefaultClient() Client {
	return Client{
		client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConnsPerHost:   4,
				DisableCompression:    true,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
			},
		},
	}
}

// NewClient return prepared Client, a nil client gives DefaultClient
func NewClient(client *http.Client) Client {
	if client == nil {
		return DefaultClient()
	}

	return Client{client: client}
}

type Client struct {
	client *http.Client
}

func (c Client) UserAgent() string {
	return defaultUserAgent
}

// Get performs a GET request and returns the decompressed body. Any status outside 2xx fails with
// a *StatusError
func (c Client) Get(ctx context.Context, u url.URL) ([]byte, error) {
	req, err := c.prepareRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("build HTTP request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var reader io.Reader = resp.Body
	contentType := resp.Header.Get("Content-Type")
	contentEncoding := resp.Header.Get("Content-Encoding")
	gzipped := strings.Contains(contentType, "application/x-gzip") || strings.Contains(contentEncoding, "gzip")
	if gzipped {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			if isDecompressError(err) {
				return nil, fmt.Errorf("create gzip reader: %w: %w", ErrMalformedBody, err)
			}
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	b, err := io.ReadAll(reader)
	switch {
	case err == nil:
	case gzipped && isDecompressError(err):
		return nil, fmt.Errorf("read gzip body: %w: %w", ErrMalformedBody, err)
	case !gzipped && errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return nil, fmt.Errorf("read body: %w", err)
	}

	return b, nil
}

func isDecompressError(err error) bool {
	var corrupt flate.CorruptInputError

	return errors.Is(err, gzip.ErrHeader) ||
		errors.Is(err, gzip.ErrChecksum) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &corrupt)
}

// SourceError maps a Get failure onto the provider errors. A body that arrived but can not be
// decoded is a parse error, anything else is a network error
func SourceError(err error) error {
	if errors.Is(err, ErrMalformedBody) {
		return provider.ParseError(err)
	}

	return provider.NetworkError(err)
}

func (c Client) prepareRequest(ctx context.Context, u url.URL) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	return req, nil
}
