// Package loader produces the food dataset from its external source: an
// HTTP endpoint returning a JSON array, or a local JSON file. Sources whose
// path ends in .gz are gunzipped.
package loader

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/catalog"
	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
)

const (
	DefaultTimeout         = 10 * time.Second
	DefaultMaxPayloadBytes = 10 << 20
)

// Loader produces a complete dataset or fails with a *LoadError
type Loader interface {
	Load(ctx context.Context) (*catalog.Dataset, error)
}

// Options tune a loader. Zero values select the defaults.
type Options struct {
	Timeout         time.Duration
	MaxPayloadBytes int64
	HTTPClient      *http.Client
	Breaker         BreakerSettings
	Logger          *slog.Logger
}

// BreakerSettings configures the circuit breaker around HTTP fetches
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the
	// breaker; zero disables it
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial request
	OpenTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxPayloadBytes <= 0 {
		o.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// New returns the loader for source: http(s) URLs are fetched, file URLs
// and bare paths are read from disk.
func New(source string, opts Options) (Loader, error) {
	if source == "" {
		return nil, &LoadError{Source: source, Err: ErrUnsupportedURL}
	}

	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" {
		return NewFileLoader(source, opts), nil
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPLoader(source, opts), nil
	case "file":
		return NewFileLoader(u.Path, opts), nil
	default:
		return nil, &LoadError{Source: source, Err: fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)}
	}
}

// HTTPLoader fetches the dataset with a single GET request
type HTTPLoader struct {
	url      string
	opts     Options
	validate *validator.Validate
	breaker  *gobreaker.CircuitBreaker
}

// NewHTTPLoader creates a loader for the given endpoint
func NewHTTPLoader(endpoint string, opts Options) *HTTPLoader {
	opts = opts.withDefaults()
	l := &HTTPLoader{
		url:      endpoint,
		opts:     opts,
		validate: validator.New(),
	}

	if opts.Breaker.MaxFailures > 0 {
		maxFailures := opts.Breaker.MaxFailures
		l.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "dataset-source",
			Timeout: opts.Breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				opts.Logger.Warn("circuit breaker state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		})
	}

	return l
}

// Load fetches and decodes the dataset. The request is bound to ctx and
// to the configured timeout.
func (l *HTTPLoader) Load(ctx context.Context) (*catalog.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	fetch := func() (interface{}, error) {
		return l.fetch(ctx)
	}

	var (
		result interface{}
		err    error
	)
	if l.breaker != nil {
		result, err = l.breaker.Execute(fetch)
	} else {
		result, err = fetch()
	}
	if err != nil {
		return nil, loadError(l.url, err)
	}

	return result.(*catalog.Dataset), nil
}

func (l *HTTPLoader) fetch(ctx context.Context) (*catalog.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, closeBody, err := maybeGunzip(resp.Body, l.url)
	if err != nil {
		return nil, err
	}
	defer closeBody()

	items, err := decodeItems(body, l.opts.MaxPayloadBytes, l.validate)
	if err != nil {
		return nil, err
	}

	l.opts.Logger.Debug("dataset fetched", "source", l.url, "items", len(items))
	return buildDataset(items, l.url), nil
}

// FileLoader reads the dataset from a local JSON file
type FileLoader struct {
	path     string
	opts     Options
	validate *validator.Validate
}

// NewFileLoader creates a loader for the file at path
func NewFileLoader(path string, opts Options) *FileLoader {
	return &FileLoader{
		path:     path,
		opts:     opts.withDefaults(),
		validate: validator.New(),
	}
}

// Load reads and decodes the file. Cancellation is checked before reading.
func (l *FileLoader) Load(ctx context.Context) (*catalog.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(l.path, err)
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, loadError(l.path, fmt.Errorf("failed to open file: %w", err))
	}
	defer f.Close()

	body, closeBody, err := maybeGunzip(f, l.path)
	if err != nil {
		return nil, loadError(l.path, err)
	}
	defer closeBody()

	items, err := decodeItems(body, l.opts.MaxPayloadBytes, l.validate)
	if err != nil {
		return nil, loadError(l.path, err)
	}

	return buildDataset(items, l.path), nil
}

func maybeGunzip(r io.Reader, name string) (io.Reader, func(), error) {
	if !strings.HasSuffix(strings.ToLower(name), ".gz") {
		return r, func() {}, nil
	}
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return gzReader, func() { gzReader.Close() }, nil
}
