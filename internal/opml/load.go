package opml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
	"github.com/pstuifzand/opml-pages/internal/model"
)

// maxDocumentSize caps a loaded document unless Options.MaxSize is set.
const maxDocumentSize = 64 << 20

// Options configure Load.
type Options struct {
	Format Format
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration
	// Retries is the number of extra attempts after a retryable failure.
	Retries int
	Client  *http.Client
	Logger  *slog.Logger
	// MaxSize rejects larger documents; 0 means 64 MiB.
	MaxSize int64
	// Backoff returns the delay before retry attempt n (0-indexed).
	Backoff func(attempt int) time.Duration
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	return Options{
		Format:  FormatAuto,
		Timeout: 30 * time.Second,
		Retries: 3,
	}
}

// Backoff doubles from one second up to 30 seconds and adds up to 50%
// jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second || base <= 0 {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// retryableError marks a fetch failure worth another attempt.
type retryableError struct {
	StatusCode int
	Err        error
}

func (e *retryableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("retryable error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *retryableError) Unwrap() error {
	return e.Err
}

func isRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads and parses the document at source, a file path or an http(s)
// URL. Any failure is an input error naming the source.
func Load(ctx context.Context, source string, opts Options) (*model.Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		data []byte
		name = source
		err  error
	)
	if IsRemote(source) {
		data, err = fetch(ctx, source, opts, logger)
		if u, perr := url.Parse(source); perr == nil {
			name = u.Path
		}
	} else {
		data, err = readFile(source, opts.maxSize())
	}
	if err != nil {
		return nil, perrors.Input(source, err)
	}

	doc, err := Decode(data, opts.Format, name)
	if err != nil {
		return nil, perrors.Input(source, err)
	}
	logger.Debug("Loaded outline", "source", source, "nodes", doc.Count())
	return doc, nil
}

func fetch(ctx context.Context, source string, opts Options, logger *slog.Logger) ([]byte, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	backoff := opts.Backoff
	if backoff == nil {
		backoff = Backoff
	}

	for attempt := 0; ; attempt++ {
		data, err := get(ctx, client, source, opts.maxSize())
		if err == nil {
			return data, nil
		}
		if !isRetryable(err) || attempt >= opts.Retries {
			return nil, err
		}

		delay := backoff(attempt)
		logger.Warn("Fetch failed, retrying", "source", source, "attempt", attempt+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (o Options) maxSize() int64 {
	if o.MaxSize > 0 {
		return o.MaxSize
	}
	return maxDocumentSize
}

var errTooLarge = errors.New("document too large")

func tooLarge(limit int64) error {
	return fmt.Errorf("%w: more than %d bytes", errTooLarge, limit)
}

// readLimited reads r completely, failing instead of truncating when it
// holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, tooLarge(limit)
	}
	return data, nil
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f, limit)
}

func get(ctx context.Context, client *http.Client, source string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/x-opml, application/xml, text/xml, text/plain, */*")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &retryableError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if resp.ContentLength > limit {
		return nil, tooLarge(limit)
	}
	data, err := readLimited(resp.Body, limit)
	if err != nil && !errors.Is(err, errTooLarge) {
		return nil, &retryableError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return data, err
}
