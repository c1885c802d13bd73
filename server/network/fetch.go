// Package network dereferences ActivityStreams links over HTTP.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tkrehbiel/smacktivity/server/activity"
	"github.com/tkrehbiel/smacktivity/server/telemetry"
)

// Fetcher retrieves the object a URL points at.
type Fetcher interface {
	Fetch(ctx context.Context, u *activity.IRI) (*activity.Object, error)
}

// FetchError is any failure to turn a URL into an Object: connecting,
// a non-2xx status, or a body that isn't an Object.
type FetchError struct {
	URL        string
	StatusCode int // zero unless the server answered
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("fetching %s: http status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrBodyTooLarge means the response was longer than Options.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 1 << 20
	DefaultUserAgent    = "smacktivity"
)

// Options tune the HTTP fetcher. Zero values fall back to the defaults.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Accept       string
}

// HTTPFetcher fetches objects with a GET asking for the ActivityStreams profile.
type HTTPFetcher struct {
	client  *http.Client
	options Options
}

func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Accept == "" {
		opts.Accept = activity.ContentTypeLD
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		options: opts,
	}
}

// Fetch blocks until the remote server answers, the client times out, or ctx is done.
func (f *HTTPFetcher) Fetch(ctx context.Context, u *activity.IRI) (*activity.Object, error) {
	id := u.String()
	telemetry.Increment(telemetry.Fetches, 1)

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, id, nil)
	if err != nil {
		return nil, f.fail(&FetchError{URL: id, Err: err})
	}
	r.Header.Set("Accept", f.options.Accept)
	r.Header.Set("User-Agent", f.options.UserAgent)

	telemetry.Request(r, "fetching")
	resp, err := f.client.Do(r)
	if err != nil {
		return nil, f.fail(&FetchError{URL: id, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4000))
		return nil, f.fail(&FetchError{URL: id, StatusCode: resp.StatusCode})
	}

	jsonBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.options.MaxBodyBytes+1))
	if err != nil {
		return nil, f.fail(&FetchError{URL: id, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response bytes: %w", err)})
	}
	if int64(len(jsonBytes)) > f.options.MaxBodyBytes {
		return nil, f.fail(&FetchError{URL: id, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, f.options.MaxBodyBytes)})
	}

	obj, err := activity.Parse(jsonBytes)
	if err != nil {
		return nil, f.fail(&FetchError{URL: id, StatusCode: resp.StatusCode, Err: fmt.Errorf("unmarshaling json: %w", err)})
	}
	telemetry.Trace("fetched %s %s", obj.Type, id)
	return obj, nil
}

func (f *HTTPFetcher) fail(err *FetchError) error {
	telemetry.Increment(telemetry.FetchErrors, 1)
	return err
}
