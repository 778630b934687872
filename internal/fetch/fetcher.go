// Package fetch keeps a local file in sync with a remote resource.
//
// A fetch sends a conditional GET built from the resource's cache record,
// retries transient failures a bounded number of times, and only replaces
// the destination when the downloaded content differs from the content the
// record describes. Checksum equality is the ground truth; the conditional
// headers merely let the origin skip the transfer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/MrSnakeDoc/kegfetch/internal/config"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/record"
	"github.com/MrSnakeDoc/kegfetch/internal/service"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

const (
	headerIfModifiedSince = "If-Modified-Since"
	headerIfNoneMatch     = "If-None-Match"
	headerETag            = "ETag"
	headerUserAgent       = "User-Agent"
)

// RetryEvent describes a pause before another attempt.
type RetryEvent struct {
	Retry  int // 1-based
	Budget int
	Wait   time.Duration
	Err    error
}

// Fetcher runs the conditional fetch protocol against one origin per call.
type Fetcher struct {
	Config     config.Config
	HTTPClient service.HTTPClient

	now     func() time.Time
	onRetry func(RetryEvent)
}

// Option customises a Fetcher built by New.
type Option func(*Fetcher)

// WithClock replaces time.Now for the record's fetch time.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithRetryHook registers a callback invoked before every retry pause.
func WithRetryHook(h func(RetryEvent)) Option {
	return func(f *Fetcher) { f.onRetry = h }
}

// New returns a Fetcher; a nil conf uses the defaults and a nil client is
// built from conf's timeouts.
func New(conf *config.Config, client service.HTTPClient, opts ...Option) *Fetcher {
	if conf == nil {
		def := config.DefaultConfig()
		conf = &def
	}

	if client == nil {
		client = service.NewHTTPClient(conf.ConnectTimeout, conf.ReadTimeout)
	}

	f := &Fetcher{
		Config:     *conf,
		HTTPClient: client,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch brings res.Dest in line with res.URL.
//
// rec describes the last retained download and is updated in place only when
// the outcome is Fetched; the caller is expected to persist it then. On
// Failed the returned error is an *Error, unless ctx was cancelled.
func (f *Fetcher) Fetch(ctx context.Context, res Resource, rec *record.Record) (Outcome, error) {
	if rec == nil {
		rec = &record.Record{}
	}
	if err := res.Validate(); err != nil {
		return Failed, err
	}
	u, err := utils.ParseFetchURL(res.URL)
	if err != nil {
		return Failed, err
	}

	name := filepath.Base(res.Dest)
	headers := conditionalHeaders(*rec)
	logger.Debug("%s: fetching %s (validators: %d, budget: %d)", name, res.URL, len(headers), res.Retries)

	retries := 0
	operation := func() (Outcome, error) {
		return f.attempt(ctx, res, rec, headers, u.Hostname())
	}

	out, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(f.Config.RetryInterval)),
		backoff.WithMaxTries(uint(res.Retries)+1),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			retries++
			logger.Warn("%s: %v, retrying (%d/%d)", name, err, retries, res.Retries)
			if f.onRetry != nil {
				f.onRetry(RetryEvent{Retry: retries, Budget: res.Retries, Wait: wait, Err: err})
			}
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		return Failed, err
	}
	return out, nil
}

func conditionalHeaders(rec record.Record) map[string]string {
	h := make(map[string]string, 2)
	if !rec.Time.IsZero() {
		h[headerIfModifiedSince] = rec.Time.UTC().Format(http.TimeFormat)
	}
	if rec.ETag != "" {
		h[headerIfNoneMatch] = rec.ETag
	}
	return h
}

// attempt performs one request. Errors that must not be retried are wrapped
// with backoff.Permanent.
func (f *Fetcher) attempt(ctx context.Context, res Resource, rec *record.Record, headers map[string]string, host string) (Outcome, error) {
	name := filepath.Base(res.Dest)

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, res.URL, http.NoBody)
	if err != nil {
		return Failed, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if f.Config.UserAgent != "" {
		req.Header.Set(headerUserAgent, f.Config.UserAgent)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Failed, backoff.Permanent(ctx.Err())
		}
		ferr := classifyTransportError(res.URL, host, err)
		if ferr.Retriable() {
			return Failed, ferr
		}
		return Failed, backoff.Permanent(ferr)
	}
	defer utils.Try(resp.Body.Close)

	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		body := newIdleTimeoutReader(resp.Body, f.Config.ReadTimeout, cancel)
		defer body.Stop()

		out, err := f.reconcile(res, rec, resp.Header.Get(headerETag), body)
		if err != nil {
			if ctx.Err() != nil {
				return Failed, backoff.Permanent(ctx.Err())
			}
			var ferr *Error
			if !errors.As(err, &ferr) {
				ferr = classifyBodyError(reqCtx, res.URL, res.Compression, err)
			}
			return Failed, backoff.Permanent(ferr)
		}
		return out, nil

	case code == http.StatusNotModified:
		logger.Info("%s: not modified at %s", name, res.URL)
		return Unchanged, nil

	case code == http.StatusNotFound:
		logger.Warn("%s: not found at %s", name, res.URL)
		return Missing, nil

	default:
		ferr := &Error{
			Kind:       KindProtocol,
			URL:        res.URL,
			StatusCode: code,
			Msg:        fmt.Sprintf("HTTP error %d when downloading %s", code, res.URL),
		}
		if ferr.Retriable() {
			return Failed, ferr
		}
		return Failed, backoff.Permanent(ferr)
	}
}
