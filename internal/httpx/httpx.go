// Package httpx is a small retrying HTTP layer shared by every remote call.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPError carries status and body for a non-2xx response so callers can
// decide how to classify it.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 600))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RetryPolicy controls how often and how long Do retries.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy backs off 700ms, 1.4s, 2.8s, ... capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   700 * time.Millisecond,
		MaxDelay:    30 * time.Second,
	}
}

// Do executes the request built by buildReq, retrying transient failures
// (network errors, 429, 5xx). The body is always read in full so the transport can
// reuse the connection. On success it returns the body; on a terminal non-2xx
// it returns an *HTTPError.
func Do(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	pol RetryPolicy,
) ([]byte, error) {
	if pol.MaxAttempts <= 0 {
		pol = DefaultRetryPolicy()
	}
	if pol.BaseDelay <= 0 {
		pol.BaseDelay = 700 * time.Millisecond
	}
	if pol.MaxDelay <= 0 {
		pol.MaxDelay = 30 * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= pol.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if !isRetryableNetErr(err) {
				return nil, err
			}
			lastErr = err
			if err := backoff(ctx, attempt, pol, 0); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := func() ([]byte, error) {
			defer resp.Body.Close()
			return io.ReadAll(resp.Body)
		}()
		if readErr != nil {
			if !isRetryableNetErr(readErr) {
				return nil, readErr
			}
			lastErr = readErr
			if err := backoff(ctx, attempt, pol, 0); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		herr := &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		if !retryableStatus(resp.StatusCode) {
			return nil, herr
		}
		lastErr = herr
		if err := backoff(ctx, attempt, pol, retryAfter(resp)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// DoJSON runs Do and unmarshals the response body into out (skipped when nil).
func DoJSON(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	out any,
	pol RetryPolicy,
) error {
	body, err := Do(ctx, client, buildReq, pol)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json parse error: %w body=%s", err, snippet(body, 600))
	}
	return nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	}
	return code >= 500 && code <= 599
}

func backoff(ctx context.Context, attempt int, pol RetryPolicy, serverHint time.Duration) error {
	sleep := serverHint
	if sleep <= 0 {
		sleep = pol.BaseDelay * time.Duration(1<<(attempt-1))
		if sleep > pol.MaxDelay {
			sleep = pol.MaxDelay
		}
		sleep += time.Duration(rand.Intn(400)) * time.Millisecond
	}

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfter honors a Retry-After header in either seconds or HTTP-date form.
func retryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func isRetryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}
