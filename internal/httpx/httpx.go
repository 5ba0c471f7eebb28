// Package httpx is the shared HTTP plumbing for the Canvas and Moodle
// clients: bounded retries with backoff, full body reads so connections
// are reused, and a status-carrying error type the adapters classify.
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

// StatusError carries status and body for non-2xx responses so the
// adapter layer can classify without re-reading the wire.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body))
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 400 {
		return s[:400] + "..."
	}
	return s
}

// RetryConfig controls retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
	}
}

// Do executes the request built by buildReq, retrying 5xx/429/transient
// network failures up to cfg.MaxAttempts. The body is always drained.
func Do(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	cfg RetryConfig,
) ([]byte, error) {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if !retryableNetErr(err) || attempt == cfg.MaxAttempts {
				return nil, err
			}
			lastErr = err
			if err := sleepBackoff(ctx, attempt, cfg, 0); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		serr := &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}

		if !retryableStatus(resp.StatusCode) || attempt == cfg.MaxAttempts {
			return body, serr
		}
		lastErr = serr
		if err := sleepBackoff(ctx, attempt, cfg, retryAfter(resp)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// DoJSON runs Do and unmarshals the response body into out.
func DoJSON(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	out any,
	cfg RetryConfig,
) error {
	body, err := Do(ctx, client, buildReq, cfg)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w body=%s", err, snippet(body))
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

func retryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe")
}

func sleepBackoff(ctx context.Context, attempt int, cfg RetryConfig, after time.Duration) error {
	sleep := after
	if sleep <= 0 {
		sleep = cfg.BaseDelay * time.Duration(1<<(attempt-1))
		if sleep > cfg.MaxDelay {
			sleep = cfg.MaxDelay
		}
		sleep += time.Duration(rand.Intn(200)) * time.Millisecond
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

// retryAfter parses the Retry-After header (seconds or HTTP date).
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
