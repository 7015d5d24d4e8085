// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the fetch and solution stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-supplied Retry-After value.
const maxRetryAfter = time.Minute

const defaultMaxRetries = 3

// ErrBodyTooLarge is returned by ReadBody when the response exceeds the limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Client wraps an http.Client with rate-limit backoff.
type Client struct {
	HTTP *http.Client

	// MaxRetries bounds the number of 429 retries. Zero uses the default (3).
	MaxRetries int

	// Log receives one line per backoff. Nil discards.
	Log io.Writer
}

// Do executes req and retries on HTTP 429 (Too Many Requests). The wait is
// the server's Retry-After value when it sends one in seconds, otherwise
// RetryBaseDelay doubled per attempt. Request bodies are replayed through
// req.GetBody, so POST requests built with http.NewRequest retry safely.
//
// Only 429 is retried; transport errors and every other status are returned
// to the caller unchanged. After exhausting retries the last 429 response is
// returned so the caller can inspect it. A cancelled context during a wait
// returns ctx.Err().
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	log := c.Log
	if log == nil {
		log = io.Discard
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("replaying request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(log, "rate limited by %s, retrying in %v (attempt %d/%d)\n",
			req.URL.Host, wait, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// backoff returns the wait before retry number attempt+1.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > maxRetryAfter {
			d = maxRetryAfter
		}
		return d
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}

// ReadBody reads at most limit bytes from resp.Body and fails with
// ErrBodyTooLarge when more remain.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}
