package gateway

import (
	"io"
	"net/http"
	"time"
)

// RetryPolicy controls retries for outbound gateway calls. Only server
// errors (5xx) and network failures are retried; a 4xx is the caller's
// fault and retrying will not change it. Delays grow as base * 2^attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep is overridable in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

// DoWithRetry performs an HTTP request up to MaxAttempts times. The
// request is rebuilt for each attempt so bodies can be replayed. Any
// response below 500 is returned immediately. When every attempt yields
// a 5xx, the last response is returned as-is for the caller to inspect;
// when every attempt fails at the network level, the last error is
// returned.
func DoWithRetry(client *http.Client, build func() (*http.Request, error), policy RetryPolicy) (*http.Response, error) {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err == nil {
			if resp.StatusCode < http.StatusInternalServerError || attempt == policy.MaxAttempts {
				return resp, nil
			}
			// Server error with attempts left: discard and retry
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = nil
		} else {
			if attempt == policy.MaxAttempts {
				return nil, err
			}
			lastErr = err
		}

		sleep(policy.BaseDelay * (1 << attempt))
	}

	return nil, lastErr
}
