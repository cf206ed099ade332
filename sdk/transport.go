package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// zapLeveledLogger adapts a zap logger to retryablehttp.LeveledLogger.
type zapLeveledLogger struct {
	log *zap.SugaredLogger
}

func (l zapLeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}

// newRetryClient builds the retrying transport used for every request.
// It retries network errors and 5xx responses with exponential backoff and jitter.
func newRetryClient(cfg ClientConfig) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cfg.HTTPClient
	rc.RetryMax = cfg.RetryAttempts
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.Backoff = jitterBackoff
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = giveUp
	rc.Logger = retryablehttp.LeveledLogger(zapLeveledLogger{log: cfg.Logger.Sugar()})
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			cfg.Logger.Debug("retrying request",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt),
			)
		}
	}
	return rc
}

// giveUp runs once retries are exhausted. A final response is returned as is,
// so its status and error body reach the caller; otherwise the last error is wrapped.
func giveUp(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}

// methodKey carries the request method into checkRetry, which only sees the context.
type methodKey struct{}

func withMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, methodKey{}, method)
}

// idempotent reports whether the request in ctx can be repeated without
// changing the outcome. Unknown methods are treated as unsafe.
func idempotent(ctx context.Context) bool {
	switch ctx.Value(methodKey{}) {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// checkRetry retries connection failures and 5xx responses.
// 429 is returned to the caller as ErrRateLimited instead of being retried.
// POST and PATCH are only retried when the connection could not be opened,
// since the server may already have applied a request whose response was lost.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	if !idempotent(ctx) && (resp != nil || !isDialError(err)) {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// jitterBackoff calculates the wait before a retry attempt.
// Exponential backoff (min * 2^attempt) capped at max, with full jitter to
// avoid synchronized retries from many clients.
func jitterBackoff(min, max time.Duration, attempt int, _ *http.Response) time.Duration {
	backoff := float64(min) * math.Pow(2, float64(attempt))
	if backoff > float64(max) {
		backoff = float64(max)
	}
	return time.Duration(rand.Float64() * backoff)
}

// drainAndCloseBody reads and closes the response body to ensure connection reuse.
func drainAndCloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
