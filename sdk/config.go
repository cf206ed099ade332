package sdk

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ClientConfig contains the configuration for creating a new SDK client.
type ClientConfig struct {
	// BaseURL is the admin API endpoint (e.g., "https://platform.example.com")
	BaseURL string

	// Token is the bearer token sent with every authenticated request.
	Token string

	// HTTPClient is the HTTP client to use for requests.
	// Optional: if nil, a default client with reasonable timeouts will be created.
	HTTPClient *http.Client

	// RetryAttempts is the number of times to retry failed requests.
	// Default: 3. A negative value disables retries.
	RetryAttempts int

	// RetryWaitMin is the minimum wait time between retries.
	// Default: 1 second
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait time between retries.
	// Default: 30 seconds
	RetryWaitMax time.Duration

	// Timeout is the HTTP request timeout.
	// Default: 30 seconds
	Timeout time.Duration

	// UserAgent is sent in the User-Agent header.
	// Default: "neuro-admin-sdk"
	UserAgent string

	// Logger receives request and retry diagnostics.
	// Optional: if nil, logging is disabled.
	Logger *zap.Logger
}

// Validate checks if the client configuration is valid and sets defaults.
func (c *ClientConfig) Validate() error {
	base := strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base URL must start with http:// or https://", ErrInvalidConfig)
	}
	c.BaseURL = base

	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}

	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}
	if c.RetryWaitMin == 0 {
		c.RetryWaitMin = 1 * time.Second
	}
	if c.RetryWaitMax == 0 {
		c.RetryWaitMax = 30 * time.Second
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		return fmt.Errorf("%w: retry wait max must not be below retry wait min", ErrInvalidConfig)
	}

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "neuro-admin-sdk"
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return nil
}
