// Package sdk is a Go client for the platform admin API.
//
// It manages clusters, cluster users and their quotas, and the resource
// presets offered on each cluster. Every call takes a context, retries
// transient failures and returns *APIError for non-2xx responses.
package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is the SDK client for the admin API.
// It is safe for concurrent use.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *retryablehttp.Client
	logger    *zap.Logger
}

// NewClient creates a new SDK client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   config.BaseURL,
		token:     config.Token,
		userAgent: config.UserAgent,
		http:      newRetryClient(config),
		logger:    config.Logger,
	}, nil
}

// BaseURL returns the normalized admin API endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the server's error envelope.
type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// doRequest performs an HTTP request with retries and returns the response for 2xx statuses.
// Any other status is converted into *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, authType AuthType) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(withMethod(ctx, method), method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := c.addHeaders(req.Request, authType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.logger.Debug("admin api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.parseErrorResponse(resp, requestID)
	}
	return resp, nil
}

// parseErrorResponse converts a failed response into *APIError.
func (c *Client) parseErrorResponse(resp *http.Response, requestID string) error {
	defer drainAndCloseBody(resp)

	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body errorBody
	if json.Unmarshal(data, &body) == nil && (body.Error != "" || body.Message != "") {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		if body.RequestID != "" {
			apiErr.RequestID = body.RequestID
		}
		return apiErr
	}

	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/plain") {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

// doJSONRequest marshals reqBody, performs the request and decodes the response into respBody.
// Either body may be nil.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var body []byte
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = data
	}

	resp, err := c.doRequest(ctx, method, path, body, AuthTypeBearer)
	if err != nil {
		return err
	}
	defer drainAndCloseBody(resp)

	if respBody == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// Ping checks that the admin API is reachable and ready. It does not authenticate.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health/ready", nil, AuthTypeNone)
	if err != nil {
		return err
	}
	drainAndCloseBody(resp)
	return nil
}

func clusterAdminPath(cluster string) string {
	return "/apis/admin/v1/clusters/" + url.PathEscape(cluster)
}

func clusterUserPath(cluster, user string) string {
	return clusterAdminPath(cluster) + "/users/" + url.PathEscape(user)
}

func clusterAPIPath(cluster string) string {
	return "/api/v1/clusters/" + url.PathEscape(cluster)
}
