package sdk

import (
	"net/http"

	"github.com/google/uuid"
)

// Header names exchanged with the admin API.
const (
	// HeaderAuthorization carries the bearer token.
	HeaderAuthorization = "Authorization"

	// HeaderRequestID correlates a request with server logs.
	HeaderRequestID = "X-Request-ID"
)

// AuthType represents the type of authentication to use for a request.
type AuthType int

const (
	// AuthTypeNone indicates no authentication headers should be added.
	AuthTypeNone AuthType = iota

	// AuthTypeBearer sends the configured token as a bearer credential.
	AuthTypeBearer
)

// addHeaders sets the per-request headers and returns the generated request id.
func (c *Client) addHeaders(req *http.Request, authType AuthType) string {
	if authType == AuthTypeBearer {
		req.Header.Set(HeaderAuthorization, "Bearer "+c.token)
	}
	id := uuid.NewString()
	req.Header.Set(HeaderRequestID, id)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return id
}
