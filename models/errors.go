package models

import "errors"

// Common error types used throughout the neuro admin tooling.
// They give the API, service and database layers a shared vocabulary,
// so the server can map them to status codes and the CLI can report them.

var (
	// ErrNotFound indicates the requested resource does not exist.
	// HTTP equivalent: 404 Not Found
	ErrNotFound = errors.New("resource not found")

	// ErrClusterNotFound indicates the requested cluster does not exist.
	// HTTP equivalent: 404 Not Found
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrUserNotFound indicates the user is not a member of the cluster.
	// HTTP equivalent: 404 Not Found
	ErrUserNotFound = errors.New("cluster user not found")

	// ErrPresetNotFound indicates the named resource preset does not exist.
	// HTTP equivalent: 404 Not Found
	ErrPresetNotFound = errors.New("resource preset not found")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	// HTTP equivalent: 401 Unauthorized
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken indicates the authentication token is malformed or invalid.
	// HTTP equivalent: 401 Unauthorized
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrForbidden indicates the authenticated caller lacks permission for this operation.
	// HTTP equivalent: 403 Forbidden
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidRequest indicates the request body or parameters are invalid.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidName indicates a cluster, user or preset name is malformed.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidCloudType indicates an unsupported cloud provider type.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidCloudType = errors.New("invalid cloud provider type")

	// ErrInvalidRole indicates a role outside admin, manager and user.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidQuota indicates a negative or otherwise malformed quota value.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidQuota = errors.New("invalid quota")

	// ErrInvalidPreset indicates a resource preset violates its constraints.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidPreset = errors.New("invalid resource preset")

	// ErrConflict indicates the resource already exists.
	// HTTP equivalent: 409 Conflict
	ErrConflict = errors.New("resource already exists")

	// ErrClusterExists indicates a cluster with this name already exists.
	// HTTP equivalent: 409 Conflict
	ErrClusterExists = errors.New("cluster already exists")

	// ErrUserExists indicates the user is already a member of the cluster.
	// HTTP equivalent: 409 Conflict
	ErrUserExists = errors.New("cluster user already exists")

	// ErrPresetExists indicates a preset with this name already exists.
	// HTTP equivalent: 409 Conflict
	ErrPresetExists = errors.New("resource preset already exists")

	// ErrPayloadTooLarge indicates the request body exceeds size limits.
	// HTTP equivalent: 413 Payload Too Large
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrRateLimitExceeded indicates too many requests from this client.
	// HTTP equivalent: 429 Too Many Requests
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInternalError indicates an unexpected server-side error.
	// HTTP equivalent: 500 Internal Server Error
	ErrInternalError = errors.New("internal server error")

	// ErrDatabaseError indicates a database operation failed.
	// HTTP equivalent: 500 Internal Server Error
	ErrDatabaseError = errors.New("database error")

	// ErrServiceUnavailable indicates the service is temporarily unavailable.
	// HTTP equivalent: 503 Service Unavailable
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	// Error is a short machine-readable error code
	// Examples: "unauthorized", "not_found", "conflict"
	Error string `json:"error"`

	// Message is the human-readable error message
	Message string `json:"message,omitempty"`

	// RequestID echoes the X-Request-ID of the failed request
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse represents the response for health check endpoints.
type HealthResponse struct {
	// Status is "ok" for liveness and "ready" for readiness
	Status string `json:"status"`

	// InstanceID identifies the server process
	InstanceID string `json:"instance_id"`

	// Database reports storage connectivity on readiness checks
	Database string `json:"database,omitempty"`
}
