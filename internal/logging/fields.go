package logging

// Standard field names for consistent logging across the CLI and the server.
const (
	FieldCluster    = "cluster"
	FieldUser       = "user"
	FieldRole       = "role"
	FieldPreset     = "preset"
	FieldCloudType  = "cloud_type"
	FieldCommand    = "command"
	FieldRequestID  = "request_id"
	FieldDuration   = "duration_ms"
	FieldStatusCode = "status_code"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldRemoteAddr = "remote_addr"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldComponent  = "component"
)
