package utils

import "time"

// Application Constants
const (
	AppName    = "SwiftAid"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Rating
	MinRating = 1
	MaxRating = 5

	// Chat
	MaxMessageLength = 1000

	// Requests
	MaxAdditionalInfoLength = 2000
	ActiveRequestCacheTTL   = 15 * time.Minute

	// Redis channel carrying the change-event stream
	EventsChannel = "swiftaid:events"

	// Response status values
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error messages surfaced to API clients.
const (
	ErrMsgValidationFailed = "Validation failed"
	ErrMsgInternalServer   = "Internal server error"
	ErrMsgUnauthorized     = "Authentication required"
	ErrMsgForbidden        = "Access denied"
)
