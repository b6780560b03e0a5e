// Package common contains shared constants and sentinel errors used across
// DropNShare client components.
package common

// Header names and values attached to every outbound API request.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "

	// RequestedWithHeaderName marks the call as programmatic so the backend
	// answers with JSON instead of redirects or HTML error pages.
	RequestedWithHeaderName  = "X-Requested-With"
	RequestedWithHeaderValue = "XMLHttpRequest"

	ContentTypeJSON        = "application/json"
	ContentTypeOctetStream = "application/octet-stream"
)
