package client

import (
	"context"
	"encoding/json"
)

// Client is the backend's wire contract as seen by the session manager and
// the upload service.
type Client interface {
	Register(ctx context.Context, payload RegisterPayload) Result[AuthResponse]
	Login(ctx context.Context, payload LoginPayload) Result[AuthResponse]
	Me(ctx context.Context) Result[MeResponse]
	Logout(ctx context.Context) Result[LogoutResponse]
	Upload(ctx context.Context, files []UploadFile) Result[UploadResponse]
}

type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body of a successful login or registration. Both
// fields stay raw: the user goes through models.Normalize and the token is
// read with AccessToken.
type AuthResponse struct {
	Token json.RawMessage `json:"token"`
	User  json.RawMessage `json:"user"`
}

// AccessToken returns the token when it is a non-empty JSON string.
func (r *AuthResponse) AccessToken() string {
	if r == nil || len(r.Token) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Token, &s); err != nil {
		return ""
	}
	return s
}

// HasUser reports whether a non-null user object was present.
func (r *AuthResponse) HasUser() bool {
	return r != nil && len(r.User) > 0 && string(r.User) != "null"
}

type MeResponse struct {
	User json.RawMessage `json:"user"`
}

type LogoutResponse struct {
	Message string `json:"message,omitempty"`
}

// UploadFile is one local file to send. Name and MIMEType are optional.
type UploadFile struct {
	Path     string
	Name     string
	MIMEType string
}

type UploadResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}
