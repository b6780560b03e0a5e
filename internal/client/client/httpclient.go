package client

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
)

// Endpoint paths relative to the API base URL.
const (
	PathRegister = "/auth/register"
	PathLogin    = "/auth/login"
	PathMe       = "/auth/me"
	PathLogout   = "/auth/logout"
	PathUpload   = "/upload"

	// UploadField is the repeated multipart field carrying files.
	UploadField = "files[]"
)

// HTTPClient implements Client on top of an Executor.
type HTTPClient struct {
	exec *Executor
}

func NewHTTPClient(exec *Executor) *HTTPClient {
	return &HTTPClient{exec: exec}
}

func (c *HTTPClient) Register(ctx context.Context, payload RegisterPayload) Result[AuthResponse] {
	return Execute[AuthResponse](ctx, c.exec, PathRegister, Options{Method: http.MethodPost, JSON: payload})
}

func (c *HTTPClient) Login(ctx context.Context, payload LoginPayload) Result[AuthResponse] {
	return Execute[AuthResponse](ctx, c.exec, PathLogin, Options{Method: http.MethodPost, JSON: payload})
}

func (c *HTTPClient) Me(ctx context.Context) Result[MeResponse] {
	return Execute[MeResponse](ctx, c.exec, PathMe, Options{Method: http.MethodGet})
}

func (c *HTTPClient) Logout(ctx context.Context) Result[LogoutResponse] {
	return Execute[LogoutResponse](ctx, c.exec, PathLogout, Options{Method: http.MethodPost})
}

func (c *HTTPClient) Upload(ctx context.Context, files []UploadFile) Result[UploadResponse] {
	form := NewForm()
	for i, f := range files {
		form.AddFilePath(UploadField, uploadName(f, i), f.MIMEType, f.Path)
	}
	return Execute[UploadResponse](ctx, c.exec, PathUpload, Options{Method: http.MethodPost, Form: form})
}

// uploadName prefers the explicit name, then the base name of the path,
// then a positional placeholder.
func uploadName(f UploadFile, i int) string {
	if f.Name != "" {
		return f.Name
	}
	if base := filepath.Base(f.Path); f.Path != "" && base != "." && base != string(filepath.Separator) {
		return base
	}
	return fmt.Sprintf("file_%d", i)
}
