package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/dropnshare/internal/client/tokenstore"
	"github.com/dmitrijs2005/dropnshare/internal/common"
	"github.com/dmitrijs2005/dropnshare/internal/logging"
	"github.com/google/uuid"
)

// Options describe a single request.
type Options struct {
	// Method defaults to GET.
	Method string
	// Header values are applied last and override the defaults, except
	// Content-Type on multipart requests.
	Header map[string]string
	// JSON is marshalled as the request body when Form is nil.
	JSON any
	// Form switches the request to multipart/form-data.
	Form *Form
}

// Executor issues requests against a fixed base endpoint.
type Executor struct {
	baseURL string
	http    *http.Client
	tokens  tokenstore.Store
	log     logging.Logger
}

// NewExecutor builds an executor. A nil httpClient means http.DefaultClient.
func NewExecutor(baseURL string, httpClient *http.Client, tokens tokenstore.Store, log logging.Logger) *Executor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Executor{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
}

// BaseURL returns the configured endpoint without a trailing slash.
func (e *Executor) BaseURL() string {
	return e.baseURL
}

// URL joins path onto the base endpoint, ignoring leading and trailing
// slashes in path.
func (e *Executor) URL(path string) string {
	return e.baseURL + "/" + strings.Trim(path, "/")
}

type rawResponse struct {
	status     int
	statusText string
	body       []byte
}

func (r *rawResponse) ok() bool {
	return r.status >= 200 && r.status < 300
}

// Execute performs the request and normalizes the response into a Result.
// It does not retry; every failure is returned in Result.Error.
func Execute[T any](ctx context.Context, e *Executor, path string, opts Options) Result[T] {
	log := e.log.With("request_id", uuid.NewString(), "path", path)

	resp, err := e.send(ctx, log, path, opts)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		msg := err.Error()
		if msg == "" {
			msg = "Network error"
		}
		return Result[T]{Error: msg, Status: 0}
	}

	text := string(resp.body)
	log.Debug(ctx, "response", "status", resp.status, "ok", resp.ok(), "bytes", len(resp.body))

	var parsed any
	if len(resp.body) > 0 {
		if parsed, err = decodeLoose(resp.body); err != nil {
			log.Debug(ctx, "response is not JSON", "status", resp.status, "error", err)
			return Result[T]{Error: firstNonEmpty(text, resp.statusText, "Request failed"), Status: resp.status}
		}
	}

	var data *T
	if len(resp.body) > 0 {
		var v T
		if err := json.Unmarshal(resp.body, &v); err == nil {
			data = &v
		} else {
			log.Debug(ctx, "response does not match expected shape", "status", resp.status, "error", err)
		}
	}

	if !resp.ok() {
		msg := errorMessage(parsed, text, resp.statusText)
		log.Debug(ctx, "error response", "status", resp.status, "message", msg)
		return Result[T]{Data: data, Error: msg, Status: resp.status}
	}

	return Result[T]{Data: data, Status: resp.status}
}

func (e *Executor) send(ctx context.Context, log logging.Logger, path string, opts Options) (*rawResponse, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	url := e.URL(path)

	header := http.Header{}
	if opts.Form == nil {
		header.Set("Content-Type", common.ContentTypeJSON)
		header.Set("Accept", common.ContentTypeJSON)
	}
	header.Set(common.RequestedWithHeaderName, common.RequestedWithHeaderValue)

	token, hasToken := e.tokens.Get(ctx)
	if hasToken {
		header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	var body io.Reader
	switch {
	case opts.Form != nil:
		r, contentType := opts.Form.reader()
		defer r.Close()
		body = r
		header.Set("Content-Type", contentType)
	case opts.JSON != nil:
		b, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	for k, v := range opts.Header {
		if opts.Form != nil && http.CanonicalHeaderKey(k) == "Content-Type" {
			continue
		}
		header.Set(k, v)
	}

	log.Debug(ctx, "request", "method", method, "url", url, "has_body", body != nil, "has_token", hasToken)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header = header

	res, err := e.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &rawResponse{status: res.StatusCode, statusText: statusText(res), body: b}, nil
}

func statusText(res *http.Response) string {
	if t := http.StatusText(res.StatusCode); t != "" {
		return t
	}
	return strings.TrimSpace(strings.TrimPrefix(res.Status, fmt.Sprint(res.StatusCode)))
}

// decodeLoose parses body as a single JSON value, keeping numbers as
// json.Number.
func decodeLoose(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
