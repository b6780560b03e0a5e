// Package client talks to the DropNShare backend over HTTP/JSON.
//
// # Overview
//
// The package provides:
//  1. The request executor (see Executor and Execute): builds one request,
//     attaches the programmatic-request marker and the stored bearer token,
//     and folds every outcome (transport failure, non-JSON body, HTTP error
//     status, success) into a Result value. It never panics and never retries.
//  2. The endpoint contract (see the Client interface) for register, login,
//     current user, logout and upload, with HTTPClient as its implementation.
//  3. A streaming multipart encoder (see Form) for file uploads.
//
// # Error Handling
//
// Failures are data: Result.Error carries a human-readable message and
// Result.Status the HTTP status, or 0 when no response arrived. Result.Err
// converts a failed result into a *RequestError, which unwraps to
// ErrUnavailable (status 0) or ErrUnauthorized (401/403) for errors.Is.
//
// # Concurrency & Contexts
//
// Executor and HTTPClient are safe for concurrent use. Every call takes a
// context.Context; the executor adds no timeout of its own.
package client
