package client

// Result is the uniform outcome of one API call.
//
// Callers check Error first. Status 0 means no HTTP response was received.
// Data can be set alongside Error when the server sent a JSON error body.
type Result[T any] struct {
	Data   *T
	Error  string
	Status int
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Error == ""
}

// Err returns nil on success and a *RequestError otherwise.
func (r Result[T]) Err() error {
	if r.Error == "" {
		return nil
	}
	return &RequestError{Status: r.Status, Message: r.Error}
}
