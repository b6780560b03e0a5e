// Package metadata stores small key/value records (auth token, timestamps)
// in the client's local database.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value string) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
