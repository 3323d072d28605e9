// Package settings persists small client settings, such as the API key,
// in the local SQLite database.
package settings

import (
	"context"
)

// KeyAPIKey stores the credential used against the server API.
const KeyAPIKey = "api_key"

type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
