// Package metadata is the CLI's local key/value store. It keeps the
// current session between runs.
package metadata

import (
	"context"
)

// Repository reads and writes string values by key. Get returns
// common.ErrorNotFound for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
