// Package metadata is a small name/value store for terminal state that
// does not belong to a synced entity: cached credentials for offline
// login, the active session, schema bookkeeping.
package metadata

import "context"

type Repository interface {
	// Get returns (nil, nil) when the name was never set.
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}
