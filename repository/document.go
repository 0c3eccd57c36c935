package repository

import "context"

// DocumentStore persists each CMS collection as one JSON document under a
// fixed key. There are no transactions and no schema; Put always overwrites.
type DocumentStore interface {
	// Get returns domain.ErrDocumentNotFound when the key was never written.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
