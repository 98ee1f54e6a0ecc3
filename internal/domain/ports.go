package domain

import "context"

// DocumentStore is the persistence port: named collections of JSON-like documents.
type DocumentStore interface {
	// Ready reports ErrServiceUnavailable when no connection was established.
	Ready() error
	Driver() string

	Insert(ctx context.Context, collection string, doc any) (string, error)
	// InsertManyIfEmpty writes docs only when the collection holds no documents,
	// atomically with respect to other callers. It returns the number inserted.
	InsertManyIfEmpty(ctx context.Context, collection string, docs []any) (int, error)

	Count(ctx context.Context, collection string) (int64, error)
	// Find decodes matching documents, in stored order, into out (a pointer to a slice).
	Find(ctx context.Context, collection string, f Filter, out any) error
	Collections(ctx context.Context) ([]string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}
