// Package cache stores fetched evidence responses keyed by URL so replay
// related tooling can work against previously seen pages.
package cache

import "context"

// Store is the evidence response cache. Values are opaque envelopes
// owned by the evidence fetcher.
type Store interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, value []byte) error
	Delete(ctx context.Context, url string) error
	// Keys lists every cached URL; used by the cache admin verbs.
	Keys(ctx context.Context) ([]string, error)
}
