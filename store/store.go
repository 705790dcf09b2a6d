// Package store abstracts the remote document database the storefront keeps
// its catalog and orders in. Collections are flat maps of key -> document;
// the production implementation is Cloud Firestore.
package store

import (
	"context"
	"sync"
)

// Collection names used by the storefront.
const (
	CollectionProducts = "products"
	CollectionOrders   = "orders"
	CollectionSettings = "settings"
)

// Record is one document plus the internal key the store filed it under.
type Record struct {
	Key  string
	Data map[string]interface{}
}

// Store is the remote document store collaborator.
type Store interface {
	// List returns every record of a collection, optionally ordered by a
	// field (prefix with "-" for descending, e.g. "-createdAt").
	List(ctx context.Context, collection, orderBy string) ([]Record, error)

	// Get returns a single record or ErrNotFound.
	Get(ctx context.Context, collection, key string) (Record, error)

	// Set creates or replaces the record under a caller-supplied key, which
	// makes retries with the same key idempotent. With merge true, existing
	// fields not present in data are kept.
	Set(ctx context.Context, collection, key string, data map[string]interface{}, merge bool) error

	// Update patches individual fields of an existing record. Fails with
	// ErrNotFound when the key is absent.
	Update(ctx context.Context, collection, key string, fields map[string]interface{}) error

	// Delete removes a record. Deleting an absent key is not an error.
	Delete(ctx context.Context, collection, key string) error

	// Subscribe pushes the full current record set on every change until the
	// returned subscription is cancelled.
	Subscribe(ctx context.Context, collection, orderBy string, fn func([]Record)) (*Subscription, error)
}

// Subscription is a cancellable handle on a Subscribe call. Cancel is
// idempotent, so holders can tear it down unconditionally.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
