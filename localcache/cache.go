// Package localcache keeps a durable local copy of orders for the moments
// the remote store is unreachable, and mirrors remote updates/deletes so
// offline admin views stay consistent.
package localcache

import (
	"log"
	"sort"

	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
)

// PersistKey is the logical key the cache lives under in local storage.
const PersistKey = "order_backup"

// Persister is the slice of local storage the cache needs. Satisfied by
// *localstore.Store.
type Persister interface {
	Get(key string, v interface{}) (bool, error)
	Put(key string, v interface{}) error
	Delete(key string) error
}

// OrderCache is the local fallback store for orders. Every operation
// degrades to a logged no-op when the persistence medium is unavailable;
// the cache must never take the checkout flow down with it.
type OrderCache struct {
	kv Persister
}

func New(kv Persister) *OrderCache {
	return &OrderCache{kv: kv}
}

func (c *OrderCache) load() []models.Order {
	var orders []models.Order
	if _, err := c.kv.Get(PersistKey, &orders); err != nil {
		log.Printf("❌ Failed to read order cache: %v", err)
		return nil
	}
	return orders
}

func (c *OrderCache) save(orders []models.Order) {
	if err := c.kv.Put(PersistKey, orders); err != nil {
		log.Printf("❌ Failed to persist order cache: %v", err)
	}
}

// CacheOrder stores an order locally. Any existing entry sharing the
// business id or the internal key is replaced, and the cache stays sorted
// newest-first by effective date.
func (c *OrderCache) CacheOrder(order models.Order) {
	orders := c.load()

	kept := orders[:0]
	for _, o := range orders {
		if o.MatchesID(order.OrderID) || (order.DocKey != "" && o.MatchesID(order.DocKey)) {
			continue
		}
		kept = append(kept, o)
	}
	kept = append(kept, order)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].EffectiveDate().After(kept[j].EffectiveDate())
	})

	c.save(kept)
}

// List returns the cached orders, newest first.
func (c *OrderCache) List() []models.Order {
	return c.load()
}

// Patch merges fields into the cached entry matching either identifier.
// Unknown ids are ignored; the remote store is the authority.
func (c *OrderCache) Patch(id string, fields map[string]interface{}) {
	orders := c.load()
	changed := false
	for i := range orders {
		if !orders[i].MatchesID(id) {
			continue
		}
		doc, err := store.Encode(orders[i])
		if err != nil {
			log.Printf("❌ Failed to patch cached order %s: %v", id, err)
			return
		}
		for k, v := range fields {
			doc[k] = v
		}
		var patched models.Order
		if err := store.Decode(doc, &patched); err != nil {
			log.Printf("❌ Failed to patch cached order %s: %v", id, err)
			return
		}
		orders[i] = patched
		changed = true
		break
	}
	if changed {
		c.save(orders)
	}
}

// Remove drops the cached entry matching either identifier.
func (c *OrderCache) Remove(id string) {
	orders := c.load()
	kept := orders[:0]
	changed := false
	for _, o := range orders {
		if o.MatchesID(id) {
			changed = true
			continue
		}
		kept = append(kept, o)
	}
	if changed {
		c.save(kept)
	}
}

// Clear erases the cache entirely.
func (c *OrderCache) Clear() {
	if err := c.kv.Delete(PersistKey); err != nil {
		log.Printf("❌ Failed to clear order cache: %v", err)
	}
}
