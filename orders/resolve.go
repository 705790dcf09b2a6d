package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
)

// resolveKey finds the internal store key for an id that may be either the
// internal key or the business orderId. Direct access is tried first; on
// not-found the collection is scanned for a matching orderId field. This is
// what lets admin actions keyed by "ORD-…" reach documents the store filed
// under its own key.
func (c *Controller) resolveKey(ctx context.Context, id string) (string, error) {
	_, err := c.store.Get(ctx, store.CollectionOrders, id)
	if err == nil {
		return id, nil
	}
	if !store.IsNotFound(err) {
		return "", err
	}

	records, lerr := c.store.List(ctx, store.CollectionOrders, "")
	if lerr != nil {
		return "", lerr
	}
	for _, r := range records {
		if stringField(r.Data, "orderId") == id {
			return r.Key, nil
		}
	}
	return "", fmt.Errorf("order %s: %w", id, store.ErrNotFound)
}

// ListOrders returns all orders newest first. When the remote store is
// unreachable it falls back to the local cache; the boolean reports whether
// the fallback was used.
func (c *Controller) ListOrders(ctx context.Context) ([]models.Order, bool, error) {
	records, err := c.store.List(ctx, store.CollectionOrders, "-createdAt")
	if err != nil {
		if store.IsUnavailable(err) {
			log.Printf("⚠️ Store unreachable, serving orders from local cache: %v", err)
			return c.cache.List(), true, nil
		}
		return nil, false, err
	}

	orders := make([]models.Order, 0, len(records))
	for _, r := range records {
		var o models.Order
		if derr := store.Decode(r.Data, &o); derr != nil {
			log.Printf("❌ Skipping undecodable order %s: %v", r.Key, derr)
			continue
		}
		o.DocKey = r.Key
		orders = append(orders, o)
	}
	return orders, false, nil
}

// GetOrder fetches one order by either identifier.
func (c *Controller) GetOrder(ctx context.Context, id string) (models.Order, error) {
	key, err := c.resolveKey(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	record, err := c.store.Get(ctx, store.CollectionOrders, key)
	if err != nil {
		return models.Order{}, err
	}
	var o models.Order
	if err := store.Decode(record.Data, &o); err != nil {
		return models.Order{}, err
	}
	o.DocKey = record.Key
	return o, nil
}

// UpdateStatus moves an order to a new status, appending to its status
// history. The change is mirrored into the local cache afterwards.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, changedBy string) error {
	key, err := c.resolveKey(ctx, id)
	if err != nil {
		return err
	}
	current, err := c.GetOrder(ctx, key)
	if err != nil {
		return err
	}

	now := c.now()
	history := append(current.StatusHistory, models.StatusChange{
		Status:    status,
		ChangedAt: now,
		ChangedBy: changedBy,
	})
	historyDoc, err := store.Encode(struct {
		StatusHistory []models.StatusChange `json:"statusHistory"`
	}{history})
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"status":        string(status),
		"statusHistory": historyDoc["statusHistory"],
		"updatedAt":     now.Format(time.RFC3339Nano),
	}
	if err := c.store.Update(ctx, store.CollectionOrders, key, fields); err != nil {
		return err
	}

	c.cache.Patch(id, fields)
	return nil
}

// UpdateOrder patches arbitrary fields of an order by either identifier and
// mirrors the patch locally.
func (c *Controller) UpdateOrder(ctx context.Context, id string, fields map[string]interface{}) error {
	key, err := c.resolveKey(ctx, id)
	if err != nil {
		return err
	}
	if err := c.store.Update(ctx, store.CollectionOrders, key, fields); err != nil {
		return err
	}
	c.cache.Patch(id, fields)
	return nil
}

// DeleteOrder removes an order by either identifier, remotely first and
// then from the local cache.
func (c *Controller) DeleteOrder(ctx context.Context, id string) error {
	key, err := c.resolveKey(ctx, id)
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, store.CollectionOrders, key); err != nil {
		return err
	}
	c.cache.Remove(id)
	c.cache.Remove(key)
	return nil
}
