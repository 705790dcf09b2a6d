package localcache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarohi-jewels/storefront-api/models"
)

type fakeKV struct {
	data map[string][]byte
	fail bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Get(key string, v interface{}) (bool, error) {
	if f.fail {
		return false, errors.New("medium unavailable")
	}
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (f *fakeKV) Put(key string, v interface{}) error {
	if f.fail {
		return errors.New("medium unavailable")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeKV) Delete(key string) error {
	if f.fail {
		return errors.New("medium unavailable")
	}
	delete(f.data, key)
	return nil
}

func orderAt(orderID, docKey string, at time.Time) models.Order {
	return models.Order{
		OrderID:   orderID,
		DocKey:    docKey,
		Status:    models.OrderStatusPending,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

var base = time.Date(2024, 8, 29, 12, 0, 0, 0, time.UTC)

func TestCacheOrderAndList(t *testing.T) {
	c := New(newFakeKV())

	c.CacheOrder(orderAt("ORD-1", "", base))

	orders := c.List()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-1", orders[0].OrderID)
}

func TestCacheOrderDeduplicates(t *testing.T) {
	c := New(newFakeKV())

	first := orderAt("ORD-1", "doc-a", base)
	c.CacheOrder(first)

	replacement := orderAt("ORD-1", "doc-a", base)
	replacement.Status = models.OrderStatusConfirmed
	c.CacheOrder(replacement)

	orders := c.List()
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusConfirmed, orders[0].Status)
}

func TestCacheOrderDeduplicatesByInternalKey(t *testing.T) {
	c := New(newFakeKV())

	c.CacheOrder(orderAt("ORD-1", "doc-a", base))

	// Same document re-cached under its internal key only.
	replacement := orderAt("doc-a", "doc-a", base)
	c.CacheOrder(replacement)

	assert.Len(t, c.List(), 1)
}

func TestCacheSortedNewestFirst(t *testing.T) {
	c := New(newFakeKV())

	c.CacheOrder(orderAt("ORD-old", "", base.AddDate(0, 0, -2)))
	c.CacheOrder(orderAt("ORD-new", "", base))
	c.CacheOrder(orderAt("ORD-mid", "", base.AddDate(0, 0, -1)))

	orders := c.List()
	require.Len(t, orders, 3)
	assert.Equal(t, "ORD-new", orders[0].OrderID)
	assert.Equal(t, "ORD-mid", orders[1].OrderID)
	assert.Equal(t, "ORD-old", orders[2].OrderID)
}

func TestPatchByEitherIdentifier(t *testing.T) {
	c := New(newFakeKV())
	c.CacheOrder(orderAt("ORD-1", "doc-a", base))

	c.Patch("doc-a", map[string]interface{}{"status": "shipped"})
	assert.Equal(t, models.OrderStatusShipped, c.List()[0].Status)

	c.Patch("ORD-1", map[string]interface{}{"status": "delivered"})
	assert.Equal(t, models.OrderStatusDelivered, c.List()[0].Status)
}

func TestPatchUnknownIDIgnored(t *testing.T) {
	c := New(newFakeKV())
	c.CacheOrder(orderAt("ORD-1", "", base))

	c.Patch("ORD-other", map[string]interface{}{"status": "shipped"})
	assert.Equal(t, models.OrderStatusPending, c.List()[0].Status)
}

func TestRemoveByEitherIdentifier(t *testing.T) {
	c := New(newFakeKV())
	c.CacheOrder(orderAt("ORD-1", "doc-a", base))
	c.CacheOrder(orderAt("ORD-2", "doc-b", base))

	c.Remove("doc-a")
	orders := c.List()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-2", orders[0].OrderID)

	c.Remove("ORD-2")
	assert.Empty(t, c.List())
}

func TestClear(t *testing.T) {
	c := New(newFakeKV())
	c.CacheOrder(orderAt("ORD-1", "", base))

	c.Clear()
	assert.Empty(t, c.List())
}

func TestDegradedMediumIsANoOp(t *testing.T) {
	kv := newFakeKV()
	kv.fail = true
	c := New(kv)

	// None of these may panic or propagate the failure.
	c.CacheOrder(orderAt("ORD-1", "", base))
	c.Patch("ORD-1", map[string]interface{}{"status": "shipped"})
	c.Remove("ORD-1")
	c.Clear()
	assert.Empty(t, c.List())
}
