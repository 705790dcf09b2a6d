package orders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarohi-jewels/storefront-api/cart"
	"github.com/aarohi-jewels/storefront-api/checkout"
	"github.com/aarohi-jewels/storefront-api/config"
	"github.com/aarohi-jewels/storefront-api/localcache"
	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
	"github.com/aarohi-jewels/storefront-api/whatsapp"
)

// fakeKV backs both the cart and the order cache in tests.
type fakeKV struct {
	data     map[string][]byte
	watchers map[string][]func()
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte), watchers: make(map[string][]func())}
}

func (f *fakeKV) Get(key string, v interface{}) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (f *fakeKV) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = raw
	for _, fn := range f.watchers[key] {
		fn()
	}
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Watch(key string, fn func()) func() {
	f.watchers[key] = append(f.watchers[key], fn)
	return func() {}
}

var testClock = time.Date(2024, 8, 29, 10, 30, 0, 0, time.UTC)

type fixture struct {
	ctrl  *Controller
	store *store.Memory
	cart  *cart.Store
	cache *localcache.OrderCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	kv := newFakeKV()
	cartStore := cart.New(kv, config.ShippingPolicy{Mode: config.ShippingFlat, FlatFee: 500}, nil)
	t.Cleanup(cartStore.Close)
	cache := localcache.New(kv)

	qr := &whatsapp.Generator{
		UploadDir:     t.TempDir(),
		PublicBaseURL: "http://localhost:8080",
		ServiceURL:    "https://api.qrserver.com/v1/create-qr-code/",
	}
	ctrl := NewController(mem, cartStore, cache, qr, "+91 98765 00000", "INR")
	ctrl.now = func() time.Time { return testClock }
	t.Cleanup(ctrl.Watcher().Stop)

	return &fixture{ctrl: ctrl, store: mem, cart: cartStore, cache: cache}
}

func (f *fixture) addRing(t *testing.T) {
	t.Helper()
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))
}

func goodForm() checkout.Form {
	return checkout.Form{
		Name:    "Asha",
		Mobile:  "9876543210",
		Address: "12 MG Road, Bengaluru",
		Pincode: "560001",
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Submit(context.Background(), goodForm())
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Nothing reached the store.
	records, lerr := f.store.List(context.Background(), store.CollectionOrders, "")
	require.NoError(t, lerr)
	assert.Empty(t, records)
}

func TestSubmitValidationShortCircuits(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)

	form := goodForm()
	form.Mobile = "12345"

	_, err := f.ctrl.Submit(context.Background(), form)
	var verr *checkout.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldNames(), "mobile")

	// The store was never invoked and the cart is untouched.
	records, lerr := f.store.List(context.Background(), store.CollectionOrders, "")
	require.NoError(t, lerr)
	assert.Empty(t, records)
	assert.Len(t, f.cart.Items(), 1)
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)

	result, err := f.ctrl.Submit(context.Background(), goodForm())
	require.NoError(t, err)

	assert.Equal(t, models.NewOrderID(testClock), result.OrderID)
	assert.False(t, result.SavedLocally)
	assert.Contains(t, result.Message, "placed successfully")
	assert.Contains(t, result.HandOff.URL, "https://wa.me/919876500000?text=")

	// The cart was cleared without a confirmation prompt.
	assert.Empty(t, f.cart.Items())

	// The order landed under its business id with the right totals.
	record, err := f.store.Get(context.Background(), store.CollectionOrders, result.OrderID)
	require.NoError(t, err)
	var order models.Order
	require.NoError(t, store.Decode(record.Data, &order))
	assert.Equal(t, 2000.0, order.Subtotal)
	assert.Equal(t, 500.0, order.Shipping)
	assert.Equal(t, 2500.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Contains(t, order.WhatsAppMessage, "Total: ₹2,500")
}

func TestSubmitRetryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)

	first, err := f.ctrl.Submit(context.Background(), goodForm())
	require.NoError(t, err)

	// Same cart, same frozen clock: the retry lands on the same key.
	f.addRing(t)
	second, err := f.ctrl.Submit(context.Background(), goodForm())
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, second.OrderID)

	records, err := f.store.List(context.Background(), store.CollectionOrders, "")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubmitUnavailableStoreParksLocally(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)
	f.store.ForceError(store.ErrUnavailable)

	result, err := f.ctrl.Submit(context.Background(), goodForm())
	require.NoError(t, err)
	assert.True(t, result.SavedLocally)
	assert.Contains(t, result.Message, "saved locally")
	assert.NotEmpty(t, result.HandOff.URL)

	cached := f.cache.List()
	require.Len(t, cached, 1)
	assert.True(t, cached[0].LocalOnly)
	assert.NotEmpty(t, cached[0].SyncError)
	assert.Equal(t, result.OrderID, cached[0].OrderID)

	// The cart survives so the customer can retry once connectivity returns.
	assert.Len(t, f.cart.Items(), 1)
}

func TestSubmitMalformedPayloadNotCached(t *testing.T) {
	f := newFixture(t)
	// The literal string "undefined" in a field is rejected by the store's
	// write path and must never be parked locally.
	require.NoError(t, f.cart.AddItem(models.Product{ID: "p1", Name: "undefined", Price: 100}))

	_, err := f.ctrl.Submit(context.Background(), goodForm())
	require.Error(t, err)
	assert.True(t, store.IsMalformed(err))
	assert.Empty(t, f.cache.List())
}

func TestSubmitPermissionErrorSurfaced(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)
	f.store.ForceError(store.ErrPermission)

	_, err := f.ctrl.Submit(context.Background(), goodForm())
	require.Error(t, err)
	assert.True(t, store.IsPermission(err))
	assert.Empty(t, f.cache.List())
	assert.Len(t, f.cart.Items(), 1)
}

func TestSubmitUnknownErrorWrapped(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)
	f.store.ForceError(errors.New("disk on fire"))

	_, err := f.ctrl.Submit(context.Background(), goodForm())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to place order")
	assert.Empty(t, f.cache.List())
}

func TestSubmitReentrancyGuard(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)

	// Simulate a second submit arriving while the first holds the guard.
	require.True(t, f.ctrl.submitting.CompareAndSwap(false, true))
	_, err := f.ctrl.Submit(context.Background(), goodForm())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	f.ctrl.submitting.Store(false)

	// With the guard released the same submission goes through.
	_, err = f.ctrl.Submit(context.Background(), goodForm())
	assert.NoError(t, err)
}

func TestSubmitStartsSyncWatcher(t *testing.T) {
	f := newFixture(t)
	f.addRing(t)

	synced := make(chan string, 1)
	f.ctrl.watcher = NewWatcher(f.store, func(orderID string) { synced <- orderID })

	result, err := f.ctrl.Submit(context.Background(), goodForm())
	require.NoError(t, err)

	// The order is already in the subscribed collection, so the watcher
	// fires on its initial snapshot and tears itself down.
	select {
	case id := <-synced:
		assert.Equal(t, result.OrderID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the order as synced")
	}
	assert.Eventually(t, func() bool { return f.ctrl.watcher.Watching() == "" },
		2*time.Second, 10*time.Millisecond)
}
