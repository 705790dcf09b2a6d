package orderControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarohi-jewels/storefront-api/cart"
	"github.com/aarohi-jewels/storefront-api/config"
	"github.com/aarohi-jewels/storefront-api/localcache"
	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/orders"
	"github.com/aarohi-jewels/storefront-api/store"
	"github.com/aarohi-jewels/storefront-api/whatsapp"
)

type fakeKV struct {
	data map[string][]byte
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
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Watch(key string, fn func()) func() { return func() {} }

type orderFixture struct {
	router *gin.Engine
	store  *store.Memory
	cart   *cart.Store
	ctrl   *orders.Controller
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	kv := &fakeKV{data: make(map[string][]byte)}
	cartStore := cart.New(kv, config.ShippingPolicy{Mode: config.ShippingFlat, FlatFee: 500}, nil)
	t.Cleanup(cartStore.Close)

	qr := &whatsapp.Generator{
		UploadDir:     t.TempDir(),
		PublicBaseURL: "http://localhost:8080",
		ServiceURL:    "https://api.qrserver.com/v1/create-qr-code/",
	}
	ctrl := orders.NewController(mem, cartStore, localcache.New(kv), qr, "919876500000", "INR")
	t.Cleanup(ctrl.Watcher().Stop)

	r := gin.New()
	r.POST("/checkout/submit", SubmitOrderHandler(ctrl))
	r.GET("/admin/orders", GetAllOrdersHandler(ctrl))
	r.GET("/admin/orders/:orderID", GetOrderByIDHandler(ctrl))
	r.PUT("/admin/orders/:orderID/status", UpdateOrderStatusHandler(ctrl))
	r.DELETE("/admin/orders/:orderID", DeleteOrderHandler(ctrl))

	return &orderFixture{router: r, store: mem, cart: cartStore, ctrl: ctrl}
}

func (f *orderFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func goodSubmitBody() gin.H {
	return gin.H{
		"name":    "Asha",
		"mobile":  "9876543210",
		"address": "12 MG Road, Bengaluru",
		"pincode": "560001",
	}
}

func TestSubmitOrderSuccess(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))

	w := f.do(http.MethodPost, "/checkout/submit", goodSubmitBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OrderID string `json:"orderId"`
		Mode    string `json:"mode"`
		HandOff struct {
			URL string `json:"url"`
		} `json:"handoff"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, "qr", resp.Mode)
	assert.Contains(t, resp.HandOff.URL, "https://wa.me/919876500000")
	assert.Empty(t, f.cart.Items())
}

func TestSubmitOrderTouchModeRedirects(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))

	body := goodSubmitBody()
	body["touch"] = true
	w := f.do(http.MethodPost, "/checkout/submit", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"redirect"`)
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(http.MethodPost, "/checkout/submit", goodSubmitBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")
}

func TestSubmitOrderValidationFailure(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))

	body := goodSubmitBody()
	body["mobile"] = "12345"
	w := f.do(http.MethodPost, "/checkout/submit", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mobile number must be exactly 10 digits", resp.Error)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "mobile", resp.Fields[0].Field)
}

func TestSubmitOrderUnavailableStoreStillSucceeds(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))
	f.store.ForceError(store.ErrUnavailable)

	w := f.do(http.MethodPost, "/checkout/submit", goodSubmitBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"savedLocally":true`)
}

func TestSubmitOrderMalformedPayload(t *testing.T) {
	f := newOrderFixture(t)
	// A literal "undefined" value is rejected on the store's write path and
	// reported as bad data, not as an upstream failure.
	require.NoError(t, f.cart.AddItem(models.Product{ID: "p1", Name: "undefined", Price: 100}))

	w := f.do(http.MethodPost, "/checkout/submit", goodSubmitBody())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid")
}

func TestSubmitOrderPermissionDenied(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))
	f.store.ForceError(store.ErrPermission)

	w := f.do(http.MethodPost, "/checkout/submit", goodSubmitBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderAdminLifecycle(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.cart.AddItem(models.Product{ID: "ring-1", Name: "Gold Ring", Price: 1000}))

	w := f.do(http.MethodPost, "/checkout/submit", goodSubmitBody())
	require.Equal(t, http.StatusOK, w.Code)
	var submitted struct {
		OrderID string `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))

	// List
	w = f.do(http.MethodGet, "/admin/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), submitted.OrderID)

	// Fetch by business id
	w = f.do(http.MethodGet, "/admin/orders/"+submitted.OrderID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Move it along
	w = f.do(http.MethodPut, "/admin/orders/"+submitted.OrderID+"/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/admin/orders/"+submitted.OrderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Len(t, order.StatusHistory, 2)

	// Delete
	w = f.do(http.MethodDelete, "/admin/orders/"+submitted.OrderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodGet, "/admin/orders/"+submitted.OrderID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(http.MethodPut, "/admin/orders/ORD-1/status", gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(http.MethodGet, "/admin/orders/ORD-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
