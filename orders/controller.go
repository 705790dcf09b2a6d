// Package orders orchestrates the order lifecycle: checkout submission with
// local fallback, identifier resolution against the remote store, the
// post-submission sync watcher and the admin operations.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/aarohi-jewels/storefront-api/cart"
	"github.com/aarohi-jewels/storefront-api/checkout"
	"github.com/aarohi-jewels/storefront-api/localcache"
	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
	"github.com/aarohi-jewels/storefront-api/whatsapp"
)

var (
	// ErrEmptyCart blocks submission before anything touches the store.
	ErrEmptyCart = errors.New("orders: cart is empty")
	// ErrSubmitInProgress: a submit arrived while one was running. Dropped,
	// not queued.
	ErrSubmitInProgress = errors.New("orders: a submission is already in progress")
)

// Controller drives the submission pipeline and the admin order operations.
type Controller struct {
	store    store.Store
	cart     *cart.Store
	cache    *localcache.OrderCache
	qr       *whatsapp.Generator
	phone    string
	currency string

	now        func() time.Time
	submitting atomic.Bool
	watcher    *Watcher
}

func NewController(st store.Store, cartStore *cart.Store, cache *localcache.OrderCache, qr *whatsapp.Generator, phone, currency string) *Controller {
	c := &Controller{
		store:    st,
		cart:     cartStore,
		cache:    cache,
		qr:       qr,
		phone:    phone,
		currency: currency,
		now:      time.Now,
	}
	c.watcher = NewWatcher(st, func(orderID string) {
		log.Printf("✅ Order %s visible in remote store", orderID)
	})
	return c
}

// SubmitResult is what the checkout page needs after a submission attempt
// that did not error out entirely.
type SubmitResult struct {
	OrderID      string           `json:"orderId"`
	SavedLocally bool             `json:"savedLocally"`
	Message      string           `json:"message"`
	HandOff      whatsapp.HandOff `json:"handoff"`
}

// Submit runs the whole pipeline: snapshot, validate, build, store, hand
// off. Failures are classified at this boundary; nothing propagates raw.
//
// The in-progress guard is advisory (all mutation happens on one logical
// flow of control) but still drops double-submit events outright.
func (c *Controller) Submit(ctx context.Context, form checkout.Form) (SubmitResult, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return SubmitResult{}, ErrSubmitInProgress
	}
	defer c.submitting.Store(false)

	// 1. Snapshot first; an empty cart never reaches validation.
	snap := c.cart.Snapshot()
	if snap.ItemCount == 0 {
		return SubmitResult{}, ErrEmptyCart
	}

	// 2. Validate the form. The store is not invoked on failure.
	customer, verr := checkout.Validate(form)
	if verr != nil {
		return SubmitResult{}, verr
	}

	// 3. Build the immutable payload.
	order := checkout.BuildOrder(snap, customer, c.currency, c.now())

	// 4. Create-or-replace keyed by the business id, so a retried
	// submission overwrites instead of duplicating.
	doc, err := store.Encode(order)
	if err == nil {
		err = c.store.Set(ctx, store.CollectionOrders, order.OrderID, doc, false)
	}

	if err != nil {
		return c.classifySubmitFailure(order, err)
	}

	// 5. Success: clear the cart, watch for the order to appear in the
	// subscribed collection, and hand the order off to WhatsApp.
	c.cart.ForceClear()
	if werr := c.watcher.Start(context.Background(), order.OrderID); werr != nil {
		log.Printf("⚠️ Could not start sync watcher for %s: %v", order.OrderID, werr)
	}

	return SubmitResult{
		OrderID: order.OrderID,
		Message: fmt.Sprintf("Order %s placed successfully", order.OrderID),
		HandOff: c.qr.ForLink(whatsapp.Link(c.phone, order.WhatsAppMessage), order.OrderID),
	}, nil
}

// classifySubmitFailure sorts a storage failure into its outcome. Only connectivity
// failures park the order locally; a malformed payload would fail the same
// way again and is surfaced instead.
func (c *Controller) classifySubmitFailure(order models.Order, err error) (SubmitResult, error) {
	switch {
	case store.IsMalformed(err):
		log.Printf("❌ Order %s rejected as malformed: %v", order.OrderID, err)
		return SubmitResult{}, fmt.Errorf("order data is invalid and cannot be saved: %w", err)

	case store.IsUnavailable(err):
		order.LocalOnly = true
		order.SyncError = err.Error()
		c.cache.CacheOrder(order)
		log.Printf("⚠️ Store unreachable, order %s parked locally: %v", order.OrderID, err)
		return SubmitResult{
			OrderID:      order.OrderID,
			SavedLocally: true,
			Message:      fmt.Sprintf("Order %s saved locally and will sync once connectivity returns", order.OrderID),
			HandOff:      c.qr.ForLink(whatsapp.Link(c.phone, order.WhatsAppMessage), order.OrderID),
		}, nil

	case store.IsPermission(err):
		log.Printf("❌ Order %s rejected by access control: %v", order.OrderID, err)
		return SubmitResult{}, err

	default:
		log.Printf("❌ Order %s submission failed: %v", order.OrderID, err)
		return SubmitResult{}, fmt.Errorf("failed to place order: %w", err)
	}
}

// Watcher exposes the sync watcher, mainly for shutdown.
func (c *Controller) Watcher() *Watcher {
	return c.watcher
}
