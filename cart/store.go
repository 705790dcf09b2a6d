// Package cart owns the shopping cart: the persisted item list, its mutation
// API and the derived totals every display surface reads from.
package cart

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/aarohi-jewels/storefront-api/config"
	"github.com/aarohi-jewels/storefront-api/models"
)

// PersistKey is the logical key the cart lives under in local storage.
const PersistKey = "cart"

// Persister is the slice of local storage the cart needs. Satisfied by
// *localstore.Store.
type Persister interface {
	Get(key string, v interface{}) (bool, error)
	Put(key string, v interface{}) error
	Watch(key string, fn func()) (cancel func())
}

// ConfirmFunc asks the user to confirm a destructive action. Destructive
// cart operations only proceed on an explicit true.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Store is the single source of truth for the cart. Two instances reading
// the same persisted key stay consistent through change notifications:
// whichever wrote last is authoritative.
type Store struct {
	kv       Persister
	shipping config.ShippingPolicy
	confirm  ConfirmFunc

	mu        sync.Mutex
	items     []models.CartItem
	selfWrite atomic.Bool
	unwatch   func()
}

// New builds a cart store over the given persistence. confirm may be nil,
// in which case Clear refuses rather than guessing.
func New(kv Persister, shipping config.ShippingPolicy, confirm ConfirmFunc) *Store {
	s := &Store{kv: kv, shipping: shipping, confirm: confirm}
	s.unwatch = kv.Watch(PersistKey, func() {
		if s.selfWrite.Load() {
			return
		}
		s.reload()
	})
	s.reload()
	return s
}

// Close stops listening for external cart changes.
func (s *Store) Close() {
	if s.unwatch != nil {
		s.unwatch()
	}
}

// reload re-reads the persisted cart, normalizing ids and dropping malformed
// lines rather than corrupting in-memory state.
func (s *Store) reload() {
	var loaded []models.CartItem
	ok, err := s.kv.Get(PersistKey, &loaded)
	if err != nil {
		log.Printf("❌ Failed to load cart: %v", err)
		return
	}

	var items []models.CartItem
	if ok {
		for _, item := range loaded {
			if item.Quantity < 1 || item.Price < 0 {
				continue
			}
			item.ID = NormalizeID(item.ID)
			items = append(items, item)
		}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *Store) persist(items []models.CartItem) {
	s.selfWrite.Store(true)
	defer s.selfWrite.Store(false)
	if err := s.kv.Put(PersistKey, items); err != nil {
		log.Printf("❌ Failed to persist cart: %v", err)
	}
}

// AddItem puts one unit of a product in the cart. Adding an id already
// present increments its quantity instead of creating a second line.
func (s *Store) AddItem(p models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("cart: product has no name")
	}
	if p.Price < 0 {
		return fmt.Errorf("cart: product price is negative")
	}
	id := NormalizeID(p.ID)

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item := models.CartItem{
			ID:       id,
			Name:     p.Name,
			Price:    p.Price,
			ImageURL: p.ImageURL,
			Quantity: 1,
		}
		if p.Category != "" || p.Material != "" {
			item.Extra = map[string]string{}
			if p.Category != "" {
				item.Extra["category"] = p.Category
			}
			if p.Material != "" {
				item.Extra["material"] = p.Material
			}
		}
		s.items = append(s.items, item)
	}
	items := s.copyLocked()
	s.mu.Unlock()

	s.persist(items)
	return nil
}

// RemoveItem drops a line from the cart. Removing an absent id is a no-op.
func (s *Store) RemoveItem(rawID interface{}) {
	id := NormalizeID(rawID)

	s.mu.Lock()
	kept := s.items[:0]
	changed := false
	for _, item := range s.items {
		if item.ID == id {
			changed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	items := s.copyLocked()
	s.mu.Unlock()

	if changed {
		s.persist(items)
	}
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Negative input is treated as removal too; fractional
// input is truncated before it reaches this method.
func (s *Store) UpdateQuantity(rawID interface{}, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(rawID)
		return
	}
	id := NormalizeID(rawID)

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			changed = true
			break
		}
	}
	items := s.copyLocked()
	s.mu.Unlock()

	if changed {
		s.persist(items)
	}
}

// Clear empties the cart after explicit confirmation. An already-empty cart
// returns immediately without prompting. The boolean reports whether the
// cart was actually cleared.
func (s *Store) Clear(ctx context.Context) (bool, error) {
	s.mu.Lock()
	empty := len(s.items) == 0
	s.mu.Unlock()
	if empty {
		return false, nil
	}

	if s.confirm == nil {
		return false, fmt.Errorf("cart: no confirmation collaborator configured")
	}
	ok, err := s.confirm(ctx, "Clear all items from your cart?")
	if err != nil {
		return false, fmt.Errorf("cart: confirm clear: %w", err)
	}
	if !ok {
		return false, nil
	}

	s.ForceClear()
	return true, nil
}

// ForceClear empties the cart without confirmation. Used after a successful
// order submission.
func (s *Store) ForceClear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.persist([]models.CartItem{})
}

// Items returns a copy of the cart lines in display order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Totals derives the item count and total price. Empty cart totals are zero.
func (s *Store) Totals() models.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t models.CartTotals
	for _, item := range s.items {
		t.ItemCount += item.Quantity
		t.TotalPrice += item.LineTotal()
	}
	return t
}

// Snapshot freezes the cart for checkout: items, subtotal, the shipping fee
// per policy, and the grand total. The caller owns the returned value; later
// cart mutations do not touch it.
func (s *Store) Snapshot() models.CheckoutSnapshot {
	s.mu.Lock()
	items := s.copyLocked()
	s.mu.Unlock()

	snap := models.CheckoutSnapshot{Items: items}
	for _, item := range items {
		snap.ItemCount += item.Quantity
		snap.Subtotal += item.LineTotal()
	}
	snap.Shipping = s.shipping.Fee(snap.Subtotal)
	snap.Total = snap.Subtotal + snap.Shipping
	return snap
}

func (s *Store) copyLocked() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}
