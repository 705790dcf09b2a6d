package orders

import (
	"context"
	"sync"

	"github.com/aarohi-jewels/storefront-api/store"
)

// Watcher observes the orders collection after a submission until the
// expected business id shows up, then tears its subscription down. At most
// one watcher is live at a time: starting a new one cancels the previous
// subscription first, so repeated checkouts never leak observers.
type Watcher struct {
	store    store.Store
	onSynced func(orderID string)

	mu      sync.Mutex
	sub     *store.Subscription
	orderID string
}

func NewWatcher(st store.Store, onSynced func(orderID string)) *Watcher {
	return &Watcher{store: st, onSynced: onSynced}
}

// Start begins watching for orderID. Any previous watch is cancelled.
func (w *Watcher) Start(ctx context.Context, orderID string) error {
	w.Stop()

	// The subscription may push the current record set before Subscribe
	// returns, so completion is signalled through a channel rather than by
	// touching the handle from inside the callback.
	done := make(chan struct{})
	var once sync.Once
	markDone := func() { once.Do(func() { close(done) }) }

	sub, err := w.store.Subscribe(ctx, store.CollectionOrders, "", func(records []store.Record) {
		for _, r := range records {
			if r.Key == orderID || stringField(r.Data, "orderId") == orderID {
				markDone()
				return
			}
		}
	})
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.sub = sub
	w.orderID = orderID
	w.mu.Unlock()

	go func() {
		select {
		case <-done:
			w.clear(sub)
			if w.onSynced != nil {
				w.onSynced(orderID)
			}
		case <-ctx.Done():
			w.clear(sub)
		}
	}()
	return nil
}

// Stop cancels the active watch, if any. Safe to call repeatedly.
func (w *Watcher) Stop() {
	w.mu.Lock()
	sub := w.sub
	w.sub = nil
	w.orderID = ""
	w.mu.Unlock()
	sub.Cancel()
}

// Watching reports the business id currently being watched, empty if none.
func (w *Watcher) Watching() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orderID
}

func (w *Watcher) clear(sub *store.Subscription) {
	sub.Cancel()
	w.mu.Lock()
	if w.sub == sub {
		w.sub = nil
		w.orderID = ""
	}
	w.mu.Unlock()
}

func stringField(data map[string]interface{}, field string) string {
	s, _ := data[field].(string)
	return s
}
