package cart

import (
	"fmt"
	"io"
	"log"

	"github.com/aarohi-jewels/storefront-api/models"
)

// Surface is one place the cart is displayed: the sidebar, the desktop
// checkout summary, the mobile summary. Surfaces are optional and
// independently wireable; a failing surface never takes the others down.
type Surface interface {
	Name() string
	RenderCart(snap models.CheckoutSnapshot) error
}

// Renderer projects cart state onto every registered surface. The snapshot
// is taken from the store at render time, never cached, so all surfaces show
// identical totals for identical cart state.
type Renderer struct {
	store    *Store
	surfaces []Surface
}

func NewRenderer(store *Store, surfaces ...Surface) *Renderer {
	r := &Renderer{store: store}
	for _, s := range surfaces {
		r.Attach(s)
	}
	return r
}

// Attach registers a surface. Nil surfaces are ignored so callers can wire
// optional surfaces unconditionally.
func (r *Renderer) Attach(s Surface) {
	if s == nil {
		return
	}
	r.surfaces = append(r.surfaces, s)
}

// Render pushes the current cart state to every surface.
func (r *Renderer) Render() {
	snap := r.store.Snapshot()
	for _, s := range r.surfaces {
		if err := s.RenderCart(snap); err != nil {
			log.Printf("❌ Cart surface %s failed to render: %v", s.Name(), err)
		}
	}
}

// TextSurface writes a plain-text cart summary, the same projection the
// WhatsApp message and the CLI debug output use.
type TextSurface struct {
	Label  string
	Writer io.Writer
	Format func(amount float64) string
}

func (t *TextSurface) Name() string { return t.Label }

func (t *TextSurface) RenderCart(snap models.CheckoutSnapshot) error {
	if t.Writer == nil {
		return fmt.Errorf("no writer attached")
	}
	format := t.Format
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}

	if len(snap.Items) == 0 {
		_, err := fmt.Fprintln(t.Writer, "Your cart is empty")
		return err
	}

	for _, item := range snap.Items {
		if _, err := fmt.Fprintf(t.Writer, "%s x%d = %s\n", item.Name, item.Quantity, format(item.LineTotal())); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(t.Writer, "Subtotal: %s\nShipping: %s\nTotal: %s\n",
		format(snap.Subtotal), format(snap.Shipping), format(snap.Total))
	return err
}
