package models

// CartItem is a single line in the shopping cart. The core fields are fixed;
// anything else a product carries travels in the Extra bag so the persisted
// shape stays explicit.
type CartItem struct {
	ID       string            `json:"id"` // canonical identifier, see cart.NormalizeID
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	ImageURL string            `json:"imageUrl"`
	Quantity int               `json:"quantity"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// LineTotal is price times quantity for this line.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotals are the derived sums shown on every cart surface.
type CartTotals struct {
	ItemCount  int     `json:"itemCount"`
	TotalPrice float64 `json:"totalPrice"`
}

// CheckoutSnapshot is an immutable view of the cart taken at checkout time.
type CheckoutSnapshot struct {
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Shipping  float64    `json:"shipping"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}
