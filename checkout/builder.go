package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/aarohi-jewels/storefront-api/models"
)

// BuildOrder turns a validated cart snapshot and customer into the immutable
// order payload. Pure given the clock: identical inputs with the same `at`
// produce identical orders. The order id is generated here, from `at`, and
// never regenerated afterwards.
func BuildOrder(snap models.CheckoutSnapshot, customer models.Customer, currency string, at time.Time) models.Order {
	orderID := models.NewOrderID(at)

	items := make([]models.OrderItem, len(snap.Items))
	for i, ci := range snap.Items {
		items[i] = models.OrderItem{
			ID:        ci.ID,
			Name:      ci.Name,
			Price:     ci.Price,
			Quantity:  ci.Quantity,
			LineTotal: ci.LineTotal(),
		}
	}

	order := models.Order{
		OrderID:       orderID,
		DocKey:        orderID, // direct submissions file under the business id
		Status:        models.OrderStatusPending,
		Currency:      currency,
		Subtotal:      snap.Subtotal,
		Shipping:      snap.Shipping,
		Total:         snap.Total,
		ItemCount:     snap.ItemCount,
		CreatedAt:     at,
		UpdatedAt:     at,
		Customer:      customer,
		Items:         items,
		StatusHistory: []models.StatusChange{{Status: models.OrderStatusPending, ChangedAt: at, ChangedBy: "customer"}},
	}
	order.WhatsAppMessage = HandOffMessage(order)
	return order
}

// HandOffMessage formats the human-readable order text carried by the
// WhatsApp deep link.
func HandOffMessage(o models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*New Order %s*\n\n", o.OrderID)
	fmt.Fprintf(&b, "Name: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Mobile: %s\n", o.Customer.Mobile)
	fmt.Fprintf(&b, "Address: %s\n", o.Customer.Address)
	fmt.Fprintf(&b, "Pincode: %s\n", o.Customer.Pincode)
	email := o.Customer.Email
	if email == "" {
		email = "Not provided"
	}
	fmt.Fprintf(&b, "Email: %s\n\n", email)

	b.WriteString("*Items:*\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s x%d = %s\n", item.Name, item.Quantity, FormatINR(item.LineTotal))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", FormatINR(o.Subtotal))
	fmt.Fprintf(&b, "Shipping: %s\n", FormatINR(o.Shipping))
	fmt.Fprintf(&b, "Total: %s\n", FormatINR(o.Total))

	return b.String()
}
