package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

type OrderStatus string

const (
	// Order statuses (typical flow for a WhatsApp-confirmed order)
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Confirmed over WhatsApp
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the item
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before shipping
)

// ParseOrderStatus maps a raw string to an OrderStatus.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusConfirmed):
		return OrderStatusConfirmed, nil
	case string(OrderStatusShipped):
		return OrderStatusShipped, nil
	case string(OrderStatusDelivered):
		return OrderStatusDelivered, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Customer holds the checkout form fields after validation.
type Customer struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
	Email   string `json:"email,omitempty"`
}

// OrderItem is an immutable line of a placed order.
type OrderItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	ChangedAt time.Time   `json:"changedAt"`
	ChangedBy string      `json:"changedBy"`
}

// Order is a document in the `orders` collection. OrderID is the business
// identifier printed on the WhatsApp message; DocKey is whatever internal key
// the remote store filed the document under. The two usually match but are
// allowed to diverge, which is why update/delete resolve by either.
type Order struct {
	OrderID         string         `json:"orderId"`
	DocKey          string         `json:"docKey,omitempty"`
	Status          OrderStatus    `json:"status"`
	Currency        string         `json:"currency"`
	Subtotal        float64        `json:"subtotal"`
	Shipping        float64        `json:"shipping"`
	Total           float64        `json:"total"`
	ItemCount       int            `json:"itemCount"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Customer        Customer       `json:"customer"`
	Items           []OrderItem    `json:"items"`
	StatusHistory   []StatusChange `json:"statusHistory"`
	WhatsAppMessage string         `json:"whatsappMessage"`

	// Set only on entries parked in the local fallback cache.
	LocalOnly bool   `json:"_localOnly,omitempty"`
	SyncError string `json:"_syncError,omitempty"`
}

// NewOrderID generates the human-readable business identifier, e.g.
// "ORD-1693305600000". Generated once at build time and never mutated.
func NewOrderID(at time.Time) string {
	return "ORD-" + strconv.FormatInt(at.UnixMilli(), 10)
}

// EffectiveDate is the timestamp the fallback cache sorts by, newest first.
func (o Order) EffectiveDate() time.Time {
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt
	}
	return o.UpdatedAt
}

// MatchesID reports whether id refers to this order by either identifier.
func (o Order) MatchesID(id string) bool {
	return id != "" && (o.OrderID == id || o.DocKey == id)
}
