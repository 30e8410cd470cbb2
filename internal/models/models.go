package models

import (
	"encoding/json"
	"time"
)

// CatalogItem represents a product in the storefront catalog
type CatalogItem struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Price       int64     `db:"price" json:"price"`
	OnSale      bool      `db:"on_sale" json:"on_sale"`
	OfferPrice  *int64    `db:"offer_price" json:"offer_price,omitempty"`
	Weight      string    `db:"weight" json:"weight,omitempty"`
	Stock       *int      `db:"stock" json:"stock,omitempty"`
	HasVariants bool      `db:"has_variants" json:"has_variants"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Variant is a selectable presentation of a catalog item. When selected it
// overrides the parent's price and weight, never its name or category.
type Variant struct {
	ID         int64  `db:"id" json:"id"`
	ItemID     int64  `db:"item_id" json:"item_id"`
	Name       string `db:"name" json:"name"`
	Price      int64  `db:"price" json:"price"`
	OfferPrice *int64 `db:"offer_price" json:"offer_price,omitempty"`
	Weight     string `db:"weight" json:"weight,omitempty"`
	Active     bool   `db:"active" json:"active"`
}

// OrderLine is the canonical shape of a line item persisted with an order.
// Prices are captured at add-time and never re-resolved.
type OrderLine struct {
	ItemID     int64  `json:"item_id"`
	VariantID  int64  `json:"variant_id,omitempty"`
	Name       string `json:"name"`
	Weight     string `json:"weight,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	OfferPrice int64  `json:"offer_price,omitempty"`
	Discounted bool   `json:"discounted,omitempty"`
}

// EffectivePrice returns the price actually charged per unit.
func (l OrderLine) EffectivePrice() int64 {
	if l.Discounted {
		return l.OfferPrice
	}
	return l.UnitPrice
}

// Order represents a submitted customer order.
// Historical rows may carry line items in older field spellings; Items holds
// the raw JSON and is decoded through analytics.NormalizeLines.
type Order struct {
	ID            int64           `db:"id" json:"id"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	Items         json.RawMessage `db:"items" json:"items"`
	TotalAmount   int64           `db:"total_amount" json:"total_amount"`
	Discount      int64           `db:"discount" json:"discount,omitempty"`
	Status        string          `db:"status" json:"status"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Order statuses
const (
	OrderStatusNew        = "new"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// CanTransition reports whether an order may move from one lifecycle status
// to another. Progression is one-way: new -> processing -> delivered, with
// cancelled reachable from new or processing. Delivered and cancelled are
// terminal.
func CanTransition(from, to string) bool {
	switch from {
	case OrderStatusNew:
		return to == OrderStatusProcessing || to == OrderStatusCancelled
	case OrderStatusProcessing:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	default:
		return false
	}
}

// ValidPaymentStatus reports whether s is a recognized payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}
