package models

import "time"

// Event types
const (
	EventTypeOrderSubmitted       = "ORDER_SUBMITTED"
	EventTypeOrderStatusChanged   = "ORDER_STATUS_CHANGED"
	EventTypePaymentStatusChanged = "PAYMENT_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent published when a customer checks out
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID      int64       `json:"order_id"`
	CustomerName string      `json:"customer_name"`
	TotalAmount  int64       `json:"total_amount"`
	Items        []OrderLine `json:"items"`
}

// OrderStatusChangedEvent published when staff move an order through its lifecycle
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    int64  `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// PaymentStatusChangedEvent published when an order's payment field changes
type PaymentStatusChangedEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}
