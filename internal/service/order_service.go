package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/message"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidTransition is returned when a status update would violate the
// order lifecycle. The order is left unchanged.
var ErrInvalidTransition = errors.New("invalid order status transition")

// ErrInvalidPaymentStatus is returned for unrecognized payment status values.
var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// OrderService handles checkout, order lifecycle and export
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	resolver       *pricing.Resolver
	formatter      *message.Formatter
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	eventPublisher *broker.EventPublisher,
	resolver *pricing.Resolver,
	formatter *message.Formatter,
) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		resolver:       resolver,
		formatter:      formatter,
		logger:         util.GetLogger(),
	}
}

// CheckoutRequest represents a cart submitted at checkout
type CheckoutRequest struct {
	CustomerName string                `json:"customer_name" binding:"required"`
	Notes        string                `json:"notes"`
	Items        []CheckoutItemRequest `json:"items" binding:"required,min=1"`
	Paid         bool                  `json:"paid"`
}

// CheckoutItemRequest represents one cart slot in a checkout
type CheckoutItemRequest struct {
	ItemID    int64 `json:"item_id" binding:"required"`
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CheckoutResponse represents the response after checkout
type CheckoutResponse struct {
	OrderID     int64  `json:"order_id"`
	TotalAmount int64  `json:"total_amount"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	HandoffURL  string `json:"handoff_url,omitempty"`
}

// Checkout resolves prices for the submitted cart, persists the order and
// publishes OrderSubmitted. The returned message is the plain-text payload
// for the messaging-app handoff; URL-encoding is left to the transport.
func (s *OrderService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	c, err := s.buildCart(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	lines := c.Lines()
	items, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	order := &models.Order{
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
		Items:         items,
		TotalAmount:   c.Total(),
		Status:        models.OrderStatusNew,
		PaymentStatus: models.PaymentStatusPending,
	}
	if req.Paid {
		order.PaymentStatus = models.PaymentStatusPaid
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersSubmittedTotal.Inc()
	s.logger.Info("Order submitted",
		zap.Int64("order_id", order.ID),
		zap.Int64("total_amount", order.TotalAmount))

	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		Items:        lines,
	}

	if err := s.eventPublisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}

	text := s.formatter.FormatMessage(req.CustomerName, lines, req.Notes)

	return &CheckoutResponse{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Message:     text,
		HandoffURL:  s.formatter.HandoffLink(text),
	}, nil
}

// buildCart resolves the submitted slots against the catalog into a priced
// cart, capturing unit prices in submission order. Catalog items are fetched
// in one batch.
func (s *OrderService) buildCart(ctx context.Context, items []CheckoutItemRequest) (*cart.Cart, error) {
	itemIDs := make([]int64, len(items))
	for i, req := range items {
		itemIDs[i] = req.ItemID
	}

	catalogItems, err := s.store.GetCatalogItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	itemMap, err := indexCatalogItems(catalogItems, itemIDs)
	if err != nil {
		return nil, err
	}

	c := cart.New(s.resolver)

	for _, req := range items {
		item := itemMap[req.ItemID]

		var variant *models.Variant
		if req.VariantID != 0 {
			variant, err = s.store.GetVariantByID(ctx, req.VariantID)
			if err != nil {
				return nil, err
			}
			if variant.ItemID != item.ID {
				return nil, fmt.Errorf("variant %d does not belong to item %d", variant.ID, item.ID)
			}
		}

		if err := c.AddLine(item, variant, req.Quantity); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// indexCatalogItems maps fetched catalog items by ID and verifies every
// requested ID was found.
func indexCatalogItems(items []models.CatalogItem, ids []int64) (map[int64]*models.CatalogItem, error) {
	itemMap := make(map[int64]*models.CatalogItem, len(items))
	for i := range items {
		itemMap[items[i].ID] = &items[i]
	}

	for _, id := range ids {
		if _, ok := itemMap[id]; !ok {
			return nil, fmt.Errorf("catalog item not found: %d", id)
		}
	}

	return itemMap, nil
}

// GetOrder retrieves an order with its normalized lines
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderLine, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, models.NormalizeLines(order.Items), nil
}

// OrderMessage renders the handoff message for an existing order, with the
// messaging link when a phone number is configured.
func (s *OrderService) OrderMessage(ctx context.Context, orderID int64) (text, handoffURL string, err error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", "", err
	}

	text = s.formatter.FormatOrderMessage(order)
	return text, s.formatter.HandoffLink(text), nil
}

// ListOrders retrieves orders, optionally filtered by lifecycle status
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status == "" {
		return s.store.GetOrders(ctx)
	}
	return s.store.GetOrdersByStatus(ctx, status)
}

// UpdateStatus moves an order through its lifecycle. Transitions outside
// new -> processing -> delivered (with cancelled from new or processing) are
// rejected with ErrInvalidTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, toStatus string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !models.CanTransition(order.Status, toStatus) {
		util.InvalidTransitionsTotal.Inc()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, toStatus)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, toStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(toStatus).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", toStatus))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		FromStatus: order.Status,
		ToStatus:   toStatus,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return nil
}

// UpdatePaymentStatus updates an order's payment field
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID int64, paymentStatus string) error {
	if !models.ValidPaymentStatus(paymentStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, paymentStatus)
	}

	if _, err := s.store.GetOrderByID(ctx, orderID); err != nil {
		return err
	}

	if err := s.store.UpdatePaymentStatus(ctx, orderID, paymentStatus); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	event := &models.PaymentStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:       orderID,
		PaymentStatus: paymentStatus,
	}
	if err := s.eventPublisher.PublishPaymentStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentStatusChanged event", zap.Error(err))
	}

	return nil
}

// Export renders the full ledger blob across all orders
func (s *OrderService) Export(ctx context.Context) (string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Export")
	defer span.End()

	orders, err := s.store.GetOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load orders for export: %w", err)
	}

	util.ExportsGeneratedTotal.Inc()
	return s.formatter.FormatExport(orders), nil
}
