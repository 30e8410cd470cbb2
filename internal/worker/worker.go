package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
)

// AnalyticsWorker invalidates cached dashboard snapshots when order events
// arrive, so the next dashboard read re-aggregates over fresh history.
type AnalyticsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewAnalyticsWorker creates a new analytics worker
func NewAnalyticsWorker(consumer *broker.Consumer, analyticsService *service.AnalyticsService) *AnalyticsWorker {
	eventHandler := broker.NewEventHandler()

	invalidate := func(ctx context.Context) error {
		if err := analyticsService.InvalidateSnapshots(ctx); err != nil {
			log.Printf("Failed to invalidate dashboard snapshots: %v", err)
			return err
		}
		return nil
	}

	eventHandler.OnOrderSubmitted(func(ctx context.Context, _ *models.OrderSubmittedEvent) error {
		return invalidate(ctx)
	})
	eventHandler.OnOrderStatusChanged(func(ctx context.Context, _ *models.OrderStatusChangedEvent) error {
		return invalidate(ctx)
	})
	eventHandler.OnPaymentStatusChanged(func(ctx context.Context, _ *models.PaymentStatusChangedEvent) error {
		return invalidate(ctx)
	})

	return &AnalyticsWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *AnalyticsWorker) Start(ctx context.Context) error {
	log.Println("Starting analytics worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AnalyticsWorker) Stop() error {
	log.Println("Stopping analytics worker...")
	return w.consumer.Close()
}
