package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/streetnoshery/orders-backend/internal/cache"
	"github.com/streetnoshery/orders-backend/internal/metrics"
	"github.com/streetnoshery/orders-backend/internal/orders"
)

// Processor consumes order events and refreshes the read-side views. It never
// writes back to the orders table; the engine owns all order state.
type Processor struct {
	store   *orders.Store
	views   cache.Cache
	metrics *metrics.Recorder
	log     *slog.Logger
}

// NewProcessor wires a worker processor.
func NewProcessor(store *orders.Store, views cache.Cache, rec *metrics.Recorder, log *slog.Logger) *Processor {
	return &Processor{
		store:   store,
		views:   views,
		metrics: rec,
		log:     log,
	}
}

// Handle receives an SQS batch event and processes each message. An error
// propagates so the runtime retries the batch and eventually dead-letters it.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.log.InfoContext(ctx, "received sqs batch", "messages", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.ErrorContext(ctx, "worker error", "error", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev OrderEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.log.InfoContext(ctx, "processing order event",
		"orderTrackId", ev.OrderTrackID, "status", ev.Status, "correlationId", ev.CorrelationID)

	// Re-read the record; the event only announces that something changed.
	order, err := p.store.GetByTrackID(ctx, ev.OrderTrackID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// events always trail a successful write, so this dead-letters
		return fmt.Errorf("order not found: %s", ev.OrderTrackID)
	}

	if err := p.views.PutOrder(ctx, order); err != nil {
		return fmt.Errorf("refresh order view: %w", err)
	}

	history, err := p.store.ListByCustomer(ctx, order.CustomerID)
	if err != nil {
		return fmt.Errorf("list customer orders: %w", err)
	}
	if err := p.views.PutCustomerOrders(ctx, order.CustomerID, history); err != nil {
		return fmt.Errorf("refresh customer view: %w", err)
	}

	p.metrics.Count(ctx, metrics.OrderEventProcessed, map[string]string{"Status": ev.Status})
	return nil
}
