// Package service orchestrates the order engine: identifier generation,
// pricing, lifecycle transitions, persistence and event fan-out.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streetnoshery/orders-backend/internal/aws"
	"github.com/streetnoshery/orders-backend/internal/lifecycle"
	"github.com/streetnoshery/orders-backend/internal/metrics"
	"github.com/streetnoshery/orders-backend/internal/orders"
	"github.com/streetnoshery/orders-backend/internal/pricing"
	"github.com/streetnoshery/orders-backend/internal/projection"
	"github.com/streetnoshery/orders-backend/internal/telemetry"
	"github.com/streetnoshery/orders-backend/internal/trackid"
)

// Service is the order engine facade used by the HTTP handlers.
type Service struct {
	store   *orders.Store
	events  *aws.Publisher
	metrics *metrics.Recorder
	log     *slog.Logger

	nowFunc    func() time.Time
	newTrackID func() string
}

// New wires a Service. events and rec may be nil (event fan-out and metrics
// are both best-effort).
func New(store *orders.Store, events *aws.Publisher, rec *metrics.Recorder) *Service {
	return &Service{
		store:      store,
		events:     events,
		metrics:    rec,
		log:        telemetry.Component("order-service"),
		nowFunc:    time.Now,
		newTrackID: trackid.New,
	}
}

// PlaceOrderInput creates a new order for a customer. The payment references
// are optional at placement; capture is confirmed later via CreateOrder.
type PlaceOrderInput struct {
	CustomerID      string
	ShopID          string
	Items           []orders.OrderItem
	PaymentID       string
	RazorpayOrderID string
}

// ConfirmOrderInput attaches payment evidence to a previously placed order.
type ConfirmOrderInput struct {
	OrderTrackID    string
	CustomerID      string
	ShopID          string
	PaymentID       string
	RazorpayOrderID string
}

// AdvanceOrderInput moves an order to a later lifecycle state.
type AdvanceOrderInput struct {
	OrderTrackID string
	Target       orders.Status
}

// CreateOrderFT places a new order: generates the track id, prices the items
// and persists the initial PLACED document.
func (s *Service) CreateOrderFT(ctx context.Context, in PlaceOrderInput) (*orders.Order, error) {
	amount, err := pricing.Total(in.Items)
	if err != nil {
		return nil, fmt.Errorf("price order: %w", err)
	}

	id := s.newTrackID()
	evidence := lifecycle.PaymentEvidence{
		PaymentID:       in.PaymentID,
		RazorpayOrderID: in.RazorpayOrderID,
	}
	order := lifecycle.Place(id, in.CustomerID, in.ShopID, in.Items, amount, evidence, s.nowFunc().UTC())

	created, err := s.store.Create(ctx, order)
	if err != nil {
		s.log.ErrorContext(ctx, "create order failed", "orderTrackId", id, "customerId", in.CustomerID, "error", err)
		return nil, err
	}

	s.log.InfoContext(ctx, "order placed",
		"orderTrackId", created.OrderTrackID, "customerId", created.CustomerID, "paymentAmount", created.PaymentAmount)
	s.emit(ctx, created)
	s.metrics.Count(ctx, metrics.OrderPlaced, map[string]string{"ShopId": created.ShopID})
	return created, nil
}

// CreateOrder confirms a placed order once payment capture has completed
// upstream. A primary-write failure triggers the compensating FAILED write
// and the original error is returned.
func (s *Service) CreateOrder(ctx context.Context, in ConfirmOrderInput) (*orders.Order, error) {
	current, err := s.lookup(ctx, in.OrderTrackID)
	if err != nil {
		return nil, err
	}

	evidence := lifecycle.PaymentEvidence{
		PaymentID:       in.PaymentID,
		RazorpayOrderID: in.RazorpayOrderID,
	}
	fields, err := lifecycle.Advance(current, orders.StatusConfirmed, evidence, s.nowFunc().UTC())
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Upsert(ctx, in.OrderTrackID, fields)
	if err != nil {
		s.compensate(ctx, in.OrderTrackID, err)
		return nil, err
	}

	s.log.InfoContext(ctx, "order confirmed", "orderTrackId", updated.OrderTrackID, "paymentId", in.PaymentID)
	s.emit(ctx, updated)
	s.metrics.Count(ctx, metrics.OrderConfirmed, map[string]string{"ShopId": updated.ShopID})
	return updated, nil
}

// UpdateOrders advances an order to OUT_FOR_DELIVERY, DELIVERED, CANCELLED or
// FAILED. A primary-write failure triggers the compensating FAILED write and
// the original error is returned.
func (s *Service) UpdateOrders(ctx context.Context, in AdvanceOrderInput) (*orders.Order, error) {
	current, err := s.lookup(ctx, in.OrderTrackID)
	if err != nil {
		return nil, err
	}

	fields, err := lifecycle.Advance(current, in.Target, lifecycle.PaymentEvidence{}, s.nowFunc().UTC())
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Upsert(ctx, in.OrderTrackID, fields)
	if err != nil {
		s.compensate(ctx, in.OrderTrackID, err)
		return nil, err
	}

	s.log.InfoContext(ctx, "order advanced",
		"orderTrackId", updated.OrderTrackID, "orderStatus", updated.OrderStatus)
	s.emit(ctx, updated)
	s.metrics.Count(ctx, metrics.OrderAdvanced, map[string]string{"Status": string(updated.OrderStatus)})
	return updated, nil
}

// GetPastOrders returns a customer's orders, newest placement first.
func (s *Service) GetPastOrders(ctx context.Context, customerID string) ([]orders.Order, error) {
	list, err := s.store.ListByCustomer(ctx, customerID)
	if err != nil {
		s.log.ErrorContext(ctx, "list orders failed", "customerId", customerID, "error", err)
		return nil, err
	}
	return list, nil
}

// GetOrdersByShop returns a shop's orders, newest placement first.
func (s *Service) GetOrdersByShop(ctx context.Context, shopID string) ([]orders.Order, error) {
	list, err := s.store.ListByShop(ctx, shopID)
	if err != nil {
		s.log.ErrorContext(ctx, "list shop orders failed", "shopId", shopID, "error", err)
		return nil, err
	}
	return list, nil
}

// GetStatus builds the milestone view for one order.
func (s *Service) GetStatus(ctx context.Context, trackID string) (*projection.StatusView, error) {
	order, err := s.lookup(ctx, trackID)
	if err != nil {
		return nil, err
	}
	view := projection.Build(order)
	return &view, nil
}

func (s *Service) lookup(ctx context.Context, trackID string) (*orders.Order, error) {
	order, err := s.store.GetByTrackID(ctx, trackID)
	if err != nil {
		s.log.ErrorContext(ctx, "order lookup failed", "orderTrackId", trackID, "error", err)
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", orders.ErrOrderNotFound, trackID)
	}
	return order, nil
}

// compensate force-persists the order into FAILED after a primary write
// failed, so status queries see a consistent terminal record. Its own failure
// is only logged; the caller still receives the original error.
func (s *Service) compensate(ctx context.Context, trackID string, cause error) {
	s.log.ErrorContext(ctx, "primary write failed, compensating to FAILED",
		"orderTrackId", trackID, "error", cause)
	s.metrics.Count(ctx, metrics.OrderWriteFailed, nil)

	// TODO: bounded retries before declaring the order FAILED.
	fields := lifecycle.Fail(s.nowFunc().UTC())
	if _, err := s.store.Upsert(ctx, trackID, fields); err != nil {
		s.log.ErrorContext(ctx, "compensating write failed", "orderTrackId", trackID, "error", err)
	}
}

// emit fans the new order state out to the events queue. Fire-and-forget:
// the response never waits on consumers and publish errors are swallowed.
func (s *Service) emit(ctx context.Context, o *orders.Order) {
	if s.events == nil {
		return
	}
	ev := aws.OrderEvent{
		OrderTrackID:  o.OrderTrackID,
		CustomerID:    o.CustomerID,
		ShopID:        o.ShopID,
		Status:        string(o.OrderStatus),
		CorrelationID: telemetry.RequestIDFromContext(ctx),
	}
	if err := s.events.PublishOrderEvent(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "order event publish failed", "orderTrackId", o.OrderTrackID, "error", err)
	}
}
