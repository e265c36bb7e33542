// Package lifecycle is the order state machine. It owns every write to
// order_status and to the denormalized stage flags and timestamps; nothing
// else in the codebase mutates them.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/streetnoshery/orders-backend/internal/orders"
)

// ErrInvalidTransition is wrapped by Advance when the requested edge is not in
// the transition table (backward moves, terminal re-entry, unknown states).
var ErrInvalidTransition = errors.New("invalid order transition")

// Transition defines a valid state change.
type Transition struct {
	From orders.Status
	To   orders.Status
}

// validTransitions is the authoritative state machine definition.
var validTransitions = []Transition{
	// Success path
	{From: orders.StatusPlaced, To: orders.StatusConfirmed},
	{From: orders.StatusConfirmed, To: orders.StatusOutForDelivery},
	{From: orders.StatusOutForDelivery, To: orders.StatusDelivered},
	// Cancellation from any live state
	{From: orders.StatusPlaced, To: orders.StatusCancelled},
	{From: orders.StatusConfirmed, To: orders.StatusCancelled},
	{From: orders.StatusOutForDelivery, To: orders.StatusCancelled},
	// Failure from any live state
	{From: orders.StatusPlaced, To: orders.StatusFailed},
	{From: orders.StatusConfirmed, To: orders.StatusFailed},
	{From: orders.StatusOutForDelivery, To: orders.StatusFailed},
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool)
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// Terminal reports whether no further transitions can leave s.
func Terminal(s orders.Status) bool {
	switch s {
	case orders.StatusDelivered, orders.StatusCancelled, orders.StatusFailed:
		return true
	}
	return false
}

// ValidTransitionsFrom returns all valid next states from a given state.
func ValidTransitionsFrom(status orders.Status) []orders.Status {
	var nexts []orders.Status
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks whether the edge from -> to is legal.
func CanTransition(from, to orders.Status) error {
	if transitionMap[Transition{From: from, To: to}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s (valid from %s: %s)",
		ErrInvalidTransition, from, to, from, describeValidFrom(from))
}

func describeValidFrom(status orders.Status) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// PaymentEvidence carries the upstream payment capture references attached on
// confirmation. The engine records them; it never talks to the gateway.
type PaymentEvidence struct {
	PaymentID       string
	RazorpayOrderID string
}

// Place builds the initial order document for a fresh track id. paymentAmount
// is the computed item total and is immutable after this point. Payment
// references supplied at placement are recorded; capture is still pending.
func Place(trackID, customerID, shopID string, items []orders.OrderItem, paymentAmount string, evidence PaymentEvidence, now time.Time) orders.Order {
	placedAt := now
	return orders.Order{
		OrderTrackID:      trackID,
		CustomerID:        customerID,
		ShopID:            shopID,
		Items:             items,
		OrderStatus:       orders.StatusPlaced,
		IsOrderPlaced:     true,
		OrderPlacedAt:     &placedAt,
		PaymentStatus:     orders.PaymentInitiated,
		PaymentAmount:     paymentAmount,
		PaymentID:         evidence.PaymentID,
		RazorpayOrderID:   evidence.RazorpayOrderID,
		IsOrderInProgress: true,
	}
}

// Advance validates the edge from current.OrderStatus to target and returns
// the partial update document for it. Flags only ever move to true here; a
// forward transition never resets history.
func Advance(current *orders.Order, target orders.Status, evidence PaymentEvidence, now time.Time) (orders.Fields, error) {
	if err := CanTransition(current.OrderStatus, target); err != nil {
		return nil, err
	}

	fields := orders.Fields{
		orders.AttrOrderStatus: target,
	}

	switch target {
	case orders.StatusConfirmed:
		fields[orders.AttrIsOrderConfirmed] = true
		fields[orders.AttrOrderConfirmedAt] = now
		// payment capture completed upstream
		fields[orders.AttrPaymentStatus] = orders.PaymentSuccess
		fields[orders.AttrIsPaymentDone] = true
		if evidence.PaymentID != "" {
			fields[orders.AttrPaymentID] = evidence.PaymentID
		}
		if evidence.RazorpayOrderID != "" {
			fields[orders.AttrRazorpayOrderID] = evidence.RazorpayOrderID
		}
	case orders.StatusOutForDelivery:
		fields[orders.AttrIsOrderOutForDel] = true
		fields[orders.AttrOrderOutForDelAt] = now
	case orders.StatusDelivered:
		fields[orders.AttrIsOrderDelivered] = true
		fields[orders.AttrOrderDeliveredAt] = now
		fields[orders.AttrIsOrderInProgress] = false
	case orders.StatusCancelled:
		fields[orders.AttrIsOrderCancelled] = true
		fields[orders.AttrOrderCancelledAt] = now
		fields[orders.AttrIsOrderInProgress] = false
	case orders.StatusFailed:
		fields[orders.AttrIsOrderFailed] = true
		fields[orders.AttrOrderFailedAt] = now
		fields[orders.AttrIsOrderInProgress] = false
	}

	return fields, nil
}

// Fail is the compensating field set: it forces an order into FAILED without
// consulting the transition table. Used after a primary write fails so the
// record lands in a consistent terminal state.
func Fail(now time.Time) orders.Fields {
	return orders.Fields{
		orders.AttrOrderStatus:       orders.StatusFailed,
		orders.AttrIsOrderFailed:     true,
		orders.AttrOrderFailedAt:     now,
		orders.AttrIsOrderInProgress: false,
	}
}
