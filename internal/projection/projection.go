// Package projection derives the client-facing order progress view from a
// persisted order. It is a pure read-model transform with no side effects.
package projection

import (
	"time"

	"github.com/streetnoshery/orders-backend/internal/orders"
)

// Flag is the progress marker of a single milestone.
type Flag string

const (
	NotInitiated Flag = "NOT_INITIATED"
	InProgress   Flag = "IN_PROGRESS"
	Success      Flag = "SUCCESS"
	Failed       Flag = "FAILED"
)

// Milestone keys, in the fixed output order.
const (
	KeyOrderPlaced    = "orderPlaced"
	KeyOutForDelivery = "outForDelivery"
	KeyDelivered      = "delivered"
)

// Milestone is one entry of the progress stack.
type Milestone struct {
	Key   string     `json:"key"`
	Title string     `json:"title"`
	Flag  Flag       `json:"flag"`
	At    *time.Time `json:"at,omitempty"`
}

// StatusView is the ordered milestone stack rendered to the client.
type StatusView struct {
	OrderTrackID string        `json:"orderTrackId"`
	OrderStatus  orders.Status `json:"orderStatus"`
	Milestones   []Milestone   `json:"milestones"`
}

var titles = map[string]string{
	KeyOrderPlaced:    "Order placed",
	KeyOutForDelivery: "Out for delivery",
	KeyDelivered:      "Delivered",
}

// stage indexes the furthest milestone the order has reached.
const (
	stageNone = iota
	stagePlaced
	stageOutForDelivery
	stageDelivered
)

// Build projects an order into its StatusView. The output is a function of
// the order's status and stage history only: same order, same view.
func Build(o *orders.Order) StatusView {
	stage := stageNone
	switch {
	case o.IsOrderDelivered || o.OrderStatus == orders.StatusDelivered:
		stage = stageDelivered
	case o.IsOrderOutForDelivery || o.OrderStatus == orders.StatusOutForDelivery:
		stage = stageOutForDelivery
	case o.IsOrderPlaced || o.OrderStatus == orders.StatusPlaced || o.OrderStatus == orders.StatusConfirmed:
		stage = stagePlaced
	}

	failed := o.IsOrderCancelled || o.IsOrderFailed ||
		o.OrderStatus == orders.StatusCancelled || o.OrderStatus == orders.StatusFailed

	ms := []Milestone{
		build(o, KeyOrderPlaced, stagePlaced, stage, failed, o.OrderPlacedAt),
		build(o, KeyOutForDelivery, stageOutForDelivery, stage, failed, o.OrderOutForDeliveryAt),
		build(o, KeyDelivered, stageDelivered, stage, failed, o.OrderDeliveredAt),
	}

	return StatusView{
		OrderTrackID: o.OrderTrackID,
		OrderStatus:  o.OrderStatus,
		Milestones:   ms,
	}
}

func build(o *orders.Order, key string, milestoneStage, reachedStage int, failed bool, at *time.Time) Milestone {
	m := Milestone{Key: key, Title: titles[key], At: at}

	switch {
	case milestoneStage < reachedStage:
		m.Flag = Success
	case milestoneStage == reachedStage && reachedStage != stageNone:
		// the milestone currently underway; a delivered order has completed it
		if reachedStage == stageDelivered {
			m.Flag = Success
		} else {
			m.Flag = InProgress
		}
		if failed {
			m.Flag = Failed
			m.At = failedAt(o)
		}
	default:
		m.Flag = NotInitiated
		m.At = nil
	}
	return m
}

// failedAt prefers the cancellation timestamp, then the failure timestamp.
func failedAt(o *orders.Order) *time.Time {
	if o.OrderCancelledAt != nil {
		return o.OrderCancelledAt
	}
	return o.OrderFailedAt
}
