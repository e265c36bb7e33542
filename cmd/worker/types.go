package main

// OrderEvent is the payload sent from the API to the order events queue.
// It mirrors aws.OrderEvent; the worker keeps its own copy so queue payload
// changes are an explicit contract change on both sides.
type OrderEvent struct {
	OrderTrackID  string `json:"order_track_id"`
	CustomerID    string `json:"customer_id"`
	ShopID        string `json:"shop_id"`
	Status        string `json:"status"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
