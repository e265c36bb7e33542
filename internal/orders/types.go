package orders

import "time"

// Status is the order lifecycle state. PLACED, CONFIRMED and OUT_FOR_DELIVERY
// are live states; DELIVERED, CANCELLED and FAILED are terminal.
type Status string

const (
	StatusPlaced         Status = "PLACED"
	StatusConfirmed      Status = "CONFIRMED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
	StatusFailed         Status = "FAILED"
)

// PaymentStatus tracks the payment sub-state. Capture itself happens upstream;
// the engine only records the outcome it is handed.
type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Attribute names shared between the lifecycle field sets and the store's
// update expressions.
const (
	AttrOrderTrackID      = "order_track_id"
	AttrCustomerID        = "customer_id"
	AttrShopID            = "shop_id"
	AttrOrderItems        = "order_items"
	AttrOrderStatus       = "order_status"
	AttrIsOrderPlaced     = "is_order_placed"
	AttrIsOrderConfirmed  = "is_order_confirmed"
	AttrIsOrderOutForDel  = "is_order_out_for_delivery"
	AttrIsOrderDelivered  = "is_order_delivered"
	AttrIsOrderCancelled  = "is_order_cancelled"
	AttrIsOrderFailed     = "is_order_failed"
	AttrOrderPlacedAt     = "order_placed_at"
	AttrOrderConfirmedAt  = "order_confirmed_at"
	AttrOrderOutForDelAt  = "order_out_for_delivery_at"
	AttrOrderDeliveredAt  = "order_delivered_at"
	AttrOrderCancelledAt  = "order_cancelled_at"
	AttrOrderFailedAt     = "order_failed_at"
	AttrPaymentStatus     = "payment_status"
	AttrIsPaymentDone     = "is_payment_done"
	AttrPaymentID         = "payment_id"
	AttrPaymentAmount     = "payment_amount"
	AttrRazorpayOrderID   = "razorpay_order_id"
	AttrIsOrderInProgress = "is_order_in_progress"
)

// OrderItem is one line of an order: a snapshot of the dish at order time plus
// the quantity. It has no identity of its own.
type OrderItem struct {
	DishName    string  `dynamodbav:"dish_name" json:"dishName"`
	Description string  `dynamodbav:"description,omitempty" json:"description"`
	Price       string  `dynamodbav:"price" json:"price"` // decimal string, unit price
	Rating      float64 `dynamodbav:"rating,omitempty" json:"rating"`
	FoodID      int     `dynamodbav:"food_id" json:"foodId"`
	Count       int     `dynamodbav:"count" json:"count"`
}

// Order is the persisted order document, keyed by OrderTrackID.
//
// OrderStatus is the source of truth; the stage flags and timestamps are a
// denormalized projection of it, written only by the lifecycle transition
// functions and never reset by a forward transition.
type Order struct {
	OrderTrackID string      `dynamodbav:"order_track_id" json:"orderTrackId"` // PK
	CustomerID   string      `dynamodbav:"customer_id" json:"customerId"`
	ShopID       string      `dynamodbav:"shop_id" json:"shopId"`
	Items        []OrderItem `dynamodbav:"order_items" json:"orderItems"`

	OrderStatus Status `dynamodbav:"order_status" json:"orderStatus"`

	IsOrderPlaced         bool `dynamodbav:"is_order_placed" json:"isOrderPlaced"`
	IsOrderConfirmed      bool `dynamodbav:"is_order_confirmed" json:"isOrderConfirmed"`
	IsOrderOutForDelivery bool `dynamodbav:"is_order_out_for_delivery" json:"isOrderOutForDelivery"`
	IsOrderDelivered      bool `dynamodbav:"is_order_delivered" json:"isOrderDelivered"`
	IsOrderCancelled      bool `dynamodbav:"is_order_cancelled" json:"isOrderCancelled"`
	IsOrderFailed         bool `dynamodbav:"is_order_failed" json:"isOrderFailed"`

	OrderPlacedAt         *time.Time `dynamodbav:"order_placed_at,omitempty" json:"orderPlacedAt,omitempty"`
	OrderConfirmedAt      *time.Time `dynamodbav:"order_confirmed_at,omitempty" json:"orderConfirmedAt,omitempty"`
	OrderOutForDeliveryAt *time.Time `dynamodbav:"order_out_for_delivery_at,omitempty" json:"orderOutForDeliveryAt,omitempty"`
	OrderDeliveredAt      *time.Time `dynamodbav:"order_delivered_at,omitempty" json:"orderDeliveredAt,omitempty"`
	OrderCancelledAt      *time.Time `dynamodbav:"order_cancelled_at,omitempty" json:"orderCancelledAt,omitempty"`
	OrderFailedAt         *time.Time `dynamodbav:"order_failed_at,omitempty" json:"orderFailedAt,omitempty"`

	PaymentStatus   PaymentStatus `dynamodbav:"payment_status" json:"paymentStatus"`
	IsPaymentDone   bool          `dynamodbav:"is_payment_done" json:"isPaymentDone"`
	PaymentID       string        `dynamodbav:"payment_id,omitempty" json:"paymentId,omitempty"`
	PaymentAmount   string        `dynamodbav:"payment_amount" json:"paymentAmount"` // decimal string, fixed at placement
	RazorpayOrderID string        `dynamodbav:"razorpay_order_id,omitempty" json:"razorpayOrderId,omitempty"`

	// false exactly when OrderStatus is DELIVERED, CANCELLED or FAILED.
	IsOrderInProgress bool `dynamodbav:"is_order_in_progress" json:"isOrderInProgress"`

	CreatedAt time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// Fields is a partial update document applied to an order via Store.Upsert.
// Keys are the Attr* attribute names above.
type Fields map[string]interface{}
