package validation

// OrderItem is one requested line item: a dish snapshot plus quantity.
type OrderItem struct {
	DishName    string  `json:"dishName" validate:"required"`
	Description string  `json:"description"`
	Price       string  `json:"price" validate:"required"` // decimal string, unit price
	Rating      float64 `json:"rating"`
	FoodID      int     `json:"foodId" validate:"required"`
	Count       int     `json:"count" validate:"required,min=1"` // must be >= 1
}

// CreateOrderFTRequest is the payload for POST /order/create/ft (place order).
// The payment references are optional; capture is confirmed via /order/create.
type CreateOrderFTRequest struct {
	CustomerID      string      `json:"customerId" validate:"required"`
	ShopID          string      `json:"shopId" validate:"required"`
	OrderItems      []OrderItem `json:"orderItems" validate:"required,min=1,dive"` // at least one item
	PaymentID       string      `json:"paymentId"`
	RazorpayOrderID string      `json:"razorpayOrderId"`
}

// CreateOrderRequest is the payload for POST /order/create (confirm a placed
// order with payment evidence).
type CreateOrderRequest struct {
	OrderTrackID    string `json:"orderTrackId" validate:"required,len=16,alphanum"`
	CustomerID      string `json:"customerId" validate:"required"`
	ShopID          string `json:"shopId" validate:"required"`
	PaymentID       string `json:"paymentId" validate:"required"`
	RazorpayOrderID string `json:"razorpayOrderId"`
}

// UpdateOrderRequest is the payload for PATCH /order/update.
type UpdateOrderRequest struct {
	OrderTrackID string `json:"orderTrackId" validate:"required,len=16,alphanum"`
	OrderStatus  string `json:"orderStatus" validate:"required,oneof=OUT_FOR_DELIVERY DELIVERED CANCELLED FAILED"`
}
