package validation

import "testing"

func validPlaceRequest() CreateOrderFTRequest {
	return CreateOrderFTRequest{
		CustomerID: "cust-1",
		ShopID:     "shop-1",
		OrderItems: []OrderItem{
			{DishName: "Pav Bhaji", Price: "120", FoodID: 3, Count: 1},
		},
	}
}

func TestCreateOrderFTRequest(t *testing.T) {
	v := New()

	if err := v.Struct(validPlaceRequest()); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	missingCustomer := validPlaceRequest()
	missingCustomer.CustomerID = ""
	if err := v.Struct(missingCustomer); err == nil {
		t.Fatalf("expected error for missing customerId")
	}

	noItems := validPlaceRequest()
	noItems.OrderItems = nil
	if err := v.Struct(noItems); err == nil {
		t.Fatalf("expected error for empty item list")
	}

	zeroCount := validPlaceRequest()
	zeroCount.OrderItems[0].Count = 0
	if err := v.Struct(zeroCount); err == nil {
		t.Fatalf("expected error for zero count")
	}

	badPrice := validPlaceRequest()
	badPrice.OrderItems[0].Price = "twelve"
	if err := v.Struct(badPrice); err == nil {
		t.Fatalf("expected error for non-decimal price")
	}

	negativePrice := validPlaceRequest()
	negativePrice.OrderItems[0].Price = "-5"
	if err := v.Struct(negativePrice); err == nil {
		t.Fatalf("expected error for negative price")
	}
}

func TestCreateOrderRequest(t *testing.T) {
	v := New()

	valid := CreateOrderRequest{
		OrderTrackID: "TRACK0000000000A",
		CustomerID:   "cust-1",
		ShopID:       "shop-1",
		PaymentID:    "pay_1",
	}
	if err := v.Struct(valid); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	shortID := valid
	shortID.OrderTrackID = "SHORT"
	if err := v.Struct(shortID); err == nil {
		t.Fatalf("expected error for short track id")
	}

	noPayment := valid
	noPayment.PaymentID = ""
	if err := v.Struct(noPayment); err == nil {
		t.Fatalf("expected error for missing paymentId")
	}
}

func TestUpdateOrderRequest(t *testing.T) {
	v := New()

	for _, status := range []string{"OUT_FOR_DELIVERY", "DELIVERED", "CANCELLED", "FAILED"} {
		req := UpdateOrderRequest{OrderTrackID: "TRACK0000000000A", OrderStatus: status}
		if err := v.Struct(req); err != nil {
			t.Fatalf("expected %s to validate, got %v", status, err)
		}
	}

	// PLACED and CONFIRMED are not reachable through the update endpoint
	for _, status := range []string{"PLACED", "CONFIRMED", "SHIPPED", ""} {
		req := UpdateOrderRequest{OrderTrackID: "TRACK0000000000A", OrderStatus: status}
		if err := v.Struct(req); err == nil {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}
