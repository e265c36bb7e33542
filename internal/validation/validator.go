package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// prices come in as decimal strings; validate them struct-level since a
	// plain tag cannot parse them.
	v.RegisterStructValidation(createOrderFTStructValidation, CreateOrderFTRequest{})

	return v
}

// createOrderFTStructValidation verifies every item price parses as a
// non-negative decimal before the pricing calculator sees it.
func createOrderFTStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderFTRequest)

	for _, it := range req.OrderItems {
		price, err := decimal.NewFromString(it.Price)
		if err != nil || price.IsNegative() {
			sl.ReportError(it.Price, "orderItems", "OrderItems", "price_decimal", it.Price)
			return
		}
	}
}
