// Package pricing computes order totals over decimal-string prices.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/streetnoshery/orders-backend/internal/orders"
)

// Total returns the sum of unit price times count over all items as a decimal
// string. An empty item list totals "0". Prices must parse as non-negative
// decimals and counts must be non-negative; catalog prices are trusted as
// supplied (the menu is authoritative at order time).
func Total(items []orders.OrderItem) (string, error) {
	total := decimal.Zero
	for i, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return "", fmt.Errorf("item %d: invalid price %q: %w", i, it.Price, err)
		}
		if price.IsNegative() {
			return "", fmt.Errorf("item %d: negative price %q", i, it.Price)
		}
		if it.Count < 0 {
			return "", fmt.Errorf("item %d: negative count %d", i, it.Count)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Count))))
	}
	return total.String(), nil
}
