package domain

import "github.com/shopspring/decimal"

// CartLine is one entry in the current order. Name and UnitPrice are
// copied from the catalog at add time so a later snapshot refresh does
// not rewrite lines already in the order.
type CartLine struct {
	ID        string          `json:"id"`
	VariantID int64           `json:"variantId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Total returns the line total (unit price times quantity).
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals holds the derived order totals. Total equals Subtotal; there
// is no tax or fee layer.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}
