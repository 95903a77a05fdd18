package domain

import "github.com/shopspring/decimal"

// Order is the outbound order built from the cart at submit time. It is
// created once per submit attempt and not retained afterwards; the wire
// encoding lives at the upstream boundary.
type Order struct {
	Reference string
	UserID    int64
	ClientID  int64
	Total     decimal.Decimal
	Details   []OrderDetail
}

type OrderDetail struct {
	Quantity  int
	VariantID int64
}
