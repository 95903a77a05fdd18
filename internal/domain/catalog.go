package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Variant is a purchasable stock-keeping unit of a product. It is
// immutable for the lifetime of one fetched catalog snapshot.
type Variant struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
}

type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Variants     []Variant `json:"variants"`
}

// InStock reports whether any variant of the product has stock left.
func (p Product) InStock() bool {
	for _, v := range p.Variants {
		if v.Quantity > 0 {
			return true
		}
	}
	return false
}
