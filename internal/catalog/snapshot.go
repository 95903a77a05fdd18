package catalog

import (
	"strings"

	"posterminal/internal/domain"
)

// Snapshot is an immutable per-fetch projection of the catalog. Stock
// checks during cart mutations run against the snapshot's fixed
// quantities, not a server round-trip; a refresh replaces the whole
// snapshot.
type Snapshot struct {
	products   []domain.Product
	categories []domain.Category
	variants   map[int64]domain.Variant
}

func NewSnapshot(products []domain.Product, categories []domain.Category) *Snapshot {
	s := &Snapshot{
		products:   products,
		categories: categories,
		variants:   make(map[int64]domain.Variant),
	}
	for _, p := range products {
		for _, v := range p.Variants {
			s.variants[v.ID] = v
		}
	}
	return s
}

// VariantByID looks up a variant across all products.
func (s *Snapshot) VariantByID(id int64) (domain.Variant, bool) {
	v, ok := s.variants[id]
	return v, ok
}

func (s *Snapshot) Categories() []domain.Category {
	return s.categories
}

// Purchasable returns the products exposed to the cart: those with at
// least one variant carrying stock. Out-of-stock products stay in the
// full set for the unrelated price-edit and stock screens.
func (s *Snapshot) Purchasable() []domain.Product {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.InStock() {
			out = append(out, p)
		}
	}
	return out
}

// Filter narrows the purchasable set by category and a case-insensitive
// name search. A categoryID of zero matches all categories.
func (s *Snapshot) Filter(categoryID int64, query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Product, 0)
	for _, p := range s.Purchasable() {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
