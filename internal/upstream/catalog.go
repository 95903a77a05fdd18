package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
)

type rawCategory struct {
	ID   int64  `json:"id"`
	Nom  string `json:"nom"`
	Name string `json:"name"`
}

type rawProduct struct {
	ID         int64        `json:"id"`
	Nom        string       `json:"nom"`
	Name       string       `json:"name"`
	CatogryID  int64        `json:"catogry_id"`
	CategoryID int64        `json:"category_id"`
	Category   *rawCategory `json:"category"`
	Variants   []rawVariant `json:"variable_products"`
}

type rawVariant struct {
	ID       int64       `json:"id"`
	Color    string      `json:"color"`
	Quantity int         `json:"quantity"`
	Price    interface{} `json:"price"`
}

// FetchCategories lists the category set.
func (c *Client) FetchCategories(ctx context.Context, sess *domain.Session) ([]domain.Category, error) {
	body, err := c.call(ctx, sess, http.MethodGet, "/api/categories", nil)
	if err != nil {
		return nil, err
	}
	list, err := unwrapList(body, "data", "categories")
	if err != nil {
		return nil, err
	}
	var raw []rawCategory
	if err := json.Unmarshal(list, &raw); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	out := make([]domain.Category, 0, len(raw))
	for _, rc := range raw {
		out = append(out, domain.Category{ID: rc.ID, Name: categoryName(rc)})
	}
	return out, nil
}

// FetchProducts lists products with their stock-bearing variants,
// normalized to the domain model. Prices arrive as JSON numbers or
// strings and coerce to zero when unparseable; a missing quantity
// defaults to zero.
func (c *Client) FetchProducts(ctx context.Context, sess *domain.Session) ([]domain.Product, error) {
	body, err := c.call(ctx, sess, http.MethodGet, "/api/products", nil)
	if err != nil {
		return nil, err
	}
	list, err := unwrapList(body, "products", "data")
	if err != nil {
		return nil, err
	}
	var raw []rawProduct
	if err := json.Unmarshal(list, &raw); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	out := make([]domain.Product, 0, len(raw))
	for _, rp := range raw {
		name := rp.Nom
		if name == "" {
			name = rp.Name
		}
		if name == "" {
			name = "Unnamed Product"
		}
		categoryID := rp.CatogryID
		if categoryID == 0 {
			categoryID = rp.CategoryID
		}
		categoryName := "Uncategorized"
		if rp.Category != nil {
			if n := firstNonEmpty(rp.Category.Nom, rp.Category.Name); n != "" {
				categoryName = n
			}
		}

		product := domain.Product{
			ID:           rp.ID,
			Name:         name,
			CategoryID:   categoryID,
			CategoryName: categoryName,
			Variants:     make([]domain.Variant, 0, len(rp.Variants)),
		}
		for _, rv := range rp.Variants {
			color := rv.Color
			if color == "" {
				color = "N/A"
			}
			product.Variants = append(product.Variants, domain.Variant{
				ID:        rv.ID,
				ProductID: rp.ID,
				Color:     color,
				Quantity:  rv.Quantity,
				Price:     parsePrice(rv.Price),
				Name:      fmt.Sprintf("%s (%s)", name, color),
			})
		}
		out = append(out, product)
	}
	return out, nil
}

func categoryName(rc rawCategory) string {
	if n := firstNonEmpty(rc.Nom, rc.Name); n != "" {
		return n
	}
	return "Unnamed Category"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parsePrice(raw interface{}) decimal.Decimal {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
