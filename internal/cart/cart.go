package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
)

// StockLookup resolves a variant's current availability. Ceilings are
// re-checked against the live snapshot on every mutation rather than
// cached on the line, so a stock change discovered on the next refresh
// is respected.
type StockLookup interface {
	VariantByID(id int64) (domain.Variant, bool)
}

// Cart is the current order: an ordered sequence of lines, unique by
// variant. It is owned by a single terminal session and mutated only
// through its methods.
type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the variant into the order. Adding an
// out-of-stock variant, or one whose line already sits at the stock
// ceiling, is rejected with a StockError and no side effects. Repeated
// adds merge into the existing line.
func (c *Cart) Add(stock StockLookup, variantID int64) error {
	variant, ok := stock.VariantByID(variantID)
	if !ok {
		return domain.ErrNotFound
	}
	if variant.Quantity <= 0 {
		return &domain.StockError{VariantID: variantID, Available: 0}
	}
	if line := c.find(variantID); line != nil {
		if line.Quantity >= variant.Quantity {
			return &domain.StockError{VariantID: variantID, Available: variant.Quantity}
		}
		line.Quantity++
		return nil
	}
	c.lines = append(c.lines, domain.CartLine{
		ID:        uuid.NewString(),
		VariantID: variantID,
		Name:      variant.Name,
		UnitPrice: variant.Price,
		Quantity:  1,
	})
	return nil
}

// Remove deletes the variant's line unconditionally; absent is a no-op.
func (c *Cart) Remove(variantID int64) {
	for i, line := range c.lines {
		if line.VariantID == variantID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces a line's quantity. The request is clamped to at
// least 1; a value above the variant's available quantity is rejected
// with the ceiling and the line stays unchanged.
func (c *Cart) SetQuantity(stock StockLookup, variantID int64, requested int) error {
	line := c.find(variantID)
	if line == nil {
		return domain.ErrNotFound
	}
	if requested < 1 {
		requested = 1
	}
	variant, ok := stock.VariantByID(variantID)
	if !ok {
		return domain.ErrNotFound
	}
	if requested > variant.Quantity {
		return &domain.StockError{VariantID: variantID, Available: variant.Quantity}
	}
	line.Quantity = requested
	return nil
}

// Clear empties the order. Used for both the explicit clear-all action
// and the post-submit reset.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the current order lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Totals derives the order totals. Pure with respect to the cart: it
// recomputes deterministically on every call.
func (c *Cart) Totals() domain.Totals {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Total())
	}
	return domain.Totals{Subtotal: subtotal, Total: subtotal}
}

func (c *Cart) find(variantID int64) *domain.CartLine {
	for i := range c.lines {
		if c.lines[i].VariantID == variantID {
			return &c.lines[i]
		}
	}
	return nil
}
