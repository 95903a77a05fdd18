package upstream

import (
	"context"
	"fmt"
	"net/http"

	"posterminal/internal/domain"
)

// Transaction is one stock movement recorded against a variant.
type Transaction struct {
	ID             int64  `json:"id"`
	UserName       string `json:"user_name"`
	Date           string `json:"date"`
	Action         string `json:"action"`
	Value          int    `json:"value"`
	QuantityBefore int    `json:"q_before"`
	QuantityAfter  int    `json:"q_after"`
}

// AddStock increases a variant's available quantity by amount.
func (c *Client) AddStock(ctx context.Context, sess *domain.Session, variantID int64, amount int) error {
	return c.adjustStock(ctx, sess, variantID, "add-quantity", amount)
}

// ReduceStock decreases a variant's available quantity by amount.
func (c *Client) ReduceStock(ctx context.Context, sess *domain.Session, variantID int64, amount int) error {
	return c.adjustStock(ctx, sess, variantID, "reduce-quantity", amount)
}

func (c *Client) adjustStock(ctx context.Context, sess *domain.Session, variantID int64, action string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("adjustment amount must be positive")
	}
	payload := map[string]int{"quantity": amount}
	_, err := c.call(ctx, sess, http.MethodPut, fmt.Sprintf("/api/%d/%s", variantID, action), payload)
	return err
}

// VariantTransactions lists the stock movement history of one variant.
func (c *Client) VariantTransactions(ctx context.Context, sess *domain.Session, variantID int64) ([]Transaction, error) {
	body, err := c.call(ctx, sess, http.MethodGet, fmt.Sprintf("/api/variable-products/%d/transactions", variantID), nil)
	if err != nil {
		return nil, err
	}
	var out []Transaction
	if err := decodeEnvelope(body, &out); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return out, nil
}
