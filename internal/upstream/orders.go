package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
)

type orderPayload struct {
	UserID   int64                `json:"user_id"`
	ClientID int64                `json:"client_id"`
	Total    float64              `json:"total"`
	Details  []orderDetailPayload `json:"detail_orders"`
}

type orderDetailPayload struct {
	Quantity  int   `json:"quantity"`
	VariantID int64 `json:"variable_products_id"`
}

// OrderRecord is one entry of the upstream order history.
type OrderRecord struct {
	OrderID    int64             `json:"order_id"`
	Status     string            `json:"status"`
	Total      decimal.Decimal   `json:"total"`
	SellerName string            `json:"seller_name"`
	ClientName string            `json:"client_name"`
	CreatedAt  string            `json:"created_at"`
	Products   []OrderRecordItem `json:"products"`
}

type OrderRecordItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// SubmitOrder posts a finalized order. Strictly single-shot: no retry
// is attempted here.
func (c *Client) SubmitOrder(ctx context.Context, sess *domain.Session, order domain.Order) error {
	payload := orderPayload{
		UserID:   order.UserID,
		ClientID: order.ClientID,
		Total:    order.Total.InexactFloat64(),
		Details:  make([]orderDetailPayload, 0, len(order.Details)),
	}
	for _, d := range order.Details {
		payload.Details = append(payload.Details, orderDetailPayload{
			Quantity:  d.Quantity,
			VariantID: d.VariantID,
		})
	}
	_, err := c.call(ctx, sess, http.MethodPost, "/api/orders", payload)
	return err
}

// OrderHistory lists previously submitted orders.
func (c *Client) OrderHistory(ctx context.Context, sess *domain.Session) ([]OrderRecord, error) {
	body, err := c.call(ctx, sess, http.MethodGet, "/api/orders/history", nil)
	if err != nil {
		return nil, err
	}
	var out []OrderRecord
	if err := decodeEnvelope(body, &out); err != nil {
		return nil, fmt.Errorf("decode order history: %w", err)
	}
	return out, nil
}

// CancelOrder cancels a previously submitted order.
func (c *Client) CancelOrder(ctx context.Context, sess *domain.Session, orderID int64) error {
	_, err := c.call(ctx, sess, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", orderID), nil)
	return err
}

// decodeEnvelope unpacks the {success, data, message} wrapper used by
// the history and transaction endpoints.
func decodeEnvelope(body []byte, out interface{}) error {
	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		if envelope.Message != "" {
			return fmt.Errorf("%s", envelope.Message)
		}
		return fmt.Errorf("service reported failure")
	}
	return json.Unmarshal(envelope.Data, out)
}
