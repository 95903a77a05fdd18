package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
	"posterminal/internal/upstream"
)

type orderAPI interface {
	SubmitOrder(ctx context.Context, sess *domain.Session, order domain.Order) error
	OrderHistory(ctx context.Context, sess *domain.Session) ([]upstream.OrderRecord, error)
	CancelOrder(ctx context.Context, sess *domain.Session, orderID int64) error
}

// Gateway translates the current order into a request to the upstream
// order service. One submission at a time: a processing flag rejects
// re-entrant attempts while a request is outstanding.
type Gateway struct {
	api      orderAPI
	clientID int64
	logger   *log.Logger

	mu         sync.Mutex
	processing bool
}

// New builds a Gateway. clientID is the implicit default customer
// reference included in every order.
func New(api orderAPI, clientID int64, logger *log.Logger) *Gateway {
	return &Gateway{api: api, clientID: clientID, logger: logger}
}

// Processing reports whether a submission is in flight.
func (g *Gateway) Processing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.processing
}

// Submit sends the given lines as one order. Preconditions: at least
// one line, a valid session, no submission in flight. On failure the
// caller's cart and tender are untouched and the reason is surfaced
// verbatim where the service provided one; on success the caller is
// expected to clear the cart and reset the tender.
func (g *Gateway) Submit(ctx context.Context, sess *domain.Session, lines []domain.CartLine, total decimal.Decimal) error {
	if len(lines) == 0 {
		return domain.ErrCartEmpty
	}
	if !sess.Valid() {
		return domain.ErrAuthMissing
	}
	if !g.begin() {
		return domain.ErrBusy
	}
	defer g.end()

	order := domain.Order{
		Reference: uuid.NewString(),
		UserID:    sess.UserID,
		ClientID:  g.clientID,
		Total:     total,
		Details:   make([]domain.OrderDetail, 0, len(lines)),
	}
	for _, line := range lines {
		order.Details = append(order.Details, domain.OrderDetail{
			Quantity:  line.Quantity,
			VariantID: line.VariantID,
		})
	}

	if err := g.api.SubmitOrder(ctx, sess, order); err != nil {
		if errors.Is(err, domain.ErrAuthMissing) || errors.Is(err, domain.ErrAuthFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrSubmitFailed, err)
	}
	g.logger.Printf("order %s submitted: %d lines, total %s", order.Reference, len(order.Details), total)
	return nil
}

// History lists previously submitted orders from the upstream service.
func (g *Gateway) History(ctx context.Context, sess *domain.Session) ([]upstream.OrderRecord, error) {
	return g.api.OrderHistory(ctx, sess)
}

// Cancel cancels a previously submitted order.
func (g *Gateway) Cancel(ctx context.Context, sess *domain.Session, orderID int64) error {
	return g.api.CancelOrder(ctx, sess, orderID)
}

func (g *Gateway) begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.processing {
		return false
	}
	g.processing = true
	return true
}

func (g *Gateway) end() {
	g.mu.Lock()
	g.processing = false
	g.mu.Unlock()
}
