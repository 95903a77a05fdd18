package pos

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"posterminal/internal/cart"
	"posterminal/internal/catalog"
	"posterminal/internal/checkout"
	"posterminal/internal/domain"
	"posterminal/internal/tender"
)

const defaultCustomer = "Walk-in Customer"

// Terminal is one operator session: the loaded catalog snapshot, the
// current order and the payment tender. There is exactly one logical
// actor, so a single mutex serializes mutations; network calls are the
// only operations performed outside it.
type Terminal struct {
	logger  *log.Logger
	catalog *catalog.Service
	gateway *checkout.Gateway
	session *domain.Session

	mu       sync.Mutex
	snapshot *catalog.Snapshot
	cart     *cart.Cart
	tender   *tender.Tender
	customer string
	loadErr  error
}

func New(catalogSvc *catalog.Service, gateway *checkout.Gateway, sess *domain.Session, logger *log.Logger) *Terminal {
	return &Terminal{
		logger:   logger,
		catalog:  catalogSvc,
		gateway:  gateway,
		session:  sess,
		cart:     cart.New(),
		tender:   tender.New(),
		customer: defaultCustomer,
	}
}

func (t *Terminal) Session() *domain.Session {
	return t.session
}

// Refresh fetches a new catalog snapshot. The previous snapshot stays
// in place when the load fails; the failure is kept for Catalog calls
// until a later refresh succeeds.
func (t *Terminal) Refresh(ctx context.Context) error {
	snap, err := t.catalog.Load(ctx, t.session)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.loadErr = err
		return err
	}
	t.snapshot = snap
	t.loadErr = nil
	return nil
}

// Catalog returns the purchasable products filtered by category and
// search query, plus the category set.
func (t *Terminal) Catalog(categoryID int64, query string) ([]domain.Product, []domain.Category, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return nil, nil, t.catalogUnavailable()
	}
	return t.snapshot.Filter(categoryID, query), t.snapshot.Categories(), nil
}

func (t *Terminal) AddItem(variantID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return t.catalogUnavailable()
	}
	return t.cart.Add(t.snapshot, variantID)
}

func (t *Terminal) RemoveItem(variantID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.Remove(variantID)
}

func (t *Terminal) SetItemQuantity(variantID int64, quantity int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return t.catalogUnavailable()
	}
	return t.cart.SetQuantity(t.snapshot, variantID, quantity)
}

func (t *Terminal) ClearOrder() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.Clear()
}

func (t *Terminal) SetCustomer(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultCustomer
	}
	t.customer = name
}

// View is a read-only snapshot of the session for the presentation
// layer; correctness never depends on when or how often it is taken.
type View struct {
	Customer   string            `json:"customer"`
	Lines      []domain.CartLine `json:"lines"`
	Totals     domain.Totals     `json:"totals"`
	Buffer     string            `json:"buffer"`
	Tendered   decimal.Decimal   `json:"tendered"`
	Balance    tender.Balance    `json:"balance"`
	State      string            `json:"state"`
	Processing bool              `json:"processing"`
}

func (t *Terminal) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	totals := t.cart.Totals()
	return View{
		Customer:   t.customer,
		Lines:      t.cart.Lines(),
		Totals:     totals,
		Buffer:     t.tender.Buffer(),
		Tendered:   t.tender.Amount(),
		Balance:    t.tender.Balance(totals.Total),
		State:      t.tender.State().String(),
		Processing: t.gateway.Processing(),
	}
}

// KeyResult reports the outcome of one keypad press. Confirmed is set
// when the confirm key validated the tendered amount; Balance then
// carries the change due or remaining balance to announce.
type KeyResult struct {
	Confirmed bool           `json:"confirmed"`
	Balance   tender.Balance `json:"balance"`
}

// PressKey applies one keypad symbol. Confirming only announces the
// balance and resets the tender; it never submits the order.
func (t *Terminal) PressKey(key string) (KeyResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if key == tender.KeyConfirm {
		balance, err := t.tender.Confirm(t.cart.Totals().Total)
		if err != nil {
			return KeyResult{}, err
		}
		return KeyResult{Confirmed: true, Balance: balance}, nil
	}
	t.tender.Press(key)
	return KeyResult{}, nil
}

// SetTendered replaces the tendered amount directly, bypassing the
// keypad (the payment amount input field).
func (t *Terminal) SetTendered(amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tender.SetAmount(amount)
}

// Submit sends the current order upstream. The cart and tender are
// captured before the network call and reset only on success, so a
// failed submission leaves both exactly as they were for a manual
// retry.
func (t *Terminal) Submit(ctx context.Context) error {
	t.mu.Lock()
	lines := t.cart.Lines()
	total := t.cart.Totals().Total
	t.mu.Unlock()

	if err := t.gateway.Submit(ctx, t.session, lines, total); err != nil {
		return err
	}

	t.mu.Lock()
	t.cart.Clear()
	t.tender.Reset()
	t.mu.Unlock()
	return nil
}

func (t *Terminal) catalogUnavailable() error {
	if t.loadErr != nil {
		return t.loadErr
	}
	return domain.ErrCatalogLoad
}
