package tender

import (
	"strings"

	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
)

// State of the keypad accumulator.
type State int

const (
	// StateIdle means an empty buffer and a zero tendered amount.
	StateIdle State = iota
	// StateEntering means the buffer holds at least one character.
	StateEntering
)

func (s State) String() string {
	if s == StateEntering {
		return "entering"
	}
	return "idle"
}

// Keypad symbols as printed on the terminal.
const (
	KeyClear     = "C"
	KeyBackspace = "⌫"
	KeyConfirm   = "☑"
	KeyQuantity  = "Qty"
	KeyDiscount  = "% Disc"
	KeyPrice     = "Price"
)

// Tender accumulates the amount the operator keys in toward the current
// total. The raw buffer is the source of truth; the amount is re-parsed
// after every edit and falls back to zero when unparseable.
type Tender struct {
	buffer string
	amount decimal.Decimal
}

func New() *Tender {
	return &Tender{amount: decimal.Zero}
}

// Press applies one keypad symbol. Digits and the decimal point append
// to the buffer; C clears; ⌫ removes the last character. The Qty,
// % Disc and Price mode keys are accepted but have no numeric effect.
// The confirm key is dispatched by the caller, not here.
func (t *Tender) Press(key string) {
	switch key {
	case KeyClear:
		t.Reset()
	case KeyBackspace:
		if t.buffer != "" {
			t.buffer = t.buffer[:len(t.buffer)-len(lastRune(t.buffer))]
		}
		t.reparse()
	case KeyQuantity, KeyDiscount, KeyPrice, KeyConfirm:
		// no numeric effect
	default:
		if isEntryKey(key) {
			t.buffer += key
			t.reparse()
		}
	}
}

// SetAmount replaces the buffer with a directly entered amount, as the
// payment input field does.
func (t *Tender) SetAmount(amount decimal.Decimal) {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	t.buffer = amount.String()
	t.amount = amount
}

func (t *Tender) Reset() {
	t.buffer = ""
	t.amount = decimal.Zero
}

func (t *Tender) Buffer() string {
	return t.buffer
}

// Amount is the parsed tendered amount; zero while idle or unparseable.
func (t *Tender) Amount() decimal.Decimal {
	return t.amount
}

func (t *Tender) State() State {
	if t.buffer == "" {
		return StateIdle
	}
	return StateEntering
}

// Balance between the tendered amount and a total. Exactly one of
// Remaining and ChangeDue is non-zero, both zero when they match.
type Balance struct {
	Remaining decimal.Decimal `json:"remaining"`
	ChangeDue decimal.Decimal `json:"changeDue"`
}

// Balance derives the remaining balance or change due against total.
func (t *Tender) Balance(total decimal.Decimal) Balance {
	if t.amount.GreaterThan(total) {
		return Balance{Remaining: decimal.Zero, ChangeDue: t.amount.Sub(total)}
	}
	return Balance{Remaining: total.Sub(t.amount), ChangeDue: decimal.Zero}
}

// Confirm validates the tendered amount against total, returning the
// balance to announce, and resets the tender. A non-positive amount is
// rejected and leaves the tender untouched. Confirming does not submit
// the order; submission is a separate action.
func (t *Tender) Confirm(total decimal.Decimal) (Balance, error) {
	if !t.amount.IsPositive() {
		return Balance{}, domain.ErrInvalidAmount
	}
	balance := t.Balance(total)
	t.Reset()
	return balance, nil
}

func (t *Tender) reparse() {
	parsed, err := decimal.NewFromString(t.buffer)
	if err != nil {
		t.amount = decimal.Zero
		return
	}
	t.amount = parsed
}

func isEntryKey(key string) bool {
	if key == "." {
		return true
	}
	return len(key) == 1 && strings.ContainsAny(key, "0123456789")
}

func lastRune(s string) string {
	runes := []rune(s)
	return string(runes[len(runes)-1])
}
