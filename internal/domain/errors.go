package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAuthMissing indicates no session token is present; raised before any upstream call.
	ErrAuthMissing = errors.New("authentication token missing")
	// ErrAuthFailed indicates the upstream service rejected the session token.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrCatalogLoad indicates the product or category fetch failed.
	ErrCatalogLoad = errors.New("catalog load failed")
	// ErrSubmitFailed indicates the order could not be submitted.
	ErrSubmitFailed = errors.New("order submission failed")
	// ErrInvalidAmount indicates a non-positive or unparseable tendered amount.
	ErrInvalidAmount = errors.New("invalid payment amount")
	// ErrCartEmpty indicates a submit attempt with no line items.
	ErrCartEmpty = errors.New("no items in order")
	// ErrBusy indicates a submission is already in flight.
	ErrBusy = errors.New("submission already in progress")
)

// StockError reports a cart mutation that would exceed the available
// quantity of a variant. Available carries the stock ceiling so callers
// can surface it to the operator.
type StockError struct {
	VariantID int64
	Available int
}

func (e *StockError) Error() string {
	if e.Available <= 0 {
		return "this product is out of stock"
	}
	return fmt.Sprintf("only %d items available in stock", e.Available)
}
