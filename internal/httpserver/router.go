package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
	"posterminal/internal/pos"
	"posterminal/internal/upstream"
)

// Terminal is the slice of the POS session the handlers need.
type Terminal interface {
	Refresh(ctx context.Context) error
	Catalog(categoryID int64, query string) ([]domain.Product, []domain.Category, error)
	AddItem(variantID int64) error
	RemoveItem(variantID int64)
	SetItemQuantity(variantID int64, quantity int) error
	ClearOrder()
	SetCustomer(name string)
	SetTendered(amount decimal.Decimal)
	PressKey(key string) (pos.KeyResult, error)
	View() pos.View
	Submit(ctx context.Context) error
	Session() *domain.Session
}

// OrderService covers the order history pass-throughs.
type OrderService interface {
	History(ctx context.Context, sess *domain.Session) ([]upstream.OrderRecord, error)
	Cancel(ctx context.Context, sess *domain.Session, orderID int64) error
}

// StockService covers the stock-adjustment pass-throughs.
type StockService interface {
	Add(ctx context.Context, sess *domain.Session, variantID int64, amount int) error
	Reduce(ctx context.Context, sess *domain.Session, variantID int64, amount int) error
	Transactions(ctx context.Context, sess *domain.Session, variantID int64) ([]upstream.Transaction, error)
}

type Deps struct {
	Terminal Terminal
	Orders   OrderService
	Stock    StockService
}

// buildRouter wires routes for the terminal API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Terminal == nil {
		return nil, errors.New("terminal dependency required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Terminal))

	api := router.Group("/api")
	api.GET("/catalog", catalogHandler(deps.Terminal))
	api.POST("/catalog/refresh", refreshHandler(deps.Terminal))

	api.GET("/order", orderViewHandler(deps.Terminal))
	api.POST("/order/items", addItemHandler(deps.Terminal))
	api.PUT("/order/items/:variantId", setQuantityHandler(deps.Terminal))
	api.DELETE("/order/items/:variantId", removeItemHandler(deps.Terminal))
	api.DELETE("/order", clearOrderHandler(deps.Terminal))
	api.PUT("/order/customer", customerHandler(deps.Terminal))
	api.POST("/order/keypad", keypadHandler(deps.Terminal))
	api.PUT("/order/tendered", tenderedHandler(deps.Terminal))
	api.POST("/order/submit", submitHandler(deps.Terminal))

	if deps.Orders != nil {
		api.GET("/orders/history", historyHandler(deps.Orders, deps.Terminal))
		api.POST("/orders/:orderId/cancel", cancelHandler(deps.Orders, deps.Terminal))
	}
	if deps.Stock != nil {
		api.POST("/stock/:variantId/add", stockAdjustHandler(deps.Stock, deps.Terminal, true))
		api.POST("/stock/:variantId/reduce", stockAdjustHandler(deps.Stock, deps.Terminal, false))
		api.GET("/stock/:variantId/transactions", transactionsHandler(deps.Stock, deps.Terminal))
	}

	return router, nil
}
