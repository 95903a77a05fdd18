package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
)

func catalogHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID int64
		if raw := c.Query("category"); raw != "" && raw != "all" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			categoryID = id
		}
		products, categories, err := terminal.Catalog(categoryID, c.Query("q"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "categories": categories})
	}
}

func refreshHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := terminal.Refresh(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func orderViewHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, terminal.View())
	}
}

func addItemHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			VariantID int64 `json:"variantId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variantId required"})
			return
		}
		if err := terminal.AddItem(req.VariantID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, terminal.View())
	}
}

func setQuantityHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
			return
		}
		if err := terminal.SetItemQuantity(variantID, req.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, terminal.View())
	}
}

func removeItemHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}
		terminal.RemoveItem(variantID)
		c.JSON(http.StatusOK, terminal.View())
	}
}

func clearOrderHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		terminal.ClearOrder()
		c.JSON(http.StatusOK, terminal.View())
	}
}

func customerHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		terminal.SetCustomer(req.Name)
		c.JSON(http.StatusOK, terminal.View())
	}
}

func keypadHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Key string `json:"key" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "key required"})
			return
		}
		result, err := terminal.PressKey(req.Key)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result, "order": terminal.View()})
	}
}

func tenderedHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount required"})
			return
		}
		terminal.SetTendered(req.Amount)
		c.JSON(http.StatusOK, terminal.View())
	}
}

func submitHandler(terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := terminal.Submit(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order submitted successfully", "order": terminal.View()})
	}
}

func historyHandler(orders OrderService, terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := orders.History(c.Request.Context(), terminal.Session())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": records})
	}
}

func cancelHandler(orders OrderService, terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		if err := orders.Cancel(c.Request.Context(), terminal.Session(), orderID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func stockAdjustHandler(stock StockService, terminal Terminal, adding bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}
		var req struct {
			Quantity int `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
			return
		}
		var err error
		if adding {
			err = stock.Add(c.Request.Context(), terminal.Session(), variantID, req.Quantity)
		} else {
			err = stock.Reduce(c.Request.Context(), terminal.Session(), variantID, req.Quantity)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func transactionsHandler(stock StockService, terminal Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}
		transactions, err := stock.Transactions(c.Request.Context(), terminal.Session(), variantID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": transactions})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps the error taxonomy to HTTP statuses. Stock
// violations carry the ceiling so the UI can show it.
func respondError(c *gin.Context, err error) {
	var stockErr *domain.StockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error(), "available": stockErr.Available})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAuthMissing), errors.Is(err, domain.ErrAuthFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCartEmpty), errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogLoad), errors.Is(err, domain.ErrSubmitFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
