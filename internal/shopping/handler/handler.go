package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/shopping"
	"github.com/tinttrack/inventory-service/internal/shopping/dto"
	"github.com/tinttrack/inventory-service/internal/web"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type ShoppingHandler struct {
	uc     shopping.UseCase
	logger logger.ZapLogger
}

func NewShoppingHandler(uc shopping.UseCase, log logger.ZapLogger) *ShoppingHandler {
	return &ShoppingHandler{uc: uc, logger: log}
}

func (h *ShoppingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	list := rg.Group("/shopping-list")
	list.GET("", h.GetList)
	list.POST("/items", h.AddManualEntry)
	list.PATCH("/items/:id/purchased", h.SetPurchased)
	list.PATCH("/by-item/:itemID/purchased", h.SetItemPurchased)
	list.DELETE("/items/:id", h.DeleteEntry)
	list.POST("/purchase-all", h.MarkAllPurchased)
	list.POST("/clear-purchased", h.ClearPurchased)
}

func (h *ShoppingHandler) GetList(c *gin.Context) {
	entries, err := h.uc.GetList(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type addEntryRequest struct {
	Title    string `json:"title" binding:"required"`
	Quantity string `json:"quantity"`
}

func (h *ShoppingHandler) AddManualEntry(c *gin.Context) {
	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	entry, err := h.uc.AddManualEntry(c.Request.Context(), &dto.CreateEntryInput{
		Title:    req.Title,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type setPurchasedRequest struct {
	Purchased *bool `json:"purchased" binding:"required"`
}

func (h *ShoppingHandler) SetPurchased(c *gin.Context) {
	var req setPurchasedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	entry, err := h.uc.SetPurchased(c.Request.Context(), c.Param("id"), *req.Purchased)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ShoppingHandler) SetItemPurchased(c *gin.Context) {
	var req setPurchasedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	entry, err := h.uc.SetItemPurchased(c.Request.Context(), c.Param("itemID"), *req.Purchased)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ShoppingHandler) DeleteEntry(c *gin.Context) {
	if err := h.uc.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShoppingHandler) MarkAllPurchased(c *gin.Context) {
	if err := h.uc.MarkAllPurchased(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShoppingHandler) ClearPurchased(c *gin.Context) {
	if err := h.uc.ClearPurchased(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShoppingHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shopping.ErrEntryNotFound):
		web.Error(c, http.StatusNotFound, "entry_not_found", err.Error())
	case errors.Is(err, inventory.ErrItemNotFound):
		web.Error(c, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, shopping.ErrNotManual):
		web.Error(c, http.StatusUnprocessableEntity, "entry_not_manual", err.Error())
	default:
		h.logger.Error("shopping list request failed", zap.Error(err))
		web.Error(c, http.StatusInternalServerError, "unable_to_save", "unable to save")
	}
}
