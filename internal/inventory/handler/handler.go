package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/inventory/dto"
	"github.com/tinttrack/inventory-service/internal/units"
	"github.com/tinttrack/inventory-service/internal/web"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{uc: uc, logger: log}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	items.POST("", h.CreateItem)
	items.GET("", h.ListItems)
	items.GET("/low-stock", h.ListLowStock)
	items.GET("/search", h.SearchItems)
	items.GET("/:id", h.GetItem)
	items.PUT("/:id", h.UpdateItem)
	items.POST("/:id/archive", h.SetArchived)
	items.POST("/:id/adjust", h.AdjustStock)
	items.GET("/:id/transactions", h.ListItemTransactions)

	rg.GET("/transactions", h.ListTransactions)
}

type createItemRequest struct {
	CategoryID        *string           `json:"category_id"`
	Fields            map[string]string `json:"fields"`
	CurrentStock      float64           `json:"current_stock" binding:"min=0"`
	LowStockThreshold float64           `json:"low_stock_threshold" binding:"min=0"`
	UnitSize          float64           `json:"unit_size" binding:"min=0"`
	Unit              string            `json:"unit"`
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	unit, err := requestUnit(req.Unit)
	if err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_unit", err.Error())
		return
	}

	item, err := h.uc.CreateItem(c.Request.Context(), &dto.CreateItemInput{
		CategoryID:             req.CategoryID,
		Fields:                 req.Fields,
		CurrentStockGrams:      units.ToGrams(req.CurrentStock, unit),
		LowStockThresholdGrams: units.ToGrams(req.LowStockThreshold, unit),
		UnitSizeGrams:          units.ToGrams(req.UnitSize, unit),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapItem(item, unit))
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	unit, err := requestUnit(c.Query("unit"))
	if err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_unit", err.Error())
		return
	}

	item, err := h.uc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := mapItem(item, unit)

	// cost_amount previews the cost of consuming that much of the item, in
	// the requested unit. Omitted from the response when the item has no
	// unit size or no parseable cost.
	if raw := c.Query("cost_amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			web.Error(c, http.StatusBadRequest, "invalid_request", "cost_amount must be a number")
			return
		}
		if cost, ok := inventory.CostForUsage(item, units.ToGrams(amount, unit)); ok {
			resp.UsageCost = &cost
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	unit, err := requestUnit(c.Query("unit"))
	if err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_unit", err.Error())
		return
	}

	filters := &dto.ItemFilters{
		CategoryID:      c.Query("category_id"),
		LowStock:        c.Query("low_stock") == "true",
		IncludeArchived: c.Query("include_archived") == "true",
		Page:            intQuery(c, "page", 1),
		PageSize:        intQuery(c, "page_size", 50),
	}

	items, total, err := h.uc.ListItems(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": mapItems(items, unit), "total": total})
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	unit, err := requestUnit(c.Query("unit"))
	if err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_unit", err.Error())
		return
	}

	filters := &dto.ItemFilters{
		LowStock: true,
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 50),
	}

	items, total, err := h.uc.ListItems(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": mapItems(items, unit), "total": total})
}

type updateItemRequest struct {
	CategoryID        *string           `json:"category_id"`
	Fields            map[string]string `json:"fields"`
	LowStockThreshold float64           `json:"low_stock_threshold" binding:"min=0"`
	UnitSize          float64           `json:"unit_size" binding:"min=0"`
	Unit              string            `json:"unit"`
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	unit, err := requestUnit(req.Unit)
	if err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_unit", err.Error())
		return
	}

	item, err := h.uc.UpdateItem(c.Request.Context(), &dto.UpdateItemInput{
		ID:                     c.Param("id"),
		CategoryID:             req.CategoryID,
		Fields:                 req.Fields,
		LowStockThresholdGrams: units.ToGrams(req.LowStockThreshold, unit),
		UnitSizeGrams:          units.ToGrams(req.UnitSize, unit),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, mapItem(item, unit))
}

type setArchivedRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

func (h *InventoryHandler) SetArchived(c *gin.Context) {
	var req setArchivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item, err := h.uc.SetItemArchived(c.Request.Context(), c.Param("id"), *req.Archived)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, mapItem(item, units.Grams))
}

type adjustStockRequest struct {
	Amount        float64 `json:"amount"`
	Unit          string  `json:"unit"`
	AllowNegative bool    `json:"allow_negative"`
	Notes         string  `json:"notes"`
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	unit, err := requestUnit(req.Unit)
	if err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_unit", err.Error())
		return
	}

	item, txn, err := h.uc.AdjustStock(c.Request.Context(), &dto.AdjustStockInput{
		ItemID:        c.Param("id"),
		DeltaGrams:    units.ToGrams(req.Amount, unit),
		AllowNegative: req.AllowNegative,
		Notes:         req.Notes,
		ActorID:       web.ActorID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": mapItem(item, unit), "transaction": txn})
}

func (h *InventoryHandler) ListItemTransactions(c *gin.Context) {
	h.listTransactions(c, c.Param("id"))
}

func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	h.listTransactions(c, c.Query("item_id"))
}

func (h *InventoryHandler) listTransactions(c *gin.Context, itemID string) {
	filters := &dto.TransactionFilters{
		ItemID:   itemID,
		VisitID:  c.Query("visit_id"),
		Reason:   c.Query("reason"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 50),
	}

	txns, total, err := h.uc.ListTransactions(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns, "total": total})
}

func (h *InventoryHandler) SearchItems(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		web.Error(c, http.StatusBadRequest, "invalid_request", "query parameter q is required")
		return
	}

	items, err := h.uc.SearchItems(c.Request.Context(), q, intQuery(c, "limit", 20))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": mapItems(items, units.Grams)})
}

func (h *InventoryHandler) fail(c *gin.Context, err error) {
	var negErr *inventory.NegativeStockError
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		web.Error(c, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, inventory.ErrItemArchived):
		web.Error(c, http.StatusUnprocessableEntity, "item_archived", err.Error())
	case errors.Is(err, inventory.ErrSearchUnavailable):
		web.Error(c, http.StatusServiceUnavailable, "search_unavailable", err.Error())
	case errors.Is(err, inventory.ErrLockBusy):
		web.Error(c, http.StatusConflict, "item_busy", err.Error())
	case errors.As(err, &negErr):
		web.ErrorWithDetails(c, http.StatusConflict, "insufficient_stock", err.Error(), gin.H{
			"item_id":         negErr.ItemID,
			"available_grams": negErr.AvailableGrams,
			"delta_grams":     negErr.DeltaGrams,
		})
	default:
		h.logger.Error("inventory request failed", zap.Error(err))
		web.Error(c, http.StatusInternalServerError, "unable_to_save", "unable to save")
	}
}

func requestUnit(s string) (units.Unit, error) {
	if s == "" {
		return units.Grams, nil
	}
	return units.ParseUnit(s)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
