package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinttrack/inventory-service/internal/entitlement"
	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/units"
	"github.com/tinttrack/inventory-service/internal/visit"
	"github.com/tinttrack/inventory-service/internal/visit/dto"
	"github.com/tinttrack/inventory-service/internal/web"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type VisitHandler struct {
	uc     visit.UseCase
	logger logger.ZapLogger
}

func NewVisitHandler(uc visit.UseCase, log logger.ZapLogger) *VisitHandler {
	return &VisitHandler{uc: uc, logger: log}
}

func (h *VisitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	visits := rg.Group("/visits")
	visits.POST("", h.CreateVisit)
	visits.GET("", h.ListVisits)
	visits.GET("/:id", h.GetVisit)
}

type lineItemRequest struct {
	InventoryItemID string  `json:"inventory_item_id" binding:"required"`
	Amount          float64 `json:"amount" binding:"min=0"`
}

type formulaRequest struct {
	Name      string            `json:"name"`
	LineItems []lineItemRequest `json:"line_items"`
}

type createVisitRequest struct {
	ClientID      *string          `json:"client_id"`
	VisitedAt     *time.Time       `json:"visited_at"`
	Notes         string           `json:"notes"`
	Unit          string           `json:"unit"`
	AllowNegative bool             `json:"allow_negative"`
	Formulas      []formulaRequest `json:"formulas"`
}

func (h *VisitHandler) CreateVisit(c *gin.Context) {
	var req createVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	unit := units.Grams
	if req.Unit != "" {
		var err error
		if unit, err = units.ParseUnit(req.Unit); err != nil {
			web.Error(c, http.StatusBadRequest, "invalid_unit", err.Error())
			return
		}
	}

	input := &dto.CreateVisitInput{
		ClientID:      req.ClientID,
		Notes:         req.Notes,
		AllowNegative: req.AllowNegative,
		ActorID:       web.ActorID(c),
	}
	if req.VisitedAt != nil {
		input.VisitedAt = *req.VisitedAt
	}
	for _, f := range req.Formulas {
		formula := dto.FormulaInput{Name: f.Name}
		for _, li := range f.LineItems {
			formula.LineItems = append(formula.LineItems, dto.LineItemInput{
				InventoryItemID: li.InventoryItemID,
				AmountGrams:     units.ToGrams(li.Amount, unit),
			})
		}
		input.Formulas = append(input.Formulas, formula)
	}

	v, txns, err := h.uc.CreateVisit(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"visit": v, "transactions": txns})
}

func (h *VisitHandler) GetVisit(c *gin.Context) {
	v, err := h.uc.GetVisit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VisitHandler) ListVisits(c *gin.Context) {
	filters := &dto.VisitFilters{
		ClientID: c.Query("client_id"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 50),
	}

	visits, total, err := h.uc.ListVisits(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"visits": visits, "total": total})
}

func (h *VisitHandler) fail(c *gin.Context, err error) {
	var archErr *visit.ArchivedItemError
	var insErr *visit.InsufficientStockError
	var unknownErr *visit.UnknownItemError

	switch {
	case errors.Is(err, entitlement.ErrNotEntitled):
		web.Error(c, http.StatusPaymentRequired, "not_entitled", err.Error())
	case errors.Is(err, visit.ErrVisitNotFound):
		web.Error(c, http.StatusNotFound, "visit_not_found", err.Error())
	case errors.Is(err, inventory.ErrLockBusy):
		web.Error(c, http.StatusConflict, "item_busy", err.Error())
	case errors.As(err, &archErr):
		web.ErrorWithDetails(c, http.StatusUnprocessableEntity, "archived_item_used", err.Error(), gin.H{
			"item_id": archErr.Item.ID,
			"title":   archErr.Item.Title(),
		})
	case errors.As(err, &insErr):
		shortfalls := make([]gin.H, 0, len(insErr.Shortfalls))
		for _, sf := range insErr.Shortfalls {
			shortfalls = append(shortfalls, gin.H{
				"item_id":         sf.Item.ID,
				"title":           sf.Item.Title(),
				"required_grams":  sf.RequiredGrams,
				"available_grams": sf.AvailableGrams,
			})
		}
		web.ErrorWithDetails(c, http.StatusConflict, "insufficient_stock", err.Error(), gin.H{
			"shortfalls": shortfalls,
		})
	case errors.As(err, &unknownErr):
		web.ErrorWithDetails(c, http.StatusUnprocessableEntity, "unknown_item", err.Error(), gin.H{
			"item_id": unknownErr.ItemID,
		})
	default:
		h.logger.Error("visit request failed", zap.Error(err))
		web.Error(c, http.StatusInternalServerError, "unable_to_save", "unable to save")
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
