package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tinttrack/inventory-service/internal/category"
	"github.com/tinttrack/inventory-service/internal/category/dto"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/internal/web"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{uc: uc, logger: log}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.POST("", h.CreateCategory)
	categories.GET("", h.ListCategories)
	categories.GET("/:id", h.GetCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)
	categories.POST("/:id/fields", h.CreateField)
	categories.PUT("/:id/fields/:fieldID", h.UpdateField)
	categories.DELETE("/:id/fields/:fieldID", h.DeleteField)
}

type categoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.uc.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:        c.Param("id"),
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type fieldRequest struct {
	Name          string   `json:"name" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=text number toggle picker barcode"`
	PickerOptions []string `json:"picker_options"`
	SortOrder     int      `json:"sort_order"`
}

func (h *CategoryHandler) CreateField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	field, err := h.uc.CreateField(c.Request.Context(), &dto.CreateFieldInput{
		CategoryID:    c.Param("id"),
		Name:          req.Name,
		Type:          model.FieldType(req.Type),
		PickerOptions: req.PickerOptions,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, field)
}

func (h *CategoryHandler) UpdateField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	field, err := h.uc.UpdateField(c.Request.Context(), &dto.UpdateFieldInput{
		CategoryID:    c.Param("id"),
		FieldID:       c.Param("fieldID"),
		Name:          req.Name,
		Type:          model.FieldType(req.Type),
		PickerOptions: req.PickerOptions,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, field)
}

func (h *CategoryHandler) DeleteField(c *gin.Context) {
	if err := h.uc.DeleteField(c.Request.Context(), c.Param("id"), c.Param("fieldID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound):
		web.Error(c, http.StatusNotFound, "category_not_found", err.Error())
	case errors.Is(err, category.ErrFieldNotFound):
		web.Error(c, http.StatusNotFound, "field_not_found", err.Error())
	case errors.Is(err, category.ErrSystemCategory):
		web.Error(c, http.StatusUnprocessableEntity, "system_category", err.Error())
	default:
		h.logger.Error("category request failed", zap.Error(err))
		web.Error(c, http.StatusInternalServerError, "unable_to_save", "unable to save")
	}
}
