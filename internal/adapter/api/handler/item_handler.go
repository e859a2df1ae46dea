package handler

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/usecase"
	"campuscloset/pkg/response"
	"campuscloset/pkg/utils"
)

type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

type createItemRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Size        string   `json:"size"`
	PricePerDay float64  `json:"price_per_day" validate:"required,gt=0"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

type updateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	PricePerDay float64  `json:"price_per_day" validate:"omitempty,gt=0"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	Available   *bool    `json:"available"`
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.itemUseCase.CreateItem(c.Request().Context(), userID, usecase.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Size:        req.Size,
		PricePerDay: req.PricePerDay,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.itemUseCase.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

// ListItems is the public browse endpoint with optional equality filters.
func (h *ItemHandler) ListItems(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := map[string]interface{}{}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}
	if size := c.QueryParam("size"); size != "" {
		filter["size"] = size
	}
	if c.QueryParam("available") == "true" {
		filter["available"] = true
	}

	items, total, err := h.itemUseCase.ListItems(c.Request().Context(), filter, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, items, total, pagination.Limit, pagination.Offset)
}

func (h *ItemHandler) ListMyItems(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.itemUseCase.ListMyItems(c.Request().Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, items, total, pagination.Limit, pagination.Offset)
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.itemUseCase.UpdateItem(c.Request().Context(), userID, c.Param("id"), usecase.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Size:        req.Size,
		PricePerDay: req.PricePerDay,
		Images:      req.Images,
		Available:   req.Available,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.itemUseCase.DeleteItem(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
