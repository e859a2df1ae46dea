package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"campuscloset/internal/usecase"
	"campuscloset/pkg/errors"
	"campuscloset/pkg/response"
	"campuscloset/pkg/utils"
)

type RentalHandler struct {
	rentalUseCase *usecase.RentalUseCase
}

func NewRentalHandler(rentalUseCase *usecase.RentalUseCase) *RentalHandler {
	return &RentalHandler{
		rentalUseCase: rentalUseCase,
	}
}

type createRentalRequest struct {
	ItemID    string `json:"item_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type updateRentalStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *RentalHandler) CreateRental(c echo.Context) error {
	var req createRentalRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return response.Error(c, errors.BadRequest("start_date must be YYYY-MM-DD", err))
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return response.Error(c, errors.BadRequest("end_date must be YYYY-MM-DD", err))
	}

	userID := c.Get("uid").(string)

	rental, err := h.rentalUseCase.CreateRental(c.Request().Context(), userID, usecase.CreateRentalInput{
		ItemID:    req.ItemID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, rental)
}

func (h *RentalHandler) GetRental(c echo.Context) error {
	userID := c.Get("uid").(string)

	rental, err := h.rentalUseCase.GetRental(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rental)
}

func (h *RentalHandler) ListMyRentals(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	rentals, total, err := h.rentalUseCase.ListUserRentals(c.Request().Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, rentals, total, pagination.Limit, pagination.Offset)
}

func (h *RentalHandler) UpdateStatus(c echo.Context) error {
	var req updateRentalStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	rental, err := h.rentalUseCase.UpdateRentalStatus(c.Request().Context(), userID, c.Param("id"), usecase.UpdateRentalStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rental)
}
