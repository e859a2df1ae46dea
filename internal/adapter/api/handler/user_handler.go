package handler

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/infrastructure/firebase"
	"campuscloset/internal/usecase"
	"campuscloset/pkg/errors"
	"campuscloset/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
	authClient  *firebase.AuthClient
}

func NewUserHandler(userUseCase *usecase.UserUseCase, authClient *firebase.AuthClient) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		authClient:  authClient,
	}
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

// GetMe returns the caller's profile, seeding it from the identity provider
// on first sign-in.
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := c.Get("uid").(string)
	ctx := c.Request().Context()

	user, err := h.userUseCase.GetUser(ctx, userID)
	if err == nil {
		return response.Success(c, user)
	}
	if !errors.Is(err, "NOT_FOUND") {
		return response.Error(c, err)
	}

	record, err := h.authClient.GetUser(ctx, userID)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to load identity record", err))
	}

	user, err = h.userUseCase.EnsureProfile(ctx, userID, record.Email, record.DisplayName)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
