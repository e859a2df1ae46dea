package handler

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/usecase"
	"campuscloset/pkg/response"
)

type ConversationHandler struct {
	messagingUseCase *usecase.MessagingUseCase
}

func NewConversationHandler(messagingUseCase *usecase.MessagingUseCase) *ConversationHandler {
	return &ConversationHandler{
		messagingUseCase: messagingUseCase,
	}
}

type openConversationRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	RenterID string `json:"renter_id"`
}

type sendMessageRequest struct {
	Content  string                 `json:"content" validate:"required"`
	Type     string                 `json:"type" validate:"omitempty,oneof=text system rental_request rental_update"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type editMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// OpenConversation gets or creates the thread for an item between its owner
// and a renter. Owners pass renter_id; renters may omit it.
func (h *ConversationHandler) OpenConversation(c echo.Context) error {
	var req openConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	conv, err := h.messagingUseCase.GetOrCreateConversation(c.Request().Context(), userID, usecase.GetOrCreateConversationInput{
		ItemID:   req.ItemID,
		RenterID: req.RenterID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conv)
}

func (h *ConversationHandler) GetUserConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	convs, err := h.messagingUseCase.GetUserConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, convs)
}

func (h *ConversationHandler) GetConversation(c echo.Context) error {
	userID := c.Get("uid").(string)

	conv, err := h.messagingUseCase.GetConversation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conv)
}

func (h *ConversationHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)

	messages, err := h.messagingUseCase.GetMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.messagingUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ConversationID: c.Param("id"),
		Content:        req.Content,
		Type:           req.Type,
		Metadata:       req.Metadata,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ConversationHandler) EditMessage(c echo.Context) error {
	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.messagingUseCase.EditMessage(c.Request().Context(), userID, c.Param("id"), c.Param("messageId"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}

func (h *ConversationHandler) MarkAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.messagingUseCase.MarkAsRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}
