package router

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/adapter/api/handler"
	"campuscloset/internal/adapter/api/middleware"
)

func SetupConversationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	conversationHandler := handler.GetConversationHandler()

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.POST("", conversationHandler.OpenConversation)
	conversations.GET("", conversationHandler.GetUserConversations)
	conversations.GET("/:id", conversationHandler.GetConversation)
	conversations.PUT("/:id/read", conversationHandler.MarkAsRead)

	conversations.GET("/:id/messages", conversationHandler.GetMessages)
	conversations.POST("/:id/messages", conversationHandler.SendMessage)
	conversations.PUT("/:id/messages/:messageId", conversationHandler.EditMessage)
}
