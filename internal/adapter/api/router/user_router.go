package router

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/adapter/api/handler"
	"campuscloset/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("/me/items", handler.GetItemHandler().ListMyItems)
	users.GET("/:id", userHandler.GetUser)
}
