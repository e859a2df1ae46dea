package router

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/adapter/api/handler"
	"campuscloset/internal/adapter/api/middleware"
)

func SetupItemRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	itemHandler := handler.GetItemHandler()

	// Browsing the catalog is public; everything else requires auth.
	e.GET("/v1/items", itemHandler.ListItems)
	e.GET("/v1/items/:id", itemHandler.GetItem)

	items := e.Group("/v1/items")
	items.Use(authMiddleware.Authenticate)

	items.POST("", itemHandler.CreateItem)
	items.PUT("/:id", itemHandler.UpdateItem)
	items.DELETE("/:id", itemHandler.DeleteItem)
}
