package router

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/adapter/api/handler"
	"campuscloset/internal/adapter/api/middleware"
)

func SetupRentalRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	rentalHandler := handler.GetRentalHandler()

	rentals := e.Group("/v1/rentals")
	rentals.Use(authMiddleware.Authenticate)

	rentals.POST("", rentalHandler.CreateRental)
	rentals.GET("", rentalHandler.ListMyRentals)
	rentals.GET("/:id", rentalHandler.GetRental)
	rentals.PUT("/:id/status", rentalHandler.UpdateStatus)
}
