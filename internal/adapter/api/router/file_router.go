package router

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/adapter/api/handler"
	"campuscloset/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("/upload", handler.GetFileHandler().UploadFile)
}
