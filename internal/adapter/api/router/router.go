package router

import (
	"github.com/labstack/echo/v4"

	"campuscloset/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e)
	SetupUserRouter(e, authMiddleware)
	SetupItemRouter(e, authMiddleware)
	SetupRentalRouter(e, authMiddleware)
	SetupConversationRouter(e, authMiddleware)
	SetupFileRouter(e, authMiddleware)
}
