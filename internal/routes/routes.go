package routes

import (
	"github.com/gin-gonic/gin"

	"stayhub_backend/internal/handlers"
	"stayhub_backend/internal/logger"
	"stayhub_backend/ws"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	// HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.PropertyHandler.RegisterRoutes(api)
		appHandlers.CheckInHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}

	// WebSocket: токен проверяется внутри рукопожатия (заголовок
	// Authorization или query-параметр token), поэтому AuthMiddleware
	// здесь не вешаем
	wsGroup := ginRouter.Group("/ws")
	{
		wsGroup.GET("/multiplex", wsHandler.Multiplex)
		wsGroup.GET("/notifications", wsHandler.Notifications)
	}
	logger.Info("WebSocket routes /ws/multiplex and /ws/notifications registered")
}
