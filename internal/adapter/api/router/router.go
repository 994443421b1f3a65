package router

import (
	"github.com/labstack/echo/v4"

	"planora/internal/adapter/api/handler"
	"planora/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	roomHandler *handler.RoomHandler,
	messageHandler *handler.MessageHandler,
	memberHandler *handler.MemberHandler,
	wsHandler *handler.WebSocketHandler,
) {
	SetupRoomRouter(e, roomHandler, messageHandler, memberHandler, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
	SetupHealthRouter(e)
}
