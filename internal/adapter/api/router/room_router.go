package router

import (
	"github.com/labstack/echo/v4"

	"planora/internal/adapter/api/handler"
	"planora/internal/adapter/api/middleware"
)

// SetupRoomRouter wires every room, message and member route. All of them
// require authentication.
func SetupRoomRouter(
	e *echo.Echo,
	roomHandler *handler.RoomHandler,
	messageHandler *handler.MessageHandler,
	memberHandler *handler.MemberHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	rooms := e.Group("/v1/rooms")
	rooms.Use(middleware.GeneralRateLimit())
	rooms.Use(authMiddleware.Authenticate)

	// Room directory and lifecycle. Direct rooms are resolved through
	// /direct, never created via POST /v1/rooms.
	rooms.GET("", roomHandler.ListRooms)
	rooms.POST("", roomHandler.CreateRoom)
	rooms.POST("/direct", roomHandler.ResolveDirectRoom)
	rooms.GET("/:id", roomHandler.GetRoom)
	rooms.DELETE("/:id", roomHandler.DeleteRoom)
	rooms.PUT("/:id/read", roomHandler.MarkRoomRead)

	// Messages
	rooms.GET("/:id/messages", messageHandler.ListMessages)
	rooms.POST("/:id/messages", messageHandler.SendMessage)
	rooms.PUT("/:id/messages/:messageId", messageHandler.EditMessage)
	rooms.DELETE("/:id/messages/:messageId", messageHandler.DeleteMessage)

	// Members
	rooms.GET("/:id/members", memberHandler.ListMembers)
	rooms.POST("/:id/members", memberHandler.Invite)
	rooms.DELETE("/:id/members/:userId", memberHandler.Remove)
	rooms.PUT("/:id/members/:userId/role", memberHandler.UpdateRole)
}
