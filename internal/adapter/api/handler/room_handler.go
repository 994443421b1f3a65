package handler

import (
	"github.com/labstack/echo/v4"

	"planora/internal/usecase"
	"planora/pkg/response"
)

type RoomHandler struct {
	resolverUseCase   *usecase.RoomResolverUseCase
	directoryUseCase  *usecase.RoomDirectoryUseCase
	membershipUseCase *usecase.MembershipUseCase
}

func NewRoomHandler(
	resolverUseCase *usecase.RoomResolverUseCase,
	directoryUseCase *usecase.RoomDirectoryUseCase,
	membershipUseCase *usecase.MembershipUseCase,
) *RoomHandler {
	return &RoomHandler{
		resolverUseCase:   resolverUseCase,
		directoryUseCase:  directoryUseCase,
		membershipUseCase: membershipUseCase,
	}
}

type resolveDirectRoomRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// ResolveDirectRoom returns the caller's direct room with the given user,
// creating it on first contact.
func (h *RoomHandler) ResolveDirectRoom(c echo.Context) error {
	var req resolveDirectRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	room, err := h.resolverUseCase.ResolveDirectRoom(c.Request().Context(), userID, userID, req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, room)
}

// CreateRoom creates a group, project or general room.
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req usecase.CreateRoomInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	room, err := h.membershipUseCase.CreateRoom(c.Request().Context(), userID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, room)
}

// ListRooms returns every room the caller belongs to, with unread counts and
// project names.
func (h *RoomHandler) ListRooms(c echo.Context) error {
	userID := c.Get("uid").(string)

	rooms, err := h.directoryUseCase.ListRooms(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rooms)
}

func (h *RoomHandler) GetRoom(c echo.Context) error {
	userID := c.Get("uid").(string)

	room, err := h.directoryUseCase.GetRoom(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, room)
}

func (h *RoomHandler) MarkRoomRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.directoryUseCase.MarkRoomRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}

func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.membershipUseCase.DeleteRoom(c.Request().Context(), c.Param("id"), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
