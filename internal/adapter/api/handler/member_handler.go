package handler

import (
	"github.com/labstack/echo/v4"

	"planora/internal/domain/entity"
	"planora/internal/usecase"
	"planora/pkg/response"
)

type MemberHandler struct {
	membershipUseCase *usecase.MembershipUseCase
}

func NewMemberHandler(membershipUseCase *usecase.MembershipUseCase) *MemberHandler {
	return &MemberHandler{
		membershipUseCase: membershipUseCase,
	}
}

type inviteRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin moderator member"`
}

func (h *MemberHandler) ListMembers(c echo.Context) error {
	userID := c.Get("uid").(string)

	members, err := h.membershipUseCase.ListMembers(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, members)
}

func (h *MemberHandler) Invite(c echo.Context) error {
	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	participant, err := h.membershipUseCase.Invite(c.Request().Context(), c.Param("id"), userID, req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, participant)
}

// Remove takes a member out of the room. Members may remove themselves to
// leave.
func (h *MemberHandler) Remove(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.membershipUseCase.Remove(c.Request().Context(), c.Param("id"), userID, c.Param("userId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "removed"})
}

func (h *MemberHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	err := h.membershipUseCase.UpdateRole(
		c.Request().Context(),
		c.Param("id"),
		userID,
		c.Param("userId"),
		entity.ParticipantRole(req.Role),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "updated"})
}
