package handler

import (
	"github.com/labstack/echo/v4"

	"planora/internal/usecase"
	"planora/pkg/response"
	"planora/pkg/utils"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type sendMessageRequest struct {
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

type editMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ListMessages returns the room timeline in display order, joined with
// sender profiles.
func (h *MessageHandler) ListMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetListParams(c, 100)

	messages, err := h.messageUseCase.ListMessages(c.Request().Context(), userID, c.Param("id"), params.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		RoomID:        c.Param("id"),
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessageHandler) EditMessage(c echo.Context) error {
	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.messageUseCase.EditMessage(c.Request().Context(), c.Param("messageId"), userID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}

func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.messageUseCase.DeleteMessage(c.Request().Context(), c.Param("messageId"), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
