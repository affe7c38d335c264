package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/shared"
)

type ChatHandler struct {
	chatSvc ChatServiceInterface
}

func NewChatHandler(chatSvc ChatServiceInterface) *ChatHandler {
	return &ChatHandler{
		chatSvc: chatSvc,
	}
}

// @Summary Ask the interview coach
// @Tags chat
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param message body dto.SendMessageRequest true "Message"
// @Success 200 {object} shared.Response{data=dto.SendMessageResponse}
// @Router /api/v1/chat [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.chatSvc.SendMessage(c.UserContext(), shared.LocalString(c, shared.UserID), req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Chat history
// @Description Messages in chronological order, starting with a greeting when empty
// @Tags chat
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Limit messages (default 50)"
// @Success 200 {object} shared.Response{data=[]dto.ChatMessageResponse}
// @Router /api/v1/chat [get]
func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := h.chatSvc.GetHistory(shared.LocalString(c, shared.UserID), limit)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, messages)
}
