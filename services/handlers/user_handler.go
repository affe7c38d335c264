package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/shared"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

// @Summary Get user profile
// @Description Profile with level, streak, badges and skill scores
// @Tags user
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/profile [get]
func (h *UserHandler) GetUserProfile(c *fiber.Ctx) error {
	profile, err := h.userSvc.GetUserProfile(shared.LocalString(c, shared.UserID))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, profile)
}

// @Summary Update user profile
// @Description Change display name, preferred domain or experience level
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param updateRequest body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/profile [put]
func (h *UserHandler) UpdateUserProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	profile, err := h.userSvc.UpdateUserProfile(shared.LocalString(c, shared.UserID), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Profile updated successfully", profile)
}

// @Summary Upload avatar
// @Description Upload a JPEG, PNG or WebP avatar up to 2MB
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} shared.Response{data=dto.AvatarUploadResponse}
// @Router /api/v1/profile/avatar [post]
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return shared.NewBadRequestError(err, "Avatar file is required")
	}

	resp, err := h.userSvc.UploadAvatar(c.UserContext(), shared.LocalString(c, shared.UserID), file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Avatar uploaded successfully", resp)
}

// @Summary Performance statistics
// @Description Averages, weekly progress, skill radar and improvement tips from recent results
// @Tags user
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.PerformanceStats}
// @Router /api/v1/profile/stats [get]
func (h *UserHandler) GetPerformanceStats(c *fiber.Ctx) error {
	stats, err := h.userSvc.CalculatePerformanceStats(shared.LocalString(c, shared.UserID))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, stats)
}

// @Summary Earned badges
// @Tags user
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Router /api/v1/profile/badges [get]
func (h *UserHandler) GetBadges(c *fiber.Ctx) error {
	badges, err := h.userSvc.GetBadges(shared.LocalString(c, shared.UserID))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, badges)
}
