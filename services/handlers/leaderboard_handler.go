package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/shared"
)

type LeaderboardHandler struct {
	userSvc UserServiceInterface
}

func NewLeaderboardHandler(userSvc UserServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		userSvc: userSvc,
	}
}

// @Summary Get leaderboard
// @Description Rankings by total score (all_time) or by scores earned in the last 7 or 30 days. A bearer token adds the caller's own rank.
// @Tags leaderboard
// @Produce json
// @Param period query string false "weekly, monthly or all_time (default)"
// @Param limit query int false "Limit results (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			return shared.NewBadRequestError(err, "limit must be a positive number")
		}
		limit = parsed
	}

	leaderboard, err := h.userSvc.GetLeaderboard(c.Query("period"), limit, shared.LocalString(c, shared.UserID))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, leaderboard)
}
