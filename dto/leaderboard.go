package dto

import "github.com/interviewgenius/interview_api/model"

type LeaderboardResponse struct {
	Period      string                   `json:"period"`
	Entries     []model.LeaderboardEntry `json:"entries"`
	CurrentUser *model.LeaderboardEntry  `json:"current_user,omitempty"`
}
