package dto

import "time"

type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Domain *string `json:"domain,omitempty" validate:"omitempty,oneof=tech business design marketing"`
	Level  *string `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced pro"`
}

func (r UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UserProfileResponse struct {
	UserID          string               `json:"user_id"`
	Name            string               `json:"name"`
	Email           string               `json:"email,omitempty"`
	Domain          string               `json:"domain"`
	ExperienceLevel string               `json:"experience_level"`
	Level           int                  `json:"level"`
	PointsToNext    int                  `json:"points_to_next_level"`
	Streak          int                  `json:"streak"`
	TotalScore      int                  `json:"total_score"`
	Badges          []BadgeResponse      `json:"badges"`
	SkillScores     []SkillScoreResponse `json:"skill_scores"`
	Avatar          string               `json:"avatar,omitempty"`
	LastActive      *time.Time           `json:"last_active"`
	CreatedAt       time.Time            `json:"created_at"`
}

type BadgeResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type SkillScoreResponse struct {
	Skill       string `json:"skill"`
	Score       int    `json:"score"`
	MaxScore    int    `json:"max_score"`
	Improvement int    `json:"improvement"`
}

type AvatarUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type WeeklyScore struct {
	Week  string `json:"week"`
	Score int    `json:"score"`
}

type SkillAverage struct {
	Skill string `json:"skill"`
	Score int    `json:"score"`
}

type PerformanceStats struct {
	TotalTests         int            `json:"total_tests"`
	AverageScore       int            `json:"average_score"`
	StrongAreas        []string       `json:"strong_areas"`
	WeakAreas          []string       `json:"weak_areas"`
	ImprovementTips    []string       `json:"improvement_tips"`
	WeeklyProgress     []WeeklyScore  `json:"weekly_progress"`
	SkillRadar         []SkillAverage `json:"skill_radar"`
	ProgressPercentage int            `json:"progress_percentage"`
}
