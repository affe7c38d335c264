package dto

import "time"

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100" example:"Ada Lovelace"`
	Email    string `json:"email" validate:"required,email_format,max=254" example:"user@example.com"`
	Password string `json:"password" validate:"required,strong_password,not_common_password,max=265" example:"SecurePass123!"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_format" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"SecurePass123!"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

func (r RefreshTokenRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type LoginResponse struct {
	User      UserResponse `json:"user"`
	SessionID string       `json:"session_id"`
	TokenPair
}

// UserResponse is the account enriched with its profile.
type UserResponse struct {
	ID          string               `json:"id"`
	Email       string               `json:"email"`
	Name        string               `json:"name"`
	Domain      string               `json:"domain,omitempty"`
	Avatar      string               `json:"avatar,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	Streak      int                  `json:"streak"`
	TotalScore  int                  `json:"total_score"`
	Level       int                  `json:"level"`
	Badges      []BadgeResponse      `json:"badges"`
	SkillScores []SkillScoreResponse `json:"skill_scores"`
}
