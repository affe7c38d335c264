package handlers

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	Refresh(req dto.RefreshTokenRequest) (*dto.TokenPair, error)
	Logout(userID, sessionID string)
	CheckUser(userID string) (*dto.UserResponse, error)
	RequiredAuth() fiber.Handler
}

type UserServiceInterface interface {
	GetUserProfile(userID string) (*dto.UserProfileResponse, error)
	UpdateUserProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error)
	CalculatePerformanceStats(userID string) (*dto.PerformanceStats, error)
	GetBadges(userID string) ([]dto.BadgeResponse, error)
	GetLeaderboard(period string, limit int, currentUserID string) (*dto.LeaderboardResponse, error)
}

type TestServiceInterface interface {
	StartTest(ctx context.Context, userID string, req dto.StartTestRequest) (*dto.TestSessionResponse, error)
	GetTestSession(userID, sessionID string) (*dto.TestSessionResponse, error)
	AnswerQuestion(ctx context.Context, userID, sessionID, answer string) (*dto.AnswerResponse, error)
	AbandonTest(userID, sessionID string) (*dto.TestSessionResponse, error)
	SubmitTestResult(ctx context.Context, userID string, req dto.SubmitResultRequest) (*dto.TestResultResponse, error)
	GetTestResults(userID string, limit int) ([]dto.TestResultResponse, error)
	GetTestResult(userID, resultID string) (*dto.TestResultResponse, error)
}

type ChatServiceInterface interface {
	SendMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(userID string, limit int) ([]dto.ChatMessageResponse, error)
}

type ResourceServiceInterface interface {
	ListResources(filter dto.ResourceFilter) ([]dto.ResourceResponse, error)
	GetCuratedResources(ctx context.Context) (*dto.CuratedResourcesResponse, error)
}
