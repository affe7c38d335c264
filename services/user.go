package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserService struct {
	appContext.DefaultService

	dbSvc    *DatabaseService
	redisSvc *RedisService
	minioSvc *MinIOService
}

const USER_SVC = "user_svc"

const maxAvatarSize = 2 * 1024 * 1024

var avatarContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// NewUserService wires the service without the context; redis and minio may be nil.
func NewUserService(dbSvc *DatabaseService, redisSvc *RedisService, minioSvc *MinIOService) *UserService {
	return &UserService{dbSvc: dbSvc, redisSvc: redisSvc, minioSvc: minioSvc}
}

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// ==================== PROFILE ====================

// InitializeUserProfile returns the profile of the user, creating an empty one on first use.
func (svc *UserService) InitializeUserProfile(user *model.User) (*model.UserProfile, error) {
	profile, err := svc.dbSvc.Profiles().GetProfile(user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svc.dbSvc.HandleError(err)
	}

	now := time.Now()
	profile = &model.UserProfile{
		UserID:     user.ID,
		Name:       user.Name,
		Domain:     "",
		Level:      shared.LevelBeginner,
		LastActive: &now,
	}
	_ = profile.SetBadgeAwards(nil)
	_ = profile.SetSkillScoreMap(nil)

	created, err := svc.dbSvc.Profiles().CreateProfile(profile)
	if err != nil {
		// Lost a race against a concurrent first request.
		if IsUniqueViolation(err) {
			existing, getErr := svc.dbSvc.Profiles().GetProfile(user.ID)
			if getErr == nil {
				return existing, nil
			}
		}
		return nil, svc.dbSvc.HandleError(err)
	}

	log.WithField("user_id", user.ID).Info("Initialized user profile")
	return created, nil
}

func (svc *UserService) getProfile(userID string) (*model.UserProfile, error) {
	profile, err := svc.dbSvc.Profiles().GetProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User profile not found")
		}
		return nil, svc.dbSvc.HandleError(err)
	}
	return profile, nil
}

func (svc *UserService) GetUserProfile(userID string) (*dto.UserProfileResponse, error) {
	profile, err := svc.getProfile(userID)
	if err != nil {
		return nil, err
	}

	user, err := svc.dbSvc.Users().GetUser(userID)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	return svc.buildProfileResponse(user, profile), nil
}

func (svc *UserService) UpdateUserProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	profile, err := svc.getProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, shared.NewBadRequestError(nil, "Name is required")
		}
		profile.Name = name
		if err := svc.dbSvc.Users().UpdateName(userID, name); err != nil {
			return nil, svc.dbSvc.HandleError(err)
		}
	}
	if req.Domain != nil {
		profile.Domain = *req.Domain
	}
	if req.Level != nil {
		profile.Level = *req.Level
	}

	if err := svc.dbSvc.Profiles().UpdateProfile(profile); err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}
	svc.invalidateLeaderboard()

	return svc.GetUserProfile(userID)
}

// GetCurrentUser returns the account enriched with its profile, initializing the profile if needed.
func (svc *UserService) GetCurrentUser(userID string) (*dto.UserResponse, error) {
	user, err := svc.dbSvc.Users().GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(err, "User not found")
		}
		return nil, svc.dbSvc.HandleError(err)
	}
	return svc.BuildUserResponse(user)
}

func (svc *UserService) BuildUserResponse(user *model.User) (*dto.UserResponse, error) {
	profile, err := svc.InitializeUserProfile(user)
	if err != nil {
		return nil, err
	}

	p := svc.buildProfileResponse(user, profile)
	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Domain:      profile.Domain,
		Avatar:      p.Avatar,
		CreatedAt:   user.CreatedAt,
		Streak:      profile.Streak,
		TotalScore:  profile.TotalScore,
		Level:       p.Level,
		Badges:      p.Badges,
		SkillScores: p.SkillScores,
	}, nil
}

func (svc *UserService) buildProfileResponse(user *model.User, profile *model.UserProfile) *dto.UserProfileResponse {
	name := profile.Name
	if name == "" {
		name = user.Name
	}

	return &dto.UserProfileResponse{
		UserID:          profile.UserID,
		Name:            name,
		Email:           user.Email,
		Domain:          profile.Domain,
		ExperienceLevel: profile.Level,
		Level:           calculateLevel(profile.TotalScore),
		PointsToNext:    pointsToNextLevel(profile.TotalScore),
		Streak:          profile.Streak,
		TotalScore:      profile.TotalScore,
		Badges:          badgeResponses(profile),
		SkillScores:     skillScoreResponses(profile),
		Avatar:          svc.avatarURL(profile.AvatarKey),
		LastActive:      profile.LastActive,
		CreatedAt:       profile.CreatedAt,
	}
}

func badgeResponses(profile *model.UserProfile) []dto.BadgeResponse {
	awards, err := profile.BadgeAwards()
	if err != nil {
		log.WithError(err).WithField("user_id", profile.UserID).Warn("Corrupt badge list")
		return []dto.BadgeResponse{}
	}

	badges := make([]dto.BadgeResponse, 0, len(awards))
	for _, award := range awards {
		badge := BadgeInfo(award.ID)
		unlockedAt := award.UnlockedAt
		badge.UnlockedAt = &unlockedAt
		badges = append(badges, badge)
	}
	return badges
}

func skillScoreResponses(profile *model.UserProfile) []dto.SkillScoreResponse {
	scores, err := profile.SkillScoreMap()
	if err != nil {
		log.WithError(err).WithField("user_id", profile.UserID).Warn("Corrupt skill scores")
		return []dto.SkillScoreResponse{}
	}

	skills := make([]string, 0, len(scores))
	for skill := range scores {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	result := make([]dto.SkillScoreResponse, 0, len(skills))
	for _, skill := range skills {
		s := scores[skill]
		result = append(result, dto.SkillScoreResponse{
			Skill:       skill,
			Score:       s.Score,
			MaxScore:    s.MaxScore,
			Improvement: s.Improvement,
		})
	}
	return result
}

func (svc *UserService) GetBadges(userID string) ([]dto.BadgeResponse, error) {
	profile, err := svc.getProfile(userID)
	if err != nil {
		return nil, err
	}
	return badgeResponses(profile), nil
}

// ==================== PROGRESS ====================

// calculateLevel maps a total score onto levels; level 2 needs 100 points and each next level 1.5x more.
func calculateLevel(totalScore int) int {
	level := 1
	required := 100

	for totalScore >= required {
		totalScore -= required
		level++
		required = int(float64(required) * 1.5)
	}

	return level
}

func totalScoreForLevel(targetLevel int) int {
	if targetLevel <= 1 {
		return 0
	}

	total := 0
	required := 100
	for level := 2; level <= targetLevel; level++ {
		total += required
		required = int(float64(required) * 1.5)
	}
	return total
}

func pointsToNextLevel(totalScore int) int {
	return totalScoreForLevel(calculateLevel(totalScore)+1) - totalScore
}

// streakDay is the UTC calendar day t falls on.
func streakDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nextStreak applies one activity at now to a streak last extended at lastActive.
func nextStreak(current int, lastActive *time.Time, now time.Time) int {
	if lastActive == nil || current == 0 {
		return 1
	}

	daysDiff := int(math.Round(streakDay(now).Sub(streakDay(*lastActive)).Hours() / 24))

	switch {
	case daysDiff <= 0:
		return current
	case daysDiff == 1:
		return current + 1
	default:
		return 1
	}
}

func (svc *UserService) UpdateUserStreak(userID string, now time.Time) (int, error) {
	profile, err := svc.getProfile(userID)
	if err != nil {
		return 0, err
	}

	streak := nextStreak(profile.Streak, profile.LastActive, now)
	err = svc.dbSvc.Profiles().UpdateFields(userID, map[string]interface{}{
		"streak":      streak,
		"last_active": now,
	})
	if err != nil {
		return 0, svc.dbSvc.HandleError(err)
	}
	return streak, nil
}

func (svc *UserService) UpdateUserScore(userID string, delta int) (int, error) {
	total, err := svc.dbSvc.Profiles().AddScore(userID, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, shared.NewNotFoundError(err, "User profile not found")
		}
		return 0, svc.dbSvc.HandleError(err)
	}
	svc.invalidateLeaderboard()
	return total, nil
}

// AwardBadge adds the badge once; awarding an owned badge is a no-op.
func (svc *UserService) AwardBadge(userID, badgeID string) (bool, error) {
	profile, err := svc.getProfile(userID)
	if err != nil {
		return false, err
	}

	awards, err := profile.BadgeAwards()
	if err != nil {
		return false, fmt.Errorf("decode badges: %w", err)
	}
	for _, award := range awards {
		if award.ID == badgeID {
			return false, nil
		}
	}

	awards = append(awards, model.BadgeAward{ID: badgeID, UnlockedAt: time.Now()})
	if err := profile.SetBadgeAwards(awards); err != nil {
		return false, err
	}
	if err := svc.dbSvc.Profiles().UpdateFields(userID, map[string]interface{}{"badges": profile.Badges}); err != nil {
		return false, svc.dbSvc.HandleError(err)
	}

	log.WithFields(log.Fields{"user_id": userID, "badge": badgeID}).Info("Badge awarded")
	return true, nil
}

// badgesEarned lists the badges a finished test qualifies for.
func badgesEarned(totalTests, domainTests int64, result *model.TestResult) []string {
	var earned []string
	if totalTests >= 10 {
		earned = append(earned, BadgeTestVeteran)
	}
	if result.Score >= 90 {
		earned = append(earned, BadgePerfectionist)
	}
	if result.TestType == shared.TestTypeCoding && totalTests >= 5 {
		earned = append(earned, BadgeCodingMaster)
	}
	if result.Domain != "" && domainTests >= 5 {
		earned = append(earned, SpecialistBadgeID(result.Domain))
	}
	return earned
}

// CheckAndAwardBadges never fails the caller; problems are logged.
func (svc *UserService) CheckAndAwardBadges(userID string, result *model.TestResult) []string {
	totalTests, err := svc.dbSvc.Tests().CountUserResults(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error checking badges")
		return nil
	}
	domainTests, err := svc.dbSvc.Tests().CountUserDomainResults(userID, result.Domain)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error checking badges")
		return nil
	}

	var awarded []string
	for _, badgeID := range badgesEarned(totalTests, domainTests, result) {
		added, err := svc.AwardBadge(userID, badgeID)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": userID, "badge": badgeID}).Error("Error awarding badge")
			continue
		}
		if added {
			awarded = append(awarded, badgeID)
		}
	}
	return awarded
}

// applySkillScore folds one result into the running per-domain average.
func applySkillScore(scores map[string]model.SkillScore, skill string, score int) model.SkillScore {
	entry := scores[skill]
	previous := entry.Score
	entry.Tests++
	entry.MaxScore = 100

	if entry.Tests == 1 {
		entry.Score = score
		entry.Improvement = 0
	} else {
		avg := float64(previous*(entry.Tests-1)+score) / float64(entry.Tests)
		entry.Score = int(math.Round(avg))
		entry.Improvement = entry.Score - previous
	}

	scores[skill] = entry
	return entry
}

func (svc *UserService) UpdateSkillScores(userID string, result *model.TestResult) error {
	profile, err := svc.getProfile(userID)
	if err != nil {
		return err
	}

	scores, err := profile.SkillScoreMap()
	if err != nil {
		scores = map[string]model.SkillScore{}
	}

	skill := result.Domain
	if skill == "" {
		skill = "General"
	}
	applySkillScore(scores, skill, result.Score)

	if err := profile.SetSkillScoreMap(scores); err != nil {
		return err
	}
	if err := svc.dbSvc.Profiles().UpdateFields(userID, map[string]interface{}{"skill_scores": profile.SkillScores}); err != nil {
		return svc.dbSvc.HandleError(err)
	}
	return nil
}

// ==================== AVATAR ====================

func (svc *UserService) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error) {
	if !svc.minioSvc.Enabled() {
		return nil, shared.NewServiceUnavailableError(ErrStorageDisabled, "Avatar storage is not configured")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := avatarContentTypes[ext]
	if !ok {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP")
	}
	if file.Size > maxAvatarSize {
		return nil, shared.NewBadRequestError(nil, "Avatar file too large. Maximum size: 2MB")
	}

	profile, err := svc.getProfile(userID)
	if err != nil {
		return nil, err
	}

	id, _ := uuid.NewV7()
	objectName := fmt.Sprintf("avatars/%s/%s%s", userID, id.String(), ext)

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	if _, err := svc.minioSvc.UploadFile(ctx, objectName, src, file.Size, contentType); err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload file to storage")
	}

	if err := svc.dbSvc.Profiles().UpdateFields(userID, map[string]interface{}{"avatar_key": objectName}); err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	if profile.AvatarKey != "" {
		if err := svc.minioSvc.DeleteFile(ctx, profile.AvatarKey); err != nil {
			log.WithError(err).WithField("object", profile.AvatarKey).Warn("Failed to delete previous avatar")
		}
	}

	return &dto.AvatarUploadResponse{
		Key: objectName,
		URL: svc.avatarURL(objectName),
	}, nil
}

func (svc *UserService) avatarURL(key string) string {
	if key == "" || !svc.minioSvc.Enabled() {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url, err := svc.minioSvc.GetFileURL(ctx, key, 24*time.Hour)
	if err != nil {
		log.WithError(err).WithField("object", key).Warn("Failed to presign avatar URL")
		return ""
	}
	return url
}
