package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"gorm.io/gorm"
)

// ProfileRepository handles interview-prep profile documents
type ProfileRepository struct {
	BaseRepository
}

// LeaderboardRow is one ranked user before display formatting.
type LeaderboardRow struct {
	UserID    string
	Name      string
	Score     int
	Streak    int
	AvatarKey string
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ProfileRepository) GetProfile(userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := ds.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (ds *ProfileRepository) CreateProfile(profile *model.UserProfile) (*model.UserProfile, error) {
	if profile.ID == "" {
		id, _ := uuid.NewV7()
		profile.ID = id.String()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := ds.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (ds *ProfileRepository) UpdateProfile(profile *model.UserProfile) error {
	profile.UpdatedAt = time.Now()
	return ds.db.Save(profile).Error
}

func (ds *ProfileRepository) UpdateFields(userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := ds.db.Model(&model.UserProfile{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddScore increments the total score in place and returns the new total.
func (ds *ProfileRepository) AddScore(userID string, delta int) (int, error) {
	result := ds.db.Model(&model.UserProfile{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"total_score": gorm.Expr("total_score + ?", delta),
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var total int
	err := ds.db.Model(&model.UserProfile{}).Where("user_id = ?", userID).Select("total_score").Scan(&total).Error
	return total, err
}

func (ds *ProfileRepository) GetAllTimeLeaderboard(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := ds.db.Model(&model.UserProfile{}).
		Select("user_id, name, total_score AS score, streak, avatar_key").
		Order("total_score DESC, created_at ASC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetPeriodLeaderboard ranks users by the sum of result scores completed since the given time.
func (ds *ProfileRepository) GetPeriodLeaderboard(since time.Time, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := ds.db.Table("test_results AS r").
		Select("r.user_id AS user_id, COALESCE(p.name, '') AS name, SUM(r.score) AS score, COALESCE(p.streak, 0) AS streak, COALESCE(p.avatar_key, '') AS avatar_key").
		Joins("LEFT JOIN user_profiles AS p ON p.user_id = r.user_id").
		Where("r.completed_at >= ?", since).
		Group("r.user_id, p.name, p.streak, p.avatar_key").
		Order("score DESC, r.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetAllTimeRank places the user with the same ordering GetAllTimeLeaderboard uses.
func (ds *ProfileRepository) GetAllTimeRank(userID string) (*LeaderboardRow, int, error) {
	profile, err := ds.GetProfile(userID)
	if err != nil {
		return nil, 0, err
	}

	ahead, err := ds.count(&model.UserProfile{},
		"total_score > ? OR (total_score = ? AND (created_at < ? OR (created_at = ? AND user_id < ?)))",
		profile.TotalScore, profile.TotalScore, profile.CreatedAt, profile.CreatedAt, userID)
	if err != nil {
		return nil, 0, err
	}

	return &LeaderboardRow{
		UserID:    userID,
		Name:      profile.Name,
		Score:     profile.TotalScore,
		Streak:    profile.Streak,
		AvatarKey: profile.AvatarKey,
	}, int(ahead) + 1, nil
}

// GetPeriodRank places the user with the same ordering GetPeriodLeaderboard uses.
func (ds *ProfileRepository) GetPeriodRank(userID string, since time.Time) (*LeaderboardRow, int, error) {
	profile, err := ds.GetProfile(userID)
	if err != nil {
		return nil, 0, err
	}

	var score int
	err = ds.db.Table("test_results").
		Select("COALESCE(SUM(score), 0)").
		Where("user_id = ? AND completed_at >= ?", userID, since).
		Scan(&score).Error
	if err != nil {
		return nil, 0, err
	}

	var ahead int64
	sub := ds.db.Table("test_results").
		Select("user_id").
		Where("completed_at >= ?", since).
		Group("user_id").
		Having("SUM(score) > ? OR (SUM(score) = ? AND user_id < ?)", score, score, userID)
	if err := ds.db.Table("(?) AS ranked", sub).Count(&ahead).Error; err != nil {
		return nil, 0, err
	}

	return &LeaderboardRow{
		UserID:    userID,
		Name:      profile.Name,
		Score:     score,
		Streak:    profile.Streak,
		AvatarKey: profile.AvatarKey,
	}, int(ahead) + 1, nil
}

// ResetIdleStreaks zeroes running streaks whose last activity is before the cutoff.
func (ds *ProfileRepository) ResetIdleStreaks(cutoff time.Time) (int64, error) {
	result := ds.db.Model(&model.UserProfile{}).
		Where("streak > 0 AND last_active < ?", cutoff).
		Updates(map[string]interface{}{
			"streak":     0,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
