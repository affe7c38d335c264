package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"gorm.io/gorm"
)

type RateLimitRepository struct {
	BaseRepository
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetRateLimit returns nil without error when no window exists yet.
func (ds *RateLimitRepository) GetRateLimit(identifier, endpointType string) (*model.RateLimit, error) {
	var rateLimit model.RateLimit

	err := ds.db.Where("identifier = ? AND endpoint_type = ?", identifier, endpointType).First(&rateLimit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rateLimit, nil
}

func (ds *RateLimitRepository) SaveRateLimit(rateLimit *model.RateLimit) error {
	if rateLimit.ID == "" {
		id, _ := uuid.NewV7()
		rateLimit.ID = id.String()
	}

	now := time.Now()
	if rateLimit.CreatedAt.IsZero() {
		rateLimit.CreatedAt = now
	}
	rateLimit.UpdatedAt = now

	return ds.db.Save(rateLimit).Error
}

func (ds *RateLimitRepository) UpdateRateLimit(rateLimit *model.RateLimit) error {
	return ds.db.Model(rateLimit).Where("id = ?", rateLimit.ID).Updates(map[string]interface{}{
		"request_count": rateLimit.RequestCount,
		"window_start":  rateLimit.WindowStart,
		"blocked_until": rateLimit.BlockedUntil,
		"updated_at":    rateLimit.UpdatedAt,
	}).Error
}

func (ds *RateLimitRepository) DeleteRateLimit(identifier, endpointType string) error {
	return ds.db.Where("identifier = ? AND endpoint_type = ?", identifier, endpointType).
		Delete(&model.RateLimit{}).Error
}

// CleanupOldRecords removes windows older than 7 days that are not blocking anyone.
func (ds *RateLimitRepository) CleanupOldRecords() (int64, error) {
	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	now := time.Now()

	result := ds.db.Where("created_at < ? AND (blocked_until IS NULL OR blocked_until < ?)", cutoff, now).
		Delete(&model.RateLimit{})
	return result.RowsAffected, result.Error
}

func (ds *RateLimitRepository) CountRecords() (total int64, blocked int64, err error) {
	if err = ds.db.Model(&model.RateLimit{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = ds.db.Model(&model.RateLimit{}).Where("blocked_until > ?", time.Now()).Count(&blocked).Error
	return total, blocked, err
}
