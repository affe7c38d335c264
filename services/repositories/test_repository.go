package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	"gorm.io/gorm"
)

// TestRepository handles test sessions and their results
type TestRepository struct {
	BaseRepository
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ==================== TEST SESSIONS ====================

func (ds *TestRepository) CreateSession(session *model.TestSession) (*model.TestSession, error) {
	id, _ := uuid.NewV7()
	session.ID = id.String()
	if err := ds.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (ds *TestRepository) GetSession(userID, sessionID string) (*model.TestSession, error) {
	var session model.TestSession
	if err := ds.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveProgress stores an answer only if the session is still in progress at expectedIndex.
// It reports false when another request already moved the session on.
func (ds *TestRepository) SaveProgress(session *model.TestSession, expectedIndex int) (bool, error) {
	session.UpdatedAt = time.Now()
	result := ds.db.Model(&model.TestSession{}).
		Where("id = ? AND status = ? AND current_index = ?", session.ID, shared.TestStatusInProgress, expectedIndex).
		Updates(map[string]interface{}{
			"user_answers":  session.UserAnswers,
			"current_index": session.CurrentIndex,
			"correct_count": session.CorrectCount,
			"status":        session.Status,
			"completed_at":  session.CompletedAt,
			"updated_at":    session.UpdatedAt,
		})
	return result.RowsAffected == 1, result.Error
}

func (ds *TestRepository) SetSessionResult(sessionID, resultID string) error {
	return ds.db.Model(&model.TestSession{}).Where("id = ?", sessionID).Update("result_id", resultID).Error
}

// AbandonStaleSessions closes in-progress sessions not touched since the cutoff.
func (ds *TestRepository) AbandonStaleSessions(cutoff time.Time) (int64, error) {
	now := time.Now()
	result := ds.db.Model(&model.TestSession{}).
		Where("status = ? AND updated_at < ?", shared.TestStatusInProgress, cutoff).
		Updates(map[string]interface{}{
			"status":       shared.TestStatusAbandoned,
			"completed_at": &now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// ==================== TEST RESULTS ====================

func (ds *TestRepository) CreateResult(result *model.TestResult) (*model.TestResult, error) {
	if result.ID == "" {
		id, _ := uuid.NewV7()
		result.ID = id.String()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}
	if err := ds.db.Create(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (ds *TestRepository) UpdateResultFeedback(resultID, feedback, comment string) error {
	return ds.db.Model(&model.TestResult{}).Where("id = ?", resultID).Updates(map[string]interface{}{
		"ai_feedback": feedback,
		"ai_comment":  comment,
	}).Error
}

func (ds *TestRepository) GetResult(userID, resultID string) (*model.TestResult, error) {
	var result model.TestResult
	if err := ds.db.Where("id = ? AND user_id = ?", resultID, userID).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserResults returns the most recent results first.
func (ds *TestRepository) GetUserResults(userID string, limit int) ([]model.TestResult, error) {
	var results []model.TestResult
	err := ds.db.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (ds *TestRepository) CountUserResults(userID string) (int64, error) {
	return ds.count(&model.TestResult{}, "user_id = ?", userID)
}

func (ds *TestRepository) CountUserDomainResults(userID, domain string) (int64, error) {
	return ds.count(&model.TestResult{}, "user_id = ? AND LOWER(domain) = LOWER(?)", userID, domain)
}

// CountPeers returns how many results share the domain and level, and how many of those scored below score.
func (ds *TestRepository) CountPeers(domain, level string, score int) (total int64, below int64, err error) {
	base := ds.db.Model(&model.TestResult{}).Where("domain = ? AND level = ?", domain, level)
	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("score < ?", score).Count(&below).Error; err != nil {
		return 0, 0, err
	}
	return total, below, nil
}
