package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/model"
	"gorm.io/gorm"
)

// SessionRepository handles signed-in client sessions
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *SessionRepository) CreateSession(session *model.UserSession) (*model.UserSession, error) {
	if session.ID == "" {
		id, _ := uuid.NewV7()
		session.ID = id.String()
	}
	session.IsActive = true
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	session.LastUsed = session.CreatedAt

	if err := ds.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetActiveSession returns the session only while it is active and unexpired.
func (ds *SessionRepository) GetActiveSession(sessionID, userID string) (*model.UserSession, error) {
	var session model.UserSession
	err := ds.db.Where("id = ? AND user_id = ? AND is_active = ? AND expires_at > ?",
		sessionID, userID, true, time.Now()).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (ds *SessionRepository) RotateRefreshJTI(sessionID, jti string, expiresAt time.Time) error {
	return ds.db.Model(&model.UserSession{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"refresh_jti": jti,
		"expires_at":  expiresAt,
		"last_used":   time.Now(),
	}).Error
}

func (ds *SessionRepository) DeactivateSession(sessionID, userID string) error {
	return ds.db.Model(&model.UserSession{}).Where("id = ? AND user_id = ?", sessionID, userID).Updates(map[string]interface{}{
		"is_active": false,
		"last_used": time.Now(),
	}).Error
}

// DeactivateClientSessions ends the active session of one client of the user.
func (ds *SessionRepository) DeactivateClientSessions(userID, userAgent string) error {
	return ds.db.Model(&model.UserSession{}).
		Where("user_id = ? AND user_agent = ? AND is_active = ?", userID, userAgent, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"last_used": time.Now(),
		}).Error
}

func (ds *SessionRepository) DeactivateAllUserSessions(userID string) error {
	return ds.db.Model(&model.UserSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"last_used": time.Now(),
		}).Error
}

func (ds *SessionRepository) CleanupExpiredSessions() (int64, error) {
	result := ds.db.Model(&model.UserSession{}).
		Where("expires_at < ? AND is_active = ?", time.Now(), true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
