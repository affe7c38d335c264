package model

import "time"

type User struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Name         string     `json:"name" gorm:"not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserSession is one signed-in client of a user. A client is identified by its
// user agent and may hold only one active session.
type UserSession struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_session_active_client,where:is_active = true"`
	RefreshJTI string    `json:"-" gorm:"not null;index"`
	UserAgent  string    `json:"user_agent" gorm:"uniqueIndex:idx_session_active_client,where:is_active = true"`
	IP         string    `json:"ip"`
	IsActive   bool      `json:"is_active" gorm:"default:true;index"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index"`
	LastUsed   time.Time `json:"last_used"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
