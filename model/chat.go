package model

import "time"

type ChatMessage struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	IsUser    bool      `json:"is_user"`
	Emotion   string    `json:"emotion,omitempty"`
	Context   string    `json:"context,omitempty"`
	CreatedAt time.Time `json:"timestamp" gorm:"index"`
}
