package model

import (
	"encoding/json"
	"time"
)

type Resource struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Type        string          `json:"type" gorm:"not null;index"` // article, video, guide
	URL         string          `json:"url"`
	Domain      string          `json:"domain" gorm:"index"`
	Difficulty  string          `json:"difficulty" gorm:"index"`
	Tags        json.RawMessage `json:"tags" gorm:"type:jsonb"`
	Rating      float64         `json:"rating"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
