package model

import "time"

// RateLimit is the request window of one identifier (IP, user or login) on one endpoint type.
type RateLimit struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Identifier   string     `json:"identifier" gorm:"not null;size:255;uniqueIndex:idx_rate_limit_key"`
	EndpointType string     `json:"endpoint_type" gorm:"not null;size:50;uniqueIndex:idx_rate_limit_key"`
	RequestCount int        `json:"request_count" gorm:"default:0;not null"`
	WindowStart  time.Time  `json:"window_start" gorm:"not null;index"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
