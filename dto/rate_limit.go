package dto

import "time"

// RateLimitInfo describes the caller's window after a check. Remaining is -1 for unlimited endpoints.
type RateLimitInfo struct {
	Allowed      bool       `json:"allowed"`
	Limit        int        `json:"limit"`
	Remaining    int        `json:"remaining"`
	ResetTime    *time.Time `json:"reset_time,omitempty"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}
