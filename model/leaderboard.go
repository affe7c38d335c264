package model

// LeaderboardEntry is computed from profiles and results, never stored.
type LeaderboardEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Streak int    `json:"streak"`
	Rank   int    `json:"rank"`
	Avatar string `json:"avatar,omitempty"`
}
