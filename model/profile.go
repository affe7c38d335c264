package model

import (
	"encoding/json"
	"time"
)

// UserProfile holds the interview-prep progress of a user.
type UserProfile struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	UserID      string          `json:"user_id" gorm:"uniqueIndex;not null"`
	Name        string          `json:"name"`
	Domain      string          `json:"domain"`
	Level       string          `json:"level" gorm:"default:beginner"`
	Streak      int             `json:"streak" gorm:"default:0;not null"`
	TotalScore  int             `json:"total_score" gorm:"default:0;not null;index"`
	Badges      json.RawMessage `json:"badges" gorm:"type:jsonb"`       // []BadgeAward
	SkillScores json.RawMessage `json:"skill_scores" gorm:"type:jsonb"` // map[string]SkillScore
	AvatarKey   string          `json:"avatar_key"`
	LastActive  *time.Time      `json:"last_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type BadgeAward struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type SkillScore struct {
	Score       int `json:"score"`
	MaxScore    int `json:"max_score"`
	Improvement int `json:"improvement"`
	Tests       int `json:"tests"`
}

func (p *UserProfile) BadgeAwards() ([]BadgeAward, error) {
	var awards []BadgeAward
	if len(p.Badges) == 0 {
		return awards, nil
	}
	if err := json.Unmarshal(p.Badges, &awards); err != nil {
		return nil, err
	}
	return awards, nil
}

func (p *UserProfile) SetBadgeAwards(awards []BadgeAward) error {
	if awards == nil {
		awards = []BadgeAward{}
	}
	raw, err := json.Marshal(awards)
	if err != nil {
		return err
	}
	p.Badges = raw
	return nil
}

func (p *UserProfile) SkillScoreMap() (map[string]SkillScore, error) {
	scores := make(map[string]SkillScore)
	if len(p.SkillScores) == 0 {
		return scores, nil
	}
	if err := json.Unmarshal(p.SkillScores, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (p *UserProfile) SetSkillScoreMap(scores map[string]SkillScore) error {
	if scores == nil {
		scores = map[string]SkillScore{}
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	p.SkillScores = raw
	return nil
}
