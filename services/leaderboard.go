package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/services/repositories"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	leaderboardCacheTTL     = 60 * time.Second
	leaderboardCachePrefix  = "leaderboard:"
)

func normalizeLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}

func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case shared.PeriodWeekly:
		return now.AddDate(0, 0, -7), true
	case shared.PeriodMonthly:
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// GetLeaderboard ranks users for the period and always includes the caller's own position.
func (svc *UserService) GetLeaderboard(period string, limit int, currentUserID string) (*dto.LeaderboardResponse, error) {
	switch period {
	case "":
		period = shared.PeriodAllTime
	case shared.PeriodAllTime, shared.PeriodWeekly, shared.PeriodMonthly:
	default:
		return nil, shared.NewBadRequestError(nil, "period must be one of: weekly monthly all_time")
	}
	limit = normalizeLeaderboardLimit(limit)

	entries, err := svc.topEntries(period, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{
		Period:  period,
		Entries: entries,
	}

	if currentUserID == "" {
		return resp, nil
	}

	for i := range entries {
		if entries[i].ID == currentUserID {
			entry := entries[i]
			resp.CurrentUser = &entry
			return resp, nil
		}
	}

	var (
		row  *repositories.LeaderboardRow
		rank int
	)
	if since, ok := periodStart(period, time.Now()); ok {
		row, rank, err = svc.dbSvc.Profiles().GetPeriodRank(currentUserID, since)
	} else {
		row, rank, err = svc.dbSvc.Profiles().GetAllTimeRank(currentUserID)
	}
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).WithField("user_id", currentUserID).Warn("Failed to rank current user")
		}
		return resp, nil
	}

	entry := svc.toLeaderboardEntry(*row, rank)
	resp.CurrentUser = &entry
	return resp, nil
}

func (svc *UserService) topEntries(period string, limit int) ([]model.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("%s%s:%d", leaderboardCachePrefix, period, limit)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var cached []model.LeaderboardEntry
	if found, err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	} else if err != nil && !errors.Is(err, ErrCacheDisabled) {
		log.WithError(err).Warn("Leaderboard cache read failed")
	}

	var (
		rows []repositories.LeaderboardRow
		err  error
	)
	if since, ok := periodStart(period, time.Now()); ok {
		rows, err = svc.dbSvc.Profiles().GetPeriodLeaderboard(since, limit)
	} else {
		rows, err = svc.dbSvc.Profiles().GetAllTimeLeaderboard(limit)
	}
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, svc.toLeaderboardEntry(row, i+1))
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, entries, leaderboardCacheTTL); err != nil && !errors.Is(err, ErrCacheDisabled) {
		log.WithError(err).Warn("Leaderboard cache write failed")
	}

	return entries, nil
}

func (svc *UserService) toLeaderboardEntry(row repositories.LeaderboardRow, rank int) model.LeaderboardEntry {
	name := row.Name
	if name == "" {
		name = "Anonymous User"
	}
	return model.LeaderboardEntry{
		ID:     row.UserID,
		Name:   name,
		Score:  row.Score,
		Streak: row.Streak,
		Rank:   rank,
		Avatar: svc.avatarURL(row.AvatarKey),
	}
}

func (svc *UserService) invalidateLeaderboard() {
	if !svc.redisSvc.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := svc.redisSvc.DeletePattern(ctx, leaderboardCachePrefix+"*"); err != nil {
		log.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
}
