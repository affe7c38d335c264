package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

const (
	SCHEDULER_SVC = "scheduler_svc"

	staleTestAfter = 24 * time.Hour
)

// SchedulerService runs periodic housekeeping against the database.
type SchedulerService struct {
	context.DefaultService

	scheduler    *gocron.Scheduler
	dbSvc        *DatabaseService
	rateLimitSvc *RateLimitService
}

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *context.Context) error {
	svc.scheduler = gocron.NewScheduler(time.UTC)
	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	if _, err := svc.scheduler.Every(1).Hour().Do(svc.cleanupSessions); err != nil {
		return err
	}
	if _, err := svc.scheduler.Every(1).Hour().Do(svc.cleanupRateLimits); err != nil {
		return err
	}
	if _, err := svc.scheduler.Every(1).Day().At("00:05").Do(svc.closeStaleTests); err != nil {
		return err
	}
	if _, err := svc.scheduler.Every(1).Day().At("00:10").Do(func() { svc.resetIdleStreaks(time.Now()) }); err != nil {
		return err
	}

	svc.scheduler.StartAsync()
	return nil
}

func (svc *SchedulerService) Shutdown() {
	if svc.scheduler != nil {
		svc.scheduler.Stop()
	}
}

func (svc *SchedulerService) cleanupSessions() {
	removed, err := svc.dbSvc.Sessions().CleanupExpiredSessions()
	if err != nil {
		log.WithError(err).Error("Session cleanup failed")
		return
	}
	log.Printf("Session cleanup completed, %d sessions closed", removed)
}

func (svc *SchedulerService) cleanupRateLimits() {
	removed, err := svc.rateLimitSvc.CleanupOldRecords()
	if err != nil {
		log.WithError(err).Error("Rate limit cleanup failed")
		return
	}

	total, blocked, err := svc.dbSvc.RateLimits().CountRecords()
	if err != nil {
		log.WithError(err).Warn("Rate limit stats unavailable")
		total, blocked = -1, -1
	}
	log.WithFields(log.Fields{"removed": removed, "remaining": total, "blocked": blocked}).Info("Rate limit cleanup completed")
}

func (svc *SchedulerService) closeStaleTests() {
	closed, err := svc.dbSvc.Tests().AbandonStaleSessions(time.Now().Add(-staleTestAfter))
	if err != nil {
		log.WithError(err).Error("Stale test cleanup failed")
		return
	}
	log.Printf("Stale test cleanup completed, %d tests abandoned", closed)
}

// resetIdleStreaks zeroes streaks of users who were not active yesterday or
// today, counting UTC days like nextStreak.
func (svc *SchedulerService) resetIdleStreaks(now time.Time) {
	reset, err := svc.dbSvc.Profiles().ResetIdleStreaks(streakDay(now).AddDate(0, 0, -1))
	if err != nil {
		log.WithError(err).Error("Streak sweep failed")
		return
	}
	log.Printf("Streak sweep completed, %d streaks reset", reset)
}
