// services/scheduler.go
package services

import (
	"context"
	"encoding/json"
	"time"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StreaksAtRisk returns users whose last active day was yesterday.
func StreaksAtRisk(backend Backend, today string) ([]string, error) {
	var users []string
	err := backend.ScanKey(KeyStreakState, func(userID string, raw []byte) error {
		var rec models.StreakRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil
		}
		if v := ProjectStreak(&rec, today, false); v.AtRisk && v.Current > 0 {
			users = append(users, userID)
		}
		return nil
	})
	return users, err
}

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	Backend   Backend
	Snapshots *SnapshotService // nil disables nightly backups
	Now       Clock
	Location  *time.Location

	sched gocron.Scheduler
}

func NewScheduler(backend Backend, snapshots *SnapshotService, now Clock, loc *time.Location) *Scheduler {
	return &Scheduler{Backend: backend, Snapshots: snapshots, Now: now, Location: loc}
}

// SweepStreaksAtRisk logs the users who lose their streak unless active today.
func (s *Scheduler) SweepStreaksAtRisk() {
	users, err := StreaksAtRisk(s.Backend, DateKey(s.Now.now()))
	if err != nil {
		utils.Log().Error("[Scheduler] streak sweep failed", zap.Error(err))
		return
	}
	utils.Log().Info("⏰ [Scheduler] streaks at risk", zap.Int("count", len(users)), zap.Strings("user_ids", users))
}

func (s *Scheduler) backupActiveUsers() {
	if s.Snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	ok, failed, err := s.Snapshots.BackupActiveUsers(ctx)
	if err != nil {
		utils.Log().Error("[Scheduler] nightly backup failed", zap.Error(err))
		return
	}
	utils.Log().Info("✅ [Scheduler] nightly backup done", zap.Int("ok", ok), zap.Int("failed", failed))
}

// Start registers the hourly streak sweep and the 03:00 backup.
func (s *Scheduler) Start() error {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	sched, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return err
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.SweepStreaksAtRisk),
	); err != nil {
		return err
	}

	if s.Snapshots != nil {
		if _, err := sched.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
			gocron.NewTask(s.backupActiveUsers),
		); err != nil {
			return err
		}
	}

	sched.Start()
	s.sched = sched
	return nil
}

func (s *Scheduler) Stop() error {
	if s.sched == nil {
		return nil
	}
	return s.sched.Shutdown()
}
