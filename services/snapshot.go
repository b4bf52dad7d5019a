package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// BlobStore is the object storage snapshots are written to.
type BlobStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Snapshot is a point-in-time copy of every record of one user.
type Snapshot struct {
	ID      string                     `json:"id"`
	UserID  string                     `json:"user_id"`
	TakenAt time.Time                  `json:"taken_at"`
	Records map[string]json.RawMessage `json:"records"`
}

// SnapshotService backs user records up to blob storage and restores them.
type SnapshotService struct {
	Backend     Backend
	Blobs       BlobStore
	Now         Clock
	Concurrency int
}

func NewSnapshotService(backend Backend, blobs BlobStore, now Clock) *SnapshotService {
	return &SnapshotService{Backend: backend, Blobs: blobs, Now: now, Concurrency: 4}
}

func snapshotObjectKey(userID string) string {
	return fmt.Sprintf("gamification-snapshots/%s/latest.json", userID)
}

// Export copies the user's records. Unreadable and non-JSON records are skipped.
func (s *SnapshotService) Export(userID string) Snapshot {
	store := s.Backend.ForUser(userID)
	snap := Snapshot{
		ID:      uuid.NewString(),
		UserID:  userID,
		TakenAt: s.Now.now(),
		Records: make(map[string]json.RawMessage),
	}
	for _, key := range AllKeys {
		raw, ok, err := store.Get(key)
		if err != nil {
			utils.Log().Warn("[Snapshot] skipping unreadable record", zap.String("user_id", userID), zap.String("key", key), zap.Error(err))
			continue
		}
		if !ok || !json.Valid(raw) {
			continue
		}
		snap.Records[key] = json.RawMessage(raw)
	}
	return snap
}

// Import replaces the user's records with the snapshot. Keys absent from
// the snapshot are removed; unknown keys are ignored.
func (s *SnapshotService) Import(userID string, snap Snapshot) error {
	store := s.Backend.ForUser(userID)
	for _, key := range AllKeys {
		raw, ok := snap.Records[key]
		if !ok {
			if err := store.Remove(key); err != nil {
				return errors.Wrapf(err, "clear %s", key)
			}
			continue
		}
		if err := store.Set(key, raw); err != nil {
			return errors.Wrapf(err, "restore %s", key)
		}
	}
	return nil
}

// Backup exports the user's records and uploads them.
func (s *SnapshotService) Backup(ctx context.Context, userID string) (Snapshot, error) {
	snap := s.Export(userID)
	body, err := json.Marshal(snap)
	if err != nil {
		return snap, errors.Wrap(err, "encode snapshot")
	}
	if err := s.Blobs.Put(ctx, snapshotObjectKey(userID), body, "application/json"); err != nil {
		return snap, errors.Wrapf(err, "upload snapshot for %s", userID)
	}
	utils.Log().Info("☁️ [Snapshot] backed up", zap.String("user_id", userID), zap.String("snapshot_id", snap.ID), zap.Int("records", len(snap.Records)))
	return snap, nil
}

// Restore downloads the latest snapshot of the user and imports it.
func (s *SnapshotService) Restore(ctx context.Context, userID string) (Snapshot, error) {
	var snap Snapshot
	body, err := s.Blobs.Get(ctx, snapshotObjectKey(userID))
	if errors.Is(err, utils.ErrObjectNotFound) {
		return snap, ErrSnapshotNotFound
	}
	if err != nil {
		return snap, errors.Wrapf(err, "download snapshot for %s", userID)
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		return snap, errors.Wrap(err, "decode snapshot")
	}
	if snap.UserID != userID {
		return snap, errors.Errorf("snapshot belongs to %s, not %s", snap.UserID, userID)
	}
	if err := s.Import(userID, snap); err != nil {
		return snap, err
	}
	utils.Log().Info("☁️ [Snapshot] restored", zap.String("user_id", userID), zap.String("snapshot_id", snap.ID))
	return snap, nil
}

// RecentlyActiveUsers lists users whose last active day is within `days` of today.
func RecentlyActiveUsers(backend Backend, today string, days int) ([]string, error) {
	var users []string
	err := backend.ScanKey(KeyStreakState, func(userID string, raw []byte) error {
		var rec models.StreakRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.LastActiveDate == nil {
			return nil
		}
		if diff, ok := daysBetween(*rec.LastActiveDate, today); ok && diff >= 0 && diff <= days {
			users = append(users, userID)
		}
		return nil
	})
	return users, err
}

// BackupActiveUsers backs up everyone active today or yesterday. Individual
// failures are logged and counted, not returned.
func (s *SnapshotService) BackupActiveUsers(ctx context.Context) (int, int, error) {
	users, err := RecentlyActiveUsers(s.Backend, DateKey(s.Now.now()), 1)
	if err != nil {
		return 0, 0, err
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]bool, len(users))
	for i, userID := range users {
		g.Go(func() error {
			if _, err := s.Backup(gctx, userID); err != nil {
				utils.Log().Warn("[Snapshot] backup failed", zap.String("user_id", userID), zap.Error(err))
				return nil
			}
			results[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	ok := 0
	for _, r := range results {
		if r {
			ok++
		}
	}
	return ok, len(users) - ok, nil
}
