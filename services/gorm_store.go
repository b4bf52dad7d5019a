package services

import (
	"recipe-gamification/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend persists records in the gamification_records table.
type GormBackend struct {
	DB *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{DB: db}
}

func (b *GormBackend) ForUser(userID string) Store {
	return &gormStore{db: b.DB, userID: userID}
}

// ScanKey walks every user's record for key in batches of 200, in primary key order.
func (b *GormBackend) ScanKey(key string, fn func(userID string, raw []byte) error) error {
	var batch []models.GamificationRecord
	err := b.DB.Where("key = ?", key).
		FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
			for _, rec := range batch {
				if err := fn(rec.UserID, []byte(rec.Value)); err != nil {
					return err
				}
			}
			return nil
		}).Error
	return errors.Wrapf(err, "scan %s", key)
}

type gormStore struct {
	db     *gorm.DB
	userID string
}

func (s *gormStore) Get(key string) ([]byte, bool, error) {
	var rec models.GamificationRecord
	err := s.db.Where("user_id = ? AND key = ?", s.userID, key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %s for %s", key, s.userID)
	}
	return []byte(rec.Value), true, nil
}

func (s *gormStore) Set(key string, value []byte) error {
	rec := models.GamificationRecord{
		ID:     uuid.NewString(),
		UserID: s.userID,
		Key:    key,
		Value:  string(value),
	}
	err := s.db.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "deleted_at"}),
		},
	).Create(&rec).Error
	return errors.Wrapf(err, "set %s for %s", key, s.userID)
}

func (s *gormStore) Remove(key string) error {
	err := s.db.Unscoped().
		Where("user_id = ? AND key = ?", s.userID, key).
		Delete(&models.GamificationRecord{}).Error
	return errors.Wrapf(err, "remove %s for %s", key, s.userID)
}
