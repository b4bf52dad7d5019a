package models

import (
	"time"

	"gorm.io/gorm"
)

// GamificationRecord is one key of one user's gamification state.
// Table name: gamification_records
type GamificationRecord struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"type:varchar(128);not null;uniqueIndex:idx_user_key" json:"user_id"` // links to profile service
	Key    string `gorm:"type:varchar(128);not null;uniqueIndex:idx_user_key;index" json:"key"`
	Value  string `gorm:"type:text;not null" json:"value"` // JSON encoded record

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
