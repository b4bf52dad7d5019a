// models/plan_mirror.go
package models

import "time"

// Subscription plans known to the billing service.
const (
	PlanFree      = "free"
	PlanSupporter = "supporter"
	PlanUnlimited = "unlimited"
	PlanFamily    = "family"
)

// PlanMirror mirrors the user's subscription plan from the billing sync service.
// Table name: plan_mirrors
type PlanMirror struct {
	ID        string     `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID    string     `gorm:"type:varchar(128);not null;uniqueIndex" json:"user_id"` // Primary lookup key
	Plan      string     `gorm:"type:varchar(32);not null;default:'free'" json:"plan"`
	Status    string     `gorm:"type:varchar(32);not null" json:"status"` // active, canceled, past_due
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

// EffectivePlan returns the plan that should gate features at t.
func (p PlanMirror) EffectivePlan(t time.Time) string {
	if p.Status != "active" && p.Status != "trialing" {
		return PlanFree
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(t) {
		return PlanFree
	}
	if p.Plan == "" {
		return PlanFree
	}
	return p.Plan
}
