package services

import (
	"sync"
	"time"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Premium features consulted by the engine.
const (
	FeatureXPMultiplier        = "xp_multiplier"
	FeatureStreakFreeze        = "streak_freeze"
	FeatureStreakRecovery      = "streak_recovery"
	FeatureUnlimitedChallenges = "unlimited_challenges"
)

// FeatureGate answers whether the current user may use a premium feature.
type FeatureGate interface {
	HasFeature(feature string) bool
}

// hasFeature treats a missing gate as "everything disabled".
func hasFeature(g FeatureGate, feature string) bool {
	return g != nil && g.HasFeature(feature)
}

// StaticFeatureGate enables exactly the listed features.
type StaticFeatureGate map[string]bool

func (g StaticFeatureGate) HasFeature(feature string) bool { return g[feature] }

var planFeatures = map[string][]string{
	models.PlanFree:      nil,
	models.PlanSupporter: {FeatureXPMultiplier, FeatureStreakFreeze, FeatureStreakRecovery, FeatureUnlimitedChallenges},
	models.PlanUnlimited: {FeatureXPMultiplier, FeatureStreakFreeze, FeatureStreakRecovery, FeatureUnlimitedChallenges},
	models.PlanFamily:    {FeatureXPMultiplier, FeatureStreakFreeze, FeatureStreakRecovery, FeatureUnlimitedChallenges},
}

// PlanFeatureGate derives features from a subscription plan. Unknown plans get nothing.
type PlanFeatureGate struct {
	Plan string
}

func (g PlanFeatureGate) HasFeature(feature string) bool {
	for _, f := range planFeatures[g.Plan] {
		if f == feature {
			return true
		}
	}
	return false
}

// PlanCacheTTL bounds how stale a resolved plan may be.
const PlanCacheTTL = 1 * time.Minute

type cachedPlan struct {
	plan      string
	fetchedAt time.Time
}

// PlanResolver maps users to plans through the plan_mirrors table.
type PlanResolver struct {
	Lookup func(userID string) (models.PlanMirror, bool, error)
	Now    Clock

	mu    sync.Mutex
	cache map[string]cachedPlan
}

func NewPlanResolver(db *gorm.DB, now Clock) *PlanResolver {
	return &PlanResolver{
		Now: now,
		Lookup: func(userID string) (models.PlanMirror, bool, error) {
			var mirror models.PlanMirror
			err := db.Where("user_id = ?", userID).First(&mirror).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return mirror, false, nil
			}
			if err != nil {
				return mirror, false, errors.Wrap(err, "plan lookup")
			}
			return mirror, true, nil
		},
	}
}

// PlanFor returns the user's effective plan, falling back to free on any failure.
func (r *PlanResolver) PlanFor(userID string) string {
	if r == nil || r.Lookup == nil {
		return models.PlanFree
	}
	now := r.Now.now()

	r.mu.Lock()
	if c, ok := r.cache[userID]; ok && now.Sub(c.fetchedAt) < PlanCacheTTL {
		r.mu.Unlock()
		return c.plan
	}
	r.mu.Unlock()

	plan := models.PlanFree
	mirror, found, err := r.Lookup(userID)
	switch {
	case err != nil:
		utils.Log().Warn("[Plans] lookup failed, treating as free", zap.String("user_id", userID), zap.Error(err))
	case found:
		plan = mirror.EffectivePlan(now)
	}

	r.mu.Lock()
	if r.cache == nil {
		r.cache = make(map[string]cachedPlan)
	}
	r.cache[userID] = cachedPlan{plan: plan, fetchedAt: now}
	r.mu.Unlock()
	return plan
}

// GateFor returns the feature gate for the user's plan.
func (r *PlanResolver) GateFor(userID string) FeatureGate {
	return PlanFeatureGate{Plan: r.PlanFor(userID)}
}

// Invalidate drops cached plans so the next lookup hits the mirror.
func (r *PlanResolver) Invalidate(userIDs ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range userIDs {
		delete(r.cache, id)
	}
}
