package services

import (
	"fmt"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"go.uber.org/zap"
)

// Tracked actions.
const (
	ActionView     = "view"
	ActionCook     = "cook"
	ActionRate     = "rate"
	ActionShare    = "share"
	ActionMealPrep = "meal_prep"
)

// ActivityResult reports everything one action changed.
type ActivityResult struct {
	Action              string                     `json:"action"`
	XPGained            int                        `json:"xp_gained"`
	XP                  models.XPResult            `json:"xp"`
	Streak              models.StreakUpdate        `json:"streak"`
	NewBadges           []models.BadgeInfo         `json:"new_badges"`
	CompletedChallenges []models.ChallengeInstance `json:"completed_challenges"`
}

// Summary is the dashboard view of a user's gamification state.
type Summary struct {
	Progress         models.LevelProgress     `json:"progress"`
	TodayXP          int                      `json:"today_xp"`
	Streak           models.StreakView        `json:"streak"`
	Daily            models.ChallengeProgress `json:"daily"`
	Weekly           models.ChallengeProgress `json:"weekly"`
	BadgesUnlocked   int                      `json:"badges_unlocked"`
	BadgesTotal      int                      `json:"badges_total"`
	Stats            models.UserStats         `json:"stats"`
	FreezeAvailable  bool                     `json:"freeze_available"`
	RecoverAvailable bool                     `json:"recover_available"`
}

// ActivityService wires the ledger, streak, challenge, badge and stats
// components of one user together.
type ActivityService struct {
	XP         *XPLedger
	Streaks    *StreakTracker
	Challenges *ChallengeService
	Badges     *BadgeService
	Stats      *StatsService
	Weights    XPWeights
}

func NewActivityService(store Store, gate FeatureGate, now Clock, rng Random) *ActivityService {
	return &ActivityService{
		XP:         NewXPLedger(store, gate, now),
		Streaks:    NewStreakTracker(store, gate, now),
		Challenges: NewChallengeService(store, gate, now, rng),
		Badges:     NewBadgeService(store),
		Stats:      NewStatsService(store),
		Weights:    DefaultXPWeights,
	}
}

// Snapshot assembles the stats badge and challenge rules read.
func (s *ActivityService) Snapshot() models.UserStats {
	c := s.Stats.Counters()
	view := s.Streaks.View()
	xp := s.XP.CurrentXP()
	return models.UserStats{
		RecipesCooked:       c.RecipesCooked,
		CurrentStreak:       view.Current,
		LongestStreak:       view.Longest,
		Level:               CalculateLevel(xp),
		TotalXP:             xp,
		ChallengesCompleted: s.Challenges.TotalCompleted(),
		CuisinesTried:       c.CuisinesTried,
		FastRecipesCooked:   c.FastRecipesCooked,
		MealsPrepped:        c.MealsPrepped,
		RecipesRated:        c.RecipesRated,
		RecipesShared:       c.RecipesShared,
	}
}

// credit adds XP and folds it into the running result.
func (s *ActivityService) credit(res *ActivityResult, amount int, reason string) {
	if amount <= 0 {
		return
	}
	r := s.XP.AddXP(amount, reason)
	if res.XP.OldLevel == 0 {
		res.XP.OldLevel = r.OldLevel
	}
	res.XP.NewXP = r.NewXP
	res.XP.NewLevel = r.NewLevel
	res.XP.AmountAdded += r.AmountAdded
	res.XP.Multiplier = r.Multiplier
	res.XP.LeveledUp = res.XP.NewLevel > res.XP.OldLevel
	res.XPGained += r.AmountAdded
}

// track runs one action: streak, XP, counters, badges, then challenges.
// Challenge rules see the stats as they were before this action's counters.
func (s *ActivityService) track(action string, recipe models.RecipeContext, xp int, record func()) ActivityResult {
	recipe.Action = action
	res := ActivityResult{Action: action}

	if !s.Streaks.UpdatedToday() {
		res.Streak = s.Streaks.RegisterActivityToday()
		if res.Streak.Changed {
			s.credit(&res, res.Streak.MilestoneBonus, fmt.Sprintf("streak_%d", res.Streak.Streak))
			if id, ok := StreakBadgeFor(res.Streak.Streak); ok && s.Badges.UnlockBadge(id) {
				if b, ok := BadgeByID(id); ok {
					res.NewBadges = append(res.NewBadges, b.Info(true))
				}
			}
		}
	} else {
		view := s.Streaks.View()
		res.Streak = models.StreakUpdate{
			Transition:    models.StreakAlreadyCounted,
			Streak:        view.Current,
			LongestStreak: view.Longest,
		}
	}

	s.credit(&res, xp, action)

	before := s.Snapshot()
	if record != nil {
		record()
	}
	res.NewBadges = append(res.NewBadges, s.Badges.CheckBadges(s.Snapshot())...)

	completed := append(s.Challenges.EvaluateDaily(recipe, before), s.Challenges.EvaluateWeekly(recipe, before)...)
	for _, c := range completed {
		reward := c.XPReward
		if reward <= 0 {
			reward = s.Weights.ChallengeXP
		}
		s.credit(&res, reward, "challenge_"+c.ID)
	}
	res.CompletedChallenges = completed

	if res.XP.OldLevel == 0 {
		lvl := s.XP.CurrentLevel()
		res.XP = models.XPResult{NewXP: s.XP.CurrentXP(), OldLevel: lvl, NewLevel: lvl, Multiplier: 1}
	}

	utils.Log().Info("📊 [Activity] tracked",
		zap.String("action", action),
		zap.String("recipe_id", recipe.ID),
		zap.Int("xp_gained", res.XPGained),
		zap.Int("badges", len(res.NewBadges)),
		zap.Int("challenges", len(completed)),
	)
	return res
}

func (s *ActivityService) TrackRecipeView(recipe models.RecipeContext) ActivityResult {
	return s.track(ActionView, recipe, s.Weights.ViewXP, nil)
}

func (s *ActivityService) TrackRecipeCook(recipe models.RecipeContext) ActivityResult {
	return s.track(ActionCook, recipe, s.Weights.CookXP, func() { s.Stats.RecordCook(recipe) })
}

func (s *ActivityService) TrackRecipeRating(recipe models.RecipeContext, rating int) ActivityResult {
	recipe.Rating = rating
	return s.track(ActionRate, recipe, s.Weights.RateXP, func() { s.Stats.RecordRating() })
}

func (s *ActivityService) TrackShare(recipe models.RecipeContext) ActivityResult {
	return s.track(ActionShare, recipe, s.Weights.ShareXP, func() { s.Stats.RecordShare() })
}

// TrackMealPrep counts prepped meals; they earn cook XP each.
func (s *ActivityService) TrackMealPrep(meals int) ActivityResult {
	recipe := models.RecipeContext{MealsPrepped: meals}
	xp := 0
	if meals > 0 {
		xp = meals * s.Weights.CookXP
	}
	return s.track(ActionMealPrep, recipe, xp, func() { s.Stats.RecordMealPrep(meals) })
}

// CompleteChallenge completes a daily (or weekly) challenge by hand and
// credits its reward. The bool is false when it was already completed or
// is not in the current set.
func (s *ActivityService) CompleteChallenge(id string, weekly bool) (models.ChallengeInstance, models.XPResult, bool) {
	var (
		inst models.ChallengeInstance
		ok   bool
	)
	if weekly {
		inst, ok = s.Challenges.CompleteWeekly(id)
	} else {
		inst, ok = s.Challenges.CompleteDaily(id)
	}
	if !ok {
		lvl := s.XP.CurrentLevel()
		return inst, models.XPResult{NewXP: s.XP.CurrentXP(), OldLevel: lvl, NewLevel: lvl, Multiplier: 1}, false
	}
	reward := inst.XPReward
	if reward <= 0 {
		reward = s.Weights.ChallengeXP
	}
	return inst, s.XP.AddXP(reward, "challenge_"+inst.ID), true
}

// CheckBadges evaluates the catalog against the current snapshot.
func (s *ActivityService) CheckBadges() []models.BadgeInfo {
	return s.Badges.CheckBadges(s.Snapshot())
}

func (s *ActivityService) Summary() Summary {
	return Summary{
		Progress:         s.XP.Progress(),
		TodayXP:          s.XP.TodayXP(),
		Streak:           s.Streaks.View(),
		Daily:            s.Challenges.DailyProgress(),
		Weekly:           s.Challenges.WeeklyProgress(),
		BadgesUnlocked:   len(s.Badges.Unlocked()),
		BadgesTotal:      len(BadgeCatalog),
		Stats:            s.Snapshot(),
		FreezeAvailable:  s.Streaks.FreezeAvailable(),
		RecoverAvailable: s.Streaks.RecoveryAvailable(),
	}
}
