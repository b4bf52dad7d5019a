package services

import (
	"recipe-gamification/models"
	"recipe-gamification/utils"

	"go.uber.org/zap"
)

// BadgeDefinition is a catalog badge and its unlock rule.
type BadgeDefinition struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Rarity      models.Rarity
	Check       func(stats models.UserStats) bool
}

// BadgeCatalog is evaluated in this order.
var BadgeCatalog = []BadgeDefinition{
	{ID: "first_recipe", Name: "First Timer", Emoji: "🥇", Description: "Cooked your first recipe", Rarity: models.RarityCommon,
		Check: func(s models.UserStats) bool { return s.RecipesCooked >= 1 }},
	{ID: "recipes_10", Name: "Getting Started", Emoji: "🍳", Description: "Cooked 10 recipes", Rarity: models.RarityCommon,
		Check: func(s models.UserStats) bool { return s.RecipesCooked >= 10 }},
	{ID: "recipes_50", Name: "Cooking Enthusiast", Emoji: "👨‍🍳", Description: "Cooked 50 recipes", Rarity: models.RarityRare,
		Check: func(s models.UserStats) bool { return s.RecipesCooked >= 50 }},
	{ID: "recipes_100", Name: "Master Chef", Emoji: "👑", Description: "Cooked 100 recipes", Rarity: models.RarityLegendary,
		Check: func(s models.UserStats) bool { return s.RecipesCooked >= 100 }},
	{ID: "streak_3", Name: "Getting Hot", Emoji: "🔥", Description: "3-day cooking streak", Rarity: models.RarityCommon,
		Check: func(s models.UserStats) bool { return s.CurrentStreak >= 3 }},
	{ID: "streak_7", Name: "On Fire", Emoji: "🔥", Description: "7-day cooking streak", Rarity: models.RarityRare,
		Check: func(s models.UserStats) bool { return s.CurrentStreak >= 7 }},
	{ID: "streak_14", Name: "Two Week Warrior", Emoji: "⚡", Description: "14-day cooking streak", Rarity: models.RarityRare,
		Check: func(s models.UserStats) bool { return s.CurrentStreak >= 14 }},
	{ID: "streak_30", Name: "Unstoppable", Emoji: "⚡", Description: "30-day cooking streak", Rarity: models.RarityEpic,
		Check: func(s models.UserStats) bool { return s.CurrentStreak >= 30 }},
	{ID: "streak_60", Name: "Legendary", Emoji: "👑", Description: "60-day cooking streak", Rarity: models.RarityLegendary,
		Check: func(s models.UserStats) bool { return s.CurrentStreak >= 60 }},
	{ID: "streak_100", Name: "Master of Consistency", Emoji: "🏆", Description: "100-day cooking streak", Rarity: models.RarityLegendary,
		Check: func(s models.UserStats) bool { return s.CurrentStreak >= 100 }},
	{ID: "cuisines_5", Name: "Cuisine Explorer", Emoji: "🌍", Description: "Tried 5 different cuisines", Rarity: models.RarityCommon,
		Check: func(s models.UserStats) bool { return len(s.CuisinesTried) >= 5 }},
	{ID: "cuisines_10", Name: "World Traveler", Emoji: "🌎", Description: "Tried 10 different cuisines", Rarity: models.RarityRare,
		Check: func(s models.UserStats) bool { return len(s.CuisinesTried) >= 10 }},
	{ID: "fast_cook_10", Name: "Speed Demon", Emoji: "⚡", Description: "Cooked 10 recipes under 30 minutes", Rarity: models.RarityRare,
		Check: func(s models.UserStats) bool { return s.FastRecipesCooked >= 10 }},
	{ID: "meal_prep_10", Name: "Meal Prep Starter", Emoji: "📦", Description: "Prepped 10 meals", Rarity: models.RarityCommon,
		Check: func(s models.UserStats) bool { return s.MealsPrepped >= 10 }},
	{ID: "meal_prep_50", Name: "Meal Prep Master", Emoji: "📦", Description: "Prepped 50 meals", Rarity: models.RarityEpic,
		Check: func(s models.UserStats) bool { return s.MealsPrepped >= 50 }},
	{ID: "level_10", Name: "Rising Star", Emoji: "⭐", Description: "Reached level 10", Rarity: models.RarityRare,
		Check: func(s models.UserStats) bool { return s.Level >= 10 }},
	{ID: "level_25", Name: "Experienced Chef", Emoji: "🌟", Description: "Reached level 25", Rarity: models.RarityEpic,
		Check: func(s models.UserStats) bool { return s.Level >= 25 }},
	{ID: "level_50", Name: "Culinary Master", Emoji: "💫", Description: "Reached level 50", Rarity: models.RarityLegendary,
		Check: func(s models.UserStats) bool { return s.Level >= 50 }},
	{ID: "challenges_10", Name: "Challenge Seeker", Emoji: "🎯", Description: "Completed 10 challenges", Rarity: models.RarityRare,
		Check: func(s models.UserStats) bool { return s.ChallengesCompleted >= 10 }},
	{ID: "challenges_50", Name: "Challenge Master", Emoji: "🏅", Description: "Completed 50 challenges", Rarity: models.RarityEpic,
		Check: func(s models.UserStats) bool { return s.ChallengesCompleted >= 50 }},
}

var rarityColors = map[models.Rarity]string{
	models.RarityCommon:    "text-slate-400",
	models.RarityRare:      "text-blue-400",
	models.RarityEpic:      "text-purple-400",
	models.RarityLegendary: "text-yellow-400",
}

var rarityGradients = map[models.Rarity]string{
	models.RarityCommon:    "from-slate-500 to-slate-600",
	models.RarityRare:      "from-blue-500 to-blue-600",
	models.RarityEpic:      "from-purple-500 to-purple-600",
	models.RarityLegendary: "from-yellow-400 via-orange-500 to-yellow-600",
}

// RarityColor falls back to the common color for unknown rarities.
func RarityColor(r models.Rarity) string {
	if c, ok := rarityColors[r]; ok {
		return c
	}
	return rarityColors[models.RarityCommon]
}

func RarityGradient(r models.Rarity) string {
	if g, ok := rarityGradients[r]; ok {
		return g
	}
	return rarityGradients[models.RarityCommon]
}

// Info renders the definition for clients.
func (d BadgeDefinition) Info(unlocked bool) models.BadgeInfo {
	return models.BadgeInfo{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Emoji:       d.Emoji,
		Rarity:      d.Rarity,
		Color:       RarityColor(d.Rarity),
		Unlocked:    unlocked,
	}
}

func BadgeByID(id string) (BadgeDefinition, bool) {
	for _, b := range BadgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return BadgeDefinition{}, false
}

func BadgesByRarity(r models.Rarity) []BadgeDefinition {
	var out []BadgeDefinition
	for _, b := range BadgeCatalog {
		if b.Rarity == r {
			out = append(out, b)
		}
	}
	return out
}

// BadgeService owns the badges.unlocked record of one user.
type BadgeService struct {
	Store Store
}

func NewBadgeService(store Store) *BadgeService {
	return &BadgeService{Store: store}
}

// Unlocked returns unlocked badge ids in unlock order.
func (s *BadgeService) Unlocked() []string {
	ids, _ := loadRecord[[]string](s.Store, KeyUnlockedBadges)
	return ids
}

func (s *BadgeService) IsUnlocked(id string) bool {
	for _, u := range s.Unlocked() {
		if u == id {
			return true
		}
	}
	return false
}

// UnlockBadge unlocks a catalog badge directly. False when unknown, already
// unlocked, or the write failed.
func (s *BadgeService) UnlockBadge(id string) bool {
	if _, ok := BadgeByID(id); !ok {
		return false
	}
	unlocked := s.Unlocked()
	for _, u := range unlocked {
		if u == id {
			return false
		}
	}
	if !saveRecord(s.Store, KeyUnlockedBadges, append(unlocked, id)) {
		return false
	}
	utils.Log().Info("🎖️ [Badges] unlocked", zap.String("badge", id))
	return true
}

// CheckBadges unlocks every locked badge whose rule holds for stats and
// returns them in catalog order. The unlocked list is written once; if that
// write fails nothing is reported as unlocked.
func (s *BadgeService) CheckBadges(stats models.UserStats) []models.BadgeInfo {
	unlocked := s.Unlocked()
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	var fresh []models.BadgeInfo
	for _, b := range BadgeCatalog {
		if have[b.ID] || b.Check == nil || !b.Check(stats) {
			continue
		}
		unlocked = append(unlocked, b.ID)
		have[b.ID] = true
		fresh = append(fresh, b.Info(true))
	}
	if len(fresh) == 0 {
		return nil
	}
	if !saveRecord(s.Store, KeyUnlockedBadges, unlocked) {
		return nil
	}
	for _, b := range fresh {
		utils.Log().Info("🎖️ [Badges] unlocked", zap.String("badge", b.ID), zap.String("rarity", string(b.Rarity)))
	}
	return fresh
}

// AllBadges returns the catalog with the user's unlocked flags.
func (s *BadgeService) AllBadges() []models.BadgeInfo {
	have := make(map[string]bool)
	for _, id := range s.Unlocked() {
		have[id] = true
	}
	out := make([]models.BadgeInfo, 0, len(BadgeCatalog))
	for _, b := range BadgeCatalog {
		out = append(out, b.Info(have[b.ID]))
	}
	return out
}
