package services

import (
	"strings"

	"recipe-gamification/models"

	"github.com/gosimple/unidecode"
)

// ChallengeDefinition is a static challenge with its completion predicate.
type ChallengeDefinition struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	Category    models.ChallengeCategory
	XPReward    int
	Check       func(recipe models.RecipeContext, stats models.UserStats) bool
}

// Instance renders the definition as an uncompleted challenge worth
// multiplier times its reward.
func (d ChallengeDefinition) Instance(multiplier int) models.ChallengeInstance {
	if multiplier < 1 {
		multiplier = 1
	}
	return models.ChallengeInstance{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Emoji:       d.Emoji,
		Category:    d.Category,
		XPReward:    d.XPReward * multiplier,
	}
}

// normalizeTag lowercases and strips accents so "Végétarien" matches "vegetarien".
func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// hasLabel reports whether any diet, tag or dish type of the recipe matches one of labels.
func hasLabel(recipe models.RecipeContext, labels ...string) bool {
	for _, group := range [][]string{recipe.Diets, recipe.Tags, recipe.DishTypes} {
		for _, v := range group {
			n := normalizeTag(v)
			for _, l := range labels {
				if n == l {
					return true
				}
			}
		}
	}
	return false
}

func recipeCuisines(recipe models.RecipeContext) []string {
	out := make([]string, 0, len(recipe.Cuisines)+1)
	if recipe.Cuisine != "" {
		out = append(out, recipe.Cuisine)
	}
	return append(out, recipe.Cuisines...)
}

func inCuisine(recipe models.RecipeContext, keys ...string) bool {
	for _, c := range recipeCuisines(recipe) {
		k := CuisineKey(c)
		for _, want := range keys {
			if k == want {
				return true
			}
		}
	}
	return false
}

func isCook(recipe models.RecipeContext) bool {
	return recipe.Action == "" || recipe.Action == ActionCook
}

// estimatedCost uses the provider price when known, otherwise $0.75 per ingredient.
func estimatedCost(recipe models.RecipeContext) float64 {
	if recipe.PricePerServ > 0 && recipe.Servings > 0 {
		return recipe.PricePerServ * float64(recipe.Servings)
	}
	if len(recipe.Ingredients) == 0 {
		return -1
	}
	return float64(len(recipe.Ingredients)) * 0.75
}

var asianCuisines = []string{"chinese", "japanese", "korean", "thai", "vietnamese", "indian", "asian"}

// ChallengeCatalog is the fixed pool challenges are drawn from. Order matters:
// category order is taken from first appearance.
var ChallengeCatalog = []ChallengeDefinition{
	{
		ID: "fast_cook", Name: "Speed Chef", Emoji: "⚡",
		Description: "Cook a recipe in 30 minutes or less",
		Category:    models.CategorySpeed, XPReward: 50,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && r.ReadyInMinutes > 0 && r.ReadyInMinutes <= 30
		},
	},
	{
		ID: "lightning_meal", Name: "Lightning Meal", Emoji: "🌩️",
		Description: "Cook a recipe in 15 minutes or less",
		Category:    models.CategorySpeed, XPReward: 70,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && r.ReadyInMinutes > 0 && r.ReadyInMinutes <= 15
		},
	},
	{
		ID: "new_cuisine", Name: "Culinary Explorer", Emoji: "🌍",
		Description: "Cook a cuisine you haven't tried before",
		Category:    models.CategoryCuisine, XPReward: 75,
		Check: func(r models.RecipeContext, s models.UserStats) bool {
			if !isCook(r) {
				return false
			}
			for _, c := range recipeCuisines(r) {
				k := CuisineKey(c)
				if k == "" {
					continue
				}
				tried := false
				for _, t := range s.CuisinesTried {
					if t == k {
						tried = true
						break
					}
				}
				if !tried {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "asian_adventure", Name: "Asian Adventure", Emoji: "🥢",
		Description: "Cook an Asian dish",
		Category:    models.CategoryCuisine, XPReward: 50,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && inCuisine(r, asianCuisines...)
		},
	},
	{
		ID: "vegetarian", Name: "Veggie Day", Emoji: "🥗",
		Description: "Cook a vegetarian recipe",
		Category:    models.CategoryDietary, XPReward: 40,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && hasLabel(r, "vegetarian", "vegan", "lacto ovo vegetarian")
		},
	},
	{
		ID: "vegan", Name: "Plant Powered", Emoji: "🌱",
		Description: "Cook a vegan recipe",
		Category:    models.CategoryDietary, XPReward: 60,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && hasLabel(r, "vegan")
		},
	},
	{
		ID: "gluten_free", Name: "Gluten-Free Gourmet", Emoji: "🌾",
		Description: "Cook a gluten-free recipe",
		Category:    models.CategoryDietary, XPReward: 45,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && hasLabel(r, "gluten free", "gluten-free")
		},
	},
	{
		ID: "healthy", Name: "Health Nut", Emoji: "💚",
		Description: "Cook a recipe under 400 calories per serving",
		Category:    models.CategoryHealth, XPReward: 45,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && r.Nutrition != nil && r.Nutrition.Calories > 0 && r.Nutrition.Calories <= 400
		},
	},
	{
		ID: "high_protein", Name: "Protein Power", Emoji: "💪",
		Description: "Cook a recipe with at least 30g of protein per serving",
		Category:    models.CategoryHealth, XPReward: 50,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && r.Nutrition != nil && r.Nutrition.Protein >= 30
		},
	},
	{
		ID: "fiber_boost", Name: "Fiber Boost", Emoji: "🥦",
		Description: "Cook a recipe with at least 8g of fiber per serving",
		Category:    models.CategoryHealth, XPReward: 40,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && r.Nutrition != nil && r.Nutrition.Fiber >= 8
		},
	},
	{
		ID: "few_ingredients", Name: "Minimalist", Emoji: "✨",
		Description: "Cook a recipe with 5 ingredients or fewer",
		Category:    models.CategorySkill, XPReward: 60,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && len(r.Ingredients) > 0 && len(r.Ingredients) <= 5
		},
	},
	{
		ID: "complex_recipe", Name: "Ambitious Cook", Emoji: "🎓",
		Description: "Cook a recipe with 12 or more ingredients",
		Category:    models.CategorySkill, XPReward: 80,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && len(r.Ingredients) >= 12
		},
	},
	{
		ID: "budget", Name: "Budget Master", Emoji: "💰",
		Description: "Cook a recipe for under $5",
		Category:    models.CategoryBudget, XPReward: 55,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			cost := estimatedCost(r)
			return isCook(r) && cost >= 0 && cost <= 5
		},
	},
	{
		ID: "family_friendly", Name: "Family Feast", Emoji: "👨‍👩‍👧‍👦",
		Description: "Cook a recipe that serves 4 or more",
		Category:    models.CategoryFamily, XPReward: 50,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && r.Servings >= 4
		},
	},
	{
		ID: "meal_prep", Name: "Meal Prep Pro", Emoji: "📦",
		Description: "Prep 3 or more meals at once",
		Category:    models.CategoryMeal, XPReward: 80,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return r.Action == ActionMealPrep && r.MealsPrepped >= 3
		},
	},
	{
		ID: "breakfast_chef", Name: "Rise and Shine", Emoji: "🍳",
		Description: "Cook a breakfast recipe",
		Category:    models.CategoryMeal, XPReward: 40,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && hasLabel(r, "breakfast", "brunch", "morning meal")
		},
	},
	{
		ID: "share_recipe", Name: "Spread the Love", Emoji: "📣",
		Description: "Share a recipe with a friend",
		Category:    models.CategorySocial, XPReward: 30,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return r.Action == ActionShare
		},
	},
	{
		ID: "rate_recipe", Name: "Food Critic", Emoji: "⭐",
		Description: "Rate a recipe you cooked",
		Category:    models.CategorySocial, XPReward: 25,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return r.Action == ActionRate && r.Rating > 0
		},
	},
	{
		ID: "keep_streak", Name: "Keep the Flame", Emoji: "🔥",
		Description: "Cook while on a streak of 3 days or more",
		Category:    models.CategoryStreak, XPReward: 40,
		Check: func(r models.RecipeContext, s models.UserStats) bool {
			return isCook(r) && s.CurrentStreak >= 3
		},
	},
	{
		ID: "soup_season", Name: "Soup Season", Emoji: "🍲",
		Description: "Cook a soup or stew",
		Category:    models.CategorySpecial, XPReward: 45,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && hasLabel(r, "soup", "stew")
		},
	},
	{
		ID: "sweet_treat", Name: "Sweet Treat", Emoji: "🧁",
		Description: "Bake or cook a dessert",
		Category:    models.CategorySpecial, XPReward: 35,
		Check: func(r models.RecipeContext, _ models.UserStats) bool {
			return isCook(r) && hasLabel(r, "dessert")
		},
	},
}

// ChallengeByID looks a definition up in the catalog.
func ChallengeByID(id string) (ChallengeDefinition, bool) {
	for _, d := range ChallengeCatalog {
		if d.ID == id {
			return d, true
		}
	}
	return ChallengeDefinition{}, false
}

// WeeklyChallengeIDs is the fixed weekly set, in display order.
var WeeklyChallengeIDs = []string{"meal_prep", "complex_recipe"}

// WeeklyPool returns the weekly definitions found in catalog, in
// WeeklyChallengeIDs order. Ids missing from catalog are skipped.
func WeeklyPool(catalog []ChallengeDefinition) []ChallengeDefinition {
	out := make([]ChallengeDefinition, 0, len(WeeklyChallengeIDs))
	for _, id := range WeeklyChallengeIDs {
		for _, d := range catalog {
			if d.ID == id {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
