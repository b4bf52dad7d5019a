package models

// Nutrition per serving, as reported by the recipe provider.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
}

// RecipeContext is the recipe (or action context) a challenge predicate is
// evaluated against. Zero values mean "unknown".
type RecipeContext struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Cuisine        string     `json:"cuisine"`
	Cuisines       []string   `json:"cuisines"`
	DishTypes      []string   `json:"dish_types"`
	Diets          []string   `json:"diets"`
	Tags           []string   `json:"tags"`
	Ingredients    []string   `json:"ingredients"`
	ReadyInMinutes int        `json:"ready_in_minutes"`
	Servings       int        `json:"servings"`
	PricePerServ   float64    `json:"price_per_serving"` // USD
	Nutrition      *Nutrition `json:"nutrition,omitempty"`

	// Action details, filled by the activity tracker.
	Action       string `json:"action,omitempty"` // view, cook, rate, share, meal_prep
	Rating       int    `json:"rating,omitempty"`
	MealsPrepped int    `json:"meals_prepped,omitempty"`
}

// UserStats is the snapshot badge and challenge predicates read.
type UserStats struct {
	RecipesCooked       int      `json:"recipes_cooked"`
	CurrentStreak       int      `json:"current_streak"`
	LongestStreak       int      `json:"longest_streak"`
	Level               int      `json:"level"`
	TotalXP             int      `json:"total_xp"`
	ChallengesCompleted int      `json:"challenges_completed"`
	CuisinesTried       []string `json:"cuisines_tried"`
	FastRecipesCooked   int      `json:"fast_recipes_cooked"`
	MealsPrepped        int      `json:"meals_prepped"`
	RecipesRated        int      `json:"recipes_rated"`
	RecipesShared       int      `json:"recipes_shared"`
}
