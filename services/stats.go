package services

import (
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"recipe-gamification/models"
)

// FastRecipeMinutes is the ready-time limit for a "fast" recipe.
const FastRecipeMinutes = 30

// StatsCounters are the activity counters kept beside the core records.
type StatsCounters struct {
	RecipesCooked     int      `json:"recipes_cooked"`
	CuisinesTried     []string `json:"cuisines_tried"` // cuisine keys, first-seen order
	FastRecipesCooked int      `json:"fast_recipes_cooked"`
	MealsPrepped      int      `json:"meals_prepped"`
	RecipesRated      int      `json:"recipes_rated"`
	RecipesShared     int      `json:"recipes_shared"`
}

// CuisineKey normalizes a cuisine name: "Middle Eastern" and
// "middle-eastern" both become "middle-eastern".
func CuisineKey(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// CuisineLabel turns a cuisine key back into a display name.
func CuisineLabel(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "-", " "))
}

// StatsService owns the stats.counters record of one user.
type StatsService struct {
	Store Store
}

func NewStatsService(store Store) *StatsService {
	return &StatsService{Store: store}
}

func (s *StatsService) Counters() StatsCounters {
	c, _ := loadRecord[StatsCounters](s.Store, KeyStatsCounters)
	return c
}

func (s *StatsService) update(fn func(c *StatsCounters)) StatsCounters {
	c := s.Counters()
	fn(&c)
	saveRecord(s.Store, KeyStatsCounters, c)
	return c
}

// RecordCook counts a cooked recipe and any new cuisines it introduces.
func (s *StatsService) RecordCook(recipe models.RecipeContext) StatsCounters {
	return s.update(func(c *StatsCounters) {
		c.RecipesCooked++
		if recipe.ReadyInMinutes > 0 && recipe.ReadyInMinutes <= FastRecipeMinutes {
			c.FastRecipesCooked++
		}
		for _, name := range recipeCuisines(recipe) {
			key := CuisineKey(name)
			if key == "" {
				continue
			}
			known := false
			for _, k := range c.CuisinesTried {
				if k == key {
					known = true
					break
				}
			}
			if !known {
				c.CuisinesTried = append(c.CuisinesTried, key)
			}
		}
	})
}

func (s *StatsService) RecordMealPrep(meals int) StatsCounters {
	return s.update(func(c *StatsCounters) {
		if meals > 0 {
			c.MealsPrepped += meals
		}
	})
}

func (s *StatsService) RecordRating() StatsCounters {
	return s.update(func(c *StatsCounters) { c.RecipesRated++ })
}

func (s *StatsService) RecordShare() StatsCounters {
	return s.update(func(c *StatsCounters) { c.RecipesShared++ })
}

// CuisineLabels lists tried cuisines as display names.
func (s *StatsService) CuisineLabels() []string {
	keys := s.Counters().CuisinesTried
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, CuisineLabel(k))
	}
	return out
}
