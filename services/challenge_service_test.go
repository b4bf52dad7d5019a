package services

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"recipe-gamification/models"
)

func ids(list []models.ChallengeInstance) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestSelectDiverseFirstPick(t *testing.T) {
	got := SelectDiverse(ChallengeCatalog, 5, zeroRand{})
	want := []string{"fast_cook", "new_cuisine", "vegetarian", "healthy", "few_ingredients"}
	var gotIDs []string
	for _, d := range got {
		gotIDs = append(gotIDs, d.ID)
	}
	if !reflect.DeepEqual(gotIDs, want) {
		t.Fatalf("SelectDiverse = %v, want %v", gotIDs, want)
	}
}

func TestSelectDiverseCoversCategoriesFirst(t *testing.T) {
	categories := map[models.ChallengeCategory]bool{}
	for _, d := range ChallengeCatalog {
		categories[d.Category] = true
	}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		picked := SelectDiverse(ChallengeCatalog, len(categories), rng)
		seen := map[models.ChallengeCategory]bool{}
		for _, d := range picked {
			if seen[d.Category] {
				t.Fatalf("seed %d: category %s picked twice", seed, d.Category)
			}
			seen[d.Category] = true
		}
	}
}

func TestSelectDiverseBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	all := SelectDiverse(ChallengeCatalog, len(ChallengeCatalog)+10, rng)
	if len(all) != len(ChallengeCatalog) {
		t.Fatalf("got %d challenges, want %d", len(all), len(ChallengeCatalog))
	}
	seen := map[string]bool{}
	for _, d := range all {
		if seen[d.ID] {
			t.Fatalf("duplicate challenge %s", d.ID)
		}
		seen[d.ID] = true
	}

	if got := SelectDiverse(ChallengeCatalog, 0, rng); got != nil {
		t.Fatalf("n=0 should select nothing, got %d", len(got))
	}
	if got := SelectDiverse(nil, 3, rng); got != nil {
		t.Fatalf("empty catalog should select nothing, got %d", len(got))
	}
}

func TestSelectDiverseSmallCatalog(t *testing.T) {
	var catalog []ChallengeDefinition
	for cat, n := range map[models.ChallengeCategory]int{
		models.CategorySpeed:   2,
		models.CategoryCuisine: 3,
		models.CategoryDietary: 4,
	} {
		for i := 0; i < n; i++ {
			catalog = append(catalog, ChallengeDefinition{ID: fmt.Sprintf("%s_%d", cat, i), Category: cat})
		}
	}

	rngs := []Random{zeroRand{}}
	for seed := int64(1); seed <= 50; seed++ {
		rngs = append(rngs, rand.New(rand.NewSource(seed)))
	}
	for i, rng := range rngs {
		picked := SelectDiverse(catalog, 3, rng)
		seen := map[models.ChallengeCategory]bool{}
		for _, d := range picked {
			seen[d.Category] = true
		}
		if len(picked) != 3 || len(seen) != 3 {
			t.Fatalf("rng %d: picked %+v, want one per category", i, picked)
		}
	}
}

func TestSelectDiverseDeterministicForSeed(t *testing.T) {
	a := SelectDiverse(ChallengeCatalog, 5, rand.New(rand.NewSource(42)))
	b := SelectDiverse(ChallengeCatalog, 5, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced %s and %s at %d", a[i].ID, b[i].ID, i)
		}
	}
}

func TestDailyChallengesPersistForTheDay(t *testing.T) {
	clock := newTestClock("2026-03-10")
	store := NewMemoryStore()

	first := NewChallengeService(store, nil, clock.clock(), rand.New(rand.NewSource(1))).DailyChallenges()
	second := NewChallengeService(store, nil, clock.clock(), rand.New(rand.NewSource(99))).DailyChallenges()
	if len(first) != StandardDailyChallenges {
		t.Fatalf("got %d daily challenges, want %d", len(first), StandardDailyChallenges)
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("daily set changed within a day: %v vs %v", ids(first), ids(second))
	}

	clock.set("2026-03-11")
	svc := NewChallengeService(store, nil, clock.clock(), zeroRand{})
	next := svc.DailyChallenges()
	if want := []string{"fast_cook", "new_cuisine", "vegetarian"}; !reflect.DeepEqual(ids(next), want) {
		t.Fatalf("new day set = %v, want %v", ids(next), want)
	}
	if p := svc.DailyProgress(); p.PeriodKey != "2026-03-11" {
		t.Fatalf("period = %s", p.PeriodKey)
	}
}

func TestPremiumDailyCount(t *testing.T) {
	clock := newTestClock("2026-03-10")
	gate := StaticFeatureGate{FeatureUnlimitedChallenges: true}
	svc := NewChallengeService(NewMemoryStore(), gate, clock.clock(), zeroRand{})
	if got := len(svc.DailyChallenges()); got != PremiumDailyChallenges {
		t.Fatalf("premium daily count = %d, want %d", got, PremiumDailyChallenges)
	}
}

func TestCompleteChallengeIdempotent(t *testing.T) {
	clock := newTestClock("2026-03-10")
	svc := NewChallengeService(NewMemoryStore(), nil, clock.clock(), zeroRand{})

	if !svc.CompleteChallenge("vegetarian") {
		t.Fatal("first completion should succeed")
	}
	if svc.CompleteChallenge("vegetarian") {
		t.Fatal("second completion should be a no-op")
	}
	if svc.CompleteChallenge("vegan") {
		t.Fatal("challenges outside today's set cannot be completed")
	}
	if !svc.IsCompleted("2026-03-10", "vegetarian") || svc.TotalCompleted() != 1 {
		t.Fatalf("log = %v", svc.completionLog())
	}

	p := svc.DailyProgress()
	if p.Completed != 1 || p.Total != 3 || p.Percent != 33 {
		t.Fatalf("progress = %+v", p)
	}
	for _, c := range svc.DailyChallenges() {
		if c.Completed != (c.ID == "vegetarian") {
			t.Fatalf("completion flag wrong for %s", c.ID)
		}
	}

	clock.set("2026-03-11")
	if !svc.CompleteChallenge("vegetarian") {
		t.Fatal("completion should be per day")
	}
	if svc.TotalCompleted() != 2 {
		t.Fatalf("total = %d", svc.TotalCompleted())
	}
}

func TestCompleteChallengeWriteFailure(t *testing.T) {
	clock := newTestClock("2026-03-10")
	mem := NewMemoryStore()
	NewChallengeService(mem, nil, clock.clock(), zeroRand{}).DailyChallenges()

	svc := NewChallengeService(&failingStore{Store: mem, failSet: true}, nil, clock.clock(), zeroRand{})
	if svc.CompleteChallenge("fast_cook") {
		t.Fatal("a failed write must not report completion")
	}
	if svc.IsCompleted("2026-03-10", "fast_cook") {
		t.Fatal("nothing should be logged")
	}
}

func TestWeeklyChallenges(t *testing.T) {
	clock := newTestClock("2026-03-10")
	svc := NewChallengeService(NewMemoryStore(), nil, clock.clock(), zeroRand{})

	weekly := svc.WeeklyChallenges()
	if want := []string{"meal_prep", "complex_recipe"}; !reflect.DeepEqual(ids(weekly), want) {
		t.Fatalf("weekly = %v, want %v", ids(weekly), want)
	}
	for _, c := range weekly {
		def, _ := ChallengeByID(c.ID)
		if c.XPReward != def.XPReward*WeeklyRewardMultiplier {
			t.Fatalf("weekly instance %+v from %+v", c, def)
		}
	}

	inst, ok := svc.CompleteWeekly("meal_prep")
	if !ok || inst.XPReward != 160 || !inst.Completed {
		t.Fatalf("CompleteWeekly = %+v, %v", inst, ok)
	}
	if !svc.IsCompleted("2026-W11", "meal_prep") {
		t.Fatal("weekly completion should be keyed by ISO week")
	}
	if _, ok := svc.CompleteWeekly("fast_cook"); ok {
		t.Fatal("only weekly challenges can be completed weekly")
	}

	// same ISO week, later day
	clock.set("2026-03-15")
	if p := svc.WeeklyProgress(); p.Completed != 1 || p.Total != 2 || p.PeriodKey != "2026-W11" {
		t.Fatalf("weekly progress = %+v", p)
	}
}

func TestWeeklySetIgnoresRandomness(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		svc := NewChallengeService(NewMemoryStore(), nil, newTestClock("2026-03-10").clock(), rand.New(rand.NewSource(seed)))
		if got := ids(svc.WeeklyChallenges()); !reflect.DeepEqual(got, WeeklyChallengeIDs) {
			t.Fatalf("seed %d: weekly = %v", seed, got)
		}
	}
}

func TestEvaluateDaily(t *testing.T) {
	clock := newTestClock("2026-03-10")
	svc := NewChallengeService(NewMemoryStore(), nil, clock.clock(), zeroRand{})

	recipe := models.RecipeContext{
		ID:             "r1",
		Cuisine:        "Italian",
		Diets:          []string{"Vegetarian"},
		ReadyInMinutes: 20,
		Action:         ActionCook,
	}
	done := svc.EvaluateDaily(recipe, models.UserStats{CuisinesTried: []string{"italian"}})
	if want := []string{"fast_cook", "vegetarian"}; !reflect.DeepEqual(ids(done), want) {
		t.Fatalf("completed = %v, want %v", ids(done), want)
	}

	if again := svc.EvaluateDaily(recipe, models.UserStats{}); !reflect.DeepEqual(ids(again), []string{"new_cuisine"}) {
		t.Fatalf("second evaluation = %v", ids(again))
	}
}

func TestEvaluateSkipsUnknownChallenges(t *testing.T) {
	clock := newTestClock("2026-03-10")
	store := NewMemoryStore()
	saveRecord(store, KeyDailyChallenges, models.ChallengeSet{
		PeriodKey:  "2026-03-10",
		Challenges: []models.ChallengeInstance{{ID: "retired", XPReward: 10}, {ID: "fast_cook", XPReward: 50}},
	})

	svc := NewChallengeService(store, nil, clock.clock(), zeroRand{})
	if got := ids(svc.DailyChallenges()); !reflect.DeepEqual(got, []string{"retired", "fast_cook"}) {
		t.Fatalf("stored set should be kept verbatim, got %v", got)
	}
	done := svc.EvaluateDaily(models.RecipeContext{ReadyInMinutes: 10}, models.UserStats{})
	if !reflect.DeepEqual(ids(done), []string{"fast_cook"}) {
		t.Fatalf("completed = %v", ids(done))
	}
}

func TestChallengePredicates(t *testing.T) {
	cases := []struct {
		id     string
		recipe models.RecipeContext
		stats  models.UserStats
		want   bool
	}{
		{"gluten_free", models.RecipeContext{Diets: []string{"Gluten Free"}}, models.UserStats{}, true},
		{"vegetarian", models.RecipeContext{Tags: []string{" Végétarian "}}, models.UserStats{}, true},
		{"asian_adventure", models.RecipeContext{Cuisines: []string{"Thai"}}, models.UserStats{}, true},
		{"budget", models.RecipeContext{PricePerServ: 1.5, Servings: 3}, models.UserStats{}, true},
		{"budget", models.RecipeContext{Ingredients: make([]string, 8)}, models.UserStats{}, false},
		{"budget", models.RecipeContext{}, models.UserStats{}, false},
		{"keep_streak", models.RecipeContext{}, models.UserStats{CurrentStreak: 3}, true},
		{"meal_prep", models.RecipeContext{Action: ActionMealPrep, MealsPrepped: 3}, models.UserStats{}, true},
		{"fast_cook", models.RecipeContext{Action: ActionView, ReadyInMinutes: 10}, models.UserStats{}, false},
		{"rate_recipe", models.RecipeContext{Action: ActionRate, Rating: 4}, models.UserStats{}, true},
		{"new_cuisine", models.RecipeContext{Cuisine: "Middle Eastern"}, models.UserStats{CuisinesTried: []string{"middle-eastern"}}, false},
	}
	for _, tc := range cases {
		def, ok := ChallengeByID(tc.id)
		if !ok {
			t.Fatalf("unknown challenge %s", tc.id)
		}
		if got := def.Check(tc.recipe, tc.stats); got != tc.want {
			t.Errorf("%s(%+v) = %v, want %v", tc.id, tc.recipe, got, tc.want)
		}
	}
}
