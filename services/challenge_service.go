package services

import (
	"strings"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"go.uber.org/zap"
)

// Daily set sizes by tier, and the weekly set shape.
const (
	StandardDailyChallenges = 3
	PremiumDailyChallenges  = 5
	WeeklyChallengeCount    = 2
	WeeklyRewardMultiplier  = 2
)

// Random is the source of randomness for challenge selection.
// *math/rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// SelectDiverse picks up to n challenges, preferring categories not yet
// picked. While unused categories remain, a category is drawn uniformly and
// then an unused challenge within it. Once every category has been used the
// rest are drawn uniformly from what is left.
func SelectDiverse(catalog []ChallengeDefinition, n int, rng Random) []ChallengeDefinition {
	if n <= 0 || len(catalog) == 0 {
		return nil
	}
	if n > len(catalog) {
		n = len(catalog)
	}

	var categories []models.ChallengeCategory
	byCategory := make(map[models.ChallengeCategory][]int)
	for i, d := range catalog {
		if _, seen := byCategory[d.Category]; !seen {
			categories = append(categories, d.Category)
		}
		byCategory[d.Category] = append(byCategory[d.Category], i)
	}

	used := make([]bool, len(catalog))
	picked := make([]ChallengeDefinition, 0, n)
	take := func(idx int) {
		used[idx] = true
		picked = append(picked, catalog[idx])
	}

	unusedCategories := append([]models.ChallengeCategory(nil), categories...)
	for len(picked) < n && len(unusedCategories) > 0 {
		ci := rng.Intn(len(unusedCategories))
		cat := unusedCategories[ci]
		unusedCategories = append(unusedCategories[:ci], unusedCategories[ci+1:]...)

		members := byCategory[cat]
		take(members[rng.Intn(len(members))])
	}

	for len(picked) < n {
		var remaining []int
		for i := range catalog {
			if !used[i] {
				remaining = append(remaining, i)
			}
		}
		take(remaining[rng.Intn(len(remaining))])
	}
	return picked
}

// ChallengeService owns the challenges.* records of one user.
type ChallengeService struct {
	Store   Store
	Gate    FeatureGate
	Now     Clock
	Rand    Random
	Catalog []ChallengeDefinition
}

func NewChallengeService(store Store, gate FeatureGate, now Clock, rng Random) *ChallengeService {
	return &ChallengeService{
		Store:   store,
		Gate:    gate,
		Now:     now,
		Rand:    rng,
		Catalog: ChallengeCatalog,
	}
}

// DailyCount is the size of a freshly generated daily set.
func (s *ChallengeService) DailyCount() int {
	if hasFeature(s.Gate, FeatureUnlimitedChallenges) {
		return PremiumDailyChallenges
	}
	return StandardDailyChallenges
}

func completionKey(periodKey, id string) string {
	return periodKey + ":" + id
}

func (s *ChallengeService) completionLog() []string {
	log, _ := loadRecord[[]string](s.Store, KeyCompletionLog)
	return log
}

// IsCompleted reports whether id was completed in the given period.
func (s *ChallengeService) IsCompleted(periodKey, id string) bool {
	key := completionKey(periodKey, id)
	for _, k := range s.completionLog() {
		if k == key {
			return true
		}
	}
	return false
}

// TotalCompleted counts every completion ever logged, daily and weekly.
func (s *ChallengeService) TotalCompleted() int {
	return len(s.completionLog())
}

// loadOrGenerate returns the persisted set for periodKey, generating and
// persisting a new one when the stored set belongs to another period.
func (s *ChallengeService) loadOrGenerate(key, periodKey string, generate func() []models.ChallengeInstance) models.ChallengeSet {
	set, ok := loadRecord[models.ChallengeSet](s.Store, key)
	if ok && set.PeriodKey == periodKey && len(set.Challenges) > 0 {
		return set
	}

	set = models.ChallengeSet{PeriodKey: periodKey, Challenges: generate()}
	if saveRecord(s.Store, key, set) {
		ids := make([]string, 0, len(set.Challenges))
		for _, c := range set.Challenges {
			ids = append(ids, c.ID)
		}
		utils.Log().Info("🎯 [Challenges] generated set",
			zap.String("key", key),
			zap.String("period", periodKey),
			zap.String("ids", strings.Join(ids, ",")),
		)
	}
	return set
}

// withCompletion overlays the completion log onto a persisted set.
func (s *ChallengeService) withCompletion(set models.ChallengeSet) []models.ChallengeInstance {
	log := s.completionLog()
	done := make(map[string]bool, len(log))
	for _, k := range log {
		done[k] = true
	}
	out := make([]models.ChallengeInstance, len(set.Challenges))
	for i, c := range set.Challenges {
		c.Completed = done[completionKey(set.PeriodKey, c.ID)]
		out[i] = c
	}
	return out
}

func (s *ChallengeService) dailySet() models.ChallengeSet {
	today := DateKey(s.Now.now())
	return s.loadOrGenerate(KeyDailyChallenges, today, func() []models.ChallengeInstance {
		defs := SelectDiverse(s.Catalog, s.DailyCount(), s.Rand)
		out := make([]models.ChallengeInstance, 0, len(defs))
		for _, d := range defs {
			out = append(out, d.Instance(1))
		}
		return out
	})
}

func (s *ChallengeService) weeklySet() models.ChallengeSet {
	week := WeekKey(s.Now.now())
	return s.loadOrGenerate(KeyWeeklyChallenges, week, func() []models.ChallengeInstance {
		defs := WeeklyPool(s.Catalog)
		if len(defs) > WeeklyChallengeCount {
			defs = defs[:WeeklyChallengeCount]
		}
		out := make([]models.ChallengeInstance, 0, len(defs))
		for _, d := range defs {
			out = append(out, d.Instance(WeeklyRewardMultiplier))
		}
		return out
	})
}

// DailyChallenges returns today's set with completion flags.
func (s *ChallengeService) DailyChallenges() []models.ChallengeInstance {
	return s.withCompletion(s.dailySet())
}

// WeeklyChallenges returns this ISO week's set with completion flags.
func (s *ChallengeService) WeeklyChallenges() []models.ChallengeInstance {
	return s.withCompletion(s.weeklySet())
}

// complete logs id for the set's period. It returns the instance and true
// only the first time, and only for challenges in the set.
func (s *ChallengeService) complete(set models.ChallengeSet, id string) (models.ChallengeInstance, bool) {
	var inst models.ChallengeInstance
	found := false
	for _, c := range set.Challenges {
		if c.ID == id {
			inst, found = c, true
			break
		}
	}
	if !found {
		return inst, false
	}

	key := completionKey(set.PeriodKey, id)
	log := s.completionLog()
	for _, k := range log {
		if k == key {
			return inst, false
		}
	}
	if !saveRecord(s.Store, KeyCompletionLog, append(log, key)) {
		return inst, false
	}

	inst.Completed = true
	utils.Log().Info("✅ [Challenges] completed", zap.String("key", key), zap.Int("xp_reward", inst.XPReward))
	return inst, true
}

// CompleteChallenge marks today's challenge id done. Idempotent.
func (s *ChallengeService) CompleteChallenge(id string) bool {
	_, ok := s.complete(s.dailySet(), id)
	return ok
}

// CompleteDaily is CompleteChallenge returning the completed instance.
func (s *ChallengeService) CompleteDaily(id string) (models.ChallengeInstance, bool) {
	return s.complete(s.dailySet(), id)
}

// CompleteWeekly marks this week's challenge id done. Idempotent.
func (s *ChallengeService) CompleteWeekly(id string) (models.ChallengeInstance, bool) {
	return s.complete(s.weeklySet(), id)
}

func progressOf(periodKey string, list []models.ChallengeInstance) models.ChallengeProgress {
	done := 0
	for _, c := range list {
		if c.Completed {
			done++
		}
	}
	return models.ChallengeProgress{
		PeriodKey: periodKey,
		Completed: done,
		Total:     len(list),
		Percent:   percentOf(done, len(list)),
	}
}

func (s *ChallengeService) DailyProgress() models.ChallengeProgress {
	set := s.dailySet()
	return progressOf(set.PeriodKey, s.withCompletion(set))
}

func (s *ChallengeService) WeeklyProgress() models.ChallengeProgress {
	set := s.weeklySet()
	return progressOf(set.PeriodKey, s.withCompletion(set))
}

// evaluate completes every open challenge of set whose predicate holds.
// Challenges no longer in the catalog are skipped.
func (s *ChallengeService) evaluate(set models.ChallengeSet, recipe models.RecipeContext, stats models.UserStats) []models.ChallengeInstance {
	var completed []models.ChallengeInstance
	for _, c := range s.withCompletion(set) {
		if c.Completed {
			continue
		}
		def, ok := s.definition(c.ID)
		if !ok || def.Check == nil || !def.Check(recipe, stats) {
			continue
		}
		if inst, ok := s.complete(set, c.ID); ok {
			completed = append(completed, inst)
		}
	}
	return completed
}

func (s *ChallengeService) definition(id string) (ChallengeDefinition, bool) {
	for _, d := range s.Catalog {
		if d.ID == id {
			return d, true
		}
	}
	return ChallengeDefinition{}, false
}

// EvaluateDaily completes today's challenges satisfied by the action.
func (s *ChallengeService) EvaluateDaily(recipe models.RecipeContext, stats models.UserStats) []models.ChallengeInstance {
	return s.evaluate(s.dailySet(), recipe, stats)
}

// EvaluateWeekly completes this week's challenges satisfied by the action.
func (s *ChallengeService) EvaluateWeekly(recipe models.RecipeContext, stats models.UserStats) []models.ChallengeInstance {
	return s.evaluate(s.weeklySet(), recipe, stats)
}
