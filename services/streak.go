package services

import (
	"time"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"go.uber.org/zap"
)

// Premium streak actions are limited per calendar month.
const (
	MaxFreezesPerMonth    = 1
	MaxRecoveriesPerMonth = 1
)

// streakMilestoneBonuses override the weekly bonus at these lengths.
var streakMilestoneBonuses = map[int]int{
	7:   50,
	14:  100,
	30:  200,
	60:  300,
	100: 500,
	365: 1000,
}

// WeeklyStreakBonus is paid on every other multiple of 7.
const WeeklyStreakBonus = 25

// StreakMilestoneBonus returns the bonus XP earned on reaching streak.
func StreakMilestoneBonus(streak int) int {
	if bonus, ok := streakMilestoneBonuses[streak]; ok {
		return bonus
	}
	if streak > 0 && streak%7 == 0 {
		return WeeklyStreakBonus
	}
	return 0
}

var streakMessages = map[int]string{
	3:   "3-day streak! Keep it up! 🔥",
	7:   "7-day streak! You're on fire! 🔥🔥",
	14:  "2-week streak! Incredible! 🔥🔥🔥",
	30:  "30-day streak! Unstoppable! ⚡",
	60:  "60-day streak! Legendary! 👑",
	100: "100-day streak! Master level! 🏆",
}

// StreakMilestoneMessage returns the celebration text for streak, if any.
func StreakMilestoneMessage(streak int) string {
	return streakMessages[streak]
}

// streakBadges unlocks directly when a streak milestone is reached.
var streakBadges = map[int]string{
	3:   "streak_3",
	7:   "streak_7",
	14:  "streak_14",
	30:  "streak_30",
	60:  "streak_60",
	100: "streak_100",
}

// daysSinceActive is -1 when the record has no usable last active date.
func daysSinceActive(rec *models.StreakRecord, today string) int {
	if rec == nil || rec.LastActiveDate == nil {
		return -1
	}
	diff, ok := daysBetween(*rec.LastActiveDate, today)
	if !ok || diff < 0 {
		return -1
	}
	return diff
}

// ProjectStreak evaluates the stored record as of today without mutating it.
// A live streak is one that registering today's activity would continue.
func ProjectStreak(rec *models.StreakRecord, today string, canRecover bool) models.StreakView {
	if rec == nil {
		return models.StreakView{}
	}
	view := models.StreakView{
		Longest:         rec.LongestStreak,
		TotalActiveDays: rec.TotalActiveDays,
		LastActiveDate:  rec.LastActiveDate,
		Frozen:          rec.Frozen,
	}
	diff := daysSinceActive(rec, today)
	switch {
	case diff < 0:
		// never active, or the last active date is in the future
		if rec.LastActiveDate != nil && *rec.LastActiveDate > today {
			view.Current = rec.Streak
		}
	case diff == 0:
		view.Current = rec.Streak
		view.UpdatedToday = true
	case diff == 1:
		view.Current = rec.Streak
		view.AtRisk = true
	case diff == 2 && canRecover:
		view.Current = rec.Streak
	case rec.Frozen:
		view.Current = rec.Streak
	}
	return view
}

// CommitStreak applies today's activity to rec and returns the new record.
// canRecover must be resolved by the caller before the transition runs.
func CommitStreak(rec *models.StreakRecord, today string, canRecover bool) (models.StreakRecord, models.StreakUpdate) {
	if rec == nil || rec.LastActiveDate == nil {
		next := models.StreakRecord{}
		if rec != nil {
			next = *rec
		}
		next.Streak = 1
		return finishStreak(next, today, models.StreakStarted)
	}

	next := *rec
	diff, ok := daysBetween(*rec.LastActiveDate, today)
	if !ok {
		next.Streak = 1
		return finishStreak(next, today, models.StreakStarted)
	}

	switch {
	case diff <= 0:
		return next, models.StreakUpdate{
			Transition:    models.StreakAlreadyCounted,
			Streak:        next.Streak,
			LongestStreak: next.LongestStreak,
		}
	case diff == 1:
		next.Streak++
		return finishStreak(next, today, models.StreakContinued)
	case diff == 2 && canRecover:
		return finishStreak(next, today, models.StreakGrace)
	case next.Frozen:
		next.Frozen = false
		return finishStreak(next, today, models.StreakFreezeUsed)
	default:
		next.Streak = 1
		return finishStreak(next, today, models.StreakReset)
	}
}

func finishStreak(next models.StreakRecord, today string, t models.StreakTransition) (models.StreakRecord, models.StreakUpdate) {
	d := today
	next.LastActiveDate = &d
	next.TotalActiveDays++
	if next.Streak > next.LongestStreak {
		next.LongestStreak = next.Streak
	}

	upd := models.StreakUpdate{
		Transition:    t,
		Changed:       true,
		Streak:        next.Streak,
		LongestStreak: next.LongestStreak,
	}
	if t == models.StreakContinued {
		upd.MilestoneBonus = StreakMilestoneBonus(next.Streak)
		upd.Message = StreakMilestoneMessage(next.Streak)
	}
	return next, upd
}

// StreakTracker owns the streak.* records of one user.
type StreakTracker struct {
	Store Store
	Gate  FeatureGate
	Now   Clock
}

func NewStreakTracker(store Store, gate FeatureGate, now Clock) *StreakTracker {
	return &StreakTracker{Store: store, Gate: gate, Now: now}
}

func (t *StreakTracker) record() *models.StreakRecord {
	rec, ok := loadRecord[models.StreakRecord](t.Store, KeyStreakState)
	if !ok {
		return nil
	}
	return &rec
}

func (t *StreakTracker) today() string {
	return DateKey(t.Now.now())
}

// View projects the stored streak onto today.
func (t *StreakTracker) View() models.StreakView {
	return ProjectStreak(t.record(), t.today(), hasFeature(t.Gate, FeatureStreakRecovery))
}

func (t *StreakTracker) CurrentStreak() int   { return t.View().Current }
func (t *StreakTracker) LongestStreak() int   { return t.View().Longest }
func (t *StreakTracker) TotalActiveDays() int { return t.View().TotalActiveDays }
func (t *StreakTracker) IsAtRisk() bool       { return t.View().AtRisk }
func (t *StreakTracker) UpdatedToday() bool   { return t.View().UpdatedToday }

// RegisterActivityToday runs the streak transition for today and persists it.
// When the write fails nothing is reported as changed.
func (t *StreakTracker) RegisterActivityToday() models.StreakUpdate {
	canRecover := hasFeature(t.Gate, FeatureStreakRecovery)
	next, upd := CommitStreak(t.record(), t.today(), canRecover)
	if !upd.Changed {
		return upd
	}
	if !saveRecord(t.Store, KeyStreakState, next) {
		upd.Changed = false
		upd.MilestoneBonus = 0
		upd.Message = ""
		return upd
	}

	utils.Log().Info("🔥 [Streak] activity registered",
		zap.String("transition", string(upd.Transition)),
		zap.Int("streak", upd.Streak),
		zap.Int("longest", upd.LongestStreak),
	)
	return upd
}

// StreakBadgeFor returns the badge a streak length unlocks directly.
func StreakBadgeFor(streak int) (string, bool) {
	id, ok := streakBadges[streak]
	return id, ok
}

func (t *StreakTracker) usage(key string) models.MonthlyUsage {
	u, _ := loadRecord[models.MonthlyUsage](t.Store, key)
	if u == nil {
		u = models.MonthlyUsage{}
	}
	return u
}

// consume charges one use of the monthly allowance under key. The returned
// func puts the previous count back.
func (t *StreakTracker) consume(key string, now time.Time) (func(), bool) {
	usage := t.usage(key)
	month := MonthKey(now)
	prev, had := usage[month]
	usage[month] = prev + 1
	if !saveRecord(t.Store, key, usage) {
		return nil, false
	}
	return func() {
		if had {
			usage[month] = prev
		} else {
			delete(usage, month)
		}
		if !saveRecord(t.Store, key, usage) {
			utils.Log().Error("[Streak] allowance rollback failed", zap.String("key", key), zap.String("month", month))
		}
	}, true
}

// FreezeAvailable reports whether a freeze could be used this month.
func (t *StreakTracker) FreezeAvailable() bool {
	if !hasFeature(t.Gate, FeatureStreakFreeze) {
		return false
	}
	return t.usage(KeyStreakFreezeUsage)[MonthKey(t.Now.now())] < MaxFreezesPerMonth
}

// RecoveryAvailable reports whether a recovery could be used this month.
func (t *StreakTracker) RecoveryAvailable() bool {
	if !hasFeature(t.Gate, FeatureStreakRecovery) {
		return false
	}
	return t.usage(KeyStreakRecoveryUsage)[MonthKey(t.Now.now())] < MaxRecoveriesPerMonth
}

// FreezeStreak arms a freeze that absorbs the next break. Requires the
// streak_freeze feature, an existing streak and an unused monthly allowance.
func (t *StreakTracker) FreezeStreak() bool {
	if !t.FreezeAvailable() {
		return false
	}
	rec := t.record()
	if rec == nil || rec.Streak <= 0 || rec.Frozen {
		return false
	}

	rollback, ok := t.consume(KeyStreakFreezeUsage, t.Now.now())
	if !ok {
		return false
	}
	rec.Frozen = true
	if !saveRecord(t.Store, KeyStreakState, *rec) {
		rollback()
		return false
	}

	utils.Log().Info("🧊 [Streak] freeze armed", zap.Int("streak", rec.Streak))
	return true
}

// RecoverStreak restores the streak to the longest recorded streak. The day
// before today becomes the last active day unless today already counted.
func (t *StreakTracker) RecoverStreak() bool {
	if !t.RecoveryAvailable() {
		return false
	}
	rec := t.record()
	if rec == nil || rec.LongestStreak <= 0 {
		return false
	}
	if t.View().Current >= rec.LongestStreak {
		return false
	}

	now := t.Now.now()
	yesterday := DateKey(now.AddDate(0, 0, -1))
	if rec.LastActiveDate == nil || *rec.LastActiveDate < yesterday {
		rec.LastActiveDate = &yesterday
	}
	rollback, ok := t.consume(KeyStreakRecoveryUsage, now)
	if !ok {
		return false
	}
	rec.Streak = rec.LongestStreak
	rec.Frozen = false
	if !saveRecord(t.Store, KeyStreakState, *rec) {
		rollback()
		return false
	}

	utils.Log().Info("🩹 [Streak] recovered", zap.Int("streak", rec.Streak))
	return true
}
