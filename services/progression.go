package services

import (
	"math"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// XPWeights define the XP each tracked action is worth
type XPWeights struct {
	ViewXP      int `default:"5"`
	CookXP      int `default:"25"`
	RateXP      int `default:"10"`
	ChallengeXP int `default:"50"` // fallback when a challenge carries no reward
	ShareXP     int `default:"15"`
}

var DefaultXPWeights = XPWeights{
	ViewXP:      5,
	CookXP:      25,
	RateXP:      10,
	ChallengeXP: 50,
	ShareXP:     15,
}

// BaseXPPerLevel scales the quadratic curve: level n starts at (n-1)^2 * 100 XP
const BaseXPPerLevel = 100

// MaxXPHistory caps the stored history to the most recent entries
const MaxXPHistory = 100

// PremiumXPMultiplier applies to every credit when xp_multiplier is enabled
var PremiumXPMultiplier = decimal.NewFromFloat(1.5)

// CalculateLevel returns floor(sqrt(xp/100)) + 1. Negative XP counts as 0.
func CalculateLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return isqrt(xp/BaseXPPerLevel) + 1
}

// isqrt is floor(sqrt(n)) without float rounding at perfect squares.
func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// XPForLevel is the minimum total XP of a level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * BaseXPPerLevel
}

// XPForNextLevel is the total XP at which the holder of xp levels up.
func XPForNextLevel(xp int) int {
	return XPForLevel(CalculateLevel(xp) + 1)
}

// LevelMilestones are levels worth a celebration.
var LevelMilestones = []int{5, 10, 20, 30, 50}

func IsLevelMilestone(level int) bool {
	for _, m := range LevelMilestones {
		if m == level {
			return true
		}
	}
	return false
}

type levelTitle struct {
	MinLevel int
	Title    string
}

// levelTitles must stay sorted by MinLevel.
var levelTitles = []levelTitle{
	{1, "Beginner Cook"},
	{5, "Home Chef"},
	{10, "Rising Star"},
	{15, "Experienced Cook"},
	{20, "Skilled Chef"},
	{25, "Expert Chef"},
	{30, "Master Chef"},
	{40, "Culinary Artist"},
	{50, "Culinary Master"},
	{60, "Grand Master"},
	{75, "Legendary Chef"},
	{100, "Culinary God"},
}

// LevelTitle picks the highest title whose threshold the level has reached.
func LevelTitle(level int) string {
	for i := len(levelTitles) - 1; i >= 0; i-- {
		if level >= levelTitles[i].MinLevel {
			return levelTitles[i].Title
		}
	}
	return levelTitles[0].Title
}

func LevelEmoji(level int) string {
	switch {
	case level < 5:
		return "🌱"
	case level < 10:
		return "⭐"
	case level < 20:
		return "🌟"
	case level < 30:
		return "💫"
	case level < 50:
		return "👑"
	default:
		return "🏆"
	}
}

func LevelColor(level int) string {
	switch {
	case level < 5:
		return "text-slate-400"
	case level < 10:
		return "text-green-400"
	case level < 20:
		return "text-blue-400"
	case level < 30:
		return "text-purple-400"
	case level < 50:
		return "text-pink-400"
	default:
		return "text-yellow-400"
	}
}

// percentOf returns floor(part/whole*100) clamped to [0,100].
func percentOf(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	if part >= whole {
		return 100
	}
	return int(decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Floor().
		IntPart())
}

// GetLevelProgress describes progress through the level xp belongs to.
func GetLevelProgress(xp int) models.LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := CalculateLevel(xp)
	floor := XPForLevel(level)
	next := XPForLevel(level + 1)
	return models.LevelProgress{
		Level:         level,
		Title:         LevelTitle(level),
		Emoji:         LevelEmoji(level),
		Color:         LevelColor(level),
		CurrentXP:     xp,
		LevelFloorXP:  floor,
		NextLevelXP:   next,
		XPIntoLevel:   xp - floor,
		XPToNextLevel: next - xp,
		Percent:       percentOf(xp-floor, next-floor),
	}
}

// applyMultiplier returns the credited amount and the factor used.
func applyMultiplier(amount int, premium bool) (int, float64) {
	if !premium {
		return amount, 1
	}
	f, _ := PremiumXPMultiplier.Float64()
	credited := decimal.NewFromInt(int64(amount)).Mul(PremiumXPMultiplier).Floor().IntPart()
	return int(credited), f
}

// XPLedger owns the xp.total and xp.history records of one user.
type XPLedger struct {
	Store Store
	Gate  FeatureGate
	Now   Clock
}

func NewXPLedger(store Store, gate FeatureGate, now Clock) *XPLedger {
	return &XPLedger{Store: store, Gate: gate, Now: now}
}

// CurrentXP reads the total, treating missing or negative values as 0.
func (l *XPLedger) CurrentXP() int {
	rec, _ := loadRecord[models.XPTotal](l.Store, KeyXPTotal)
	if rec.TotalXP < 0 {
		return 0
	}
	return rec.TotalXP
}

func (l *XPLedger) CurrentLevel() int {
	return CalculateLevel(l.CurrentXP())
}

func (l *XPLedger) Progress() models.LevelProgress {
	return GetLevelProgress(l.CurrentXP())
}

func (l *XPLedger) history() []models.XPHistoryEntry {
	h, _ := loadRecord[[]models.XPHistoryEntry](l.Store, KeyXPHistory)
	return h
}

// History returns up to limit entries, newest first. limit <= 0 means all.
func (l *XPLedger) History(limit int) []models.XPHistoryEntry {
	h := l.history()
	out := make([]models.XPHistoryEntry, 0, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		out = append(out, h[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// TodayXP sums the credits whose timestamp falls on today's calendar date.
func (l *XPLedger) TodayXP() int {
	now := l.Now.now()
	today := DateKey(now)
	total := 0
	for _, e := range l.history() {
		if DateKey(e.Timestamp.In(now.Location())) == today {
			total += e.Amount
		}
	}
	return total
}

// AddXP credits amount (after the premium multiplier) and appends a history
// entry. Non-positive amounts and failed writes leave the ledger unchanged.
func (l *XPLedger) AddXP(amount int, reason string) models.XPResult {
	current := l.CurrentXP()
	level := CalculateLevel(current)
	unchanged := models.XPResult{
		NewXP:      current,
		OldLevel:   level,
		NewLevel:   level,
		Multiplier: 1,
	}
	if amount <= 0 {
		return unchanged
	}

	credited, factor := applyMultiplier(amount, hasFeature(l.Gate, FeatureXPMultiplier))
	newXP := current + credited
	if !saveRecord(l.Store, KeyXPTotal, models.XPTotal{TotalXP: newXP}) {
		return unchanged
	}

	newLevel := CalculateLevel(newXP)
	history := append(l.history(), models.XPHistoryEntry{
		Amount:     credited,
		Reason:     reason,
		Timestamp:  l.Now.now(),
		LevelAfter: newLevel,
	})
	if len(history) > MaxXPHistory {
		history = history[len(history)-MaxXPHistory:]
	}
	saveRecord(l.Store, KeyXPHistory, history)

	res := models.XPResult{
		NewXP:       newXP,
		OldLevel:    level,
		NewLevel:    newLevel,
		LeveledUp:   newLevel > level,
		AmountAdded: credited,
		Multiplier:  factor,
	}

	utils.Log().Info("🎮 [XP] awarded",
		zap.Int("amount", credited),
		zap.String("reason", reason),
		zap.Int("total", newXP),
		zap.Int("level", newLevel),
	)
	if res.LeveledUp {
		utils.Log().Info("🆙 [XP] level up", zap.Int("from", level), zap.Int("to", newLevel), zap.String("title", LevelTitle(newLevel)))
	}
	return res
}
