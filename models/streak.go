package models

// StreakRecord is the persisted streak state. LastActiveDate is a calendar
// date in 2006-01-02 form, nil when the user has never been active.
type StreakRecord struct {
	Streak          int     `json:"streak"`
	LastActiveDate  *string `json:"last_active_date"`
	LongestStreak   int     `json:"longest_streak"`
	TotalActiveDays int     `json:"total_active_days"`
	Frozen          bool    `json:"frozen"`
}

// StreakTransition names the branch taken when activity was registered.
type StreakTransition string

const (
	StreakStarted        StreakTransition = "started"
	StreakAlreadyCounted StreakTransition = "already_counted"
	StreakContinued      StreakTransition = "continued"
	StreakGrace          StreakTransition = "grace"
	StreakFreezeUsed     StreakTransition = "freeze_used"
	StreakReset          StreakTransition = "reset"
)

// StreakUpdate is the outcome of registering today's activity.
type StreakUpdate struct {
	Transition     StreakTransition `json:"transition"`
	Changed        bool             `json:"changed"`
	Streak         int              `json:"streak"`
	LongestStreak  int              `json:"longest_streak"`
	MilestoneBonus int              `json:"milestone_bonus"`
	Message        string           `json:"message,omitempty"`
}

// StreakView is the read-side projection of a streak at a given day.
type StreakView struct {
	Current         int     `json:"current"`
	Longest         int     `json:"longest"`
	TotalActiveDays int     `json:"total_active_days"`
	LastActiveDate  *string `json:"last_active_date"`
	UpdatedToday    bool    `json:"updated_today"`
	AtRisk          bool    `json:"at_risk"`
	Frozen          bool    `json:"frozen"`
}

// MonthlyUsage counts premium streak actions per calendar month (2006-01).
type MonthlyUsage map[string]int
