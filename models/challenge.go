package models

// ChallengeCategory groups challenges for diversity-aware selection.
type ChallengeCategory string

const (
	CategorySpeed   ChallengeCategory = "speed"
	CategoryCuisine ChallengeCategory = "cuisine"
	CategoryDietary ChallengeCategory = "dietary"
	CategoryHealth  ChallengeCategory = "health"
	CategorySkill   ChallengeCategory = "skill"
	CategoryBudget  ChallengeCategory = "budget"
	CategoryFamily  ChallengeCategory = "family"
	CategoryMeal    ChallengeCategory = "meal"
	CategorySocial  ChallengeCategory = "social"
	CategoryStreak  ChallengeCategory = "streak"
	CategorySpecial ChallengeCategory = "special"
)

// ChallengeInstance is a challenge as presented to one user for one period.
// Completed is never persisted as true; it is recomputed from the completion log.
type ChallengeInstance struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Emoji       string            `json:"emoji"`
	Category    ChallengeCategory `json:"category"`
	XPReward    int               `json:"xp_reward"`
	Completed   bool              `json:"completed"`
}

// ChallengeSet is the persisted daily or weekly selection.
type ChallengeSet struct {
	PeriodKey  string              `json:"period_key"` // 2006-01-02 for daily, 2006-W01 for weekly
	Challenges []ChallengeInstance `json:"challenges"`
}

// ChallengeProgress summarises completion of a set.
type ChallengeProgress struct {
	PeriodKey string `json:"period_key"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}
