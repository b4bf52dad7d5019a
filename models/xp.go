package models

import "time"

// XPHistoryEntry is one credit in the XP ledger.
type XPHistoryEntry struct {
	Amount     int       `json:"amount"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
	LevelAfter int       `json:"level_after"`
}

// XPTotal is the stored shape of the xp.total record.
type XPTotal struct {
	TotalXP int `json:"totalXP"`
}

// XPResult is returned by every XP credit.
type XPResult struct {
	NewXP       int     `json:"new_xp"`
	OldLevel    int     `json:"old_level"`
	NewLevel    int     `json:"new_level"`
	LeveledUp   bool    `json:"leveled_up"`
	AmountAdded int     `json:"amount_added"`
	Multiplier  float64 `json:"multiplier"`
}

// LevelProgress describes how far a user is through the current level.
type LevelProgress struct {
	Level         int    `json:"level"`
	Title         string `json:"title"`
	Emoji         string `json:"emoji"`
	Color         string `json:"color"`
	CurrentXP     int    `json:"current_xp"`
	LevelFloorXP  int    `json:"level_floor_xp"`
	NextLevelXP   int    `json:"next_level_xp"`
	XPIntoLevel   int    `json:"xp_into_level"`
	XPToNextLevel int    `json:"xp_to_next_level"`
	Percent       int    `json:"percent"`
}
