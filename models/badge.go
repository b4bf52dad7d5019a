package models

// Rarity of a badge: common, rare, epic, legendary
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// BadgeInfo is the public view of a catalog badge.
type BadgeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Rarity      Rarity `json:"rarity"`
	Color       string `json:"color"`
	Unlocked    bool   `json:"unlocked"`
}
