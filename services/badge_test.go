package services

import (
	"reflect"
	"testing"

	"recipe-gamification/models"
)

func badgeIDs(list []models.BadgeInfo) []string {
	var out []string
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

func TestCheckBadgesUnlocksInCatalogOrder(t *testing.T) {
	store := NewMemoryStore()
	saveRecord(store, KeyUnlockedBadges, []string{"first_recipe"})
	svc := NewBadgeService(store)

	stats := models.UserStats{RecipesCooked: 10, CurrentStreak: 3, Level: 1}
	got := svc.CheckBadges(stats)
	if want := []string{"recipes_10", "streak_3"}; !reflect.DeepEqual(badgeIDs(got), want) {
		t.Fatalf("CheckBadges = %v, want %v", badgeIDs(got), want)
	}
	for _, b := range got {
		if !b.Unlocked || b.Color == "" {
			t.Fatalf("badge info incomplete: %+v", b)
		}
	}
	if want := []string{"first_recipe", "recipes_10", "streak_3"}; !reflect.DeepEqual(svc.Unlocked(), want) {
		t.Fatalf("Unlocked = %v, want %v", svc.Unlocked(), want)
	}

	if again := svc.CheckBadges(stats); len(again) != 0 {
		t.Fatalf("second check unlocked %v", badgeIDs(again))
	}
}

func TestCheckBadgesWriteFailure(t *testing.T) {
	mem := NewMemoryStore()
	svc := NewBadgeService(&failingStore{Store: mem, failSet: true})
	if got := svc.CheckBadges(models.UserStats{RecipesCooked: 1}); got != nil {
		t.Fatalf("failed write must report nothing, got %v", badgeIDs(got))
	}
	if NewBadgeService(mem).IsUnlocked("first_recipe") {
		t.Fatal("nothing should be stored")
	}
}

func TestUnlockBadge(t *testing.T) {
	svc := NewBadgeService(NewMemoryStore())
	if svc.UnlockBadge("not_a_badge") {
		t.Fatal("unknown badges cannot be unlocked")
	}
	if !svc.UnlockBadge("streak_7") {
		t.Fatal("expected unlock")
	}
	if svc.UnlockBadge("streak_7") {
		t.Fatal("second unlock should be a no-op")
	}
	if !svc.IsUnlocked("streak_7") {
		t.Fatal("streak_7 should be unlocked")
	}
}

func TestAllBadges(t *testing.T) {
	svc := NewBadgeService(NewMemoryStore())
	svc.UnlockBadge("level_10")

	all := svc.AllBadges()
	if len(all) != len(BadgeCatalog) || len(all) != 20 {
		t.Fatalf("AllBadges returned %d entries", len(all))
	}
	for _, b := range all {
		if b.Unlocked != (b.ID == "level_10") {
			t.Fatalf("unlocked flag wrong for %s", b.ID)
		}
	}
}

func TestBadgeCatalogShape(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range BadgeCatalog {
		if seen[b.ID] {
			t.Fatalf("duplicate badge %s", b.ID)
		}
		seen[b.ID] = true
		if b.Check == nil {
			t.Fatalf("badge %s has no rule", b.ID)
		}
	}
	for _, id := range streakBadges {
		if !seen[id] {
			t.Fatalf("streak badge %s missing from catalog", id)
		}
	}
	if got := len(BadgesByRarity(models.RarityLegendary)); got != 4 {
		t.Fatalf("legendary badges = %d, want 4", got)
	}
	if RarityColor("mythic") != "text-slate-400" {
		t.Fatal("unknown rarity should use the common color")
	}
}
