package services

import (
	"errors"
	"testing"
	"time"

	"recipe-gamification/models"
)

func TestPlanFeatureGate(t *testing.T) {
	for _, plan := range []string{models.PlanSupporter, models.PlanUnlimited, models.PlanFamily} {
		g := PlanFeatureGate{Plan: plan}
		for _, f := range []string{FeatureXPMultiplier, FeatureStreakFreeze, FeatureStreakRecovery, FeatureUnlimitedChallenges} {
			if !g.HasFeature(f) {
				t.Fatalf("plan %s should have %s", plan, f)
			}
		}
	}
	for _, plan := range []string{models.PlanFree, "", "enterprise"} {
		if (PlanFeatureGate{Plan: plan}).HasFeature(FeatureXPMultiplier) {
			t.Fatalf("plan %q should have no features", plan)
		}
	}
	if hasFeature(nil, FeatureStreakFreeze) {
		t.Fatal("nil gate should deny")
	}
}

func TestEffectivePlan(t *testing.T) {
	now := at("2026-03-10")
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		mirror models.PlanMirror
		want   string
	}{
		{models.PlanMirror{Plan: models.PlanUnlimited, Status: "active"}, models.PlanUnlimited},
		{models.PlanMirror{Plan: models.PlanFamily, Status: "trialing", ExpiresAt: &future}, models.PlanFamily},
		{models.PlanMirror{Plan: models.PlanFamily, Status: "active", ExpiresAt: &past}, models.PlanFree},
		{models.PlanMirror{Plan: models.PlanSupporter, Status: "canceled"}, models.PlanFree},
		{models.PlanMirror{Status: "active"}, models.PlanFree},
	}
	for _, tc := range cases {
		if got := tc.mirror.EffectivePlan(now); got != tc.want {
			t.Errorf("EffectivePlan(%+v) = %s, want %s", tc.mirror, got, tc.want)
		}
	}
}

func TestPlanResolverCaches(t *testing.T) {
	clock := newTestClock("2026-03-10")
	calls := 0
	r := &PlanResolver{
		Now: clock.clock(),
		Lookup: func(userID string) (models.PlanMirror, bool, error) {
			calls++
			return models.PlanMirror{UserID: userID, Plan: models.PlanUnlimited, Status: "active"}, true, nil
		},
	}

	if r.PlanFor("u1") != models.PlanUnlimited || r.PlanFor("u1") != models.PlanUnlimited {
		t.Fatal("unexpected plan")
	}
	if calls != 1 {
		t.Fatalf("lookups = %d, want 1", calls)
	}

	clock.t = clock.t.Add(PlanCacheTTL)
	r.PlanFor("u1")
	if calls != 2 {
		t.Fatalf("expired entry should be refetched, lookups = %d", calls)
	}

	r.Invalidate("u1")
	r.PlanFor("u1")
	if calls != 3 {
		t.Fatalf("invalidated entry should be refetched, lookups = %d", calls)
	}

	if !r.GateFor("u1").HasFeature(FeatureStreakFreeze) {
		t.Fatal("unlimited plan should unlock streak freeze")
	}
}

func TestPlanResolverFallsBackToFree(t *testing.T) {
	r := &PlanResolver{
		Now: newTestClock("2026-03-10").clock(),
		Lookup: func(string) (models.PlanMirror, bool, error) {
			return models.PlanMirror{}, false, errors.New("db down")
		},
	}
	if got := r.PlanFor("u1"); got != models.PlanFree {
		t.Fatalf("PlanFor = %s, want free", got)
	}

	var nilResolver *PlanResolver
	if nilResolver.PlanFor("u1") != models.PlanFree {
		t.Fatal("nil resolver should report free")
	}
	nilResolver.Invalidate("u1")
}
