package services

import (
	"math/rand"
	"time"
)

// EngineFactory builds a per-request ActivityService scoped to one user.
type EngineFactory struct {
	Backend Backend
	Plans   *PlanResolver // nil means every user is on the free plan
	Now     Clock
	NewRand func() Random
}

func NewEngineFactory(backend Backend, plans *PlanResolver, now Clock) *EngineFactory {
	return &EngineFactory{
		Backend: backend,
		Plans:   plans,
		Now:     now,
		NewRand: func() Random { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

func (f *EngineFactory) GateFor(userID string) FeatureGate {
	if f.Plans == nil {
		return PlanFeatureGate{}
	}
	return f.Plans.GateFor(userID)
}

func (f *EngineFactory) ForUser(userID string) *ActivityService {
	var rng Random
	if f.NewRand != nil {
		rng = f.NewRand()
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return NewActivityService(f.Backend.ForUser(userID), f.GateFor(userID), f.Now, rng)
}
