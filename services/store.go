package services

import (
	"encoding/json"
	"sort"
	"sync"

	"recipe-gamification/utils"

	"go.uber.org/zap"
)

// Storage keys, one namespace per user.
const (
	KeyXPTotal             = "xp.total"
	KeyXPHistory           = "xp.history"
	KeyStreakState         = "streak.state"
	KeyStreakFreezeUsage   = "streak.freezeUsage"
	KeyStreakRecoveryUsage = "streak.recoveryUsage"
	KeyDailyChallenges     = "challenges.daily"
	KeyWeeklyChallenges    = "challenges.weekly"
	KeyCompletionLog       = "challenges.completionLog"
	KeyUnlockedBadges      = "badges.unlocked"
	KeyStatsCounters       = "stats.counters"
)

// AllKeys lists every key the engine writes, in a stable order.
var AllKeys = []string{
	KeyXPTotal,
	KeyXPHistory,
	KeyStreakState,
	KeyStreakFreezeUsage,
	KeyStreakRecoveryUsage,
	KeyDailyChallenges,
	KeyWeeklyChallenges,
	KeyCompletionLog,
	KeyUnlockedBadges,
	KeyStatsCounters,
}

// Store is a single user's key-value namespace. Values are JSON documents.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Backend hands out per-user stores and supports scanning one key across users.
type Backend interface {
	ForUser(userID string) Store
	ScanKey(key string, fn func(userID string, raw []byte) error) error
}

// loadRecord reads key into a fresh T. Missing, unreadable and malformed
// records all yield the zero value and false.
func loadRecord[T any](store Store, key string) (T, bool) {
	var zero T
	if store == nil {
		return zero, false
	}
	raw, ok, err := store.Get(key)
	if err != nil {
		utils.Log().Warn("[Store] read failed, using default", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !ok || len(raw) == 0 {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		utils.Log().Warn("[Store] malformed record, using default", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

// saveRecord writes v under key. Failures are logged and reported as false.
func saveRecord(store Store, key string, v any) bool {
	if store == nil {
		return false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		utils.Log().Warn("[Store] encode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := store.Set(key, raw); err != nil {
		utils.Log().Warn("[Store] write failed, ignoring", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// MemoryBackend keeps every user's records in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]map[string][]byte)}
}

// NewMemoryStore returns a standalone single-user store.
func NewMemoryStore() Store {
	return NewMemoryBackend().ForUser("local")
}

func (b *MemoryBackend) ForUser(userID string) Store {
	return &memoryStore{backend: b, userID: userID}
}

// ScanKey visits users in lexical order.
func (b *MemoryBackend) ScanKey(key string, fn func(userID string, raw []byte) error) error {
	b.mu.RLock()
	users := make([]string, 0, len(b.data))
	for userID, records := range b.data {
		if _, ok := records[key]; ok {
			users = append(users, userID)
		}
	}
	b.mu.RUnlock()
	sort.Strings(users)

	for _, userID := range users {
		raw, ok, _ := b.ForUser(userID).Get(key)
		if !ok {
			continue
		}
		if err := fn(userID, raw); err != nil {
			return err
		}
	}
	return nil
}

type memoryStore struct {
	backend *MemoryBackend
	userID  string
}

func (s *memoryStore) Get(key string) ([]byte, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	raw, ok := s.backend.data[s.userID][key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (s *memoryStore) Set(key string, value []byte) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	records, ok := s.backend.data[s.userID]
	if !ok {
		records = make(map[string][]byte)
		s.backend.data[s.userID] = records
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	records[key] = stored
	return nil
}

func (s *memoryStore) Remove(key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.data[s.userID], key)
	return nil
}
