package services

import (
	"errors"
	"time"
)

// testClock is a settable clock.
type testClock struct{ t time.Time }

func newTestClock(date string) *testClock {
	return &testClock{t: at(date)}
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) set(date string) { c.t = at(date) }

func (c *testClock) clock() Clock { return c.Now }

// at parses a 2006-01-02 date at noon UTC.
func at(date string) time.Time {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		panic(err)
	}
	return t.Add(12 * time.Hour)
}

// zeroRand always picks the first candidate.
type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

var errStoreDown = errors.New("store down")

// failingStore wraps a store and fails reads or writes on demand.
// failKeys fails writes to the named keys only.
type failingStore struct {
	Store
	failGet  bool
	failSet  bool
	failKeys map[string]bool
}

func (s *failingStore) Get(key string) ([]byte, bool, error) {
	if s.failGet {
		return nil, false, errStoreDown
	}
	return s.Store.Get(key)
}

func (s *failingStore) Set(key string, value []byte) error {
	if s.failSet || s.failKeys[key] {
		return errStoreDown
	}
	return s.Store.Set(key, value)
}

func strPtr(s string) *string { return &s }
