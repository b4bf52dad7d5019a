package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"

	"recipe-gamification/models"
	"recipe-gamification/utils"
)

type memoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut map[string]bool
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: map[string][]byte{}, failPut: map[string]bool{}}
}

func (b *memoryBlobs) Put(_ context.Context, key string, body []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut[key] {
		return errors.New("upload refused")
	}
	b.objects[key] = append([]byte(nil), body...)
	return nil
}

func (b *memoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.objects[key]
	if !ok {
		return nil, utils.ErrObjectNotFound
	}
	return body, nil
}

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock("2026-03-10")
	backend := NewMemoryBackend()
	blobs := newMemoryBlobs()
	svc := NewSnapshotService(backend, blobs, clock.clock())

	engine := NewActivityService(backend.ForUser("u1"), nil, clock.clock(), zeroRand{})
	engine.TrackRecipeCook(models.RecipeContext{ID: "r1", Cuisine: "Thai", ReadyInMinutes: 20})
	before := engine.Summary()

	snap, err := svc.Backup(ctx, "u1")
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if _, ok := blobs.objects["gamification-snapshots/u1/latest.json"]; !ok {
		t.Fatal("snapshot not uploaded under the expected key")
	}
	if _, ok := snap.Records[KeyXPTotal]; !ok {
		t.Fatalf("snapshot missing %s: %v", KeyXPTotal, snap.Records)
	}

	engine.XP.AddXP(500, "after backup")
	_ = backend.ForUser("u1").Set(KeyXPHistory, []byte("garbage"))

	restored, err := svc.Restore(ctx, "u1")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.ID != snap.ID {
		t.Fatalf("restored %s, want %s", restored.ID, snap.ID)
	}
	after := engine.Summary()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("summary after restore = %+v, want %+v", after, before)
	}
}

func TestImportRemovesMissingKeys(t *testing.T) {
	backend := NewMemoryBackend()
	store := backend.ForUser("u1")
	_ = store.Set(KeyXPTotal, []byte(`{"totalXP":10}`))
	_ = store.Set(KeyUnlockedBadges, []byte(`["first_recipe"]`))

	svc := NewSnapshotService(backend, newMemoryBlobs(), nil)
	err := svc.Import("u1", Snapshot{UserID: "u1", Records: map[string]json.RawMessage{
		KeyXPTotal: json.RawMessage(`{"totalXP":42}`),
		"unknown":  json.RawMessage("1"),
	}})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if raw, _, _ := store.Get(KeyXPTotal); string(raw) != `{"totalXP":42}` {
		t.Fatalf("xp.total = %s", raw)
	}
	if _, ok, _ := store.Get(KeyUnlockedBadges); ok {
		t.Fatal("keys missing from the snapshot should be removed")
	}
	if _, ok, _ := store.Get("unknown"); ok {
		t.Fatal("unknown keys should be ignored")
	}
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	svc := NewSnapshotService(NewMemoryBackend(), newMemoryBlobs(), nil)
	if _, err := svc.Restore(context.Background(), "nobody"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("Restore err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestRestoreRejectsForeignSnapshot(t *testing.T) {
	blobs := newMemoryBlobs()
	body, _ := json.Marshal(Snapshot{ID: "s1", UserID: "someone-else"})
	blobs.objects[snapshotObjectKey("u1")] = body

	svc := NewSnapshotService(NewMemoryBackend(), blobs, nil)
	if _, err := svc.Restore(context.Background(), "u1"); err == nil {
		t.Fatal("expected an error for a snapshot of another user")
	}
}

func TestBackupActiveUsers(t *testing.T) {
	clock := newTestClock("2026-03-10")
	backend := NewMemoryBackend()
	saveRecord(backend.ForUser("today"), KeyStreakState, models.StreakRecord{Streak: 1, LastActiveDate: strPtr("2026-03-10")})
	saveRecord(backend.ForUser("yesterday"), KeyStreakState, models.StreakRecord{Streak: 1, LastActiveDate: strPtr("2026-03-09")})
	saveRecord(backend.ForUser("stale"), KeyStreakState, models.StreakRecord{Streak: 1, LastActiveDate: strPtr("2026-02-01")})
	saveRecord(backend.ForUser("broken"), KeyStreakState, models.StreakRecord{Streak: 1, LastActiveDate: strPtr("2026-03-10")})

	blobs := newMemoryBlobs()
	blobs.failPut[snapshotObjectKey("broken")] = true

	svc := NewSnapshotService(backend, blobs, clock.clock())
	ok, failed, err := svc.BackupActiveUsers(context.Background())
	if err != nil {
		t.Fatalf("BackupActiveUsers: %v", err)
	}
	if ok != 2 || failed != 1 {
		t.Fatalf("ok=%d failed=%d, want 2/1", ok, failed)
	}
	if _, found := blobs.objects[snapshotObjectKey("stale")]; found {
		t.Fatal("inactive users should not be backed up")
	}
}
