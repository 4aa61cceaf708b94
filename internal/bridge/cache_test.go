package bridge

import (
	"sync"
	"testing"
)

// TestRecordCache verifies the presence-cache semantics.
func TestRecordCache(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	t.Run("unknown key is not cached", func(t *testing.T) {
		if db.IsCached("tasks#1") {
			t.Error("IsCached() = true for unknown key")
		}
	})

	t.Run("mark then check", func(t *testing.T) {
		db.MarkAsCached("tasks#1")
		if !db.IsCached("tasks#1") {
			t.Error("IsCached() = false after MarkAsCached()")
		}
	})

	t.Run("remove then check", func(t *testing.T) {
		db.MarkAsCached("tasks#2")
		db.RemoveFromCache("tasks#2")
		if db.IsCached("tasks#2") {
			t.Error("IsCached() = true after RemoveFromCache()")
		}
	})

	t.Run("remove unknown key is a no-op", func(t *testing.T) {
		db.RemoveFromCache("never-added")
	})

	t.Run("keys are independent", func(t *testing.T) {
		db.MarkAsCached("projects#1")
		db.RemoveFromCache("projects#2")
		if !db.IsCached("projects#1") {
			t.Error("removing one key affected another")
		}
	})
}

// TestRecordCacheConcurrent exercises the cache from multiple goroutines;
// run with -race to catch unguarded access.
func TestRecordCacheConcurrent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				db.MarkAsCached("k")
				db.IsCached("k")
				db.RemoveFromCache("k")
			}
		}()
	}
	wg.Wait()
}
