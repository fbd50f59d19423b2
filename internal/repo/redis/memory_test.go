package redis

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_Guard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore(time.Minute)
	m.now = func() time.Time { return now }

	if ok, _ := m.Acquire(ctx, "q-1"); !ok {
		t.Fatal("first acquire should succeed")
	}
	if ok, _ := m.Acquire(ctx, "q-1"); ok {
		t.Fatal("second acquire should fail while held")
	}
	if ok, _ := m.Acquire(ctx, "q-2"); !ok {
		t.Fatal("other quotes are independent")
	}

	_ = m.Release(ctx, "q-1")
	if ok, _ := m.Acquire(ctx, "q-1"); !ok {
		t.Fatal("acquire after release should succeed")
	}

	now = now.Add(time.Minute)
	if ok, _ := m.Acquire(ctx, "q-2"); !ok {
		t.Fatal("guard should lapse after its ttl")
	}
}

func TestMemoryStore_ConcurrentAcquire(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := m.Acquire(context.Background(), "q"); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("wins = %d, want 1", wins)
	}
}

func TestMemoryStore_Cache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore(time.Minute)
	m.now = func() time.Time { return now }

	if v, err := m.Get(ctx, "missing"); err != nil || v != "" {
		t.Errorf("missing key: %q %v", v, err)
	}
	_ = m.Set(ctx, "k", "v", time.Hour)
	if v, _ := m.Get(ctx, "k"); v != "v" {
		t.Errorf("Get = %q", v)
	}
	now = now.Add(2 * time.Hour)
	if v, _ := m.Get(ctx, "k"); v != "" {
		t.Errorf("expired Get = %q", v)
	}
}
