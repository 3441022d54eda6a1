package session

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/reco"
)

func testManager(capacity int, idleTTL time.Duration) *Manager {
	return NewManager(catalog.CategoryOrder, capacity, idleTTL, log.New(io.Discard, "", 0))
}

func backdate(s *Session, d time.Duration) {
	s.mu.Lock()
	s.lastAccessed = time.Now().Add(-d)
	s.mu.Unlock()
}

func TestCreateRejectsAtCapacity(t *testing.T) {
	m := testManager(2, time.Hour)

	if _, err := m.Create(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(); !errors.Is(err, reco.ErrCapacityExceeded) {
		t.Fatalf("third create err = %v, want ErrCapacityExceeded", err)
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
}

func TestCreateSweepsBeforeRejecting(t *testing.T) {
	m := testManager(1, time.Hour)

	stale, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	backdate(stale, 2*time.Hour)

	fresh, err := m.Create()
	if err != nil {
		t.Fatalf("create must evict the idle session first: %v", err)
	}
	if fresh.ID == stale.ID {
		t.Fatal("expected a new session, got the stale one back")
	}
	if _, err := m.Get(stale.ID); !errors.Is(err, reco.ErrSessionNotFound) {
		t.Fatalf("stale session still resolvable: %v", err)
	}
}

func TestSweepEvictsOnlyIdleSessions(t *testing.T) {
	m := testManager(10, time.Hour)

	idle, _ := m.Create()
	active, _ := m.Create()
	backdate(idle, 2*time.Hour)

	if n := m.Sweep(); n != 1 {
		t.Fatalf("sweep evicted %d, want 1", n)
	}
	if _, err := m.Get(active.ID); err != nil {
		t.Fatalf("active session evicted: %v", err)
	}
	if _, err := m.Get(idle.ID); !errors.Is(err, reco.ErrSessionNotFound) {
		t.Fatalf("idle session survived: %v", err)
	}
}

func TestGetRefreshesIdleClock(t *testing.T) {
	m := testManager(10, time.Hour)

	s, _ := m.Create()
	backdate(s, 2*time.Hour)

	if _, err := m.Get(s.ID); err != nil {
		t.Fatal(err)
	}
	if n := m.Sweep(); n != 0 {
		t.Fatalf("sweep evicted %d after a fresh access, want 0", n)
	}
}

func TestGetUnknown(t *testing.T) {
	m := testManager(10, time.Hour)
	if _, err := m.Get("missing"); !errors.Is(err, reco.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	m := testManager(10, time.Hour)

	s, _ := m.Create()
	if err := m.Delete(s.ID); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Fatalf("len = %d after delete, want 0", m.Len())
	}
	if err := m.Delete(s.ID); !errors.Is(err, reco.ErrSessionNotFound) {
		t.Fatalf("second delete err = %v, want ErrSessionNotFound", err)
	}
}

func TestListSnapshots(t *testing.T) {
	m := testManager(10, time.Hour)

	a, _ := m.Create()
	b, _ := m.Create()

	snaps := m.List()
	if len(snaps) != 2 {
		t.Fatalf("listed %d sessions, want 2", len(snaps))
	}
	seen := map[string]bool{}
	for _, snap := range snaps {
		seen[snap.ID] = true
		if snap.Status != StatusAwaitingPersona {
			t.Fatalf("fresh session status = %s", snap.Status)
		}
	}
	if !seen[a.ID] || !seen[b.ID] {
		t.Fatalf("listing missing ids: %v", seen)
	}
}
