package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-stylist-be/pkg/reco"
)

const (
	DefaultMaxSessions = 20
	DefaultIdleTTL     = 30 * time.Minute
)

// Manager is the bounded session registry. The registry map has its own
// lock, separate from each session's internal mutex; sweep reads
// LastAccessed through the session lock, never the registry one.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	categories []string
	capacity   int
	idleTTL    time.Duration
	logger     *log.Logger
}

func NewManager(categories []string, capacity int, idleTTL time.Duration, logger *log.Logger) *Manager {
	if capacity <= 0 {
		capacity = DefaultMaxSessions
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Manager{
		sessions:   make(map[string]*Session),
		categories: categories,
		capacity:   capacity,
		idleTTL:    idleTTL,
		logger:     logger,
	}
}

// Create registers a fresh session. At capacity it sweeps idle sessions
// first and only then rejects.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.capacity {
		evicted := m.sweepLocked()
		if evicted > 0 {
			m.logger.Printf("[INFO] evicted %d idle sessions to make room", evicted)
		}
	}
	if len(m.sessions) >= m.capacity {
		return nil, fmt.Errorf("session limit %d reached: %w", m.capacity, reco.ErrCapacityExceeded)
	}

	s := newSession(uuid.NewString(), m.categories)
	m.sessions[s.ID] = s
	return s, nil
}

// Get looks a session up and refreshes its idle clock.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, reco.ErrSessionNotFound)
	}

	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	return s, nil
}

// Delete removes a session and frees its caches explicitly.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %q: %w", id, reco.ErrSessionNotFound)
	}
	s.release()
	return nil
}

// Sweep evicts every session idle past the TTL and returns how many went.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked()
}

func (m *Manager) sweepLocked() int {
	cutoff := time.Now().Add(-m.idleTTL)
	var stale []*Session
	for _, s := range m.sessions {
		if s.LastAccessed().Before(cutoff) {
			stale = append(stale, s)
		}
	}
	for _, s := range stale {
		delete(m.sessions, s.ID)
		s.release()
	}
	return len(stale)
}

// Len reports the live session count.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List snapshots every live session for the admin surface.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, len(live))
	for i, s := range live {
		out[i] = s.Snapshot()
	}
	return out
}

// StartSweeper runs periodic idle eviction until stop is closed.
func (m *Manager) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					m.logger.Printf("[INFO] idle sweep evicted %d sessions", n)
				}
			case <-stop:
				return
			}
		}
	}()
}
