// Package session owns the guided recommendation walk: one Session per
// shopper, progressed through the fixed category sequence by the Engine and
// held in a bounded Manager.
package session

import (
	"sync"
	"time"

	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/reco"
	"ai-stylist-be/pkg/reco/cache"
	"ai-stylist-be/pkg/reco/constraint"
)

// Status is the session state machine position.
type Status string

const (
	StatusAwaitingPersona   Status = "AWAITING_PERSONA"
	StatusAwaitingTPO       Status = "AWAITING_TPO"
	StatusAwaitingNegatives Status = "AWAITING_NEGATIVES"
	StatusRecommending      Status = "RECOMMENDING"
	StatusComplete          Status = "COMPLETE"
)

// Session is the per-shopper state. All mutation goes through the Engine,
// which serializes on mu; nothing here is shared across sessions.
type Session struct {
	ID string

	mu sync.Mutex

	status     Status
	persona    catalog.Persona
	rawTPO     string
	refinedTPO string
	keywords   []string
	conflict   bool
	negatives  constraint.NegativeFilter

	categories    []string
	categoryIndex int
	constraints   map[string]*constraint.HardConstraints
	caches        *cache.Store
	selected      []reco.SelectedItem

	createdAt    time.Time
	lastAccessed time.Time
}

func newSession(id string, categories []string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		status:       StatusAwaitingPersona,
		negatives:    constraint.DefaultNegativeFilter(),
		categories:   categories,
		constraints:  make(map[string]*constraint.HardConstraints),
		caches:       cache.NewStore(),
		createdAt:    now,
		lastAccessed: now,
	}
}

// touch refreshes the idle-sweep clock. Callers hold mu.
func (s *Session) touch() {
	s.lastAccessed = time.Now()
}

// LastAccessed is read by the manager's sweep without the manager lock.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// currentCategory is only meaningful before COMPLETE. Callers hold mu.
func (s *Session) currentCategory() string {
	return s.categories[s.categoryIndex]
}

// constraintsFor lazily creates the per-category constraint store. Callers
// hold mu.
func (s *Session) constraintsFor(category string) *constraint.HardConstraints {
	hc, ok := s.constraints[category]
	if !ok {
		hc = constraint.New()
		s.constraints[category] = hc
	}
	return hc
}

// release frees the candidate caches. Called on deletion and reset.
func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caches.Release()
}

// Snapshot is a read-only view of the session for status endpoints and the
// admin listing.
type Snapshot struct {
	ID            string    `json:"id"`
	Status        Status    `json:"status"`
	Persona       string    `json:"persona"`
	Gender        string    `json:"gender"`
	TPO           string    `json:"tpo"`
	RefinedTPO    string    `json:"refined_tpo"`
	Keywords      []string  `json:"keywords"`
	Conflict      bool      `json:"conflict"`
	Category      string    `json:"category"`
	CategoryIndex int       `json:"category_index"`
	Categories    int       `json:"categories"`
	SelectedCount int       `json:"selected_count"`
	CreatedAt     time.Time `json:"created_at"`
	LastAccessed  time.Time `json:"last_accessed"`
}

// Snapshot copies the observable state under the session lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.ID,
		Status:        s.status,
		Persona:       s.persona.ID,
		Gender:        s.persona.Gender,
		TPO:           s.rawTPO,
		RefinedTPO:    s.refinedTPO,
		Keywords:      append([]string(nil), s.keywords...),
		Conflict:      s.conflict,
		CategoryIndex: s.categoryIndex,
		Categories:    len(s.categories),
		SelectedCount: len(s.selected),
		CreatedAt:     s.createdAt,
		LastAccessed:  s.lastAccessed,
	}
	if s.status != StatusComplete && s.status != StatusAwaitingPersona {
		snap.Category = s.currentCategory()
	}
	return snap
}
