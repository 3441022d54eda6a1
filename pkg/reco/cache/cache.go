// Package cache keeps the per-category recommendation history a session
// needs for recovery and selection. Two layers per category: "current" is
// what the last retrieval round produced, "previous" accumulates every
// candidate ever shown, keeping each id's first-seen snapshot.
package cache

import "ai-stylist-be/pkg/reco"

type layer struct {
	byID  map[string]reco.FusedCandidate
	order []string
}

func newLayer() *layer {
	return &layer{byID: make(map[string]reco.FusedCandidate)}
}

// put keeps the first-seen snapshot for an id already present.
func (l *layer) put(c reco.FusedCandidate) {
	if _, ok := l.byID[c.ProductID]; ok {
		return
	}
	l.byID[c.ProductID] = c
	l.order = append(l.order, c.ProductID)
}

func (l *layer) list() []reco.FusedCandidate {
	out := make([]reco.FusedCandidate, len(l.order))
	for i, id := range l.order {
		out[i] = l.byID[id]
	}
	return out
}

// Store holds both layers for every category of one session. It is not
// safe for concurrent use; the owning session serializes access.
type Store struct {
	current  map[string]*layer
	previous map[string]*layer
}

func NewStore() *Store {
	return &Store{
		current:  make(map[string]*layer),
		previous: make(map[string]*layer),
	}
}

// Commit records a successful retrieval round: the outgoing current layer is
// folded into previous (first-seen snapshots win), the new results are added
// to previous too, and current is replaced wholesale with the new results.
func (s *Store) Commit(category string, results []reco.FusedCandidate) {
	prev := s.previous[category]
	if prev == nil {
		prev = newLayer()
		s.previous[category] = prev
	}
	if cur := s.current[category]; cur != nil {
		for _, id := range cur.order {
			prev.put(cur.byID[id])
		}
	}

	cur := newLayer()
	for _, c := range results {
		prev.put(c)
		cur.put(c)
	}
	s.current[category] = cur
}

// Recover returns the accumulated previous layer for a category, used when a
// narrowed query comes back empty. The second return reports whether there
// is anything to recover.
func (s *Store) Recover(category string) ([]reco.FusedCandidate, bool) {
	prev := s.previous[category]
	if prev == nil || len(prev.order) == 0 {
		return nil, false
	}
	return prev.list(), true
}

// Resolve finds a product id in either layer of the category; users may pick
// an item shown in an earlier round.
func (s *Store) Resolve(category, productID string) (reco.FusedCandidate, bool) {
	if cur := s.current[category]; cur != nil {
		if c, ok := cur.byID[productID]; ok {
			return c, true
		}
	}
	if prev := s.previous[category]; prev != nil {
		if c, ok := prev.byID[productID]; ok {
			return c, true
		}
	}
	return reco.FusedCandidate{}, false
}

// Current returns the latest committed round for a category.
func (s *Store) Current(category string) []reco.FusedCandidate {
	cur := s.current[category]
	if cur == nil {
		return nil
	}
	return cur.list()
}

// Release drops every layer. Called on session deletion so the candidate
// snapshots are freed deterministically.
func (s *Store) Release() {
	s.current = make(map[string]*layer)
	s.previous = make(map[string]*layer)
}
