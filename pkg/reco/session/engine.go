package session

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-stylist-be/pkg/advisor"
	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/reco"
	"ai-stylist-be/pkg/reco/constraint"
	"ai-stylist-be/pkg/reco/fusion"
	"ai-stylist-be/pkg/reco/retrieval"
	"ai-stylist-be/pkg/vecindex"
)

const (
	// FusedTopK is how many candidates fusion keeps per round.
	FusedTopK = 5
	// ServedTopK is how many the harmony reranker lets through to the user.
	ServedTopK = 3
)

// Engine drives a Session through the state machine. It holds no per-session
// state itself; the shared retriever, advisor and catalog are read-only.
type Engine struct {
	retriever *retrieval.Retriever
	advisor   advisor.Advisor
	logger    *log.Logger
}

func NewEngine(retriever *retrieval.Retriever, adv advisor.Advisor, logger *log.Logger) *Engine {
	return &Engine{retriever: retriever, advisor: adv, logger: logger}
}

// SetPersona records the persona and unlocks situation input.
func (e *Engine) SetPersona(s *Session, personaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status != StatusAwaitingPersona {
		return fmt.Errorf("persona already set: %w", reco.ErrPreconditionFailed)
	}
	persona, ok := catalog.LookupPersona(personaID)
	if !ok {
		return fmt.Errorf("persona %q: %w", personaID, reco.ErrInvalidPersona)
	}

	s.persona = persona
	s.status = StatusAwaitingTPO
	return nil
}

// SetTPO parses the free situation text into keywords, judges the
// style/situation conflict and unlocks the negative-filter step.
func (e *Engine) SetTPO(ctx context.Context, s *Session, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status != StatusAwaitingTPO {
		if s.status == StatusAwaitingPersona {
			return fmt.Errorf("persona must be set first: %w", reco.ErrPreconditionFailed)
		}
		return fmt.Errorf("situation already set: %w", reco.ErrPreconditionFailed)
	}

	keywords, err := e.advisor.ParseSituation(ctx, text)
	if err != nil {
		return err
	}
	refined, err := e.advisor.RefineSituation(ctx, text)
	if err != nil {
		return err
	}
	conflict, err := e.advisor.JudgeConflict(ctx, s.persona, keywords)
	if err != nil {
		return err
	}

	s.rawTPO = text
	s.refinedTPO = refined
	s.keywords = keywords
	s.conflict = conflict
	s.status = StatusAwaitingNegatives
	return nil
}

// SetNegatives replaces the negative filter wholesale. Valid any time after
// the persona is set; the defaults already in place mean skipping this step
// is also fine.
func (e *Engine) SetNegatives(s *Session, filter constraint.NegativeFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status == StatusAwaitingPersona {
		return fmt.Errorf("persona must be set first: %w", reco.ErrPreconditionFailed)
	}
	s.negatives = filter
	if s.status == StatusAwaitingNegatives {
		s.status = StatusRecommending
	}
	return nil
}

// NextRecommendation retrieves, fuses, reranks and caches one round for the
// active category. An empty round falls back to the accumulated previous
// candidates (recovery); empty with nothing to recover is a valid result,
// not an error.
func (e *Engine) NextRecommendation(ctx context.Context, s *Session) (*reco.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.status {
	case StatusAwaitingPersona, StatusAwaitingTPO:
		return nil, fmt.Errorf("persona and situation must be set first: %w", reco.ErrPreconditionFailed)
	case StatusComplete:
		return nil, fmt.Errorf("session already complete: %w", reco.ErrNoActiveCategory)
	case StatusAwaitingNegatives:
		// Default negatives are acceptable; first retrieval locks them in.
		s.status = StatusRecommending
	}

	category := s.currentCategory()
	hc := s.constraintsFor(category)

	styleQuery := strings.Join(s.persona.Moods, ", ")
	situationQuery := strings.Join(s.keywords, ", ")

	styleCands, err := e.retriever.Retrieve(ctx, retrieval.Request{
		Category:    category,
		Channel:     vecindex.ChannelStyle,
		QueryText:   styleQuery,
		Persona:     s.persona,
		Constraints: hc,
		Negatives:   s.negatives,
		TopK:        FusedTopK,
	})
	if err != nil {
		return nil, err
	}
	situationCands, err := e.retriever.Retrieve(ctx, retrieval.Request{
		Category:    category,
		Channel:     vecindex.ChannelSituation,
		QueryText:   situationQuery,
		Persona:     s.persona,
		Constraints: hc,
		Negatives:   s.negatives,
		TopK:        FusedTopK,
	})
	if err != nil {
		return nil, err
	}

	fused := fusion.Fuse(styleCands, situationCands, s.conflict, FusedTopK)

	rec := &reco.Recommendation{
		Category:        category,
		CategoryIndex:   s.categoryIndex + 1,
		TotalCategories: len(s.categories),
		IsLast:          s.categoryIndex == len(s.categories)-1,
	}

	if len(fused) == 0 {
		if recovered, ok := s.caches.Recover(category); ok {
			rec.Candidates = recovered
			rec.Recovered = true
			return rec, nil
		}
		rec.Candidates = []reco.FusedCandidate{}
		return rec, nil
	}

	served := e.rerank(ctx, s, fused)
	e.explain(ctx, s, category, served)

	s.caches.Commit(category, served)
	rec.Candidates = served
	return rec, nil
}

// rerank asks the harmony reranker for the serving order and falls back to
// the fused order when the model call fails. Callers hold s.mu.
func (e *Engine) rerank(ctx context.Context, s *Session, fused []reco.FusedCandidate) []reco.FusedCandidate {
	ids, err := e.advisor.RerankForHarmony(ctx, advisor.RerankRequest{
		Persona:  s.persona,
		Keywords: s.keywords,
		Conflict: s.conflict,
		Fused:    fused,
		Selected: s.selected,
		TopK:     ServedTopK,
	})
	if err != nil {
		e.logger.Printf("[WARN] session %s: harmony rerank degraded to fused order: %v", s.ID, err)
		ids = advisor.FusedOrderFallback(fused, ServedTopK)
	}

	byID := make(map[string]reco.FusedCandidate, len(fused))
	for _, c := range fused {
		byID[c.ProductID] = c
	}
	served := make([]reco.FusedCandidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			served = append(served, c)
		}
	}
	return served
}

// explain attaches a rationale to each served candidate, grounded on the
// items already picked. A failed call leaves the reason empty. Callers hold
// s.mu.
func (e *Engine) explain(ctx context.Context, s *Session, category string, served []reco.FusedCandidate) {
	var contextLines []string
	for _, sel := range s.selected {
		contextLines = append(contextLines, sel.ContextLine())
	}
	selectedContext := strings.Join(contextLines, "\n")

	for i := range served {
		itemLine := fmt.Sprintf("%s(%s): %s", category, served[i].SubCategory, served[i].Description)
		reason, err := e.advisor.Explain(ctx, advisor.ExplainRequest{
			Persona:         s.persona,
			Keywords:        s.keywords,
			SelectedContext: selectedContext,
			ItemLine:        itemLine,
		})
		if err != nil {
			e.logger.Printf("[WARN] session %s: rationale for %s skipped: %v", s.ID, served[i].ProductID, err)
			continue
		}
		served[i].Reason = reason
	}
}

// ApplyFeedback appends feedback values to the active category's constraint
// lists. Feedback never triggers retrieval by itself.
func (e *Engine) ApplyFeedback(s *Session, category string, intent constraint.Intent, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status == StatusComplete {
		return fmt.Errorf("session already complete: %w", reco.ErrNoActiveCategory)
	}
	if s.status == StatusAwaitingPersona || s.status == StatusAwaitingTPO {
		return fmt.Errorf("persona and situation must be set first: %w", reco.ErrPreconditionFailed)
	}
	if category != s.currentCategory() {
		return fmt.Errorf("feedback targets %q but active category is %q: %w",
			category, s.currentCategory(), reco.ErrCategoryMismatch)
	}
	return s.constraintsFor(category).Apply(intent, values)
}

// Select finalizes the active category with one of the shown products and
// advances. The id may come from the current round or any earlier round of
// this category.
func (e *Engine) Select(s *Session, productID string) (*SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status == StatusComplete {
		return nil, fmt.Errorf("session already complete: %w", reco.ErrNoActiveCategory)
	}
	if s.status != StatusRecommending {
		return nil, fmt.Errorf("no recommendation round served yet: %w", reco.ErrPreconditionFailed)
	}

	category := s.currentCategory()
	candidate, ok := s.caches.Resolve(category, productID)
	if !ok {
		return nil, fmt.Errorf("product %q not offered for %s: %w", productID, category, reco.ErrProductNotFound)
	}

	s.selected = append(s.selected, reco.NewSelectedItem(category, candidate.Candidate))

	s.categoryIndex++
	result := &SelectionResult{SelectedCategory: category}
	if s.categoryIndex >= len(s.categories) {
		s.status = StatusComplete
		result.Complete = true
	} else {
		result.NextCategory = s.currentCategory()
	}
	return result, nil
}

// SelectionResult reports where the walk landed after a selection.
type SelectionResult struct {
	SelectedCategory string `json:"selected_category"`
	NextCategory     string `json:"next_category,omitempty"`
	Complete         bool   `json:"complete"`
}

// FinalResult is the completed outfit.
type FinalResult struct {
	RefinedTPO string              `json:"refined_tpo"`
	Persona    string              `json:"persona"`
	Selections []reco.SelectedItem `json:"selections"`
}

// FinalSelections is only available once every category has been decided.
func (e *Engine) FinalSelections(s *Session) (*FinalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status != StatusComplete {
		return nil, fmt.Errorf("session not complete: %w", reco.ErrPreconditionFailed)
	}
	return &FinalResult{
		RefinedTPO: s.refinedTPO,
		Persona:    s.persona.ID,
		Selections: append([]reco.SelectedItem(nil), s.selected...),
	}, nil
}

// Reset rewinds the session to its initial state and frees the caches. The
// id and creation time survive.
func (e *Engine) Reset(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.status = StatusAwaitingPersona
	s.persona = catalog.Persona{}
	s.rawTPO = ""
	s.refinedTPO = ""
	s.keywords = nil
	s.conflict = false
	s.negatives = constraint.DefaultNegativeFilter()
	s.categoryIndex = 0
	s.constraints = make(map[string]*constraint.HardConstraints)
	s.caches.Release()
	s.selected = nil
}
