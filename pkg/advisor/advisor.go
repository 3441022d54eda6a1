// Package advisor holds the language-model collaborators that interpret the
// user's free-text situation and polish the ranked results. Apart from
// keyword parsing, which retrieval cannot run without, calls are best-effort
// and callers degrade gracefully when one fails.
package advisor

import (
	"context"

	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/reco"
)

// SituationParser extracts short retrieval keywords from free situation text.
type SituationParser interface {
	ParseSituation(ctx context.Context, text string) ([]string, error)
}

// SituationRefiner rewrites verbose situation text into a compact noun phrase.
type SituationRefiner interface {
	RefineSituation(ctx context.Context, text string) (string, error)
}

// ConflictJudge decides whether the persona's style and the stated situation
// are stylistically incompatible.
type ConflictJudge interface {
	JudgeConflict(ctx context.Context, persona catalog.Persona, keywords []string) (bool, error)
}

// RerankRequest carries everything the reranker needs to judge how well each
// candidate fits the situation and the items already picked.
type RerankRequest struct {
	Persona  catalog.Persona
	Keywords []string
	Conflict bool
	Fused    []reco.FusedCandidate
	Selected []reco.SelectedItem
	TopK     int
}

// HarmonyReranker orders fused candidates by outfit harmony and returns the
// top product ids. The returned ids are a subset of the request candidates.
type HarmonyReranker interface {
	RerankForHarmony(ctx context.Context, req RerankRequest) ([]string, error)
}

// ExplainRequest describes one recommended item plus the context it must be
// justified against.
type ExplainRequest struct {
	Persona         catalog.Persona
	Keywords        []string
	SelectedContext string
	ItemLine        string
}

// Explainer produces a short natural-language rationale for one item.
type Explainer interface {
	Explain(ctx context.Context, req ExplainRequest) (string, error)
}

// Advisor bundles all collaborator roles; the session engine depends on this.
type Advisor interface {
	SituationParser
	SituationRefiner
	ConflictJudge
	HarmonyReranker
	Explainer
}
