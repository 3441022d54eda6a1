// Package retrieval turns a session's persona, constraints and situation
// text into a filtered candidate list for one category and channel.
package retrieval

import (
	"context"
	"errors"
	"log"
	"time"

	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/embedding"
	"ai-stylist-be/pkg/reco"
	"ai-stylist-be/pkg/reco/constraint"
	"ai-stylist-be/pkg/vecindex"
)

// DefaultOverfetchFactor widens the index query so the filter chain still has
// enough survivors to fill TopK.
const DefaultOverfetchFactor = 30

const defaultEmbedTimeout = 30 * time.Second

// Request describes one constrained similarity query.
type Request struct {
	Category    string
	Channel     string
	QueryText   string
	Persona     catalog.Persona
	Constraints *constraint.HardConstraints
	Negatives   constraint.NegativeFilter
	TopK        int
}

// Retriever embeds the query text, over-fetches from the channel index and
// walks the filter chain until TopK candidates survive.
type Retriever struct {
	embedder  embedding.EmbeddingProvider
	indexes   *vecindex.Registry
	catalog   *catalog.Catalog
	logger    *log.Logger
	overfetch int

	embedTimeout time.Duration
}

func NewRetriever(embedder embedding.EmbeddingProvider, indexes *vecindex.Registry, cat *catalog.Catalog, logger *log.Logger) *Retriever {
	return &Retriever{
		embedder:     embedder,
		indexes:      indexes,
		catalog:      cat,
		logger:       logger,
		overfetch:    DefaultOverfetchFactor,
		embedTimeout: defaultEmbedTimeout,
	}
}

// Retrieve runs one channel query. A channel with no registered index for the
// category yields an empty result, not an error; the style channel is
// optional per category.
func (r *Retriever) Retrieve(ctx context.Context, req Request) ([]reco.Candidate, error) {
	idx, ok := r.indexes.Lookup(req.Channel, req.Category)
	if !ok {
		return nil, nil
	}

	vector, err := r.embed(ctx, req.QueryText)
	if err != nil {
		return nil, err
	}

	searchK := req.TopK * r.overfetch
	if idx.Size() < searchK {
		searchK = idx.Size()
	}

	hits, err := idx.Search(ctx, vector, searchK)
	if err != nil {
		return nil, &reco.CollaboratorError{Op: "index_search", Err: err}
	}

	candidates := make([]reco.Candidate, 0, req.TopK)
	for _, hit := range hits {
		item, ok := r.catalog.Item(req.Category, hit.ProductID)
		if !ok {
			r.logger.Printf("[WARN] index hit %s has no catalog row in %s, skipping", hit.ProductID, req.Category)
			continue
		}
		if !passes(item, req.Persona, req.Constraints, req.Negatives) {
			continue
		}
		candidates = append(candidates, reco.NewCandidate(item, hit.Score))
		if len(candidates) == req.TopK {
			break
		}
	}
	return candidates, nil
}

// embed calls the embedding collaborator with a deadline, retrying once
// before giving up.
func (r *Retriever) embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		embedCtx, cancel := context.WithTimeout(ctx, r.embedTimeout)
		vector, err := r.embedder.Generate(embedCtx, text, embedding.TaskRetrievalQuery)
		cancel()
		if err == nil {
			return vector, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		r.logger.Printf("[WARN] embedding attempt %d failed: %v", attempt+1, err)
	}
	return nil, &reco.CollaboratorError{
		Op:      "embed",
		Timeout: errors.Is(lastErr, context.DeadlineExceeded),
		Err:     lastErr,
	}
}

// passes applies the filter chain in its fixed order: gender, persona style
// exclusion, hard constraints, then the negative filter.
func passes(item catalog.Item, persona catalog.Persona, hc *constraint.HardConstraints, neg constraint.NegativeFilter) bool {
	if !genderMatches(item.Gender, persona.Gender) {
		return false
	}
	if persona.Excludes(item.Style) {
		return false
	}
	if hc != nil {
		if sub, ok := hc.ActiveSubCategory(); ok && item.SubCategory != sub {
			return false
		}
		if !hc.MatchesColor(item.PrimaryColor()) {
			return false
		}
		if fit, ok := hc.ActiveFit(); ok && item.Fit != fit {
			return false
		}
		if pattern, ok := hc.ActivePattern(); ok && item.Pattern != pattern {
			return false
		}
		if texture, ok := hc.ActiveTexture(); ok && item.Texture != texture {
			return false
		}
	}
	return !neg.Rejects(item.Fit, item.Pattern, item.Price)
}

// genderMatches excludes only a direct mismatch; unisex on either side passes.
func genderMatches(itemGender, personaGender string) bool {
	if itemGender == "" || itemGender == catalog.GenderUnisex {
		return true
	}
	if personaGender == "" || personaGender == catalog.GenderUnisex {
		return true
	}
	return itemGender == personaGender
}
