package session

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-stylist-be/pkg/advisor"
	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/reco"
	"ai-stylist-be/pkg/reco/constraint"
	"ai-stylist-be/pkg/reco/retrieval"
	"ai-stylist-be/pkg/vecindex"
	"ai-stylist-be/pkg/vecindex/memory"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Generate(_ context.Context, _ string, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

// fakeAdvisor scripts every collaborator role. Rerank follows the fused
// order unless rerankErr is set; Explain returns a canned line unless
// explainErr is set.
type fakeAdvisor struct {
	keywords   []string
	refined    string
	conflict   bool
	rerankErr  error
	explainErr error
}

func (f *fakeAdvisor) ParseSituation(_ context.Context, _ string) ([]string, error) {
	return f.keywords, nil
}

func (f *fakeAdvisor) RefineSituation(_ context.Context, _ string) (string, error) {
	return f.refined, nil
}

func (f *fakeAdvisor) JudgeConflict(_ context.Context, _ catalog.Persona, _ []string) (bool, error) {
	return f.conflict, nil
}

func (f *fakeAdvisor) RerankForHarmony(_ context.Context, req advisor.RerankRequest) ([]string, error) {
	if f.rerankErr != nil {
		return nil, f.rerankErr
	}
	return advisor.FusedOrderFallback(req.Fused, req.TopK), nil
}

func (f *fakeAdvisor) Explain(_ context.Context, _ advisor.ExplainRequest) (string, error) {
	if f.explainErr != nil {
		return "", f.explainErr
	}
	return "pairs cleanly with the rest of the look", nil
}

// engineFixture wires a two-category walk (top, pants) over an in-memory
// situation index. No item in "top" is black, so a black color preference
// empties the category and exercises recovery.
func engineFixture(t *testing.T, adv advisor.Advisor) (*Engine, *Session) {
	t.Helper()

	items := []catalog.Item{
		{ProductID: "P7", Category: "top", Gender: "male", Style: "casual", SubCategory: "shirt", Color: "navy", Fit: "regular", Pattern: "solid", Texture: "cotton", Price: 60000, Description: "navy oxford shirt"},
		{ProductID: "P8", Category: "top", Gender: "male", Style: "neat", SubCategory: "knit", Color: "cream", Fit: "regular", Pattern: "solid", Texture: "wool", Price: 90000, Description: "cream crew knit"},
		{ProductID: "P9", Category: "top", Gender: "unisex", Style: "casual", SubCategory: "tee", Color: "white", Fit: "regular", Pattern: "solid", Texture: "cotton", Price: 30000, Description: "plain white tee"},
		{ProductID: "Q1", Category: "pants", Gender: "male", Style: "casual", SubCategory: "slacks", Color: "black", Fit: "regular", Pattern: "solid", Texture: "cotton", Price: 70000, Description: "black tapered slacks"},
	}

	topIdx := memory.NewStore()
	for id, vec := range map[string][]float32{
		"P7": {1.0, 0.0},
		"P8": {0.9, 0.1},
		"P9": {0.8, 0.2},
	} {
		if err := topIdx.Add(id, vec); err != nil {
			t.Fatal(err)
		}
	}
	pantsIdx := memory.NewStore()
	if err := pantsIdx.Add("Q1", []float32{1, 0}); err != nil {
		t.Fatal(err)
	}

	registry := vecindex.NewRegistry()
	registry.Register(vecindex.ChannelSituation, "top", topIdx)
	registry.Register(vecindex.ChannelSituation, "pants", pantsIdx)

	discard := log.New(io.Discard, "", 0)
	retriever := retrieval.NewRetriever(fixedEmbedder{}, registry, catalog.NewFromItems(items), discard)
	engine := NewEngine(retriever, adv, discard)
	return engine, newSession("test-session", []string{"top", "pants"})
}

func defaultAdvisor() *fakeAdvisor {
	return &fakeAdvisor{
		keywords: []string{"business casual", "office"},
		refined:  "first day at a new office",
	}
}

func TestFullWalkWithRecovery(t *testing.T) {
	ctx := context.Background()
	e, s := engineFixture(t, defaultAdvisor())

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetTPO(ctx, s, "I start a new office job on Monday"); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Status; got != StatusAwaitingNegatives {
		t.Fatalf("status after situation = %s, want %s", got, StatusAwaitingNegatives)
	}
	if err := e.SetNegatives(s, constraint.NewNegativeFilter("", "", 200000)); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Status; got != StatusRecommending {
		t.Fatalf("status after negatives = %s, want %s", got, StatusRecommending)
	}

	first, err := e.NextRecommendation(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if first.Category != "top" || first.CategoryIndex != 1 || first.TotalCategories != 2 {
		t.Fatalf("first round header = %+v", first)
	}
	if len(first.Candidates) != 3 {
		t.Fatalf("first round served %d candidates, want 3", len(first.Candidates))
	}
	if first.Recovered {
		t.Fatal("first round must not be marked recovered")
	}
	for _, c := range first.Candidates {
		if c.Reason == "" {
			t.Fatalf("candidate %s served without a rationale", c.ProductID)
		}
	}

	// Narrowing to black empties "top"; the round must restore the
	// accumulated previous candidates instead of failing.
	if err := e.ApplyFeedback(s, "top", constraint.IntentColor, []string{"black"}); err != nil {
		t.Fatal(err)
	}
	second, err := e.NextRecommendation(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Recovered {
		t.Fatal("over-constrained round must recover the previous candidates")
	}
	if len(second.Candidates) != 3 {
		t.Fatalf("recovered %d candidates, want 3", len(second.Candidates))
	}

	// Ids from the recovered set stay selectable.
	sel, err := e.Select(s, "P7")
	if err != nil {
		t.Fatal(err)
	}
	if sel.SelectedCategory != "top" || sel.NextCategory != "pants" || sel.Complete {
		t.Fatalf("selection result = %+v", sel)
	}

	third, err := e.NextRecommendation(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if third.Category != "pants" || !third.IsLast {
		t.Fatalf("third round header = %+v", third)
	}
	// The black preference was scoped to "top"; pants still retrieve.
	if len(third.Candidates) != 1 {
		t.Fatalf("pants round served %d candidates, want 1", len(third.Candidates))
	}

	last, err := e.Select(s, "Q1")
	if err != nil {
		t.Fatal(err)
	}
	if !last.Complete {
		t.Fatal("final selection must complete the session")
	}

	final, err := e.FinalSelections(s)
	if err != nil {
		t.Fatal(err)
	}
	if final.Persona != "pme" || final.RefinedTPO != "first day at a new office" {
		t.Fatalf("final header = %+v", final)
	}
	if len(final.Selections) != 2 || final.Selections[0].ProductID != "P7" || final.Selections[1].ProductID != "Q1" {
		t.Fatalf("final selections = %+v", final.Selections)
	}

	if _, err := e.NextRecommendation(ctx, s); !errors.Is(err, reco.ErrNoActiveCategory) {
		t.Fatalf("recommendation after completion = %v, want ErrNoActiveCategory", err)
	}
}

func TestPersonaPreconditions(t *testing.T) {
	ctx := context.Background()
	e, s := engineFixture(t, defaultAdvisor())

	if err := e.SetPersona(s, "nobody"); !errors.Is(err, reco.ErrInvalidPersona) {
		t.Fatalf("unknown persona err = %v, want ErrInvalidPersona", err)
	}
	if err := e.SetTPO(ctx, s, "dinner"); !errors.Is(err, reco.ErrPreconditionFailed) {
		t.Fatalf("situation before persona err = %v, want ErrPreconditionFailed", err)
	}
	if _, err := e.NextRecommendation(ctx, s); !errors.Is(err, reco.ErrPreconditionFailed) {
		t.Fatalf("recommendation before setup err = %v, want ErrPreconditionFailed", err)
	}

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetPersona(s, "nowon"); !errors.Is(err, reco.ErrPreconditionFailed) {
		t.Fatalf("second persona err = %v, want ErrPreconditionFailed", err)
	}
	if _, err := e.Select(s, "P7"); !errors.Is(err, reco.ErrPreconditionFailed) {
		t.Fatalf("selection before any round err = %v, want ErrPreconditionFailed", err)
	}
}

func TestDefaultNegativesLockInOnFirstRound(t *testing.T) {
	ctx := context.Background()
	e, s := engineFixture(t, defaultAdvisor())

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetTPO(ctx, s, "weekend brunch"); err != nil {
		t.Fatal(err)
	}

	// Skipping the negatives step is allowed; the first round promotes the
	// session with the defaults already in place.
	rec, err := e.NextRecommendation(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Candidates) == 0 {
		t.Fatal("expected candidates under default negatives")
	}
	if got := s.Snapshot().Status; got != StatusRecommending {
		t.Fatalf("status = %s, want %s", got, StatusRecommending)
	}
}

func TestFeedbackRequiresActiveCategory(t *testing.T) {
	ctx := context.Background()
	e, s := engineFixture(t, defaultAdvisor())

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetTPO(ctx, s, "weekend brunch"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.NextRecommendation(ctx, s); err != nil {
		t.Fatal(err)
	}

	err := e.ApplyFeedback(s, "pants", constraint.IntentColor, []string{"black"})
	if !errors.Is(err, reco.ErrCategoryMismatch) {
		t.Fatalf("cross-category feedback err = %v, want ErrCategoryMismatch", err)
	}
	if errors.Is(err, reco.ErrNoActiveCategory) {
		t.Fatal("cross-category feedback on a live session is correctable, not terminal")
	}
	if err := e.ApplyFeedback(s, "top", constraint.IntentFit, []string{"regular"}); err != nil {
		t.Fatal(err)
	}
}

func TestSelectUnknownProduct(t *testing.T) {
	ctx := context.Background()
	e, s := engineFixture(t, defaultAdvisor())

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetTPO(ctx, s, "weekend brunch"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.NextRecommendation(ctx, s); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Select(s, "Q1"); !errors.Is(err, reco.ErrProductNotFound) {
		t.Fatalf("selecting an unoffered id err = %v, want ErrProductNotFound", err)
	}
}

func TestRerankFailureFallsBackToFusedOrder(t *testing.T) {
	ctx := context.Background()
	adv := defaultAdvisor()
	adv.rerankErr = errors.New("model unavailable")
	e, s := engineFixture(t, adv)

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetTPO(ctx, s, "weekend brunch"); err != nil {
		t.Fatal(err)
	}

	rec, err := e.NextRecommendation(ctx, s)
	if err != nil {
		t.Fatalf("rerank failure must degrade, not fail: %v", err)
	}
	want := []string{"P7", "P8", "P9"}
	if len(rec.Candidates) != len(want) {
		t.Fatalf("served %d candidates, want %d", len(rec.Candidates), len(want))
	}
	for i, w := range want {
		if rec.Candidates[i].ProductID != w {
			t.Fatalf("fallback order %d = %s, want %s", i, rec.Candidates[i].ProductID, w)
		}
	}
}

func TestExplainFailureLeavesReasonEmpty(t *testing.T) {
	ctx := context.Background()
	adv := defaultAdvisor()
	adv.explainErr = errors.New("model unavailable")
	e, s := engineFixture(t, adv)

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetTPO(ctx, s, "weekend brunch"); err != nil {
		t.Fatal(err)
	}

	rec, err := e.NextRecommendation(ctx, s)
	if err != nil {
		t.Fatalf("rationale failure must degrade, not fail: %v", err)
	}
	if len(rec.Candidates) == 0 {
		t.Fatal("expected candidates")
	}
	for _, c := range rec.Candidates {
		if c.Reason != "" {
			t.Fatalf("candidate %s carries a rationale despite the failure", c.ProductID)
		}
	}
}

func TestResetRewindsEverything(t *testing.T) {
	ctx := context.Background()
	e, s := engineFixture(t, defaultAdvisor())

	if err := e.SetPersona(s, "pme"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetTPO(ctx, s, "weekend brunch"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.NextRecommendation(ctx, s); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Select(s, "P7"); err != nil {
		t.Fatal(err)
	}

	e.Reset(s)

	snap := s.Snapshot()
	if snap.Status != StatusAwaitingPersona {
		t.Fatalf("status after reset = %s, want %s", snap.Status, StatusAwaitingPersona)
	}
	if snap.Persona != "" || snap.TPO != "" || snap.SelectedCount != 0 || snap.CategoryIndex != 0 {
		t.Fatalf("reset left state behind: %+v", snap)
	}
	if s.ID != "test-session" {
		t.Fatal("reset must keep the session id")
	}

	// The walk restarts cleanly on the same session.
	if err := e.SetPersona(s, "nowon"); err != nil {
		t.Fatal(err)
	}
}
