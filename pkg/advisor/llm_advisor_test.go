package advisor

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/llm"
	"ai-stylist-be/pkg/reco"
)

// scriptedProvider replays canned responses in order; once the script runs
// out it keeps returning the last entry. Setting err makes every call fail.
// The options of the most recent call are kept for inspection.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
	lastOpts  llm.Options
}

func (p *scriptedProvider) Chat(_ context.Context, _ []llm.Message, opts ...llm.Option) (string, error) {
	p.calls++
	p.lastOpts = llm.Options{}
	for _, opt := range opts {
		opt(&p.lastOpts)
	}
	if p.err != nil {
		return "", p.err
	}
	idx := p.calls - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func testAdvisor(p llm.LLMProvider) *LLMAdvisor {
	return NewLLMAdvisor(p, log.New(io.Discard, "", 0))
}

func TestParseSituationToleratesProse(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`Sure, here you go: {"parsed_keywords": ["office party", "festive look"]} hope that helps!`,
	}}
	a := testAdvisor(p)

	got, err := a.ParseSituation(context.Background(), "year-end office party outfit")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "office party" || got[1] != "festive look" {
		t.Fatalf("keywords = %v", got)
	}
}

func TestParseSituationRetriesThenFails(t *testing.T) {
	p := &scriptedProvider{responses: []string{"no json here", "still no json"}}
	a := testAdvisor(p)

	_, err := a.ParseSituation(context.Background(), "year-end office party outfit")
	if err == nil {
		t.Fatal("parse failure after the retry must surface")
	}
	collab, ok := reco.AsCollaborator(err)
	if !ok {
		t.Fatalf("err = %v, want CollaboratorError", err)
	}
	if collab.Op != "parse_situation" {
		t.Fatalf("op = %q, want parse_situation", collab.Op)
	}
	if p.calls != 2 {
		t.Fatalf("provider called %d times, want 2 (one retry)", p.calls)
	}
}

func TestParseSituationRecoversOnRetry(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		"no json here",
		`{"parsed_keywords": ["office party"]}`,
	}}
	a := testAdvisor(p)

	got, err := a.ParseSituation(context.Background(), "year-end office party outfit")
	if err != nil {
		t.Fatalf("a clean second attempt must succeed: %v", err)
	}
	if len(got) != 1 || got[0] != "office party" {
		t.Fatalf("keywords = %v", got)
	}
}

func TestRefineSituationFallsBackOnError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("model unavailable")}
	a := testAdvisor(p)

	got, err := a.RefineSituation(context.Background(), " dinner with the in-laws ")
	if err != nil {
		t.Fatalf("refine must fall back, not fail: %v", err)
	}
	if got != "dinner with the in-laws" {
		t.Fatalf("refined = %q, want the trimmed raw text", got)
	}
}

func TestJudgeConflict(t *testing.T) {
	persona, _ := catalog.LookupPersona("ob")

	tests := []struct {
		name     string
		response string
		err      error
		want     bool
	}{
		{"clash", `{"conflict": true}`, nil, true},
		{"no clash", `{"conflict": false}`, nil, false},
		{"garbage defaults to false", "cannot decide", nil, false},
		{"provider error defaults to false", "", errors.New("timeout"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAdvisor(&scriptedProvider{responses: []string{tt.response}, err: tt.err})
			got, err := a.JudgeConflict(context.Background(), persona, []string{"funeral"})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("conflict = %v, want %v", got, tt.want)
			}
		})
	}
}

func rerankFixture() RerankRequest {
	persona, _ := catalog.LookupPersona("pme")
	fused := []reco.FusedCandidate{
		{Candidate: reco.Candidate{ProductID: "P1"}, Fused: 0.9},
		{Candidate: reco.Candidate{ProductID: "P2"}, Fused: 0.8},
		{Candidate: reco.Candidate{ProductID: "P3"}, Fused: 0.7},
	}
	return RerankRequest{
		Persona:  persona,
		Keywords: []string{"office"},
		Fused:    fused,
		TopK:     3,
	}
}

func TestRerankDropsHallucinatedIDs(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"top_items": ["P3", "GHOST", "P1", "P2"]}`,
	}}
	a := testAdvisor(p)

	got, err := a.RerankForHarmony(context.Background(), rerankFixture())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"P3", "P1", "P2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRerankCapsAtTopK(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"top_items": ["P3", "P1", "P2"]}`,
	}}
	a := testAdvisor(p)

	req := rerankFixture()
	req.TopK = 2
	got, err := a.RerankForHarmony(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestRerankAllUnknownIDsIsAnError(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"top_items": ["GHOST1", "GHOST2"]}`,
	}}
	a := testAdvisor(p)

	if _, err := a.RerankForHarmony(context.Background(), rerankFixture()); err == nil {
		t.Fatal("a ranking of only unknown ids must error so the caller degrades")
	}
}

func TestRerankProviderErrorPropagates(t *testing.T) {
	a := testAdvisor(&scriptedProvider{err: errors.New("model unavailable")})
	if _, err := a.RerankForHarmony(context.Background(), rerankFixture()); err == nil {
		t.Fatal("rerank must surface provider errors")
	}
}

func TestExplainTrimsResponse(t *testing.T) {
	p := &scriptedProvider{responses: []string{"  A clean pick for the office.  \n"}}
	a := testAdvisor(p)

	persona, _ := catalog.LookupPersona("pme")
	got, err := a.Explain(context.Background(), ExplainRequest{
		Persona:  persona,
		Keywords: []string{"office"},
		ItemLine: "top(shirt): crisp oxford shirt",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "A clean pick for the office." {
		t.Fatalf("reason = %q", got)
	}
}

func TestGenerationCallsBoundResponseLength(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"top_items": ["P1"]}`}}
	a := testAdvisor(p)

	if _, err := a.RerankForHarmony(context.Background(), rerankFixture()); err != nil {
		t.Fatal(err)
	}
	if p.lastOpts.MaxTokens <= 0 {
		t.Fatal("rerank call must cap the response length")
	}

	p.responses = []string{"A clean pick."}
	persona, _ := catalog.LookupPersona("pme")
	if _, err := a.Explain(context.Background(), ExplainRequest{Persona: persona, ItemLine: "top(shirt): x"}); err != nil {
		t.Fatal(err)
	}
	if p.lastOpts.MaxTokens <= 0 {
		t.Fatal("explain call must cap the response length")
	}
}

func TestExplainProviderErrorPropagates(t *testing.T) {
	a := testAdvisor(&scriptedProvider{err: errors.New("model unavailable")})
	persona, _ := catalog.LookupPersona("pme")
	_, err := a.Explain(context.Background(), ExplainRequest{Persona: persona, ItemLine: "x"})
	if err == nil {
		t.Fatal("explain must surface provider errors")
	}
}

func TestFusedOrderFallback(t *testing.T) {
	fused := []reco.FusedCandidate{
		{Candidate: reco.Candidate{ProductID: "A"}},
		{Candidate: reco.Candidate{ProductID: "B"}},
	}
	got := FusedOrderFallback(fused, 5)
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("fallback = %v", got)
	}
	if got := FusedOrderFallback(fused, 1); len(got) != 1 || got[0] != "A" {
		t.Fatalf("truncated fallback = %v", got)
	}
}
