package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"ai-stylist-be/pkg/catalog"
	"ai-stylist-be/pkg/llm"
	"ai-stylist-be/pkg/reco"
)

const parseSystemPrompt = `You extract retrieval keywords from a shopper's free-text situation.
Return 1-3 short phrases covering the occasion and the desired look.
Respond with ONLY valid JSON: {"parsed_keywords": ["...", "..."]}`

const refineSystemPrompt = `You compress a shopper's request into one compact noun phrase naming the occasion.
Drop filler verbs and politeness. Return ONLY the refined phrase, no JSON, no quotes.`

const conflictSystemPrompt = `You judge whether a shopper's habitual style moods clash with the stated occasion.
A clash means dressing in those moods would look out of place at the occasion.
Respond with ONLY valid JSON: {"conflict": true} or {"conflict": false}`

const rerankSystemPrompt = `You are a stylist assembling one coherent outfit.
Rank the candidate items by how well each fits the occasion, the persona moods,
and the items already selected. When "conflict" is true, weigh the occasion over
the persona moods. Respond with ONLY valid JSON:
{"top_items": ["<product_id>", "..."]} using ids from the candidate list only.`

const reasonSystemPrompt = `You write one short, warm recommendation rationale (2 sentences max) for a clothing item.
Ground it in the occasion and, when present, how it pairs with the already selected items.
Return plain text only.`

// LLMAdvisor implements every collaborator role on top of a single chat model.
// Keyword parsing retries once and then surfaces a CollaboratorError: the
// keywords drive retrieval, so there is nothing safe to fall back to. Conflict
// judgment and refinement degrade to safe defaults; reranking and rationale
// generation surface their errors so the caller can keep the fused order.
type LLMAdvisor struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

var _ Advisor = (*LLMAdvisor)(nil)

func NewLLMAdvisor(provider llm.LLMProvider, logger *log.Logger) *LLMAdvisor {
	return &LLMAdvisor{provider: provider, logger: logger}
}

func (a *LLMAdvisor) ParseSituation(ctx context.Context, text string) ([]string, error) {
	history := []llm.Message{
		{Role: "system", Content: parseSystemPrompt},
		{Role: "user", Content: "I have a company interview in January and want a neat, tidy interview look."},
		{Role: "assistant", Content: `{"parsed_keywords": ["company interview in January", "neat and tidy interview look"]}`},
		{Role: "user", Content: "Going on a three-day trip to the coast with my boyfriend, want something comfy but pretty."},
		{Role: "assistant", Content: `{"parsed_keywords": ["trip with boyfriend", "comfortable style", "pretty date look"]}`},
		{Role: "user", Content: text},
	}

	keywords, err := a.parseKeywordsOnce(ctx, history)
	if err != nil {
		a.logger.Printf("[WARN] situation parse failed, retrying once: %v", err)
		keywords, err = a.parseKeywordsOnce(ctx, history)
	}
	if err != nil {
		return nil, &reco.CollaboratorError{
			Op:      "parse_situation",
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
	}
	return keywords, nil
}

func (a *LLMAdvisor) parseKeywordsOnce(ctx context.Context, history []llm.Message) ([]string, error) {
	response, err := a.provider.Chat(ctx, history, llm.WithTemperature(0.0))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		ParsedKeywords []string `json:"parsed_keywords"`
	}
	if err := decodeJSON(response, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.ParsedKeywords) == 0 {
		return nil, fmt.Errorf("empty keyword list")
	}
	return parsed.ParsedKeywords, nil
}

func (a *LLMAdvisor) RefineSituation(ctx context.Context, text string) (string, error) {
	history := []llm.Message{
		{Role: "system", Content: refineSystemPrompt},
		{Role: "user", Content: "Recommend something to wear on a date with my boyfriend"},
		{Role: "assistant", Content: "boyfriend date look"},
		{Role: "user", Content: "I'm a wedding guest and want to look clean"},
		{Role: "assistant", Content: "wedding guest look"},
		{Role: "user", Content: "An outfit that projects trust for a job interview"},
		{Role: "assistant", Content: "job interview look"},
		{Role: "user", Content: text},
	}

	response, err := a.provider.Chat(ctx, history, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[WARN] situation refine failed, keeping raw text: %v", err)
		return strings.TrimSpace(text), nil
	}
	refined := strings.TrimSpace(response)
	if refined == "" {
		return strings.TrimSpace(text), nil
	}
	return refined, nil
}

func (a *LLMAdvisor) JudgeConflict(ctx context.Context, persona catalog.Persona, keywords []string) (bool, error) {
	payload, err := json.Marshal(map[string]any{
		"persona":       persona.ID,
		"persona_moods": persona.Moods,
		"situation":     keywords,
	})
	if err != nil {
		return false, err
	}

	history := []llm.Message{
		{Role: "system", Content: conflictSystemPrompt},
		{Role: "user", Content: string(payload)},
	}

	response, err := a.provider.Chat(ctx, history, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[WARN] conflict judgment failed, assuming no conflict: %v", err)
		return false, nil
	}

	var verdict struct {
		Conflict bool `json:"conflict"`
	}
	if err := decodeJSON(response, &verdict); err != nil {
		a.logger.Printf("[WARN] conflict judgment unparseable, assuming no conflict: %v", err)
		return false, nil
	}
	return verdict.Conflict, nil
}

type rerankCandidate struct {
	ProductID   string `json:"product_id"`
	SubCategory string `json:"sub_category"`
	Style       string `json:"style"`
	Fit         string `json:"fit"`
	Pattern     string `json:"pattern"`
	Texture     string `json:"texture"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func (a *LLMAdvisor) RerankForHarmony(ctx context.Context, req RerankRequest) ([]string, error) {
	candidates := make([]rerankCandidate, len(req.Fused))
	allowed := make(map[string]bool, len(req.Fused))
	for i, c := range req.Fused {
		candidates[i] = rerankCandidate{
			ProductID:   c.ProductID,
			SubCategory: c.SubCategory,
			Style:       c.Style,
			Fit:         c.Fit,
			Pattern:     c.Pattern,
			Texture:     c.Texture,
			Color:       c.Color,
			Description: c.Description,
		}
		allowed[c.ProductID] = true
	}

	selected := make([]string, len(req.Selected))
	for i, s := range req.Selected {
		selected[i] = s.ContextLine()
	}

	payload, err := json.Marshal(map[string]any{
		"persona":        req.Persona.ID,
		"persona_moods":  req.Persona.Moods,
		"situation":      req.Keywords,
		"conflict":       req.Conflict,
		"selected_items": selected,
		"candidates":     candidates,
	})
	if err != nil {
		return nil, err
	}

	history := []llm.Message{
		{Role: "system", Content: rerankSystemPrompt},
		{Role: "user", Content: string(payload)},
	}

	response, err := a.provider.Chat(ctx, history, llm.WithTemperature(0.2), llm.WithMaxTokens(256))
	if err != nil {
		return nil, fmt.Errorf("harmony rerank: %w", err)
	}

	var ranked struct {
		TopItems []string `json:"top_items"`
	}
	if err := decodeJSON(response, &ranked); err != nil {
		return nil, fmt.Errorf("harmony rerank: %w", err)
	}

	// Drop hallucinated ids, cap at TopK
	out := make([]string, 0, req.TopK)
	for _, id := range ranked.TopItems {
		if !allowed[id] {
			continue
		}
		out = append(out, id)
		if req.TopK > 0 && len(out) == req.TopK {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("harmony rerank returned no known ids")
	}
	return out, nil
}

func (a *LLMAdvisor) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	selectedContext := req.SelectedContext
	if selectedContext == "" {
		selectedContext = "none"
	}

	var input strings.Builder
	input.WriteString("[SITUATION & PERSONA]\n")
	input.WriteString("situation: " + strings.Join(req.Keywords, ", ") + "\n")
	input.WriteString("persona moods: " + strings.Join(req.Persona.Moods, ", ") + "\n\n")
	input.WriteString("[ALREADY SELECTED]\n")
	input.WriteString(selectedContext + "\n\n")
	input.WriteString("[CURRENT ITEM]\n")
	input.WriteString(req.ItemLine)

	history := []llm.Message{
		{Role: "system", Content: reasonSystemPrompt},
		{Role: "user", Content: strings.TrimSpace(`
[SITUATION & PERSONA]
situation: company interview, neat and tidy interview look
persona moods: formal, neat, preppy

[ALREADY SELECTED]
- top(shirt): a crisp shirt in a soft, firm cotton

[CURRENT ITEM]
pants(slacks): neat dark navy slacks with a clean line
`)},
		{Role: "assistant", Content: "Dark navy slacks settle the first impression while the clean silhouette reads trustworthy in an interview. They carry the tone of the cotton shirt you already picked, so the whole look stays composed even after hours of sitting."},
		{Role: "user", Content: input.String()},
	}

	// The rationale is two sentences at most; cap the generation so a
	// rambling model cannot stall the round.
	response, err := a.provider.Chat(ctx, history, llm.WithTemperature(0.0), llm.WithMaxTokens(160))
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// decodeJSON tolerates prose around the JSON object by slicing from the first
// "{" to the last "}".
func decodeJSON(response string, v any) error {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return fmt.Errorf("no JSON found in response")
	}
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), v); err != nil {
		return fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	return nil
}

// FusedOrderFallback is the degraded rerank result: the fused ranking
// truncated to k, used when the model call fails.
func FusedOrderFallback(fused []reco.FusedCandidate, k int) []string {
	if k > len(fused) {
		k = len(fused)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = fused[i].ProductID
	}
	return out
}
