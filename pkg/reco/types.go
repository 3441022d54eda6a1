package reco

import (
	"fmt"

	"ai-stylist-be/pkg/catalog"
)

// Candidate is one retrieved product with its raw channel similarity score.
// Identity is the product id (scoped to a category), not the struct: the
// same id can recur across queries with different scores.
type Candidate struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"product_name"`
	Brand       string  `json:"brand"`
	Price       int     `json:"price"`
	ItemURL     string  `json:"item_url"`
	ImageURL    string  `json:"img_url"`
	SubCategory string  `json:"sub_category"`
	Color       string  `json:"color"`
	Fit         string  `json:"fit"`
	Pattern     string  `json:"pattern"`
	Texture     string  `json:"texture"`
	Style       string  `json:"style"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason,omitempty"`
}

// NewCandidate builds a Candidate from catalog metadata plus the similarity
// score the index reported for it.
func NewCandidate(item catalog.Item, score float64) Candidate {
	return Candidate{
		ProductID:   item.ProductID,
		Name:        item.Name,
		Brand:       item.Brand,
		Price:       item.Price,
		ItemURL:     item.ItemURL,
		ImageURL:    item.ImageURL,
		SubCategory: item.SubCategory,
		Color:       item.Color,
		Fit:         item.Fit,
		Pattern:     item.Pattern,
		Texture:     item.Texture,
		Style:       item.Style,
		Description: item.Description,
		Score:       score,
	}
}

// FusedCandidate is a Candidate plus its fused cross-channel score.
type FusedCandidate struct {
	Candidate
	Fused float64 `json:"fused_score"`
}

// Recommendation is the result of one retrieval step for the active
// category. Recovered marks results restored from the previous-round cache
// after an over-constrained query came back empty. An empty Candidates
// slice with Recovered=false is a legitimate zero-match outcome, not an
// error.
type Recommendation struct {
	Category        string           `json:"category"`
	CategoryIndex   int              `json:"category_index"`
	TotalCategories int              `json:"total_categories"`
	Candidates      []FusedCandidate `json:"candidates"`
	IsLast          bool             `json:"is_last_category"`
	Recovered       bool             `json:"is_restored_from_previous"`
}

// SelectedItem is the user's finalized choice for a completed category.
// Written once on selection, never mutated afterwards (only a session reset
// discards it).
type SelectedItem struct {
	Category    string `json:"category"`
	ProductID   string `json:"product_id"`
	Name        string `json:"product_name"`
	Brand       string `json:"brand"`
	Price       int    `json:"price"`
	ItemURL     string `json:"item_url"`
	ImageURL    string `json:"img_url"`
	SubCategory string `json:"sub_category"`
	Color       string `json:"color"`
	Fit         string `json:"fit"`
	Pattern     string `json:"pattern"`
	Texture     string `json:"texture"`
	Description string `json:"description"`
}

// NewSelectedItem freezes a candidate into the per-category selection slot.
func NewSelectedItem(category string, c Candidate) SelectedItem {
	return SelectedItem{
		Category:    category,
		ProductID:   c.ProductID,
		Name:        c.Name,
		Brand:       c.Brand,
		Price:       c.Price,
		ItemURL:     c.ItemURL,
		ImageURL:    c.ImageURL,
		SubCategory: c.SubCategory,
		Color:       c.Color,
		Fit:         c.Fit,
		Pattern:     c.Pattern,
		Texture:     c.Texture,
		Description: c.Description,
	}
}

// ContextLine renders the human-readable grounding line the rationale
// collaborator receives for this selection.
func (s SelectedItem) ContextLine() string {
	return fmt.Sprintf("- %s(%s): %s", s.Category, s.SubCategory, s.Description)
}
