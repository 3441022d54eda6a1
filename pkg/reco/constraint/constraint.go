// Package constraint holds the per-session preference filters: the hard
// constraints feedback accumulates per category, and the session-wide
// negative filter.
package constraint

import (
	"errors"
	"strings"
)

// Intent names the constraint list a feedback message targets.
type Intent string

const (
	IntentSubCategory Intent = "sub_category"
	IntentColor       Intent = "color"
	IntentFit         Intent = "fit"
	IntentPattern     Intent = "pattern"
	IntentTexture     Intent = "texture"
)

// ErrUnknownIntent rejects feedback whose type is not a constraint list.
var ErrUnknownIntent = errors.New("unknown feedback intent")

// HardConstraints narrows retrieval for one category beyond the baseline
// negative filter. Lists are append-only: history is retained, but the
// single-valued fields (sub-category, fit, pattern, texture) only ever
// compare against the most recently appended value. Colors are any-match.
type HardConstraints struct {
	ForcedSubCategories []string
	PreferredColors     []string
	PreferredFits       []string
	PreferredPatterns   []string
	PreferredTextures   []string
}

// New returns empty constraints (nothing forced, nothing preferred).
func New() *HardConstraints {
	return &HardConstraints{}
}

// Apply appends feedback values to the targeted list. Color values are
// expanded with their conventional aliases first so that "white" also
// admits cream and ivory items.
func (h *HardConstraints) Apply(intent Intent, values []string) error {
	switch intent {
	case IntentSubCategory:
		h.ForcedSubCategories = append(h.ForcedSubCategories, values...)
	case IntentColor:
		h.PreferredColors = append(h.PreferredColors, ExpandColorAliases(values)...)
	case IntentFit:
		h.PreferredFits = append(h.PreferredFits, values...)
	case IntentPattern:
		h.PreferredPatterns = append(h.PreferredPatterns, values...)
	case IntentTexture:
		h.PreferredTextures = append(h.PreferredTextures, values...)
	default:
		return ErrUnknownIntent
	}
	return nil
}

// ActiveSubCategory returns the last forced sub-category, if any. The
// derived accessor is the single place the "last value wins" rule lives.
func (h *HardConstraints) ActiveSubCategory() (string, bool) { return last(h.ForcedSubCategories) }

// ActiveFit returns the last preferred fit, if any.
func (h *HardConstraints) ActiveFit() (string, bool) { return last(h.PreferredFits) }

// ActivePattern returns the last preferred pattern, if any.
func (h *HardConstraints) ActivePattern() (string, bool) { return last(h.PreferredPatterns) }

// ActiveTexture returns the last preferred texture, if any.
func (h *HardConstraints) ActiveTexture() (string, bool) { return last(h.PreferredTextures) }

// MatchesColor reports whether the item's primary color token contains any
// preferred color. An empty preference list matches everything.
func (h *HardConstraints) MatchesColor(primaryColor string) bool {
	if len(h.PreferredColors) == 0 {
		return true
	}
	for _, pref := range h.PreferredColors {
		if strings.Contains(primaryColor, pref) {
			return true
		}
	}
	return false
}

func last(vals []string) (string, bool) {
	if len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// colorAliases widens common color feedback to the neighboring shades the
// catalog actually uses.
var colorAliases = map[string][]string{
	"white":    {"cream", "ivory"},
	"green":    {"khaki"},
	"burgundy": {"wine", "red"},
	"gray":     {"silver", "grey"},
}

// ExpandColorAliases returns the input colors followed by their aliases,
// preserving order and skipping duplicates.
func ExpandColorAliases(colors []string) []string {
	out := make([]string, 0, len(colors))
	seen := make(map[string]bool, len(colors))
	add := func(c string) {
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}
	for _, c := range colors {
		add(c)
		for _, alias := range colorAliases[c] {
			add(alias)
		}
	}
	return out
}
