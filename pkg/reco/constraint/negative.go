package constraint

// DefaultPriceCeiling applies when the user declares no spending limit.
const DefaultPriceCeiling = 500000

// NegativeFilter is the session-wide dislike survey: an optional disliked
// fit, an optional disliked pattern, and a price ceiling. It is replaced
// wholesale on update, never patched field by field.
type NegativeFilter struct {
	DislikedFit     string
	DislikedPattern string
	PriceCeiling    int
}

// DefaultNegativeFilter rejects nothing except prices above the default
// ceiling.
func DefaultNegativeFilter() NegativeFilter {
	return NegativeFilter{PriceCeiling: DefaultPriceCeiling}
}

// NewNegativeFilter builds a filter, falling back to the default ceiling
// when none is given.
func NewNegativeFilter(dislikedFit, dislikedPattern string, priceCeiling int) NegativeFilter {
	if priceCeiling <= 0 {
		priceCeiling = DefaultPriceCeiling
	}
	return NegativeFilter{
		DislikedFit:     dislikedFit,
		DislikedPattern: dislikedPattern,
		PriceCeiling:    priceCeiling,
	}
}

// Rejects reports whether an item with the given attributes violates the
// filter.
func (n NegativeFilter) Rejects(fit, pattern string, price int) bool {
	if n.DislikedFit != "" && fit == n.DislikedFit {
		return true
	}
	if n.DislikedPattern != "" && pattern == n.DislikedPattern {
		return true
	}
	return price > n.PriceCeiling
}
