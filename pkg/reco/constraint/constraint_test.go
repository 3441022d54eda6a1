package constraint

import (
	"errors"
	"testing"
)

func TestApplyLastWriteWins(t *testing.T) {
	hc := New()

	if err := hc.Apply(IntentFit, []string{"slim"}); err != nil {
		t.Fatal(err)
	}
	if err := hc.Apply(IntentFit, []string{"regular", "oversized"}); err != nil {
		t.Fatal(err)
	}

	fit, ok := hc.ActiveFit()
	if !ok || fit != "oversized" {
		t.Fatalf("ActiveFit = %q, %v; want oversized", fit, ok)
	}
	if len(hc.PreferredFits) != 3 {
		t.Fatalf("history length = %d, want 3 (appends retained)", len(hc.PreferredFits))
	}
}

func TestActiveAccessorsEmpty(t *testing.T) {
	hc := New()
	if _, ok := hc.ActiveSubCategory(); ok {
		t.Fatal("empty constraints reported an active sub-category")
	}
	if _, ok := hc.ActivePattern(); ok {
		t.Fatal("empty constraints reported an active pattern")
	}
	if _, ok := hc.ActiveTexture(); ok {
		t.Fatal("empty constraints reported an active texture")
	}
}

func TestApplyUnknownIntent(t *testing.T) {
	hc := New()
	err := hc.Apply(Intent("price"), []string{"100"})
	if !errors.Is(err, ErrUnknownIntent) {
		t.Fatalf("err = %v, want ErrUnknownIntent", err)
	}
}

func TestColorAliasExpansion(t *testing.T) {
	hc := New()
	if err := hc.Apply(IntentColor, []string{"white"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		primary string
		want    bool
	}{
		{"white", true},
		{"cream", true},
		{"ivory", true},
		{"black", false},
	}
	for _, tt := range tests {
		if got := hc.MatchesColor(tt.primary); got != tt.want {
			t.Errorf("MatchesColor(%q) = %v, want %v", tt.primary, got, tt.want)
		}
	}
}

func TestMatchesColorEmptyListMatchesAll(t *testing.T) {
	hc := New()
	if !hc.MatchesColor("anything") {
		t.Fatal("empty color preference must match everything")
	}
}

func TestMatchesColorSubstring(t *testing.T) {
	hc := New()
	if err := hc.Apply(IntentColor, []string{"blue"}); err != nil {
		t.Fatal(err)
	}
	if !hc.MatchesColor("light blue") {
		t.Fatal("substring match expected for 'light blue'")
	}
}

func TestExpandColorAliasesDedup(t *testing.T) {
	got := ExpandColorAliases([]string{"burgundy", "red"})
	want := []string{"burgundy", "wine", "red"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNegativeFilterRejects(t *testing.T) {
	n := NewNegativeFilter("slim", "stripe", 200000)

	tests := []struct {
		name    string
		fit     string
		pattern string
		price   int
		want    bool
	}{
		{"clean item", "regular", "solid", 100000, false},
		{"disliked fit", "slim", "solid", 100000, true},
		{"disliked pattern", "regular", "stripe", 100000, true},
		{"over ceiling", "regular", "solid", 200001, true},
		{"at ceiling", "regular", "solid", 200000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Rejects(tt.fit, tt.pattern, tt.price); got != tt.want {
				t.Fatalf("Rejects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultNegativeFilter(t *testing.T) {
	n := DefaultNegativeFilter()
	if n.PriceCeiling != DefaultPriceCeiling {
		t.Fatalf("ceiling = %d, want %d", n.PriceCeiling, DefaultPriceCeiling)
	}
	if n.Rejects("slim", "stripe", DefaultPriceCeiling) {
		t.Fatal("default filter must only reject on price")
	}
}

func TestNewNegativeFilterZeroCeilingFallsBack(t *testing.T) {
	n := NewNegativeFilter("", "", 0)
	if n.PriceCeiling != DefaultPriceCeiling {
		t.Fatalf("ceiling = %d, want default", n.PriceCeiling)
	}
}
