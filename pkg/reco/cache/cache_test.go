package cache

import (
	"testing"

	"ai-stylist-be/pkg/reco"
)

func fused(id string, score float64, color string) reco.FusedCandidate {
	return reco.FusedCandidate{
		Candidate: reco.Candidate{ProductID: id, Color: color},
		Fused:     score,
	}
}

func TestCommitAccumulatesFirstSeen(t *testing.T) {
	s := NewStore()

	s.Commit("top", []reco.FusedCandidate{fused("A", 0.9, "black"), fused("B", 0.8, "white")})
	// Round two re-serves A with a changed snapshot plus a new id.
	s.Commit("top", []reco.FusedCandidate{fused("A", 0.4, "red"), fused("C", 0.7, "navy")})

	prev, ok := s.Recover("top")
	if !ok {
		t.Fatal("previous layer empty after two commits")
	}
	if len(prev) != 3 {
		t.Fatalf("previous holds %d ids, want 3 (A, B, C)", len(prev))
	}

	// A keeps its round-one snapshot.
	got, ok := s.Resolve("top", "A")
	if !ok {
		t.Fatal("A not resolvable")
	}
	// Current layer holds the round-two snapshot and wins resolution; the
	// previous layer must still carry round one.
	if got.Color != "red" {
		t.Fatalf("current snapshot color = %q, want red", got.Color)
	}
	for _, c := range prev {
		if c.ProductID == "A" && c.Color != "black" {
			t.Fatalf("previous snapshot of A was overwritten: color = %q", c.Color)
		}
	}
}

func TestCurrentIsSubsetOfPrevious(t *testing.T) {
	s := NewStore()
	s.Commit("top", []reco.FusedCandidate{fused("A", 0.9, ""), fused("B", 0.8, "")})

	prev, _ := s.Recover("top")
	prevIDs := make(map[string]bool)
	for _, c := range prev {
		prevIDs[c.ProductID] = true
	}
	for _, c := range s.Current("top") {
		if !prevIDs[c.ProductID] {
			t.Fatalf("current id %s missing from previous", c.ProductID)
		}
	}
}

func TestRecoverEmpty(t *testing.T) {
	s := NewStore()
	if _, ok := s.Recover("top"); ok {
		t.Fatal("recover on empty store must report nothing")
	}
}

func TestResolveEitherLayer(t *testing.T) {
	s := NewStore()
	s.Commit("top", []reco.FusedCandidate{fused("A", 0.9, "")})
	// A falls out of current but stays in previous.
	s.Commit("top", []reco.FusedCandidate{fused("B", 0.8, "")})

	if _, ok := s.Resolve("top", "A"); !ok {
		t.Fatal("id from an earlier round must resolve via previous")
	}
	if _, ok := s.Resolve("top", "B"); !ok {
		t.Fatal("current id must resolve")
	}
	if _, ok := s.Resolve("top", "Z"); ok {
		t.Fatal("unknown id resolved")
	}
}

func TestResolveIsCategoryScoped(t *testing.T) {
	s := NewStore()
	s.Commit("top", []reco.FusedCandidate{fused("P7", 0.9, "")})

	if _, ok := s.Resolve("pants", "P7"); ok {
		t.Fatal("id from another category's cache must not resolve")
	}
}

func TestRelease(t *testing.T) {
	s := NewStore()
	s.Commit("top", []reco.FusedCandidate{fused("A", 0.9, "")})
	s.Release()

	if _, ok := s.Recover("top"); ok {
		t.Fatal("release must drop the previous layer")
	}
	if got := s.Current("top"); got != nil {
		t.Fatalf("release must drop the current layer, got %v", got)
	}
}
