// Package vecindex defines the similarity-search primitive the retriever
// runs against. Indexes are built offline, loaded once at startup, and
// shared read-only across all sessions.
package vecindex

import "context"

// Retrieval channels. Every category has a situation index; style indexes
// are optional per category.
const (
	ChannelStyle     = "style"
	ChannelSituation = "situation"
)

// Hit is one nearest-neighbor result: a category-scoped product id and the
// raw cosine similarity reported by the backend.
type Hit struct {
	ProductID string
	Score     float64
}

// Index is a read-only approximate nearest-neighbor index over one
// (channel, category) slice of the catalog. Search may return fewer than k
// hits and never errors on zero matches.
type Index interface {
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Size() int
}

type key struct {
	channel  string
	category string
}

// Registry maps (channel, category) pairs to loaded indexes. It is
// populated once during bootstrap and read-only afterwards, so lookups need
// no synchronization.
type Registry struct {
	indexes map[key]Index
}

func NewRegistry() *Registry {
	return &Registry{indexes: make(map[key]Index)}
}

// Register installs an index for a channel/category pair.
func (r *Registry) Register(channel, category string, idx Index) {
	r.indexes[key{channel, category}] = idx
}

// Lookup returns the index for a channel/category pair. A missing style
// index is a normal condition the retriever handles; a missing situation
// index is a bootstrap bug.
func (r *Registry) Lookup(channel, category string) (Index, bool) {
	idx, ok := r.indexes[key{channel, category}]
	return idx, ok
}
