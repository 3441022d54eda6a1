// Package memory is a brute-force in-process vector index. It assumes
// L2-normalized vectors, so the dot product is the cosine similarity.
package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"ai-stylist-be/pkg/vecindex"
)

// Store is an immutable-after-load vector index. Add is only called during
// bootstrap, so Search needs no locking.
type Store struct {
	dimension int
	ids       []string
	vectors   [][]float32
}

func NewStore() *Store { return &Store{} }

// Add appends one product vector. The first vector fixes the dimension.
func (s *Store) Add(productID string, vector []float32) error {
	if productID == "" {
		return errors.New("empty product id")
	}
	if s.dimension == 0 {
		s.dimension = len(vector)
	}
	if len(vector) != s.dimension {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vector), s.dimension)
	}
	s.ids = append(s.ids, productID)
	s.vectors = append(s.vectors, vector)
	return nil
}

func (s *Store) Size() int { return len(s.ids) }

// Search scores every stored vector against the query and returns the top k
// by similarity, descending. Ties keep insertion order.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vecindex.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || len(s.ids) == 0 {
		return nil, nil
	}

	hits := make([]vecindex.Hit, len(s.ids))
	for i := range s.vectors {
		hits[i] = vecindex.Hit{ProductID: s.ids[i], Score: dot(s.vectors[i], vector)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

var _ vecindex.Index = (*Store)(nil)

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

type vectorRecord struct {
	ProductID string    `json:"product_id"`
	Vector    []float32 `json:"vector"`
}

// LoadJSONL builds a store from a vectors.jsonl file of
// {"product_id": ..., "vector": [...]} lines.
func LoadJSONL(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	store := NewStore()
	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec vectorRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := store.Add(rec.ProductID, rec.Vector); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return store, nil
}
