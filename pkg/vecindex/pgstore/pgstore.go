// Package pgstore backs the similarity index with pgvector. Each row holds
// one product embedding tagged with its channel and category; cosine
// similarity is computed in the database.
package pgstore

import (
	"context"

	"ai-stylist-be/pkg/vecindex"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// CatalogEmbedding is the gorm model for the catalog_embeddings table.
type CatalogEmbedding struct {
	ID        uint            `gorm:"primaryKey"`
	ProductID string          `gorm:"column:product_id;index:idx_embed_slice,priority:3"`
	Channel   string          `gorm:"column:channel;index:idx_embed_slice,priority:1"`
	Category  string          `gorm:"column:category;index:idx_embed_slice,priority:2"`
	Embedding pgvector.Vector `gorm:"column:embedding;type:vector(768)"`
}

func (CatalogEmbedding) TableName() string { return "catalog_embeddings" }

// Store is a read-only view over one (channel, category) slice of the
// embeddings table.
type Store struct {
	db       *gorm.DB
	channel  string
	category string
	size     int
}

// NewStore counts the slice once at startup so Size() stays cheap; the
// table is read-only while the process runs.
func NewStore(db *gorm.DB, channel, category string) (*Store, error) {
	var count int64
	err := db.Model(&CatalogEmbedding{}).
		Where("channel = ? AND category = ?", channel, category).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	return &Store{db: db, channel: channel, category: category, size: int(count)}, nil
}

func (s *Store) Size() int { return s.size }

// Search runs cosine nearest-neighbor search in the database. pgvector's
// <=> operator is cosine distance, so similarity = 1 - distance.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vecindex.Hit, error) {
	if k <= 0 {
		return nil, nil
	}

	type row struct {
		ProductID string
		Score     float64
	}
	var rows []row

	queryVector := pgvector.NewVector(vector)
	err := s.db.WithContext(ctx).
		Model(&CatalogEmbedding{}).
		Select("product_id, 1 - (embedding <=> ?) AS score", queryVector).
		Where("channel = ? AND category = ?", s.channel, s.category).
		Order("score DESC").
		Limit(k).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hits := make([]vecindex.Hit, len(rows))
	for i, r := range rows {
		hits[i] = vecindex.Hit{ProductID: r.ProductID, Score: r.Score}
	}
	return hits, nil
}

var _ vecindex.Index = (*Store)(nil)
