// Package lookbook shares a completed outfit under a short-lived link.
package lookbook

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ai-stylist-be/pkg/reco"
)

// DefaultTTL is how long a shared lookbook stays resolvable.
const DefaultTTL = 7 * 24 * time.Hour

var ErrNotFound = errors.New("lookbook not found")

// Share is one published outfit.
type Share struct {
	ID         string              `json:"id"`
	Persona    string              `json:"persona"`
	RefinedTPO string              `json:"refined_tpo"`
	Selections []reco.SelectedItem `json:"selections"`
	CreatedAt  time.Time           `json:"created_at"`
	ExpiresAt  time.Time           `json:"expires_at"`
}

// NewShare mints a Share from a completed session's final result.
func NewShare(persona, refinedTPO string, selections []reco.SelectedItem, ttl time.Duration) Share {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return Share{
		ID:         uuid.NewString(),
		Persona:    persona,
		RefinedTPO: refinedTPO,
		Selections: selections,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Store persists shares until they expire.
type Store interface {
	Save(ctx context.Context, share Share) error
	Get(ctx context.Context, id string) (Share, error)
}
