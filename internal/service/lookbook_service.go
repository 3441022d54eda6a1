package service

import (
	"context"
	"fmt"
	"time"

	"ai-stylist-be/internal/dto"
	"ai-stylist-be/internal/pkg/logger"
	"ai-stylist-be/pkg/lookbook"
	"ai-stylist-be/pkg/reco/session"
)

type ILookbookService interface {
	Share(ctx context.Context, sessionId string) (*dto.ShareLookbookResponse, error)
	Get(ctx context.Context, id string) (lookbook.Share, error)
}

type lookbookService struct {
	manager *session.Manager
	engine  *session.Engine
	store   lookbook.Store
	baseURL string
	ttl     time.Duration
	logger  logger.ILogger
}

func NewLookbookService(
	manager *session.Manager,
	engine *session.Engine,
	store lookbook.Store,
	baseURL string,
	ttl time.Duration,
	log logger.ILogger,
) ILookbookService {
	return &lookbookService{
		manager: manager,
		engine:  engine,
		store:   store,
		baseURL: baseURL,
		ttl:     ttl,
		logger:  log,
	}
}

// Share publishes the completed outfit of a session under a fresh id.
func (s *lookbookService) Share(ctx context.Context, sessionId string) (*dto.ShareLookbookResponse, error) {
	sess, err := s.manager.Get(sessionId)
	if err != nil {
		return nil, err
	}
	final, err := s.engine.FinalSelections(sess)
	if err != nil {
		return nil, err
	}

	share := lookbook.NewShare(final.Persona, final.RefinedTPO, final.Selections, s.ttl)
	if err := s.store.Save(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("lookbook", "lookbook shared", map[string]interface{}{
		"session_id":  sessionId,
		"lookbook_id": share.ID,
	})
	return &dto.ShareLookbookResponse{
		Id:        share.ID,
		URL:       fmt.Sprintf("%s/api/lookbook/v1/%s", s.baseURL, share.ID),
		ExpiresAt: share.ExpiresAt,
	}, nil
}

func (s *lookbookService) Get(ctx context.Context, id string) (lookbook.Share, error) {
	return s.store.Get(ctx, id)
}
