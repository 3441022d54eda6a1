package service

import (
	"context"

	"ai-stylist-be/internal/dto"
	"ai-stylist-be/internal/pkg/logger"
	"ai-stylist-be/pkg/events"
	"ai-stylist-be/pkg/reco"
	"ai-stylist-be/pkg/reco/constraint"
	"ai-stylist-be/pkg/reco/session"
)

type IRecommendService interface {
	Next(ctx context.Context, sessionId string) (*reco.Recommendation, error)
	Feedback(ctx context.Context, req *dto.FeedbackRequest) error
	Select(ctx context.Context, req *dto.SelectRequest) (*session.SelectionResult, error)
	Final(ctx context.Context, sessionId string) (*session.FinalResult, error)
}

type recommendService struct {
	manager *session.Manager
	engine  *session.Engine
	bus     *events.Bus
	logger  logger.ILogger
}

func NewRecommendService(manager *session.Manager, engine *session.Engine, bus *events.Bus, log logger.ILogger) IRecommendService {
	return &recommendService{manager: manager, engine: engine, bus: bus, logger: log}
}

func (s *recommendService) Next(ctx context.Context, sessionId string) (*reco.Recommendation, error) {
	sess, err := s.manager.Get(sessionId)
	if err != nil {
		return nil, err
	}

	rec, err := s.engine.NextRecommendation(ctx, sess)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recommend", "round served", map[string]interface{}{
		"session_id": sessionId,
		"category":   rec.Category,
		"count":      len(rec.Candidates),
		"recovered":  rec.Recovered,
	})
	s.publish(events.NewRecommendationServed(sessionId, rec.Category, len(rec.Candidates), rec.Recovered))
	return rec, nil
}

func (s *recommendService) Feedback(_ context.Context, req *dto.FeedbackRequest) error {
	sess, err := s.manager.Get(req.SessionId)
	if err != nil {
		return err
	}

	intent := constraint.Intent(req.Intent)
	if err := s.engine.ApplyFeedback(sess, req.Category, intent, req.Values); err != nil {
		return err
	}

	s.publish(events.NewFeedbackApplied(req.SessionId, req.Category, req.Intent, req.Values))
	return nil
}

func (s *recommendService) Select(_ context.Context, req *dto.SelectRequest) (*session.SelectionResult, error) {
	sess, err := s.manager.Get(req.SessionId)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Select(sess, req.ProductId)
	if err != nil {
		return nil, err
	}

	s.publish(events.NewItemSelected(req.SessionId, result.SelectedCategory, req.ProductId))
	if result.Complete {
		snap := sess.Snapshot()
		s.logger.Info("recommend", "session completed", map[string]interface{}{
			"session_id": req.SessionId,
			"selections": snap.SelectedCount,
		})
		s.publish(events.NewSessionCompleted(req.SessionId, snap.SelectedCount))
	}
	return result, nil
}

func (s *recommendService) Final(_ context.Context, sessionId string) (*session.FinalResult, error) {
	sess, err := s.manager.Get(sessionId)
	if err != nil {
		return nil, err
	}
	return s.engine.FinalSelections(sess)
}

func (s *recommendService) publish(event events.Event) {
	if err := s.bus.Publish(event); err != nil {
		s.logger.Warn("recommend", "event publish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
