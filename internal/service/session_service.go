package service

import (
	"context"

	"ai-stylist-be/internal/dto"
	"ai-stylist-be/internal/pkg/logger"
	"ai-stylist-be/pkg/events"
	"ai-stylist-be/pkg/reco/constraint"
	"ai-stylist-be/pkg/reco/session"
)

type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	Delete(ctx context.Context, sessionId string) error
	Reset(ctx context.Context, sessionId string) (session.Snapshot, error)
	Status(ctx context.Context, sessionId string) (session.Snapshot, error)
	SetPersona(ctx context.Context, req *dto.SetPersonaRequest) (session.Snapshot, error)
	SetTPO(ctx context.Context, req *dto.SetTPORequest) (session.Snapshot, error)
	SetNegatives(ctx context.Context, req *dto.SetNegativesRequest) (session.Snapshot, error)
}

type sessionService struct {
	manager *session.Manager
	engine  *session.Engine
	bus     *events.Bus
	logger  logger.ILogger
}

func NewSessionService(manager *session.Manager, engine *session.Engine, bus *events.Bus, log logger.ILogger) ISessionService {
	return &sessionService{manager: manager, engine: engine, bus: bus, logger: log}
}

func (s *sessionService) Create(_ context.Context) (*dto.CreateSessionResponse, error) {
	sess, err := s.manager.Create()
	if err != nil {
		return nil, err
	}

	s.logger.Info("session", "session created", map[string]interface{}{"session_id": sess.ID})
	s.publish(events.NewSessionCreated(sess.ID))
	return &dto.CreateSessionResponse{SessionId: sess.ID}, nil
}

func (s *sessionService) Delete(_ context.Context, sessionId string) error {
	if err := s.manager.Delete(sessionId); err != nil {
		return err
	}
	s.logger.Info("session", "session deleted", map[string]interface{}{"session_id": sessionId})
	s.publish(events.NewSessionDeleted(sessionId))
	return nil
}

func (s *sessionService) Reset(_ context.Context, sessionId string) (session.Snapshot, error) {
	sess, err := s.manager.Get(sessionId)
	if err != nil {
		return session.Snapshot{}, err
	}
	s.engine.Reset(sess)
	s.logger.Info("session", "session reset", map[string]interface{}{"session_id": sessionId})
	return sess.Snapshot(), nil
}

func (s *sessionService) Status(_ context.Context, sessionId string) (session.Snapshot, error) {
	sess, err := s.manager.Get(sessionId)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *sessionService) SetPersona(_ context.Context, req *dto.SetPersonaRequest) (session.Snapshot, error) {
	sess, err := s.manager.Get(req.SessionId)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := s.engine.SetPersona(sess, req.Persona); err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *sessionService) SetTPO(ctx context.Context, req *dto.SetTPORequest) (session.Snapshot, error) {
	sess, err := s.manager.Get(req.SessionId)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := s.engine.SetTPO(ctx, sess, req.TPO); err != nil {
		return session.Snapshot{}, err
	}

	snap := sess.Snapshot()
	s.logger.Info("session", "situation set", map[string]interface{}{
		"session_id": req.SessionId,
		"keywords":   snap.Keywords,
		"conflict":   snap.Conflict,
	})
	s.publish(events.NewSituationSet(req.SessionId, snap.Keywords, snap.Conflict))
	return snap, nil
}

func (s *sessionService) SetNegatives(_ context.Context, req *dto.SetNegativesRequest) (session.Snapshot, error) {
	sess, err := s.manager.Get(req.SessionId)
	if err != nil {
		return session.Snapshot{}, err
	}

	filter := constraint.NewNegativeFilter(req.DislikedFit, req.DislikedPattern, req.PriceCeiling)
	if err := s.engine.SetNegatives(sess, filter); err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *sessionService) publish(event events.Event) {
	if err := s.bus.Publish(event); err != nil {
		s.logger.Warn("session", "event publish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
