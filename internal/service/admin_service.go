package service

import (
	"context"

	"ai-stylist-be/internal/dto"
	"ai-stylist-be/internal/pkg/logger"
	"ai-stylist-be/pkg/reco/session"
)

type IAdminService interface {
	ListSessions(ctx context.Context) ([]session.Snapshot, error)
	Cleanup(ctx context.Context) (*dto.CleanupResponse, error)
}

type adminService struct {
	manager *session.Manager
	logger  logger.ILogger
}

func NewAdminService(manager *session.Manager, log logger.ILogger) IAdminService {
	return &adminService{manager: manager, logger: log}
}

func (s *adminService) ListSessions(_ context.Context) ([]session.Snapshot, error) {
	return s.manager.List(), nil
}

// Cleanup forces an idle sweep outside the background schedule.
func (s *adminService) Cleanup(_ context.Context) (*dto.CleanupResponse, error) {
	evicted := s.manager.Sweep()
	remaining := s.manager.Len()
	s.logger.Info("admin", "manual cleanup", map[string]interface{}{
		"evicted":   evicted,
		"remaining": remaining,
	})
	return &dto.CleanupResponse{Evicted: evicted, Remaining: remaining}, nil
}
