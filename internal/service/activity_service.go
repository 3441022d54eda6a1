package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-stylist-be/internal/pkg/logger"
	"ai-stylist-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IActivityService interface {
	Consume(ctx context.Context) error
}

// activityService drains the session activity topic into the structured log.
// It is the audit trail for the recommendation walk; nothing reads it back.
type activityService struct {
	bus    *events.Bus
	logger logger.ILogger
}

func NewActivityService(bus *events.Bus, log logger.ILogger) IActivityService {
	return &activityService{bus: bus, logger: log}
}

func (s *activityService) Consume(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *activityService) processMessage(msg *message.Message) {
	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal activity event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	s.logger.Info("activity", envelope.Type, map[string]interface{}{
		"data":        envelope.Data,
		"occurred_at": envelope.OccurredAt,
	})
	msg.Ack()
}
