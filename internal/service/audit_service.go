package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-consultant-bot/internal/dto"
	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/pkg/logger"
	"ai-consultant-bot/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const AuditTopic = "message_log"

// IAuditService writes the Q&A message log off the request path.
// Failures are logged and never reach the user.
type IAuditService interface {
	Record(ctx context.Context, username, text string, direction entity.Direction)
	Consume(ctx context.Context) error
}

type auditService struct {
	pubSub     *gochannel.GoChannel
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAuditService(pubSub *gochannel.GoChannel, uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IAuditService {
	return &auditService{
		pubSub:     pubSub,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (s *auditService) Record(ctx context.Context, username, text string, direction entity.Direction) {
	payload, err := json.Marshal(dto.MessageLogPayload{
		Username:   username,
		Message:    text,
		Direction:  string(direction),
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("AUDIT", "Failed to marshal log entry", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(AuditTopic, msg); err != nil {
		s.logger.Error("AUDIT", "Failed to publish log entry", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
	}
}

func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, AuditTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(ctx context.Context, msg *message.Message) {
	// Always Ack, a broken entry is never redelivered.
	defer msg.Ack()

	var payload dto.MessageLogPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("AUDIT", "Failed to unmarshal log entry", map[string]interface{}{"error": err.Error()})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.MessageLogRepository().Create(ctx, &entity.MessageLog{
		Username:  payload.Username,
		Message:   payload.Message,
		Direction: entity.Direction(payload.Direction),
		CreatedAt: payload.OccurredAt,
	})
	if err != nil {
		s.logger.Error("AUDIT", "Failed to store log entry", map[string]interface{}{
			"username":  payload.Username,
			"direction": payload.Direction,
			"error":     err.Error(),
		})
		return
	}

	s.logger.Debug("AUDIT", "Logged message", map[string]interface{}{
		"username":  payload.Username,
		"direction": payload.Direction,
	})
}
