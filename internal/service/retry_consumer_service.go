package service

import (
	"context"
	"encoding/json"
	"time"

	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/internal/repository/contract"
	"product-advisor-be/pkg/analytics"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IRetryConsumerService interface {
	Consume(ctx context.Context) error
}

// retryConsumerService drains the in-process retry queue of analytics
// events that could not reach the durable store on their first attempt.
// Append is idempotent on (session_id, seq), so a redelivered event is
// harmless.
type retryConsumerService struct {
	pubSub *gochannel.GoChannel
	events contract.AdvisorEventRepository
	log    logger.ILogger
}

func NewRetryConsumerService(
	pubSub *gochannel.GoChannel,
	events contract.AdvisorEventRepository,
	log logger.ILogger,
) IRetryConsumerService {
	return &retryConsumerService{
		pubSub: pubSub,
		events: events,
		log:    log,
	}
}

func (s *retryConsumerService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, analytics.RetryTopic)
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

func (s *retryConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var wire analytics.WireEvent
	if err := json.Unmarshal(msg.Payload, &wire); err != nil {
		s.log.Error("retry_consumer", "failed to unmarshal retry event, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads would loop forever
		return
	}

	event, err := wireToEntity(wire)
	if err != nil {
		s.log.Error("retry_consumer", "invalid retry event, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if err := s.events.Append(ctx, event); err != nil {
		s.log.Warn("retry_consumer", "store still unavailable, will retry", map[string]interface{}{
			"session_id": wire.SessionID,
			"seq":        wire.Seq,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	s.log.Info("retry_consumer", "event flushed to store", map[string]interface{}{
		"session_id": wire.SessionID,
		"seq":        wire.Seq,
		"event_type": wire.EventType,
	})
	msg.Ack()
}

func wireToEntity(wire analytics.WireEvent) (*entity.AdvisorEvent, error) {
	sessionID, err := wire.ParseSessionID()
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, wire.Timestamp)
	if err != nil {
		createdAt = time.Now().UTC()
	}

	return &entity.AdvisorEvent{
		Id:        uuid.New(),
		SessionId: sessionID,
		Seq:       wire.Seq,
		EventType: wire.EventType,
		Data:      wire.Data,
		CreatedAt: createdAt,
	}, nil
}
