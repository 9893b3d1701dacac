package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/pkg/advisor"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// RetryTopic is the in-process queue for events whose durable append
// failed. The retry consumer drains it.
const RetryTopic = "ADVISOR_EVENT_RETRY"

// Store is the durable append-only event store. Append must be safe under
// concurrent calls from many sessions; de-duplication relies on the unique
// (session_id, seq) pair.
type Store interface {
	Append(ctx context.Context, event *entity.AdvisorEvent) error
	ReadPage(ctx context.Context, sessionID uuid.UUID, afterSeq int64, limit int) ([]*entity.AdvisorEvent, error)
}

// Publisher is the watermill side of the retry queue.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
}

// Mirror forwards events to an external bus, best effort. A failed mirror
// publish is logged and forgotten; durability belongs to the Store.
type Mirror interface {
	PublishEvent(ctx context.Context, event WireEvent) error
}

// Pipeline records every dialogue transition as an ordered durable event.
// Emit never fails the caller's turn: a store outage routes the event onto
// the retry queue and the user-facing response proceeds.
type Pipeline struct {
	store  Store
	queue  Publisher
	mirror Mirror
	log    logger.ILogger
}

func NewPipeline(store Store, queue Publisher, mirror Mirror, log logger.ILogger) *Pipeline {
	return &Pipeline{store: store, queue: queue, mirror: mirror, log: log}
}

// Emit appends one event. The caller supplies the per-session sequence
// number it incremented under the session lock, which keeps per-session
// ordering even though many sessions emit concurrently.
func (p *Pipeline) Emit(ctx context.Context, sessionID uuid.UUID, seq int64, eventType string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	event := &entity.AdvisorEvent{
		Id:        uuid.New(),
		SessionId: sessionID,
		Seq:       seq,
		EventType: eventType,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.log.Warn("analytics", "event append failed, queuing for retry", map[string]interface{}{
			"session_id": sessionID.String(),
			"event_type": eventType,
			"seq":        seq,
			"error":      err.Error(),
		})
		if qErr := p.enqueueRetry(event); qErr != nil {
			// Both the store and the queue failed. This is the only path
			// where an event could be lost, so it is surfaced loudly.
			p.log.Error("analytics", "event retry enqueue failed", map[string]interface{}{
				"session_id": sessionID.String(),
				"event_type": eventType,
				"error":      qErr.Error(),
			})
			return fmt.Errorf("%w: queue event for retry: %v", advisor.ErrStoreUnavailable, qErr)
		}
	}

	p.publishMirror(ctx, event)
	return nil
}

func (p *Pipeline) enqueueRetry(event *entity.AdvisorEvent) error {
	if p.queue == nil {
		return fmt.Errorf("no retry queue configured")
	}
	payload, err := json.Marshal(ToWire(event))
	if err != nil {
		return fmt.Errorf("marshal retry payload: %w", err)
	}
	msg := message.NewMessage(event.Id.String(), payload)
	return p.queue.Publish(RetryTopic, msg)
}

func (p *Pipeline) publishMirror(ctx context.Context, event *entity.AdvisorEvent) {
	if p.mirror == nil {
		return
	}
	if err := p.mirror.PublishEvent(ctx, ToWire(event)); err != nil {
		p.log.Warn("analytics", "event mirror publish failed", map[string]interface{}{
			"session_id": event.SessionId.String(),
			"event_type": event.EventType,
			"error":      err.Error(),
		})
	}
}

// ReadSession returns a lazy, restartable reader over the session's events
// in emission order. The reader is finite: it stops at the end of the
// currently durable data and never blocks waiting for future events.
func (p *Pipeline) ReadSession(sessionID uuid.UUID) *Reader {
	return NewReader(p.store, sessionID)
}
