package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/repository/specification"
	"product-advisor-be/pkg/analytics"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events []*entity.AdvisorEvent
}

func (r *fakeEventRepo) Append(_ context.Context, event *entity.AdvisorEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.events {
		if existing.SessionId == event.SessionId && existing.Seq == event.Seq {
			return nil
		}
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) ReadPage(context.Context, uuid.UUID, int64, int) ([]*entity.AdvisorEvent, error) {
	return nil, nil
}

func (r *fakeEventRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.AdvisorEvent, error) {
	return nil, nil
}

func (r *fakeEventRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeEventRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestRetryConsumerFlushesQueuedEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &fakeEventRepo{}
	consumer := NewRetryConsumerService(pubSub, repo, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	wire := analytics.WireEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: uuid.NewString(),
		Seq:       3,
		EventType: analytics.EventAnswerGiven,
		Data:      map[string]interface{}{"question": "terrain"},
	}
	payload, err := json.Marshal(wire)
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(analytics.RetryTopic, message.NewMessage(uuid.NewString(), payload)))

	assert.Eventually(t, func() bool { return repo.len() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRetryConsumerDropsMalformedPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &fakeEventRepo{}
	consumer := NewRetryConsumerService(pubSub, repo, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, pubSub.Publish(analytics.RetryTopic, message.NewMessage(uuid.NewString(), []byte("not json"))))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, repo.len(), "malformed payloads are acked and dropped")
}
