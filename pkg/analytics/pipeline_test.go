package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/pkg/advisor"
)

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = nopLogger{}

type fakeStore struct {
	mu      sync.Mutex
	events  []*entity.AdvisorEvent
	failing bool
}

func (s *fakeStore) Append(_ context.Context, event *entity.AdvisorEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store down")
	}
	for _, existing := range s.events {
		if existing.SessionId == event.SessionId && existing.Seq == event.Seq {
			return nil // unique (session_id, seq), conflict ignored
		}
	}
	s.events = append(s.events, event)
	return nil
}

func (s *fakeStore) ReadPage(_ context.Context, sessionID uuid.UUID, afterSeq int64, limit int) ([]*entity.AdvisorEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var page []*entity.AdvisorEvent
	for _, ev := range s.events {
		if ev.SessionId == sessionID && ev.Seq > afterSeq {
			page = append(page, ev)
		}
	}
	sort.Slice(page, func(i, j int) bool { return page[i].Seq < page[j].Seq })
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[string][]*message.Message)}
}

func (p *fakePublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[topic] = append(p.messages[topic], messages...)
	return nil
}

type fakeMirror struct {
	mu      sync.Mutex
	events  []WireEvent
	failing bool
}

func (m *fakeMirror) PublishEvent(_ context.Context, event WireEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("broker down")
	}
	m.events = append(m.events, event)
	return nil
}

func TestEmitAppendsInOrder(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{}
	pipeline := NewPipeline(store, newFakePublisher(), mirror, nopLogger{})
	sessionID := uuid.New()

	require.NoError(t, pipeline.Emit(context.Background(), sessionID, 1, EventSessionStart, nil))
	require.NoError(t, pipeline.Emit(context.Background(), sessionID, 2, EventQueryIniziale, map[string]interface{}{"text": "hi"}))

	require.Len(t, store.events, 2)
	assert.Equal(t, EventSessionStart, store.events[0].EventType)
	assert.Equal(t, int64(1), store.events[0].Seq)
	assert.Equal(t, EventQueryIniziale, store.events[1].EventType)

	assert.Len(t, mirror.events, 2, "mirror sees every event")
}

func TestEmitStoreFailureQueuesForRetry(t *testing.T) {
	store := &fakeStore{failing: true}
	queue := newFakePublisher()
	pipeline := NewPipeline(store, queue, nil, nopLogger{})
	sessionID := uuid.New()

	err := pipeline.Emit(context.Background(), sessionID, 1, EventAnswerGiven, map[string]interface{}{"question": "terrain"})
	require.NoError(t, err, "a store outage must not fail the turn")

	queued := queue.messages[RetryTopic]
	require.Len(t, queued, 1)

	var wire WireEvent
	require.NoError(t, json.Unmarshal(queued[0].Payload, &wire))
	assert.Equal(t, sessionID.String(), wire.SessionID)
	assert.Equal(t, int64(1), wire.Seq)
	assert.Equal(t, EventAnswerGiven, wire.EventType)
}

func TestEmitFailsOnlyWhenStoreAndQueueFail(t *testing.T) {
	store := &fakeStore{failing: true}
	pipeline := NewPipeline(store, nil, nil, nopLogger{})

	err := pipeline.Emit(context.Background(), uuid.New(), 1, EventSessionStart, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, advisor.ErrStoreUnavailable)
}

func TestEmitMirrorFailureIsBestEffort(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{failing: true}
	pipeline := NewPipeline(store, newFakePublisher(), mirror, nopLogger{})

	err := pipeline.Emit(context.Background(), uuid.New(), 1, EventSessionStart, nil)
	require.NoError(t, err)
	assert.Len(t, store.events, 1, "event is durable even when the mirror is down")
}

func TestReaderPagesThroughSession(t *testing.T) {
	store := &fakeStore{}
	pipeline := NewPipeline(store, nil, nil, nopLogger{})
	sessionID := uuid.New()
	otherSession := uuid.New()

	const total = 150 // more than two pages
	for i := 1; i <= total; i++ {
		require.NoError(t, pipeline.Emit(context.Background(), sessionID, int64(i), EventAnswerGiven, map[string]interface{}{"n": i}))
	}
	require.NoError(t, pipeline.Emit(context.Background(), otherSession, 1, EventSessionStart, nil))

	events, err := pipeline.ReadSession(sessionID).All(context.Background())
	require.NoError(t, err)
	require.Len(t, events, total)
	for i, ev := range events {
		assert.Equal(t, int64(i+1), ev.Seq, "events arrive in emission order")
	}
}

func TestReaderCollapsesDuplicateDeliveries(t *testing.T) {
	store := &fakeStore{}
	sessionID := uuid.New()
	// Inject duplicate rows directly, as an at-least-once flush would.
	for _, seq := range []int64{1, 1, 2, 2, 3} {
		store.events = append(store.events, &entity.AdvisorEvent{
			Id:        uuid.New(),
			SessionId: sessionID,
			Seq:       seq,
			EventType: EventAnswerGiven,
		})
	}

	events, err := NewReader(store, sessionID).All(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, int64(i+1), ev.Seq)
	}
}

func TestReaderIsRestartable(t *testing.T) {
	store := &fakeStore{}
	pipeline := NewPipeline(store, nil, nil, nopLogger{})
	sessionID := uuid.New()
	for i := 1; i <= 5; i++ {
		require.NoError(t, pipeline.Emit(context.Background(), sessionID, int64(i), EventAnswerGiven, nil))
	}

	first, err := pipeline.ReadSession(sessionID).All(context.Background())
	require.NoError(t, err)
	second, err := pipeline.ReadSession(sessionID).All(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReaderEmptySession(t *testing.T) {
	store := &fakeStore{}
	events, err := NewReader(store, uuid.New()).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAppendIsIdempotentPerSessionSeq(t *testing.T) {
	store := &fakeStore{}
	sessionID := uuid.New()
	ev := &entity.AdvisorEvent{Id: uuid.New(), SessionId: sessionID, Seq: 1, EventType: EventSessionStart}

	require.NoError(t, store.Append(context.Background(), ev))
	require.NoError(t, store.Append(context.Background(), ev))
	assert.Len(t, store.events, 1)
}

func TestToWireRoundTrip(t *testing.T) {
	ev := &entity.AdvisorEvent{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Seq:       7,
		EventType: EventRecommendationShown,
		Data:      map[string]interface{}{"primary_id": "aw-200"},
	}

	wire := ToWire(ev)
	assert.Equal(t, ev.SessionId.String(), wire.SessionID)
	assert.Equal(t, fmt.Sprintf("%d", ev.Seq), fmt.Sprintf("%d", wire.Seq))

	parsed, err := wire.ParseSessionID()
	require.NoError(t, err)
	assert.Equal(t, ev.SessionId, parsed)
}
