package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-advisor-be/internal/dto"
	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/pkg/advisor"
	"product-advisor-be/pkg/advisor/compose"
	"product-advisor-be/pkg/advisor/dialogue"
	"product-advisor-be/pkg/advisor/ranking"
	"product-advisor-be/pkg/advisor/response"
	advisorsession "product-advisor-be/pkg/advisor/session"
	"product-advisor-be/pkg/analytics"
	"product-advisor-be/pkg/catalog"
	"product-advisor-be/pkg/intent"
	"product-advisor-be/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = nopLogger{}

type memEventStore struct {
	mu     sync.Mutex
	events []*entity.AdvisorEvent
}

func (s *memEventStore) Append(_ context.Context, event *entity.AdvisorEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *memEventStore) ReadPage(_ context.Context, sessionID uuid.UUID, afterSeq int64, limit int) ([]*entity.AdvisorEvent, error) {
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

type mapSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*store.Session
}

func newMapSessionRepo() *mapSessionRepo {
	return &mapSessionRepo{sessions: make(map[string]*store.Session)}
}

func (r *mapSessionRepo) Save(_ context.Context, session *store.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *mapSessionRepo) Get(_ context.Context, sessionID string) (*store.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	return s, ok, nil
}

func (r *mapSessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(context.Context, string) (*intent.Result, error) {
	return &intent.Result{Label: "exploration", Confidence: 0.9}, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func newTestService(t *testing.T) (IAdvisorService, *mapSessionRepo, *advisorsession.Registry) {
	t.Helper()

	snapshot := catalog.NewSnapshot([]catalog.Product{
		{ID: "aw-200", Name: "Aerowing Photocrom", Embedding: []float32{1, 0},
			Attributes: map[string][]string{"terrain": {"road", "gravel"}, "light_variation": {"variable"}, "priority": {"comfort"}}},
		{ID: "gr-310", Name: "Gravelpath Vent", Embedding: []float32{1, 0},
			Attributes: map[string][]string{"terrain": {"gravel"}, "light_variation": {"variable"}, "priority": {"ventilation"}}},
	}, 2)

	pipeline := analytics.NewPipeline(&memEventStore{}, nil, nil, nopLogger{})
	machine := dialogue.NewMachine(
		catalog.NewStaticIndex(snapshot),
		ranking.NewEngine(ranking.DefaultWeights()),
		compose.NewComposer(),
		stubClassifier{},
		stubEmbedder{},
		pipeline,
		response.NewGenerator(nil, nopLogger{}),
		dialogue.DefaultConfig(),
		nopLogger{},
	)

	sessions := newMapSessionRepo()
	registry := advisorsession.NewRegistry()
	return NewAdvisorService(sessions, registry, machine, pipeline, nopLogger{}), sessions, registry
}

func TestAdviseCreatesSessionOnFirstTurn(t *testing.T) {
	svc, sessions, _ := newTestService(t)

	res, err := svc.Advise(context.Background(), &dto.AdviseRequest{Text: "I need cycling glasses"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionId)
	assert.Equal(t, store.StateQuestioning, res.State)
	assert.NotEmpty(t, res.MessageToUser)
	assert.Nil(t, res.Recommendation)

	_, found, err := sessions.Get(context.Background(), res.SessionId)
	require.NoError(t, err)
	assert.True(t, found, "the new session is persisted")
}

func TestAdviseFullConversation(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Advise(ctx, &dto.AdviseRequest{Text: "I need cycling glasses"})
	require.NoError(t, err)
	id := res.SessionId

	for _, answer := range []string{"gravel", "changes a lot", "ventilation"} {
		res, err = svc.Advise(ctx, &dto.AdviseRequest{SessionId: id, Text: answer})
		require.NoError(t, err)
	}

	assert.Equal(t, store.StateRecommending, res.State)
	require.NotNil(t, res.Recommendation)
	assert.Equal(t, "gr-310", res.Recommendation.PrimaryId)
	require.NotNil(t, res.Recommendation.AlternativeId)
	assert.Equal(t, "aw-200", *res.Recommendation.AlternativeId)
	assert.Equal(t, "exploration", res.Recommendation.Rationale.Intent)

	// Closing the conversation removes the live session.
	res, err = svc.Advise(ctx, &dto.AdviseRequest{SessionId: id, Text: "thanks"})
	require.NoError(t, err)
	assert.Equal(t, store.StateEnded, res.State)

	_, found, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found, "ended sessions leave the live store")

	// The event log survives the session for replay.
	events, err := svc.SessionEvents(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, events.Events)
	assert.Equal(t, analytics.EventSessionStart, events.Events[0].EventType)
	last := events.Events[len(events.Events)-1]
	assert.Equal(t, analytics.EventSessionEnd, last.EventType)
}

func TestAdviseBusySession(t *testing.T) {
	svc, _, registry := newTestService(t)

	res, err := svc.Advise(context.Background(), &dto.AdviseRequest{Text: "hello"})
	require.NoError(t, err)

	require.NoError(t, registry.Acquire(res.SessionId))
	defer registry.Release(res.SessionId)

	_, err = svc.Advise(context.Background(), &dto.AdviseRequest{SessionId: res.SessionId, Text: "gravel"})
	assert.ErrorIs(t, err, advisor.ErrSessionBusy)
}

func TestAdviseUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Advise(context.Background(), &dto.AdviseRequest{SessionId: uuid.NewString(), Text: "hello"})
	assert.ErrorIs(t, err, advisor.ErrSessionNotFound)
}

func TestAdviseEmptyText(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Advise(context.Background(), &dto.AdviseRequest{Text: "  "})
	assert.ErrorIs(t, err, advisor.ErrEmptyInput)
}

func TestSessionEventsUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SessionEvents(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, advisor.ErrSessionNotFound)

	_, err = svc.SessionEvents(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, advisor.ErrSessionNotFound)
}
