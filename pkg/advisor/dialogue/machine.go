package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"product-advisor-be/internal/constant"
	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/pkg/advisor"
	"product-advisor-be/pkg/advisor/answers"
	"product-advisor-be/pkg/advisor/compose"
	"product-advisor-be/pkg/advisor/ranking"
	"product-advisor-be/pkg/advisor/response"
	"product-advisor-be/pkg/analytics"
	"product-advisor-be/pkg/catalog"
	"product-advisor-be/pkg/embedding"
	"product-advisor-be/pkg/intent"
	"product-advisor-be/pkg/store"
)

// IntentClassifier labels the opening user message. Implementations may
// fail; the machine degrades to the exploration fallback when they do.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (*intent.Result, error)
}

// Result is the outcome of one dialogue turn.
type Result struct {
	State          string
	Message        string
	Recommendation *entity.Recommendation
}

// Config carries the dialogue tunables.
type Config struct {
	// QuestionOrder lists question keys in the priority they are asked.
	QuestionOrder []string
	// DominanceThreshold is the similarity margin above which the top
	// candidate short-circuits the remaining questions.
	DominanceThreshold float64
	// TopK caps the retrieval shortlist.
	TopK int
}

func DefaultConfig() Config {
	return Config{
		QuestionOrder: []string{
			constant.QuestionTerrain,
			constant.QuestionLight,
			constant.QuestionPriority,
		},
		DominanceThreshold: 0.9,
		TopK:               5,
	}
}

// Machine drives a session through the advisory dialogue. It owns no
// session storage: the caller loads the session, holds its lock for the
// duration of the turn, and persists the mutated session afterwards.
type Machine struct {
	index      catalog.Index
	engine     *ranking.Engine
	composer   *compose.Composer
	classifier IntentClassifier
	embedder   embedding.Provider
	pipeline   *analytics.Pipeline
	responses  *response.Generator
	cfg        Config
	log        logger.ILogger
}

func NewMachine(
	index catalog.Index,
	engine *ranking.Engine,
	composer *compose.Composer,
	classifier IntentClassifier,
	embedder embedding.Provider,
	pipeline *analytics.Pipeline,
	responses *response.Generator,
	cfg Config,
	log logger.ILogger,
) *Machine {
	if len(cfg.QuestionOrder) == 0 {
		cfg = DefaultConfig()
	}
	return &Machine{
		index:      index,
		engine:     engine,
		composer:   composer,
		classifier: classifier,
		embedder:   embedder,
		pipeline:   pipeline,
		responses:  responses,
		cfg:        cfg,
		log:        log,
	}
}

// ReceiveInput advances the dialogue with one user message. The caller
// must hold the session's lock.
func (m *Machine) ReceiveInput(ctx context.Context, session *store.Session, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, advisor.ErrEmptyInput
	}
	if session.Terminal {
		return nil, advisor.ErrSessionEnded
	}

	switch session.State {
	case store.StateStart:
		return m.handleStart(ctx, session, text)
	case store.StateQuestioning, store.StateExcluding:
		return m.handleAnswer(ctx, session, text)
	case store.StateRecommending:
		return m.handleClose(ctx, session)
	default:
		return nil, fmt.Errorf("session %s in unexpected state %s", session.ID, session.State)
	}
}

// ForceEnd terminates the session without user input, emitting a
// session_end with the given reason. Used by the idle-timeout eviction.
func (m *Machine) ForceEnd(ctx context.Context, session *store.Session, reason string) error {
	if session.Terminal {
		return nil
	}
	if err := m.emit(ctx, session, analytics.EventSessionEnd, map[string]interface{}{
		"reason": reason,
	}); err != nil {
		return err
	}
	session.State = store.StateEnded
	session.Terminal = true
	return nil
}

func (m *Machine) handleStart(ctx context.Context, session *store.Session, text string) (*Result, error) {
	if err := m.emit(ctx, session, analytics.EventSessionStart, map[string]interface{}{
		"locale":  session.Locale,
		"channel": session.Channel,
	}); err != nil {
		return nil, err
	}
	if err := m.emit(ctx, session, analytics.EventQueryIniziale, map[string]interface{}{
		"text": text,
	}); err != nil {
		return nil, err
	}
	session.Query = text

	label, confidence := m.classify(ctx, session, text)
	session.Constraints.SetIntent(label, confidence)
	if err := m.emit(ctx, session, analytics.EventIntentDetected, map[string]interface{}{
		"intent":     label,
		"confidence": confidence,
	}); err != nil {
		return nil, err
	}
	session.State = store.StateIntentDetected

	m.embed(ctx, session, text)

	// A clearly dominant match skips the question loop entirely.
	candidates, err := m.search(session)
	if err != nil {
		return nil, err
	}
	if ranking.Dominant(candidates, m.cfg.DominanceThreshold) {
		return m.recommend(ctx, session, candidates)
	}

	return m.askNext(ctx, session, true)
}

func (m *Machine) handleAnswer(ctx context.Context, session *store.Session, text string) (*Result, error) {
	if value, ok := answers.DetectExclusion(text); ok {
		return m.handleExclusion(ctx, session, value)
	}
	session.State = store.StateQuestioning

	key := session.PendingQuestion
	value := answers.Normalize(key, text)
	if value == "" {
		// The reply may target an earlier question instead of the
		// pending one; a recognized re-answer is a correction.
		key, value = m.matchOtherQuestion(session, text)
	}
	if value == "" {
		return m.repeatQuestion(ctx, session)
	}

	previous, corrected := session.Constraints.Answer(key, value)
	data := map[string]interface{}{
		"question": key,
		"value":    value,
	}
	if corrected {
		data["corrected"] = true
		data["previous"] = previous
	}
	if err := m.emit(ctx, session, analytics.EventAnswerGiven, data); err != nil {
		return nil, err
	}

	candidates, err := m.search(session)
	if err != nil {
		return nil, err
	}
	if ranking.Dominant(candidates, m.cfg.DominanceThreshold) {
		return m.recommend(ctx, session, candidates)
	}
	if m.nextQuestion(session) == "" {
		return m.recommend(ctx, session, candidates)
	}

	return m.askNext(ctx, session, false)
}

func (m *Machine) handleExclusion(ctx context.Context, session *store.Session, value string) (*Result, error) {
	if session.Constraints.Exclude(value) {
		if err := m.emit(ctx, session, analytics.EventOptionExcluded, map[string]interface{}{
			"value": value,
		}); err != nil {
			return nil, err
		}
	}
	session.State = store.StateExcluding

	return &Result{
		State:   session.State,
		Message: m.responses.ExclusionAck(session.ID, session.PendingQuestion),
	}, nil
}

func (m *Machine) handleClose(ctx context.Context, session *store.Session) (*Result, error) {
	if err := m.emit(ctx, session, analytics.EventSessionEnd, map[string]interface{}{
		"reason": "completed",
	}); err != nil {
		return nil, err
	}
	session.State = store.StateEnded
	session.Terminal = true

	return &Result{
		State:   session.State,
		Message: m.responses.End(session.ID),
	}, nil
}

func (m *Machine) askNext(ctx context.Context, session *store.Session, first bool) (*Result, error) {
	key := m.nextQuestion(session)
	if key == "" {
		candidates, err := m.search(session)
		if err != nil {
			return nil, err
		}
		return m.recommend(ctx, session, candidates)
	}

	session.PendingQuestion = key
	session.State = store.StateQuestioning
	if err := m.emit(ctx, session, analytics.EventQuestionAsked, map[string]interface{}{
		"question": key,
	}); err != nil {
		return nil, err
	}

	return &Result{
		State:   session.State,
		Message: m.responses.Question(session.ID, session.Constraints.Intent().Label, key, first),
	}, nil
}

// repeatQuestion re-asks the pending question for an unrecognized
// reply. No event is emitted: the turn changed nothing.
func (m *Machine) repeatQuestion(_ context.Context, session *store.Session) (*Result, error) {
	return &Result{
		State:   session.State,
		Message: m.responses.Question(session.ID, session.Constraints.Intent().Label, session.PendingQuestion, false),
	}, nil
}

func (m *Machine) recommend(ctx context.Context, session *store.Session, candidates []ranking.Candidate) (*Result, error) {
	snapshot := m.index.Snapshot()

	// An opening embed that failed is retried once before the final
	// pick; if it fails again the attribute-only shortlist stands.
	if session.QueryVector == nil && session.Query != "" && m.embedder != nil {
		if vector, err := m.embedder.Generate(ctx, session.Query); err == nil {
			session.QueryVector = vector
			if refreshed, err := m.search(session); err == nil {
				candidates = refreshed
			} else {
				session.QueryVector = nil
			}
		}
	}

	rec, err := m.composer.Compose(snapshot, candidates, session.Constraints)
	if err != nil {
		// Every product fell to the exclusion filter; nothing left to
		// recommend, so close the session honestly.
		if err == advisor.ErrNoCandidates {
			return m.endEmpty(ctx, session)
		}
		return nil, err
	}

	session.Recommendation = rec
	session.PendingQuestion = ""
	session.State = store.StateRecommending

	data := map[string]interface{}{
		"primary_id": rec.PrimaryID,
		"intent":     rec.Rationale.IntentLabel,
		"similarity": rec.Rationale.Similarity,
		"composite":  rec.Rationale.Composite,
	}
	if rec.AlternativeID != nil {
		data["alternative_id"] = *rec.AlternativeID
	}
	if err := m.emit(ctx, session, analytics.EventRecommendationShown, data); err != nil {
		return nil, err
	}

	return &Result{
		State:          session.State,
		Message:        m.responses.Recommendation(ctx, session.ID, snapshot, rec),
		Recommendation: rec,
	}, nil
}

func (m *Machine) endEmpty(ctx context.Context, session *store.Session) (*Result, error) {
	if err := m.emit(ctx, session, analytics.EventSessionEnd, map[string]interface{}{
		"reason": "no_candidates",
	}); err != nil {
		return nil, err
	}
	session.State = store.StateEnded
	session.Terminal = true

	return &Result{
		State:   session.State,
		Message: "I'm afraid nothing in the catalog fits once those options are excluded. Maybe loosen one constraint and try again.",
	}, nil
}

func (m *Machine) classify(ctx context.Context, session *store.Session, text string) (string, float64) {
	if m.classifier == nil {
		m.degrade(ctx, session, "intent_classifier", "no classifier configured")
		return constant.IntentExploration, 0
	}

	result, err := m.classifier.Classify(ctx, text)
	if err != nil {
		m.degrade(ctx, session, "intent_classifier", err.Error())
		return constant.IntentExploration, 0
	}
	return result.Label, float64(result.Confidence)
}

func (m *Machine) embed(ctx context.Context, session *store.Session, text string) {
	if m.embedder == nil {
		m.degrade(ctx, session, "embedding", "no embedding provider configured")
		return
	}

	vector, err := m.embedder.Generate(ctx, text)
	if err != nil {
		m.degrade(ctx, session, "embedding", err.Error())
		return
	}
	session.QueryVector = vector
}

// degrade marks the session and records the capability loss. The event
// emit is itself best-effort here: a degraded turn must still proceed.
func (m *Machine) degrade(ctx context.Context, session *store.Session, capability, detail string) {
	session.Degraded = true
	m.log.Warn("dialogue", "capability degraded", map[string]interface{}{
		"session_id": session.ID,
		"capability": capability,
		"error":      detail,
	})
	if err := m.emit(ctx, session, analytics.EventCapabilityDegraded, map[string]interface{}{
		"capability": capability,
	}); err != nil {
		m.log.Error("dialogue", "failed to record degraded capability", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}
}

func (m *Machine) search(session *store.Session) ([]ranking.Candidate, error) {
	return m.engine.Search(
		m.index.Snapshot(),
		session.QueryVector,
		session.Constraints.Pairs(),
		session.Constraints.ExclusionSet(),
		m.cfg.TopK,
	)
}

func (m *Machine) nextQuestion(session *store.Session) string {
	for _, key := range m.cfg.QuestionOrder {
		if !session.Constraints.Answered(key) {
			return key
		}
	}
	return ""
}

// matchOtherQuestion tries the reply against every question except the
// pending one. Only the first match counts.
func (m *Machine) matchOtherQuestion(session *store.Session, text string) (string, string) {
	for _, key := range m.cfg.QuestionOrder {
		if key == session.PendingQuestion {
			continue
		}
		if value := answers.Normalize(key, text); value != "" {
			return key, value
		}
	}
	return "", ""
}

func (m *Machine) emit(ctx context.Context, session *store.Session, eventType string, data map[string]interface{}) error {
	sessionID, err := uuid.Parse(session.ID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", session.ID, err)
	}
	return m.pipeline.Emit(ctx, sessionID, session.NextSeq(), eventType, data)
}
