package service

import (
	"context"
	"strings"

	"product-advisor-be/internal/dto"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/internal/repository/contract"
	"product-advisor-be/pkg/advisor"
	"product-advisor-be/pkg/advisor/dialogue"
	"product-advisor-be/pkg/advisor/session"
	"product-advisor-be/pkg/analytics"
	"product-advisor-be/pkg/store"

	"github.com/google/uuid"
)

type IAdvisorService interface {
	Advise(ctx context.Context, req *dto.AdviseRequest) (*dto.AdviseResponse, error)
	SessionEvents(ctx context.Context, sessionID string) (*dto.SessionEventsResponse, error)
}

type advisorService struct {
	sessions contract.SessionRepository
	registry *session.Registry
	machine  *dialogue.Machine
	pipeline *analytics.Pipeline
	log      logger.ILogger
}

func NewAdvisorService(
	sessions contract.SessionRepository,
	registry *session.Registry,
	machine *dialogue.Machine,
	pipeline *analytics.Pipeline,
	log logger.ILogger,
) IAdvisorService {
	return &advisorService{
		sessions: sessions,
		registry: registry,
		machine:  machine,
		pipeline: pipeline,
		log:      log,
	}
}

// Advise runs one dialogue turn. The session lock is held for the whole
// turn; a second concurrent request on the same session gets a busy
// error instead of queueing.
func (s *advisorService) Advise(ctx context.Context, req *dto.AdviseRequest) (*dto.AdviseResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, advisor.ErrEmptyInput
	}

	sessionID := req.SessionId
	isNew := sessionID == ""
	if isNew {
		sessionID = uuid.NewString()
	}

	if err := s.registry.Acquire(sessionID); err != nil {
		return nil, err
	}
	defer s.registry.Release(sessionID)

	var sess *store.Session
	if isNew {
		sess = store.NewSession(sessionID, defaultString(req.Locale, "en"), defaultString(req.Channel, "web"))
	} else {
		loaded, found, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, advisor.ErrSessionNotFound
		}
		sess = loaded
	}

	result, err := s.machine.ReceiveInput(ctx, sess, text)
	if err != nil {
		return nil, err
	}

	// Terminal sessions leave the live store; their event log remains
	// readable through the replay endpoint.
	if sess.Terminal {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.log.Warn("advisor_service", "failed to delete ended session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	} else {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
	}

	return &dto.AdviseResponse{
		SessionId:      sessionID,
		State:          result.State,
		MessageToUser:  result.Message,
		Degraded:       sess.Degraded,
		Recommendation: toRecommendationDTO(result),
	}, nil
}

func (s *advisorService) SessionEvents(ctx context.Context, sessionID string) (*dto.SessionEventsResponse, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, advisor.ErrSessionNotFound
	}

	events, err := s.pipeline.ReadSession(id).All(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, advisor.ErrSessionNotFound
	}

	dtos := make([]dto.SessionEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = dto.SessionEventDTO{
			Seq:       ev.Seq,
			EventType: ev.EventType,
			Data:      ev.Data,
			CreatedAt: ev.CreatedAt,
		}
	}

	return &dto.SessionEventsResponse{
		SessionId: sessionID,
		Events:    dtos,
	}, nil
}

func toRecommendationDTO(result *dialogue.Result) *dto.RecommendationDTO {
	rec := result.Recommendation
	if rec == nil {
		return nil
	}

	constraints := make([]dto.ConstraintDTO, len(rec.Rationale.MatchedConstraints))
	for i, p := range rec.Rationale.MatchedConstraints {
		constraints[i] = dto.ConstraintDTO{Question: p.Key, Value: p.Value}
	}

	return &dto.RecommendationDTO{
		PrimaryId:     rec.PrimaryID,
		AlternativeId: rec.AlternativeID,
		Rationale: dto.RationaleDTO{
			Intent:             rec.Rationale.IntentLabel,
			MatchedConstraints: constraints,
			Exclusions:         rec.Rationale.Exclusions,
			Similarity:         rec.Rationale.Similarity,
			Composite:          rec.Rationale.Composite,
		},
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
