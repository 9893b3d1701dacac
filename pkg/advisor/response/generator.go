package response

import (
	"context"
	"fmt"
	"strings"

	"product-advisor-be/internal/constant"
	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/pkg/logger"
	"product-advisor-be/pkg/advisor/constraint"
	"product-advisor-be/pkg/catalog"
	"product-advisor-be/pkg/llm"
)

// Generator renders user-facing messages from template pools. The
// variant used for a session is derived from the session id, so a
// session reads consistently across turns while two sessions with the
// same answers do not produce byte-identical transcripts.
//
// An LLM provider is optional. When present it is used to polish the
// recommendation message only; any provider failure falls back to the
// template rendering so the turn never depends on the model.
type Generator struct {
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		log:         log,
	}
}

// Question renders the next question to ask. The intent opener is
// prepended only on the first question of a session.
func (g *Generator) Question(sessionID string, intentLabel string, questionKey string, first bool) string {
	seed := seedFor(sessionID)

	text, ok := constant.QuestionTexts[questionKey]
	if !ok {
		text = questionKey
	}

	var sb strings.Builder
	if first {
		pool, ok := intentOpeners[intentLabel]
		if !ok {
			pool = intentOpeners["exploration"]
		}
		sb.WriteString(pick(pool, seed))
		sb.WriteString(" ")
	}
	sb.WriteString(text)
	sb.WriteString(pick(questionClosers, seed))

	return sb.String()
}

// ExclusionAck acknowledges a dislike before re-asking the pending
// question.
func (g *Generator) ExclusionAck(sessionID string, pending string) string {
	seed := seedFor(sessionID)
	ack := pick(exclusionAcks, seed)
	if pending == "" {
		return ack
	}
	text, ok := constant.QuestionTexts[pending]
	if !ok {
		text = pending
	}
	return ack + " " + text
}

// Recommendation renders the final pick with its rationale. When an
// LLM provider is configured the templated message is rewritten for
// tone; on any failure the template stands.
func (g *Generator) Recommendation(ctx context.Context, sessionID string, snapshot *catalog.Snapshot, rec *entity.Recommendation) string {
	templated := g.renderRecommendation(sessionID, snapshot, rec)

	if g.llmProvider == nil {
		return templated
	}

	polished, err := g.polish(ctx, templated)
	if err != nil {
		g.log.Warn("response", "recommendation polish failed, using template", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return templated
	}
	return polished
}

// End renders the closing message.
func (g *Generator) End(sessionID string) string {
	return pick(endMessages, seedFor(sessionID))
}

func (g *Generator) renderRecommendation(sessionID string, snapshot *catalog.Snapshot, rec *entity.Recommendation) string {
	seed := seedFor(sessionID)

	var sb strings.Builder
	sb.WriteString(pick(recommendationOpeners, seed))
	sb.WriteString(" ")
	sb.WriteString(productName(snapshot, rec.PrimaryID))
	sb.WriteString(".")

	if reasons := describeConstraints(rec.Rationale.MatchedConstraints); reasons != "" {
		sb.WriteString(" It fits your ")
		sb.WriteString(reasons)
		sb.WriteString(".")
	}

	if rec.AlternativeID != nil {
		sb.WriteString(" ")
		sb.WriteString(pick(alternativeLeads, seed))
		sb.WriteString(" ")
		sb.WriteString(productName(snapshot, *rec.AlternativeID))
		sb.WriteString(".")
	}

	return sb.String()
}

func (g *Generator) polish(ctx context.Context, templated string) (string, error) {
	prompt := "You are a friendly cycling-eyewear sales assistant. Rewrite the following recommendation in a warm, concise tone. Keep every product name exactly as written. Do not add products or claims.\n\n" + templated

	polished, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.4))
	if err != nil {
		return "", err
	}

	polished = strings.TrimSpace(polished)
	if polished == "" {
		return "", fmt.Errorf("empty polish response")
	}
	return polished, nil
}

func productName(snapshot *catalog.Snapshot, id string) string {
	if snapshot != nil {
		if p, ok := snapshot.Get(id); ok {
			return p.Name
		}
	}
	return id
}

func describeConstraints(pairs []constraint.Pair) string {
	labels := make([]string, 0, len(pairs))
	for _, p := range pairs {
		switch p.Key {
		case constant.QuestionTerrain:
			labels = append(labels, p.Value+" riding")
		case constant.QuestionLight:
			if p.Value == "variable" {
				labels = append(labels, "changing light conditions")
			} else {
				labels = append(labels, "stable light conditions")
			}
		case constant.QuestionPriority:
			labels = append(labels, "focus on "+p.Value)
		default:
			labels = append(labels, p.Value)
		}
	}

	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}
