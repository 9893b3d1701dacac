package contract

import (
	"context"

	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/repository/specification"

	"github.com/google/uuid"
)

// AdvisorEventRepository is the append-only analytics log. Append is
// idempotent on (session_id, seq): a replayed event is silently dropped.
type AdvisorEventRepository interface {
	Append(ctx context.Context, event *entity.AdvisorEvent) error
	ReadPage(ctx context.Context, sessionID uuid.UUID, afterSeq int64, limit int) ([]*entity.AdvisorEvent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AdvisorEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
