package implementation

import (
	"context"

	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/mapper"
	"product-advisor-be/internal/model"
	"product-advisor-be/internal/repository/contract"
	"product-advisor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdvisorEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdvisorEventMapper
}

func NewAdvisorEventRepository(db *gorm.DB) contract.AdvisorEventRepository {
	return &AdvisorEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdvisorEventMapper(),
	}
}

func (r *AdvisorEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Append inserts the event. The unique (session_id, seq) index plus
// ON CONFLICT DO NOTHING makes replays from the retry queue idempotent.
func (r *AdvisorEventRepositoryImpl) Append(ctx context.Context, event *entity.AdvisorEvent) error {
	m := r.mapper.ToModel(event)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "seq"}},
			DoNothing: true,
		}).
		Create(m).Error
}

func (r *AdvisorEventRepositoryImpl) ReadPage(ctx context.Context, sessionID uuid.UUID, afterSeq int64, limit int) ([]*entity.AdvisorEvent, error) {
	if limit <= 0 {
		limit = 64
	}
	return r.FindAll(ctx,
		specification.BySessionID(sessionID),
		specification.AfterSeq(afterSeq),
		specification.OrderBySeq(),
		specification.Limit(limit),
	)
}

func (r *AdvisorEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AdvisorEvent, error) {
	var models []*model.AdvisorEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AdvisorEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.AdvisorEvent{}).Count(&count).Error
	return count, err
}
