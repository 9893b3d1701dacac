package mapper

import (
	"encoding/json"

	"product-advisor-be/internal/entity"
	"product-advisor-be/internal/model"

	"gorm.io/datatypes"
)

type AdvisorEventMapper struct{}

func NewAdvisorEventMapper() *AdvisorEventMapper {
	return &AdvisorEventMapper{}
}

func (m *AdvisorEventMapper) ToEntity(e *model.AdvisorEvent) *entity.AdvisorEvent {
	if e == nil {
		return nil
	}

	var data map[string]interface{}
	if len(e.Data) > 0 {
		// Corrupt payloads surface as a nil map rather than failing the read
		_ = json.Unmarshal(e.Data, &data)
	}

	return &entity.AdvisorEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		Seq:       e.Seq,
		EventType: e.EventType,
		Data:      data,
		CreatedAt: e.CreatedAt,
	}
}

func (m *AdvisorEventMapper) ToModel(e *entity.AdvisorEvent) *model.AdvisorEvent {
	if e == nil {
		return nil
	}

	var data datatypes.JSON
	if e.Data != nil {
		if raw, err := json.Marshal(e.Data); err == nil {
			data = raw
		}
	}

	return &model.AdvisorEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		Seq:       e.Seq,
		EventType: e.EventType,
		Data:      data,
		CreatedAt: e.CreatedAt,
	}
}

func (m *AdvisorEventMapper) ToEntities(events []*model.AdvisorEvent) []*entity.AdvisorEvent {
	entities := make([]*entity.AdvisorEvent, len(events))
	for i, e := range events {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
