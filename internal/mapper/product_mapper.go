package mapper

import (
	"encoding/json"

	"product-advisor-be/internal/model"
	"product-advisor-be/pkg/catalog"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(e *model.Product) catalog.Product {
	var attributes map[string][]string
	if len(e.Attributes) > 0 {
		_ = json.Unmarshal(e.Attributes, &attributes)
	}

	return catalog.Product{
		ID:         e.Id,
		Name:       e.Name,
		Category:   e.Category,
		PriceTier:  e.PriceTier,
		Summary:    e.Summary,
		Embedding:  e.Embedding.Slice(),
		Attributes: attributes,
	}
}

func (m *ProductMapper) ToModel(p catalog.Product) *model.Product {
	var attributes datatypes.JSON
	if p.Attributes != nil {
		if raw, err := json.Marshal(p.Attributes); err == nil {
			attributes = raw
		}
	}

	return &model.Product{
		Id:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		PriceTier:  p.PriceTier,
		Summary:    p.Summary,
		Embedding:  pgvector.NewVector(p.Embedding),
		Attributes: attributes,
	}
}

func (m *ProductMapper) ToEntities(products []*model.Product) []catalog.Product {
	entities := make([]catalog.Product, len(products))
	for i, p := range products {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
