package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Product struct {
	Id        string          `gorm:"type:varchar(64);primaryKey"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Category  string          `gorm:"type:varchar(64);index"`
	PriceTier string          `gorm:"type:varchar(32)"`
	Summary   string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	// Attributes maps attribute key to its list of values, e.g.
	// {"terrain": ["road", "gravel"], "lens": ["photochromic"]}
	Attributes datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
