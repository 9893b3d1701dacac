package contract

import (
	"context"

	"product-advisor-be/pkg/catalog"
)

// ProductRepository loads the catalog that the retrieval layer snapshots
// in memory. Writes happen through seeding, not the dialogue path.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]catalog.Product, error)
	Upsert(ctx context.Context, product catalog.Product) error
	UpsertBulk(ctx context.Context, products []catalog.Product) error
}
