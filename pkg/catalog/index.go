package catalog

import "sort"

// Product is one immutable record of the read-only product index. Records
// are produced by the external ingestion pipeline; the advisor core never
// mutates them.
type Product struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Category  string              `json:"category"`
	PriceTier string              `json:"price_tier"`
	Summary   string              `json:"summary"`
	Embedding []float32           `json:"-"`
	// Attributes maps a question key (terrain, light_variation, priority,
	// lens features...) to the values the product satisfies.
	Attributes map[string][]string `json:"attributes"`
}

// HasAttribute reports whether the product carries the given value under
// the given key.
func (p Product) HasAttribute(key, value string) bool {
	for _, v := range p.Attributes[key] {
		if v == value {
			return true
		}
	}
	return false
}

// AttributeValues flattens every attribute value the product carries, for
// intersection with the exclusion set.
func (p Product) AttributeValues() []string {
	var out []string
	for _, vs := range p.Attributes {
		out = append(out, vs...)
	}
	return out
}

// Snapshot is a frozen view of the product index: the full record list plus
// the configured embedding dimension. A snapshot is built once and is safe
// for unlimited concurrent readers.
type Snapshot struct {
	products  []Product
	dimension int
}

// NewSnapshot freezes a product list. Products are held in a stable order
// (sorted by id) so iteration order never depends on load order.
func NewSnapshot(products []Product, dimension int) *Snapshot {
	sorted := make([]Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Snapshot{products: sorted, dimension: dimension}
}

// Products returns the frozen record list. Callers must treat it as
// read-only.
func (s *Snapshot) Products() []Product {
	return s.products
}

func (s *Snapshot) Dimension() int {
	return s.dimension
}

func (s *Snapshot) Len() int {
	return len(s.products)
}

// Get looks a product up by id.
func (s *Snapshot) Get(id string) (Product, bool) {
	i := sort.Search(len(s.products), func(i int) bool { return s.products[i].ID >= id })
	if i < len(s.products) && s.products[i].ID == id {
		return s.products[i], true
	}
	return Product{}, false
}

// Index supplies snapshots of the product catalog to the dialogue machine.
type Index interface {
	Snapshot() *Snapshot
}

// StaticIndex wraps a single prebuilt snapshot. The production container
// builds one at startup from the catalog repository; tests build one from
// fixtures.
type StaticIndex struct {
	snapshot *Snapshot
}

func NewStaticIndex(snapshot *Snapshot) *StaticIndex {
	return &StaticIndex{snapshot: snapshot}
}

func (s *StaticIndex) Snapshot() *Snapshot {
	return s.snapshot
}
