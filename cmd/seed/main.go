package main

import (
	"context"
	"log"

	"product-advisor-be/internal/config"
	"product-advisor-be/internal/repository/implementation"
	"product-advisor-be/pkg/catalog"
	"product-advisor-be/pkg/database"
	"product-advisor-be/pkg/embedding"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Product Catalog...")

	products := []catalog.Product{
		{
			ID: "aw-100", Name: "Aerowing Roadline", Category: "eyewear", PriceTier: "premium",
			Summary: "Full-coverage road racing glasses with a wide polycarbonate shield and anti-fog venting.",
			Attributes: map[string][]string{
				"terrain":         {"road"},
				"light_variation": {"stable"},
				"priority":        {"protection"},
				"lens":            {"polarized"},
			},
		},
		{
			ID: "aw-200", Name: "Aerowing Photocrom", Category: "eyewear", PriceTier: "premium",
			Summary: "Photochromic lens that adapts from deep shade to full sun, built for long variable-light rides.",
			Attributes: map[string][]string{
				"terrain":         {"road", "gravel"},
				"light_variation": {"variable"},
				"priority":        {"comfort"},
				"lens":            {"photochromic"},
			},
		},
		{
			ID: "gr-310", Name: "Gravelpath Vent", Category: "eyewear", PriceTier: "mid",
			Summary: "Open-frame gravel glasses tuned for airflow, anti-fog coating and dusty conditions.",
			Attributes: map[string][]string{
				"terrain":         {"gravel"},
				"light_variation": {"variable"},
				"priority":        {"ventilation"},
				"lens":            {"clear"},
			},
		},
		{
			ID: "mt-420", Name: "Trailguard MTB", Category: "eyewear", PriceTier: "mid",
			Summary: "Impact-rated MTB goggles-hybrid with wraparound protection for wooded singletrack.",
			Attributes: map[string][]string{
				"terrain":         {"mtb"},
				"light_variation": {"variable"},
				"priority":        {"protection"},
				"lens":            {"photochromic"},
			},
		},
		{
			ID: "cm-150", Name: "Commuter Lite", Category: "eyewear", PriceTier: "entry",
			Summary: "Lightweight all-day frame with a comfort-first nose bridge and mirrored sun lens.",
			Attributes: map[string][]string{
				"terrain":         {"road"},
				"light_variation": {"stable"},
				"priority":        {"comfort"},
				"lens":            {"mirrored_lens"},
			},
		},
	}

	embedder := buildEmbedder(cfg)
	if embedder == nil {
		log.Println("Warn: no embedding provider configured, seeding without vectors")
	} else {
		ctx := context.Background()
		for i := range products {
			vector, err := embedder.Generate(ctx, products[i].Summary)
			if err != nil {
				log.Printf("Warn: embedding failed for %s: %v", products[i].ID, err)
				continue
			}
			products[i].Embedding = vector
		}
	}

	repo := implementation.NewProductRepository(db)
	if err := repo.UpsertBulk(context.Background(), products); err != nil {
		log.Fatalf("Error: product seeding failed: %v", err)
	}

	log.Printf("✅ Seeded %d products.", len(products))
}

func buildEmbedder(cfg *config.Config) embedding.Provider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	default:
		if cfg.Ai.GeminiAPIKey == "" {
			return nil
		}
		return embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
	}
}
