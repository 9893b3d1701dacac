package main

import (
	"context"
	"log"

	"product-advisor-be/internal/bootstrap"
	"product-advisor-be/internal/config"
	"product-advisor-be/internal/server"
	"product-advisor-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Retry Consumer Service...")
		if err := container.RetryConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Retry Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
