package controller

import (
	"product-advisor-be/internal/pkg/serverutils"
	"product-advisor-be/pkg/catalog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db    *gorm.DB
	index catalog.Index
}

func NewHealthController(db *gorm.DB, index catalog.Index) IHealthController {
	return &healthController{
		db:    db,
		index: index,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	dbStatus := "up"
	if sqlDB, err := c.db.DB(); err != nil {
		dbStatus = "down"
	} else if err := sqlDB.PingContext(ctx.Context()); err != nil {
		dbStatus = "down"
	}

	body := fiber.Map{
		"database":     dbStatus,
		"catalog_size": c.index.Snapshot().Len(),
	}

	if dbStatus != "up" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.SuccessResponse("Degraded", body))
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", body))
}
