package controller

import (
	"product-advisor-be/internal/dto"
	"product-advisor-be/internal/pkg/serverutils"
	"product-advisor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdvisorController interface {
	RegisterRoutes(r fiber.Router)
	Advise(ctx *fiber.Ctx) error
	SessionEvents(ctx *fiber.Ctx) error
}

type advisorController struct {
	advisorService service.IAdvisorService
}

func NewAdvisorController(advisorService service.IAdvisorService) IAdvisorController {
	return &advisorController{
		advisorService: advisorService,
	}
}

func (c *advisorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1")
	h.Post("advise", c.Advise)
	h.Get("sessions/:id/events", c.SessionEvents)
}

func (c *advisorController) Advise(ctx *fiber.Ctx) error {
	var req dto.AdviseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.advisorService.Advise(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success advise", res))
}

func (c *advisorController) SessionEvents(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")

	res, err := c.advisorService.SessionEvents(ctx.Context(), idParam)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success read session events", res))
}
