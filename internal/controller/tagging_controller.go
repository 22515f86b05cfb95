package controller

import (
	"errors"

	"bookapp-ai-be/internal/pkg/serverutils"
	"bookapp-ai-be/internal/service"
	"bookapp-ai-be/pkg/bookai/tagger"

	"github.com/gofiber/fiber/v2"
)

type ITaggingController interface {
	RegisterRoutes(r fiber.Router, guard fiber.Handler)
	Status(ctx *fiber.Ctx) error
	Retry(ctx *fiber.Ctx) error
}

type taggingController struct {
	service service.ITaggingService
}

func NewTaggingController(service service.ITaggingService) ITaggingController {
	return &taggingController{service: service}
}

func (c *taggingController) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	h := r.Group("/tagging", guard)
	h.Get("/retry", c.Status)
	h.Post("/retry", c.Retry)
}

func (c *taggingController) Status(ctx *fiber.Ctx) error {
	res := c.service.Status(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success get tagging retry status", res))
}

func (c *taggingController) Retry(ctx *fiber.Ctx) error {
	res, err := c.service.Retry(ctx.UserContext())
	if err != nil {
		if errors.Is(err, tagger.ErrRetryInProgress) {
			return serverutils.Conflict("A tagging retry batch is already running")
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success retry tagging", res))
}
