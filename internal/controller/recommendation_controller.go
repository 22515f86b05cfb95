package controller

import (
	"strconv"

	"bookapp-ai-be/internal/pkg/serverutils"
	"bookapp-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRecommendationController interface {
	RegisterRoutes(r fiber.Router)
	Recommend(ctx *fiber.Ctx) error
}

type recommendationController struct {
	service service.IRecommendationService
}

func NewRecommendationController(service service.IRecommendationService) IRecommendationController {
	return &recommendationController{service: service}
}

func (c *recommendationController) RegisterRoutes(r fiber.Router) {
	r.Get("/recommendations/:user_id", c.Recommend)
}

func (c *recommendationController) Recommend(ctx *fiber.Ctx) error {
	userId, err := strconv.ParseInt(ctx.Params("user_id"), 10, 64)
	if err != nil {
		return serverutils.BadRequest("user_id must be an integer")
	}

	res := c.service.Recommend(ctx.UserContext(), userId)
	return ctx.JSON(serverutils.SuccessResponse("Success get recommendations", res))
}
