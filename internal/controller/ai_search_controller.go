package controller

import (
	"errors"
	"strings"

	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/internal/pkg/serverutils"
	"bookapp-ai-be/internal/service"
	"bookapp-ai-be/pkg/bookai/search"

	"github.com/gofiber/fiber/v2"
)

type IAISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type aiSearchController struct {
	service service.ISearchService
}

func NewAISearchController(service service.ISearchService) IAISearchController {
	return &aiSearchController{service: service}
}

func (c *aiSearchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Post("/search", c.Search)
}

func (c *aiSearchController) Search(ctx *fiber.Ctx) error {
	var req dto.AISearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	req.Query = strings.TrimSpace(req.Query)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, search.ErrQueryEmbedding) {
			return serverutils.NewAppError(fiber.StatusInternalServerError, "Could not generate embedding for the search query.")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search books", res))
}
