package controller

import (
	"strings"

	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/internal/pkg/serverutils"
	"bookapp-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router, guard fiber.Handler)
	FetchAndFilter(ctx *fiber.Ctx) error
	FetchAndFilterSync(ctx *fiber.Ctx) error
	EmbedSingle(ctx *fiber.Ctx) error
	Classify(ctx *fiber.Ctx) error
}

type bookController struct {
	bookAIService    service.IBookAIService
	publisherService service.IPublisherService
}

func NewBookController(bookAIService service.IBookAIService, publisherService service.IPublisherService) IBookController {
	return &bookController{
		bookAIService:    bookAIService,
		publisherService: publisherService,
	}
}

func (c *bookController) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	h := r.Group("/books")
	h.Post("/classify", c.Classify)
	h.Post("/fetch-and-filter", guard, c.FetchAndFilter)
	h.Post("/fetch-and-filter/sync", guard, c.FetchAndFilterSync)
	h.Post("/embed-single", guard, c.EmbedSingle)
}

func parseKeywords(ctx *fiber.Ctx) (*dto.KeywordRequest, error) {
	var req dto.KeywordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, serverutils.BadRequest("Invalid request body")
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	req.Keywords = keywords

	if len(req.Keywords) == 0 {
		return nil, serverutils.BadRequest("Keywords list cannot be empty.")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *bookController) FetchAndFilter(ctx *fiber.Ctx) error {
	req, err := parseKeywords(ctx)
	if err != nil {
		return err
	}

	jobId, err := c.publisherService.PublishKeywordJob(ctx.UserContext(), req.Keywords)
	if err != nil {
		return err
	}

	res := serverutils.SuccessResponse("AI book data building process started in the background.", &dto.IngestJobResponse{
		JobId:    jobId,
		Keywords: req.Keywords,
	})
	res.Code = fiber.StatusAccepted
	return ctx.Status(fiber.StatusAccepted).JSON(res)
}

func (c *bookController) FetchAndFilterSync(ctx *fiber.Ctx) error {
	req, err := parseKeywords(ctx)
	if err != nil {
		return err
	}

	result, err := c.bookAIService.Ingest(ctx.UserContext(), uuid.NewString(), req.Keywords)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build book data", result))
}

func (c *bookController) EmbedSingle(ctx *fiber.Ctx) error {
	var req dto.SingleBookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	jobId, err := c.publisherService.PublishSingleBookJob(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	res := serverutils.SuccessResponse("Single book embedding process started in the background.", &dto.IngestJobResponse{
		JobId: jobId,
		Isbn:  req.Isbn,
	})
	res.Code = fiber.StatusAccepted
	return ctx.Status(fiber.StatusAccepted).JSON(res)
}

func (c *bookController) Classify(ctx *fiber.Ctx) error {
	var req dto.ClassifyBookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.bookAIService.Classify(ctx.UserContext(), &req)
	return ctx.JSON(serverutils.SuccessResponse("Success classify book", res))
}
