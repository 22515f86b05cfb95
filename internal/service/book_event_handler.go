package service

import (
	"context"
	"encoding/json"
	"strings"

	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/events"
)

// BookEventHandler reacts to BOOK_ADDED events from the main backend by
// adding the book to the corpus.
type BookEventHandler struct {
	bookAIService IBookAIService
	logger        logger.ILogger
}

func NewBookEventHandler(bookAIService IBookAIService, log logger.ILogger) *BookEventHandler {
	return &BookEventHandler{bookAIService: bookAIService, logger: log}
}

// Handle returns an error only for failures worth redelivering.
func (h *BookEventHandler) Handle(ctx context.Context, event events.Event) error {
	raw, err := json.Marshal(event.Payload())
	if err != nil {
		return nil
	}

	var req dto.SingleBookRequest
	if err := json.Unmarshal(raw, &req); err != nil || strings.TrimSpace(req.Isbn) == "" || strings.TrimSpace(req.Title) == "" {
		h.logger.Warn("BOOK_EVENTS", "Ignoring malformed book event", map[string]interface{}{
			"event_id": event.EventID(),
			"type":     event.EventType(),
		})
		return nil
	}

	return h.bookAIService.EmbedSingleBook(ctx, &req)
}
