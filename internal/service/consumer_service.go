package service

import (
	"context"
	"encoding/json"

	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber    message.Subscriber
	topicName     string
	bookAIService IBookAIService
	logger        logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	bookAIService IBookAIService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:    subscriber,
		topicName:     topicName,
		bookAIService: bookAIService,
		logger:        log,
	}
}

// Consume starts one goroutine that runs ingestion jobs in arrival order.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.PublishIngestJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal ingest job", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("CONSUMER", "Processing ingest job", map[string]interface{}{
		"job_id": job.JobId,
		"kind":   job.Kind,
	})

	var err error
	switch job.Kind {
	case dto.IngestJobKeywords:
		_, err = cs.bookAIService.Ingest(ctx, job.JobId, job.Keywords)
	case dto.IngestJobSingleBook:
		if job.Book != nil {
			err = cs.bookAIService.EmbedSingleBook(ctx, job.Book)
		}
	default:
		cs.logger.Warn("CONSUMER", "Unknown ingest job kind", map[string]interface{}{"kind": job.Kind})
	}

	if err != nil {
		cs.logger.Error("CONSUMER", "Ingest job failed", map[string]interface{}{
			"job_id": job.JobId,
			"error":  err.Error(),
		})
		// Only a cancelled context is worth redelivering; the consumer is shutting down.
		if ctx.Err() != nil {
			msg.Nack()
			return
		}
	}

	msg.Ack()
}
