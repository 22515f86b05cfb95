package service

import (
	"context"
	"encoding/json"

	"bookapp-ai-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishKeywordJob(ctx context.Context, keywords []string) (string, error)
	PublishSingleBookJob(ctx context.Context, book *dto.SingleBookRequest) (string, error)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) PublishKeywordJob(ctx context.Context, keywords []string) (string, error) {
	return p.publish(ctx, dto.PublishIngestJobMessage{
		JobId:    uuid.NewString(),
		Kind:     dto.IngestJobKeywords,
		Keywords: keywords,
	})
}

func (p *publisherService) PublishSingleBookJob(ctx context.Context, book *dto.SingleBookRequest) (string, error) {
	return p.publish(ctx, dto.PublishIngestJobMessage{
		JobId: uuid.NewString(),
		Kind:  dto.IngestJobSingleBook,
		Book:  book,
	})
}

func (p *publisherService) publish(ctx context.Context, job dto.PublishIngestJobMessage) (string, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return "", err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		return "", err
	}
	return job.JobId, nil
}
