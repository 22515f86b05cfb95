package service

import (
	"context"

	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/pkg/bookai/tagger"
)

// IRetryCoordinator is implemented by tagger.RetryCoordinator.
type IRetryCoordinator interface {
	IFailureRecorder
	DrainAndRetry(ctx context.Context) (tagger.BatchReport, error)
	Pending() int
	InProgress() bool
}

type ITaggingService interface {
	Status(ctx context.Context) *dto.TaggingRetryStatusResponse
	// Retry returns tagger.ErrRetryInProgress when a batch is already running.
	Retry(ctx context.Context) (*dto.TaggingRetryResponse, error)
}

type taggingService struct {
	coordinator IRetryCoordinator
}

func NewTaggingService(coordinator IRetryCoordinator) ITaggingService {
	return &taggingService{coordinator: coordinator}
}

func (s *taggingService) Status(ctx context.Context) *dto.TaggingRetryStatusResponse {
	return &dto.TaggingRetryStatusResponse{
		Pending:    s.coordinator.Pending(),
		InProgress: s.coordinator.InProgress(),
	}
}

func (s *taggingService) Retry(ctx context.Context) (*dto.TaggingRetryResponse, error) {
	report, err := s.coordinator.DrainAndRetry(ctx)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
