package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kirillkom/app-extractor/internal/core/domain"
	"github.com/kirillkom/app-extractor/internal/core/ports"
)

type ScheduleExtractUseCase struct {
	queue ports.ExtractQueue
}

func NewScheduleExtractUseCase(queue ports.ExtractQueue) *ScheduleExtractUseCase {
	return &ScheduleExtractUseCase{queue: queue}
}

// Schedule validates the request and publishes it as a job. Lookups happen in the worker.
func (uc *ScheduleExtractUseCase) Schedule(ctx context.Context, req domain.ExtractRequest) (string, error) {
	if err := validateExtractRequest(req); err != nil {
		return "", err
	}

	job := domain.ExtractJob{
		JobID:          uuid.NewString(),
		ExtractRequest: req,
	}
	if err := uc.queue.PublishExtractJob(ctx, job); err != nil {
		return "", fmt.Errorf("publish extract job: %w", err)
	}
	return job.JobID, nil
}
