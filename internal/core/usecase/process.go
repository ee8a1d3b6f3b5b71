package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/app-extractor/internal/core/domain"
	"github.com/kirillkom/app-extractor/internal/core/ports"
)

// resultPublishTimeout bounds the result publish, which runs detached from the
// job context so an expired or cancelled job still reports its outcome.
const resultPublishTimeout = 5 * time.Second

type ProcessExtractJobUseCase struct {
	extractor ports.AppDocumentExtractor
	queue     ports.ExtractQueue
}

func NewProcessExtractJobUseCase(extractor ports.AppDocumentExtractor, queue ports.ExtractQueue) *ProcessExtractJobUseCase {
	return &ProcessExtractJobUseCase{
		extractor: extractor,
		queue:     queue,
	}
}

// ProcessJob runs one queued extraction and publishes its outcome. A failed
// extraction is still published, with Error set, and then returned.
func (uc *ProcessExtractJobUseCase) ProcessJob(ctx context.Context, job domain.ExtractJob) error {
	docs, extractErr := NewAppExtractor(uc.extractor, job.AppID, job.UserID, job.TenantID, job.Inputs).Extract(ctx)

	result := domain.ExtractResult{
		JobID:     job.JobID,
		AppID:     job.AppID,
		TenantID:  job.TenantID,
		Documents: docs,
	}
	if result.Documents == nil {
		result.Documents = []domain.Document{}
	}
	if extractErr != nil {
		result.Error = extractErr.Error()
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resultPublishTimeout)
	defer cancel()
	if err := uc.queue.PublishExtractResult(publishCtx, result); err != nil {
		if extractErr != nil {
			return fmt.Errorf("%w; publish extract result: %v", extractErr, err)
		}
		return fmt.Errorf("publish extract result: %w", err)
	}
	return extractErr
}
