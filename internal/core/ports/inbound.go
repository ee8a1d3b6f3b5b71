package ports

import (
	"context"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

// AppDocumentExtractor is the inbound contract for turning an app run into documents.
type AppDocumentExtractor interface {
	Extract(ctx context.Context, req domain.ExtractRequest) ([]domain.Document, error)
}

// ExtractJobScheduler enqueues extraction requests for asynchronous processing.
type ExtractJobScheduler interface {
	Schedule(ctx context.Context, req domain.ExtractRequest) (string, error)
}
