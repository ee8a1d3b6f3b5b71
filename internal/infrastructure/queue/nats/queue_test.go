package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

func TestDecodeExtractJob(t *testing.T) {
	job, err := decodeExtractJob([]byte(`{"job_id":"j-1","app_id":"a","user_id":"u","tenant_id":"t","inputs":{"q":"x"}}`))
	if err != nil {
		t.Fatalf("decodeExtractJob() error = %v", err)
	}
	if job.JobID != "j-1" || job.AppID != "a" || job.TenantID != "t" || job.Inputs["q"] != "x" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestDecodeExtractJobRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`not json`, `{"app_id":"a"}`} {
		if _, err := decodeExtractJob([]byte(raw)); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", raw, err)
		}
	}
}

func TestAsTemporaryMarksConnectionErrors(t *testing.T) {
	err := asTemporary("publish apps.extract.requests", fmt.Errorf("nats publish: %w", nats.ErrConnectionClosed))
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}

	errOther := errors.New("max payload exceeded")
	if got := asTemporary("publish", errOther); got != errOther {
		t.Fatalf("expected non-transient error unchanged, got %v", got)
	}
	if got := asTemporary("publish", nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestClassifyPublishErrorSkipsCancellation(t *testing.T) {
	class := classifyPublishError(context.Canceled)
	if class.Retryable || class.RecordFailure {
		t.Fatalf("expected cancellation to be neither retried nor recorded, got %+v", class)
	}
	for _, err := range []error{nats.ErrNoServers, nats.ErrTimeout, nats.ErrConnectionReconnecting} {
		if !classifyPublishError(fmt.Errorf("nats publish: %w", err)).Retryable {
			t.Fatalf("expected %v to be retryable", err)
		}
	}
}
