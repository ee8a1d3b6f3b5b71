package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kirillkom/app-extractor/internal/config"
	"github.com/kirillkom/app-extractor/internal/core/domain"
)

type extractorFake struct {
	docs    []domain.Document
	err     error
	lastReq domain.ExtractRequest
}

func (f *extractorFake) Extract(_ context.Context, req domain.ExtractRequest) ([]domain.Document, error) {
	f.lastReq = req
	return f.docs, f.err
}

type schedulerFake struct {
	jobID string
	err   error
}

func (f schedulerFake) Schedule(context.Context, domain.ExtractRequest) (string, error) {
	return f.jobID, f.err
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func extractPayload() map[string]any {
	return map[string]any{"app_id": "A1", "user_id": "U1", "tenant_id": "T1", "inputs": map[string]any{"q": "hi"}}
}

func TestExtractAppReturnsDocuments(t *testing.T) {
	fake := &extractorFake{docs: []domain.Document{{PageContent: "hello"}}}
	handler := NewRouter(config.Config{}, fake, nil).Handler()

	res := postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body extractResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Documents) != 1 || body.Documents[0].PageContent != "hello" {
		t.Fatalf("unexpected documents: %+v", body.Documents)
	}
	if fake.lastReq.AppID != "A1" || fake.lastReq.Inputs["q"] != "hi" {
		t.Fatalf("unexpected request: %+v", fake.lastReq)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestExtractAppEncodesEmptyResultAsArray(t *testing.T) {
	handler := NewRouter(config.Config{}, &extractorFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got := res.Body.String(); got != "{\"documents\":[]}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestExtractAppMapsErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantEntity string
	}{
		{name: "validation", err: domain.WrapError(domain.ErrInvalidInput, "extract app", errors.New("app_id, user_id, and tenant_id required")), wantStatus: http.StatusBadRequest},
		{name: "user", err: domain.NewNotFound(domain.EntityUser, "U1"), wantStatus: http.StatusNotFound, wantEntity: "user"},
		{name: "app", err: domain.NewNotFound(domain.EntityApp, "A1"), wantStatus: http.StatusNotFound, wantEntity: "app"},
		{name: "unauthorized", err: domain.WrapError(domain.ErrUnauthorized, "generate", errors.New("403")), wantStatus: http.StatusUnauthorized},
		{name: "malformed", err: domain.WrapError(domain.ErrMalformedResult, "parse result", errors.New("bad")), wantStatus: http.StatusBadGateway},
		{name: "temporary", err: domain.WrapError(domain.ErrTemporary, "generate", errors.New("502")), wantStatus: http.StatusServiceUnavailable},
		{name: "opaque", err: errors.New("workflow crashed"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRouter(config.Config{}, &extractorFake{err: tc.err}, nil).Handler()
			res := postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)
			if res.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, res.Code)
			}
			var body errorResponse
			if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Entity != tc.wantEntity || body.Error == "" {
				t.Fatalf("unexpected error body: %+v", body)
			}
		})
	}
}

type blockingExtractor struct{}

func (blockingExtractor) Extract(ctx context.Context, _ domain.ExtractRequest) ([]domain.Document, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("extraction context has no deadline")
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExtractAppAppliesExtractTimeout(t *testing.T) {
	handler := NewRouter(config.Config{ExtractTimeout: 20 * time.Millisecond}, blockingExtractor{}, nil).Handler()

	res := postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)
	if res.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d: %s", res.Code, res.Body.String())
	}
}

func TestExtractAppRejectsInvalidJSON(t *testing.T) {
	handler := NewRouter(config.Config{}, &extractorFake{}, nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract/app", bytes.NewReader([]byte("{")))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestScheduleExtractReturnsJobID(t *testing.T) {
	handler := NewRouter(config.Config{}, &extractorFake{}, schedulerFake{jobID: "job-1"}).Handler()

	res := postJSON(t, handler, "/v1/extract/app/jobs", extractPayload(), nil)
	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	var body map[string]string
	_ = json.NewDecoder(res.Body).Decode(&body)
	if body["job_id"] != "job-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestScheduleExtractWithoutQueueReturns503(t *testing.T) {
	handler := NewRouter(config.Config{}, &extractorFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/extract/app/jobs", extractPayload(), nil)
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestAPIKeyGuardsV1Routes(t *testing.T) {
	handler := NewRouter(config.Config{APIKey: "secret"}, &extractorFake{}, nil).Handler()

	res := postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", res.Code)
	}

	res = postJSON(t, handler, "/v1/extract/app", extractPayload(), map[string]string{"Authorization": "Bearer secret"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", res.Code)
	}

	health := httptest.NewRecorder()
	handler.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("expected healthz to stay open, got %d", health.Code)
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := NewRouter(config.Config{APIRateLimitRPS: 1, APIRateLimitBurst: 1}, &extractorFake{}, nil).Handler()

	res1 := postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}
	res2 := postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestMetricsEndpointExposesExtractionCounters(t *testing.T) {
	handler := NewRouter(config.Config{}, &extractorFake{docs: []domain.Document{{PageContent: "x"}}}, nil).Handler()
	_ = postJSON(t, handler, "/v1/extract/app", extractPayload(), nil)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !bytes.Contains(res.Body.Bytes(), []byte(`appx_extract_requests_total{outcome="success",service="extractor-api"} 1`)) {
		t.Fatalf("expected extraction counter in metrics output")
	}
}
