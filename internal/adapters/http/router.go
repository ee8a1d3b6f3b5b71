package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kirillkom/app-extractor/internal/config"
	"github.com/kirillkom/app-extractor/internal/core/domain"
	"github.com/kirillkom/app-extractor/internal/core/ports"
	"github.com/kirillkom/app-extractor/internal/observability/metrics"
)

const serviceName = "extractor-api"

type Router struct {
	cfg       config.Config
	extractor ports.AppDocumentExtractor
	scheduler ports.ExtractJobScheduler
	metrics   *metrics.HTTPServerMetrics
}

// NewRouter wires the HTTP surface. scheduler may be nil, in which case the
// jobs endpoint answers 503.
func NewRouter(
	cfg config.Config,
	extractor ports.AppDocumentExtractor,
	scheduler ports.ExtractJobScheduler,
) *Router {
	return &Router{
		cfg:       cfg,
		extractor: extractor,
		scheduler: scheduler,
		metrics:   metrics.NewHTTPServerMetrics(serviceName),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.Handle("GET /metrics", rt.metrics.Handler())
	mux.HandleFunc("POST /v1/extract/app", rt.extractApp)
	mux.HandleFunc("POST /v1/extract/app/jobs", rt.scheduleExtract)

	var handler http.Handler = mux
	handler = apiKeyMiddleware(rt.cfg.APIKey, handler)
	handler = rateLimitMiddleware(rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, handler)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type extractResponse struct {
	Documents []domain.Document `json:"documents"`
}

func (rt *Router) extractApp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExtractRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if rt.cfg.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.cfg.ExtractTimeout)
		defer cancel()
	}

	start := time.Now()
	docs, err := rt.extractor.Extract(ctx, req)
	rt.metrics.RecordExtraction(serviceName, len(docs), time.Since(start), err)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), newErrorResponse(err))
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, extractResponse{Documents: docs})
}

func (rt *Router) scheduleExtract(w http.ResponseWriter, r *http.Request) {
	if rt.scheduler == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "job queue is not configured"})
		return
	}
	req, ok := decodeExtractRequest(w, r)
	if !ok {
		return
	}

	jobID, err := rt.scheduler.Schedule(r.Context(), req)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), newErrorResponse(err))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

func decodeExtractRequest(w http.ResponseWriter, r *http.Request) (domain.ExtractRequest, bool) {
	var req domain.ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return domain.ExtractRequest{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
