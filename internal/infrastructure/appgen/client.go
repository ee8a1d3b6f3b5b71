package appgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kirillkom/app-extractor/internal/core/domain"
	"github.com/kirillkom/app-extractor/internal/infrastructure/resilience"
)

const responseModeBlocking = "blocking"

// Client calls the app generation service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

type generatePayload struct {
	Inputs       any    `json:"inputs"`
	User         string `json:"user"`
	InvokeFrom   string `json:"invoke_from"`
	ResponseMode string `json:"response_mode"`
}

func (c *Client) Generate(ctx context.Context, req domain.GenerateRequest) (json.RawMessage, error) {
	if req.App == nil || req.Account == nil || req.Session == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "generate", errors.New("app, account and session are required"))
	}
	if req.Streaming {
		return nil, domain.WrapError(domain.ErrInvalidInput, "generate", errors.New("streaming responses are not supported"))
	}

	inputs := req.Args["inputs"]
	if m, ok := inputs.(map[string]any); inputs == nil || (ok && m == nil) {
		inputs = map[string]any{}
	}
	payload := generatePayload{
		Inputs:       inputs,
		User:         req.Account.ID,
		InvokeFrom:   string(req.InvokeFrom),
		ResponseMode: responseModeBlocking,
	}
	path := "/v1/apps/" + url.PathEscape(req.App.ID) + "/generate"

	var result json.RawMessage
	call := func(callCtx context.Context) error {
		result = nil
		return c.postJSON(callCtx, path, req.Session, payload, &result, "generate")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "appgen.generate", call, classifyGenerateError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapKindIfNeeded("generate", err)
	}
	return result, nil
}
