package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/app-extractor/internal/core/domain"
	"github.com/kirillkom/app-extractor/internal/core/ports"
)

const requiredIDsMessage = "app_id, user_id, and tenant_id required"

type AppExtractUseCase struct {
	accounts  ports.AccountRepository
	tenants   ports.TenantRepository
	apps      ports.AppRepository
	sessions  ports.SessionBinder
	generator ports.AppGenerator
	logger    *slog.Logger
}

func NewAppExtractUseCase(
	accounts ports.AccountRepository,
	tenants ports.TenantRepository,
	apps ports.AppRepository,
	sessions ports.SessionBinder,
	generator ports.AppGenerator,
	logger *slog.Logger,
) *AppExtractUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppExtractUseCase{
		accounts:  accounts,
		tenants:   tenants,
		apps:      apps,
		sessions:  sessions,
		generator: generator,
		logger:    logger,
	}
}

// Extract runs the app on behalf of the user inside the tenant and returns
// at most one document built from the app's "text" output.
func (uc *AppExtractUseCase) Extract(ctx context.Context, req domain.ExtractRequest) ([]domain.Document, error) {
	if err := validateExtractRequest(req); err != nil {
		return nil, err
	}

	account, err := uc.resolveAccount(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	tenant, err := uc.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	account.CurrentTenant = tenant

	app, err := uc.locateApp(ctx, req.AppID, req.TenantID)
	if err != nil {
		return nil, err
	}

	raw, err := uc.invoke(ctx, app, account, req.Inputs)
	if err != nil {
		return nil, err
	}

	text, ok, err := outputText(raw)
	if err != nil {
		return nil, fmt.Errorf("read app %s output: %w", req.AppID, err)
	}
	if !ok {
		uc.logger.Warn("app_extract_empty_output", "app_id", req.AppID, "tenant_id", req.TenantID)
		return []domain.Document{}, nil
	}
	return []domain.Document{{PageContent: text}}, nil
}

func validateExtractRequest(req domain.ExtractRequest) error {
	if strings.TrimSpace(req.AppID) == "" ||
		strings.TrimSpace(req.UserID) == "" ||
		strings.TrimSpace(req.TenantID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract app", errors.New(requiredIDsMessage))
	}
	return nil
}

func (uc *AppExtractUseCase) resolveAccount(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := uc.accounts.GetAccountByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return account, nil
}

func (uc *AppExtractUseCase) resolveTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := uc.tenants.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	return tenant, nil
}

func (uc *AppExtractUseCase) locateApp(ctx context.Context, appID, tenantID string) (*domain.App, error) {
	app, err := uc.apps.GetAppForTenant(ctx, appID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("locate app: %w", err)
	}
	return app, nil
}

// invoke holds the impersonation session open for exactly one generation call.
// Generator errors are returned as-is.
func (uc *AppExtractUseCase) invoke(
	ctx context.Context,
	app *domain.App,
	account *domain.Account,
	inputs map[string]any,
) (json.RawMessage, error) {
	session, err := uc.sessions.Login(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("login user: %w", err)
	}
	defer uc.logout(ctx, session)

	return uc.generator.Generate(ctx, domain.GenerateRequest{
		App:        app,
		Account:    account,
		Session:    session,
		Args:       map[string]any{"inputs": inputs},
		InvokeFrom: domain.InvokeFromWebApp,
		Streaming:  false,
	})
}

func (uc *AppExtractUseCase) logout(ctx context.Context, session *domain.Session) {
	if err := uc.sessions.Logout(context.WithoutCancel(ctx), session); err != nil {
		uc.logger.Warn("session_logout_failed", "session_id", session.ID, "account_id", session.AccountID, "error", err)
	}
}

// AppExtractor binds one request to the single-shot Extract contract used by
// indexing pipelines.
type AppExtractor struct {
	extractor ports.AppDocumentExtractor
	req       domain.ExtractRequest
}

func NewAppExtractor(extractor ports.AppDocumentExtractor, appID, userID, tenantID string, inputs map[string]any) *AppExtractor {
	return &AppExtractor{
		extractor: extractor,
		req: domain.ExtractRequest{
			AppID:    appID,
			UserID:   userID,
			TenantID: tenantID,
			Inputs:   inputs,
		},
	}
}

func (e *AppExtractor) Extract(ctx context.Context) ([]domain.Document, error) {
	return e.extractor.Extract(ctx, e.req)
}
