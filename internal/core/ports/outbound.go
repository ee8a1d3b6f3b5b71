package ports

import (
	"context"
	"encoding/json"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

// AccountRepository reads user accounts.
type AccountRepository interface {
	GetAccountByID(ctx context.Context, id string) (*domain.Account, error)
}

// TenantRepository reads tenants.
type TenantRepository interface {
	GetTenantByID(ctx context.Context, id string) (*domain.Tenant, error)
}

// AppRepository reads apps scoped to their owning tenant.
type AppRepository interface {
	GetAppForTenant(ctx context.Context, appID, tenantID string) (*domain.App, error)
}

// SessionBinder opens and releases impersonation sessions for an account.
type SessionBinder interface {
	Login(ctx context.Context, account *domain.Account) (*domain.Session, error)
	Logout(ctx context.Context, session *domain.Session) error
}

// AppGenerator runs an app and returns its raw JSON result.
type AppGenerator interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (json.RawMessage, error)
}

// ExtractQueue carries extraction jobs and their results.
type ExtractQueue interface {
	PublishExtractJob(ctx context.Context, job domain.ExtractJob) error
	SubscribeExtractJobs(ctx context.Context, handler func(context.Context, domain.ExtractJob) error) error
	PublishExtractResult(ctx context.Context, result domain.ExtractResult) error
}
