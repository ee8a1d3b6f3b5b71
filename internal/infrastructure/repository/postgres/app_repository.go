package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

type AppRepository struct {
	db *sql.DB
}

func NewAppRepository(db *sql.DB) *AppRepository {
	return &AppRepository{db: db}
}

// GetAppForTenant reports an app owned by another tenant exactly like a
// missing one.
func (r *AppRepository) GetAppForTenant(ctx context.Context, appID, tenantID string) (*domain.App, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, name, mode, created_at
FROM apps
WHERE id = $1 AND tenant_id = $2
`, appID, tenantID)

	var app domain.App
	var mode string
	if err := row.Scan(&app.ID, &app.TenantID, &app.Name, &mode, &app.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound(domain.EntityApp, appID)
		}
		return nil, fmt.Errorf("scan app: %w", err)
	}
	app.Mode = domain.AppMode(mode)
	return &app, nil
}
