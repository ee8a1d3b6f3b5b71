package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

type TenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetTenantByID(ctx context.Context, id string) (*domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, status, created_at
FROM tenants
WHERE id = $1
`, id)

	var tenant domain.Tenant
	if err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Status, &tenant.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound(domain.EntityTenant, id)
		}
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &tenant, nil
}
