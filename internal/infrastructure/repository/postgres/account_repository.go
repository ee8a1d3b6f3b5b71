package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, email, status, created_at
FROM accounts
WHERE id = $1
`, id)

	var account domain.Account
	var status string
	if err := row.Scan(&account.ID, &account.Name, &account.Email, &status, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound(domain.EntityUser, id)
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	account.Status = domain.AccountStatus(status)
	return &account, nil
}
