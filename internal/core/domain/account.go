package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusBanned AccountStatus = "banned"
)

type Account struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`

	// CurrentTenant is bound per call and never persisted.
	CurrentTenant *Tenant `json:"-"`
}

func (a *Account) CurrentTenantID() string {
	if a == nil || a.CurrentTenant == nil {
		return ""
	}
	return a.CurrentTenant.ID
}

type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an impersonation scope opened for a single app invocation.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	TenantID  string    `json:"tenant_id"`
	Token     string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
