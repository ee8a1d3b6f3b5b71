package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

const issuer = "app-extractor"

// Store tracks which impersonation sessions are still open.
type Store interface {
	Register(ctx context.Context, session *domain.Session) error
	Revoke(ctx context.Context, sessionID string) error
	Active(ctx context.Context, sessionID string) (bool, error)
}

type Claims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// Binder issues short-lived HS256 tokens that let the generation service act
// as the account inside its current tenant.
type Binder struct {
	signingKey []byte
	ttl        time.Duration
	store      Store
	now        func() time.Time
}

func NewBinder(signingKey []byte, ttl time.Duration, store Store) (*Binder, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("session signing key is empty")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Binder{
		signingKey: signingKey,
		ttl:        ttl,
		store:      store,
		now:        time.Now,
	}, nil
}

func (b *Binder) Login(ctx context.Context, account *domain.Account) (*domain.Session, error) {
	if account == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "login", errors.New("account is nil"))
	}
	if account.Status == domain.AccountStatusBanned {
		return nil, domain.WrapError(domain.ErrUnauthorized, "login", fmt.Errorf("account %s is banned", account.ID))
	}
	tenantID := account.CurrentTenantID()
	if tenantID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "login", fmt.Errorf("account %s has no current tenant", account.ID))
	}

	issuedAt := b.now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		TenantID:  tenantID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(b.ttl),
	}

	claims := Claims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   account.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	session.Token = token

	if err := b.store.Register(ctx, session); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	return session, nil
}

func (b *Binder) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	if err := b.store.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("revoke session %s: %w", session.ID, err)
	}
	return nil
}

// Validate parses a token issued by Login and checks it has not been revoked.
// In production the generation service performs this check against the shared
// redis store; with the memory store only this process can see revocations.
func (b *Binder) Validate(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return b.signingKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(b.now))
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnauthorized, "validate session", err)
	}
	if !parsed.Valid {
		return nil, domain.WrapError(domain.ErrUnauthorized, "validate session", errors.New("token invalid"))
	}

	active, err := b.store.Active(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !active {
		return nil, domain.WrapError(domain.ErrUnauthorized, "validate session", fmt.Errorf("session %s revoked", claims.ID))
	}
	return claims, nil
}
