package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) FindPrincipalByToken(ctx context.Context, token string) (domain.Principal, error) {
	const query = `
SELECT u.id, u.role
FROM auth_tokens t
JOIN users u ON u.id = t.user_id
WHERE t.token = $1 AND (t.expires_at IS NULL OR t.expires_at > NOW())`

	var p domain.Principal
	var role string
	err := r.pool.QueryRow(ctx, query, token).Scan(&p.UserID, &role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Principal{}, domain.ErrInvalidToken
		}
		return domain.Principal{}, fmt.Errorf("find principal by token: %w", err)
	}
	p.Role = domain.Role(role)
	return p, nil
}
