package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

const businessColumns = `id::text, user_id, name, created_at`

// BusinessRepo implements repository.BusinessRepository on PostgreSQL (pool or tx).
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository builds the adapter. Pass a pool or a tx.
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// UpsertByUser inserts unless the user already has a business. DO NOTHING returns no row on conflict.
func (r *BusinessRepo) UpsertByUser(ctx context.Context, b *entity.Business) (*entity.Business, error) {
	query := `
		INSERT INTO businesses (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + businessColumns
	var out entity.Business
	err := r.q.QueryRow(ctx, query, b.ID, b.UserID, b.Name).Scan(&out.ID, &out.UserID, &out.Name, &out.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("upsert business: %w", err)
	}
	return &out, nil
}

func (r *BusinessRepo) LatestByUser(ctx context.Context, userID string) (*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	var out entity.Business
	err := r.q.QueryRow(ctx, query, userID).Scan(&out.ID, &out.UserID, &out.Name, &out.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &out, nil
}
