package postgrest

import (
	"context"
	"fmt"

	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
)

// BusinessRepository implements repository.BusinessRepository over PostgREST.
type BusinessRepository struct {
	client *Client
}

// NewBusinessRepository builds the repository on a REST client.
func NewBusinessRepository(client *Client) *BusinessRepository {
	return &BusinessRepository{client: client}
}

var _ repository.BusinessRepository = (*BusinessRepository)(nil)

// UpsertByUser inserts with on_conflict=user_id and ignore-duplicates; an existing row yields nil.
func (r *BusinessRepository) UpsertByUser(ctx context.Context, b *entity.Business) (*entity.Business, error) {
	var rows []businessRow
	err := r.client.From(tableBusinesses).
		Upsert(businessRow{ID: b.ID, UserID: b.UserID, Name: b.Name}, "user_id", true).
		Select("*").
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("upsert business: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

func (r *BusinessRepository) LatestByUser(ctx context.Context, userID string) (*entity.Business, error) {
	var rows []businessRow
	err := r.client.From(tableBusinesses).
		Select("*").
		Eq("user_id", userID).
		Order("created_at", false).
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}
