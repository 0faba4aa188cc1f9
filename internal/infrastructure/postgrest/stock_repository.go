package postgrest

import (
	"context"
	"fmt"

	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
)

// StockRepository implements repository.StockRepository over PostgREST.
type StockRepository struct {
	client *Client
}

func NewStockRepository(client *Client) *StockRepository {
	return &StockRepository{client: client}
}

var _ repository.StockRepository = (*StockRepository)(nil)

func (r *StockRepository) Create(ctx context.Context, s *entity.Stock) (*entity.Stock, error) {
	var row stockRow
	err := r.client.From(tableStocks).
		Insert(newStockRow(s)).
		Select(stockColumns).
		Single().
		Execute(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}
	return row.toEntity(), nil
}

func (r *StockRepository) ListActive(ctx context.Context, scope entity.Scope) ([]*entity.Stock, error) {
	var rows []stockRow
	err := r.client.From(tableStocks).
		Select(stockColumns).
		Eq("user_id", scope.UserID).
		Eq("business_id", scope.BusinessID).
		Eq("is_active", true).
		Order("created_at", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	out := make([]*entity.Stock, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Update patches one stock; a filter that matches nothing surfaces as domain.ErrNotFound.
func (r *StockRepository) Update(ctx context.Context, scope entity.Scope, id string, ch entity.StockChanges) (*entity.Stock, error) {
	var row stockRow
	err := r.client.From(tableStocks).
		Update(stockChanges(ch)).
		Eq("id", id).
		Eq("user_id", scope.UserID).
		Eq("business_id", scope.BusinessID).
		Select(stockColumns).
		Single().
		Execute(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("update stock %s: %w", id, err)
	}
	return row.toEntity(), nil
}
