package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id::text, user_id, business_id::text, name, unit, cost_per_unit, opening_stock, total_cost, total_sold, is_active, created_at`

// StockRepo implements repository.StockRepository on PostgreSQL.
type StockRepo struct {
	q Querier
}

// NewStockRepository builds the adapter. Pass a pool or a tx.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(&s.ID, &s.UserID, &s.BusinessID, &s.Name, &s.Unit,
		&s.CostPerUnit, &s.OpeningStock, &s.TotalCost, &s.TotalSold, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) Create(ctx context.Context, s *entity.Stock) (*entity.Stock, error) {
	query := `
		INSERT INTO stocks (id, user_id, business_id, name, unit, cost_per_unit, opening_stock, total_cost, total_sold, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + stockColumns
	out, err := scanStock(r.q.QueryRow(ctx, query,
		s.ID, s.UserID, s.BusinessID, s.Name, s.Unit,
		s.CostPerUnit, s.OpeningStock, s.TotalCost, s.TotalSold, s.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert stock: %w", err)
	}
	return out, nil
}

func (r *StockRepo) ListActive(ctx context.Context, scope entity.Scope) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks
		WHERE user_id = $1 AND business_id = $2 AND is_active = true
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, scope.UserID, scope.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Stock, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StockRepo) Update(ctx context.Context, scope entity.Scope, id string, ch entity.StockChanges) (*entity.Stock, error) {
	query := `
		UPDATE stocks
		SET name = $4, unit = $5, cost_per_unit = $6, opening_stock = $7, total_cost = $8, total_sold = $9
		WHERE id = $1 AND user_id = $2 AND business_id = $3
		RETURNING ` + stockColumns
	out, err := scanStock(r.q.QueryRow(ctx, query,
		id, scope.UserID, scope.BusinessID,
		ch.Name, ch.Unit, ch.CostPerUnit, ch.OpeningStock, ch.TotalCost, ch.TotalSold,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update stock %s: %w", id, err)
	}
	return out, nil
}
