package repository

import (
	"context"

	"github.com/jhoicas/khata/internal/domain/entity"
)

// StockRepository is the persistence port for stocks.
// Every query is filtered by the scope; Update returns domain.ErrNotFound when nothing matched.
type StockRepository interface {
	Create(ctx context.Context, s *entity.Stock) (*entity.Stock, error)
	ListActive(ctx context.Context, scope entity.Scope) ([]*entity.Stock, error)
	Update(ctx context.Context, scope entity.Scope, id string, ch entity.StockChanges) (*entity.Stock, error)
}
