package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/pkg/amount"
)

type stockFields struct {
	name, unit                string
	costPerUnit, openingStock decimal.Decimal
}

func validateStock(name, unit string, costPerUnit, openingStock float64) (stockFields, error) {
	f := stockFields{name: strings.TrimSpace(name), unit: strings.TrimSpace(unit)}
	if f.name == "" {
		return f, domain.Invalid("name", "Stock name is required")
	}
	if f.unit == "" {
		return f, domain.Invalid("unit", "Stock unit is required")
	}
	if !amount.IsFinite(costPerUnit) || costPerUnit <= 0 {
		return f, domain.Invalid("cost_per_unit", "Cost per unit must be greater than 0")
	}
	if !amount.IsNonNegative(openingStock) {
		return f, domain.Invalid("opening_stock", "Opening stock cannot be negative")
	}
	f.costPerUnit = decimal.NewFromFloat(costPerUnit)
	f.openingStock = decimal.NewFromFloat(openingStock)
	return f, nil
}

// CreateStock validates the input, resolves the business and inserts the stock with
// total_cost = round(cost_per_unit * opening_stock, 2) and total_sold = 0.
func (s *Service) CreateStock(ctx context.Context, sess entity.SessionContext, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	defer s.begin()()
	if !sess.Ready() {
		return nil, domain.ErrAuthNotReady
	}
	f, err := validateStock(in.Name, in.Unit, in.CostPerUnit, in.OpeningStock)
	if err != nil {
		return nil, err
	}

	b, err := s.resolveBusiness(ctx, sess)
	if err != nil {
		return nil, s.fail("create_stock", err)
	}

	created, err := s.stocks.Create(ctx, &entity.Stock{
		ID:           newID(),
		UserID:       sess.UserID,
		BusinessID:   b.ID,
		Name:         f.name,
		Unit:         f.unit,
		CostPerUnit:  f.costPerUnit,
		OpeningStock: f.openingStock,
		TotalCost:    entity.TotalCost(f.costPerUnit, f.openingStock),
		TotalSold:    decimal.Zero,
		IsActive:     true,
	})
	if err != nil {
		return nil, s.fail("create_stock", err)
	}
	out := dto.ToStockResponse(created)
	return &out, nil
}

// GetStocks lists the active stocks, newest first. Empty when the session is not ready or
// the user has no business yet.
func (s *Service) GetStocks(ctx context.Context, sess entity.SessionContext) ([]dto.StockResponse, error) {
	defer s.begin()()
	list, err := s.activeStocks(ctx, sess)
	if err != nil {
		return nil, s.fail("get_stocks", err)
	}
	return dto.ToStockResponses(list), nil
}

func (s *Service) activeStocks(ctx context.Context, sess entity.SessionContext) ([]*entity.Stock, error) {
	if !sess.Ready() {
		return nil, nil
	}
	scope, err := s.existingScope(ctx, sess)
	if err != nil || scope == nil {
		return nil, err
	}
	return s.stocks.ListActive(ctx, *scope)
}

// UpdateStock rewrites a stock scoped to the caller's business. total_cost is recomputed.
func (s *Service) UpdateStock(ctx context.Context, sess entity.SessionContext, in dto.UpdateStockRequest) (*dto.StockResponse, error) {
	defer s.begin()()
	if !sess.Ready() {
		return nil, domain.ErrAuthNotReady
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, domain.Invalid("id", "Stock id is required")
	}
	f, err := validateStock(in.Name, in.Unit, in.CostPerUnit, in.OpeningStock)
	if err != nil {
		return nil, err
	}
	if !amount.IsNonNegative(in.TotalSold) {
		return nil, domain.Invalid("total_sold", "Total sold cannot be negative")
	}

	b, err := s.resolveBusiness(ctx, sess)
	if err != nil {
		return nil, s.fail("update_stock", err)
	}

	updated, err := s.stocks.Update(ctx, b.Scope(), id, entity.StockChanges{
		Name:         f.name,
		Unit:         f.unit,
		CostPerUnit:  f.costPerUnit,
		OpeningStock: f.openingStock,
		TotalCost:    entity.TotalCost(f.costPerUnit, f.openingStock),
		TotalSold:    decimal.NewFromFloat(in.TotalSold),
	})
	if err != nil {
		return nil, s.fail("update_stock", err)
	}
	out := dto.ToStockResponse(updated)
	return &out, nil
}

// StockSummary totals the active stocks: balance = total cost - total sold.
func (s *Service) StockSummary(ctx context.Context, sess entity.SessionContext) (dto.StockSummaryResponse, error) {
	defer s.begin()()
	list, err := s.activeStocks(ctx, sess)
	if err != nil {
		return dto.StockSummaryResponse{}, s.fail("stock_summary", err)
	}
	return dto.ToStockSummaryResponse(Totals(list)), nil
}

// Totals aggregates a stock list.
func Totals(list []*entity.Stock) entity.StockTotals {
	t := entity.StockTotals{TotalCost: decimal.Zero, TotalSold: decimal.Zero}
	for _, st := range list {
		t.Count++
		t.TotalCost = t.TotalCost.Add(st.TotalCost)
		t.TotalSold = t.TotalSold.Add(st.TotalSold)
	}
	t.Balance = t.TotalCost.Sub(t.TotalSold)
	return t
}
