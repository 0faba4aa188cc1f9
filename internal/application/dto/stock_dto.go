package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/khata/internal/domain/entity"
)

// CreateStockRequest input for a new stock item. total_cost is never accepted; it is computed.
type CreateStockRequest struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	OpeningStock float64 `json:"opening_stock"`
}

// UpdateStockRequest full edit of a stock item.
type UpdateStockRequest struct {
	ID           string  `json:"-"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	OpeningStock float64 `json:"opening_stock"`
	TotalSold    float64 `json:"total_sold"`
}

// StockResponse one stock item.
type StockResponse struct {
	ID           string          `json:"id"`
	BusinessID   string          `json:"business_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalSold    decimal.Decimal `json:"total_sold"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StockSummaryResponse totals over the active stock list.
type StockSummaryResponse struct {
	Count     int             `json:"count"`
	TotalCost decimal.Decimal `json:"total_cost"`
	TotalSold decimal.Decimal `json:"total_sold"`
	Balance   decimal.Decimal `json:"balance"`
}

func ToStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ID:           s.ID,
		BusinessID:   s.BusinessID,
		Name:         s.Name,
		Unit:         s.Unit,
		CostPerUnit:  s.CostPerUnit,
		OpeningStock: s.OpeningStock,
		TotalCost:    s.TotalCost,
		TotalSold:    s.TotalSold,
		CreatedAt:    s.CreatedAt,
	}
}

func ToStockResponses(list []*entity.Stock) []StockResponse {
	out := make([]StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToStockResponse(s))
	}
	return out
}

func ToStockSummaryResponse(t entity.StockTotals) StockSummaryResponse {
	return StockSummaryResponse{Count: t.Count, TotalCost: t.TotalCost, TotalSold: t.TotalSold, Balance: t.Balance}
}
