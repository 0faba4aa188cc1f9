package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is an inventory item held by a business.
// TotalCost is always CostPerUnit * OpeningStock rounded to 2 places; it is never taken from input.
type Stock struct {
	ID           string
	UserID       string
	BusinessID   string
	Name         string
	Unit         string
	CostPerUnit  decimal.Decimal
	OpeningStock decimal.Decimal
	TotalCost    decimal.Decimal
	TotalSold    decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
}

// StockChanges are the columns written by an edit.
type StockChanges struct {
	Name         string
	Unit         string
	CostPerUnit  decimal.Decimal
	OpeningStock decimal.Decimal
	TotalCost    decimal.Decimal
	TotalSold    decimal.Decimal
}

// StockTotals aggregates the active stock list.
type StockTotals struct {
	Count     int
	TotalCost decimal.Decimal
	TotalSold decimal.Decimal
	Balance   decimal.Decimal
}

// TotalCost computes round(costPerUnit * openingStock, 2).
func TotalCost(costPerUnit, openingStock decimal.Decimal) decimal.Decimal {
	return costPerUnit.Mul(openingStock).Round(2)
}
