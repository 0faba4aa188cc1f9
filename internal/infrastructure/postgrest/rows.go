package postgrest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/khata/internal/domain/entity"
)

const (
	tableBusinesses        = "businesses"
	tableStocks            = "stocks"
	tableCustomerSuppliers = "customer_suppliers"

	stockColumns = "id,user_id,business_id,name,unit,cost_per_unit,total_cost,total_sold,opening_stock,is_active,created_at"
	partyColumns = "id,user_id,business_id,party_type,name,phone,total_payable,total_receivable,description,record_date,avatar_url,is_active,created_at"
)

type businessRow struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (r businessRow) toEntity() *entity.Business {
	return &entity.Business{ID: r.ID, UserID: r.UserID, Name: r.Name, CreatedAt: derefTime(r.CreatedAt)}
}

type stockRow struct {
	ID           string          `json:"id,omitempty"`
	UserID       string          `json:"user_id"`
	BusinessID   string          `json:"business_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalSold    decimal.Decimal `json:"total_sold"`
	IsActive     *bool           `json:"is_active,omitempty"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
}

func newStockRow(s *entity.Stock) stockRow {
	active := s.IsActive
	return stockRow{
		ID:           s.ID,
		UserID:       s.UserID,
		BusinessID:   s.BusinessID,
		Name:         s.Name,
		Unit:         s.Unit,
		CostPerUnit:  s.CostPerUnit,
		OpeningStock: s.OpeningStock,
		TotalCost:    s.TotalCost,
		TotalSold:    s.TotalSold,
		IsActive:     &active,
	}
}

func (r stockRow) toEntity() *entity.Stock {
	return &entity.Stock{
		ID:           r.ID,
		UserID:       r.UserID,
		BusinessID:   r.BusinessID,
		Name:         r.Name,
		Unit:         r.Unit,
		CostPerUnit:  r.CostPerUnit,
		OpeningStock: r.OpeningStock,
		TotalCost:    r.TotalCost,
		TotalSold:    r.TotalSold,
		IsActive:     r.IsActive == nil || *r.IsActive,
		CreatedAt:    derefTime(r.CreatedAt),
	}
}

type partyRow struct {
	ID              string          `json:"id,omitempty"`
	UserID          string          `json:"user_id"`
	BusinessID      string          `json:"business_id"`
	PartyType       string          `json:"party_type"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	Description     *string         `json:"description"`
	RecordDate      string          `json:"record_date"`
	AvatarURL       *string         `json:"avatar_url"`
	IsActive        *bool           `json:"is_active,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
}

func newPartyRow(cs *entity.CustomerSupplier) partyRow {
	active := cs.IsActive
	return partyRow{
		ID:              cs.ID,
		UserID:          cs.UserID,
		BusinessID:      cs.BusinessID,
		PartyType:       cs.PartyType,
		Name:            cs.Name,
		Phone:           cs.Phone,
		TotalPayable:    cs.TotalPayable,
		TotalReceivable: cs.TotalReceivable,
		Description:     cs.Description,
		RecordDate:      cs.RecordDate,
		AvatarURL:       cs.AvatarURL,
		IsActive:        &active,
	}
}

func (r partyRow) toEntity() *entity.CustomerSupplier {
	return &entity.CustomerSupplier{
		ID:              r.ID,
		UserID:          r.UserID,
		BusinessID:      r.BusinessID,
		PartyType:       r.PartyType,
		Name:            r.Name,
		Phone:           r.Phone,
		TotalPayable:    r.TotalPayable,
		TotalReceivable: r.TotalReceivable,
		Description:     r.Description,
		RecordDate:      r.RecordDate,
		AvatarURL:       r.AvatarURL,
		IsActive:        r.IsActive == nil || *r.IsActive,
		CreatedAt:       derefTime(r.CreatedAt),
	}
}

// partyChanges builds a PATCH body holding only the provided optional columns.
func partyChanges(ch entity.CustomerSupplierChanges) map[string]any {
	body := map[string]any{
		"party_type":       ch.PartyType,
		"name":             ch.Name,
		"phone":            ch.Phone,
		"total_payable":    ch.TotalPayable,
		"total_receivable": ch.TotalReceivable,
	}
	if ch.Description.Set {
		body["description"] = ch.Description.Value
	}
	if ch.RecordDate.Set {
		body["record_date"] = ch.RecordDate.Value
	}
	if ch.AvatarURL.Set {
		body["avatar_url"] = ch.AvatarURL.Value
	}
	return body
}

func stockChanges(ch entity.StockChanges) map[string]any {
	return map[string]any{
		"name":          ch.Name,
		"unit":          ch.Unit,
		"cost_per_unit": ch.CostPerUnit,
		"opening_stock": ch.OpeningStock,
		"total_cost":    ch.TotalCost,
		"total_sold":    ch.TotalSold,
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
