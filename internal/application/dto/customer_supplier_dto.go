package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/khata/internal/domain/entity"
)

// CreateCustomerSupplierRequest input for a new party. Omitted record_date defaults to today (UTC).
type CreateCustomerSupplierRequest struct {
	PartyType       string  `json:"party_type"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	TotalPayable    float64 `json:"total_payable"`
	TotalReceivable float64 `json:"total_receivable"`
	Description     *string `json:"description"`
	RecordDate      *string `json:"record_date"`
	AvatarURL       *string `json:"avatar_url"`
}

// UpdateCustomerSupplierRequest edit payload. description, record_date and avatar_url are only
// written when present in the body; "avatar_url": null clears the avatar.
type UpdateCustomerSupplierRequest struct {
	ID              string                   `json:"-"`
	PartyType       string                   `json:"party_type"`
	Name            string                   `json:"name"`
	Phone           string                   `json:"phone"`
	TotalPayable    float64                  `json:"total_payable"`
	TotalReceivable float64                  `json:"total_receivable"`
	Description     entity.Optional[string]  `json:"description"`
	RecordDate      entity.Optional[string]  `json:"record_date"`
	AvatarURL       entity.Optional[*string] `json:"avatar_url"`
}

// CustomerSupplierResponse one party.
type CustomerSupplierResponse struct {
	ID              string          `json:"id"`
	BusinessID      string          `json:"business_id"`
	PartyType       string          `json:"party_type"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	Description     *string         `json:"description"`
	RecordDate      string          `json:"record_date"`
	AvatarURL       *string         `json:"avatar_url"`
	CreatedAt       time.Time       `json:"created_at"`
}

func ToCustomerSupplierResponse(cs *entity.CustomerSupplier) CustomerSupplierResponse {
	return CustomerSupplierResponse{
		ID:              cs.ID,
		BusinessID:      cs.BusinessID,
		PartyType:       cs.PartyType,
		Name:            cs.Name,
		Phone:           cs.Phone,
		TotalPayable:    cs.TotalPayable,
		TotalReceivable: cs.TotalReceivable,
		Description:     cs.Description,
		RecordDate:      cs.RecordDate,
		AvatarURL:       cs.AvatarURL,
		CreatedAt:       cs.CreatedAt,
	}
}

func ToCustomerSupplierResponses(list []*entity.CustomerSupplier) []CustomerSupplierResponse {
	out := make([]CustomerSupplierResponse, 0, len(list))
	for _, cs := range list {
		out = append(out, ToCustomerSupplierResponse(cs))
	}
	return out
}
