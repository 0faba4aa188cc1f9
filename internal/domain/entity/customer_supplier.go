package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party types.
const (
	PartyCustomer = "customer"
	PartySupplier = "supplier"
)

// IsPartyType reports whether t is a known party type.
func IsPartyType(t string) bool {
	return t == PartyCustomer || t == PartySupplier
}

// CustomerSupplier is a party the business trades with.
// Receivable is owed to the business, payable is owed by it.
type CustomerSupplier struct {
	ID              string
	UserID          string
	BusinessID      string
	PartyType       string
	Name            string
	Phone           string
	TotalPayable    decimal.Decimal
	TotalReceivable decimal.Decimal
	Description     *string
	RecordDate      string // YYYY-MM-DD
	AvatarURL       *string
	IsActive        bool
	CreatedAt       time.Time
}

// CustomerSupplierChanges is an edit payload. The Optional fields are only written when Set.
type CustomerSupplierChanges struct {
	PartyType       string
	Name            string
	Phone           string
	TotalPayable    decimal.Decimal
	TotalReceivable decimal.Decimal
	Description     Optional[*string]
	RecordDate      Optional[string]
	AvatarURL       Optional[*string]
}
