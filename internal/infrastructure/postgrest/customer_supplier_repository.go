package postgrest

import (
	"context"
	"fmt"

	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
)

// CustomerSupplierRepository implements repository.CustomerSupplierRepository over PostgREST.
type CustomerSupplierRepository struct {
	client *Client
}

func NewCustomerSupplierRepository(client *Client) *CustomerSupplierRepository {
	return &CustomerSupplierRepository{client: client}
}

var _ repository.CustomerSupplierRepository = (*CustomerSupplierRepository)(nil)

func (r *CustomerSupplierRepository) Create(ctx context.Context, cs *entity.CustomerSupplier) (*entity.CustomerSupplier, error) {
	var row partyRow
	err := r.client.From(tableCustomerSuppliers).
		Insert(newPartyRow(cs)).
		Select(partyColumns).
		Single().
		Execute(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("create customer/supplier: %w", err)
	}
	return row.toEntity(), nil
}

func (r *CustomerSupplierRepository) ListActive(ctx context.Context, scope entity.Scope) ([]*entity.CustomerSupplier, error) {
	var rows []partyRow
	err := r.client.From(tableCustomerSuppliers).
		Select(partyColumns).
		Eq("user_id", scope.UserID).
		Eq("business_id", scope.BusinessID).
		Eq("is_active", true).
		Order("created_at", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list customer/suppliers: %w", err)
	}
	out := make([]*entity.CustomerSupplier, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *CustomerSupplierRepository) Update(ctx context.Context, scope entity.Scope, id string, ch entity.CustomerSupplierChanges) (*entity.CustomerSupplier, error) {
	var row partyRow
	err := r.client.From(tableCustomerSuppliers).
		Update(partyChanges(ch)).
		Eq("id", id).
		Eq("user_id", scope.UserID).
		Eq("business_id", scope.BusinessID).
		Select(partyColumns).
		Single().
		Execute(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("update customer/supplier %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// SoftDelete sets is_active=false; the row stays in the table.
func (r *CustomerSupplierRepository) SoftDelete(ctx context.Context, scope entity.Scope, id string) error {
	var row struct {
		ID string `json:"id"`
	}
	err := r.client.From(tableCustomerSuppliers).
		Update(map[string]any{"is_active": false}).
		Eq("id", id).
		Eq("user_id", scope.UserID).
		Eq("business_id", scope.BusinessID).
		Select("id").
		Single().
		Execute(ctx, &row)
	if err != nil {
		return fmt.Errorf("delete customer/supplier %s: %w", id, err)
	}
	return nil
}
