package repository

import (
	"context"

	"github.com/jhoicas/khata/internal/domain/entity"
)

// CustomerSupplierRepository is the persistence port for customer/supplier parties.
// Update and SoftDelete are scoped by (id, user, business) and return domain.ErrNotFound when nothing matched.
type CustomerSupplierRepository interface {
	Create(ctx context.Context, cs *entity.CustomerSupplier) (*entity.CustomerSupplier, error)
	ListActive(ctx context.Context, scope entity.Scope) ([]*entity.CustomerSupplier, error)
	Update(ctx context.Context, scope entity.Scope, id string, ch entity.CustomerSupplierChanges) (*entity.CustomerSupplier, error)
	SoftDelete(ctx context.Context, scope entity.Scope, id string) error
}
