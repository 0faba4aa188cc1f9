package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
)

var _ repository.CustomerSupplierRepository = (*CustomerSupplierRepo)(nil)

const partyColumns = `id::text, user_id, business_id::text, party_type, name, phone, total_payable, total_receivable,
	description, record_date::text, avatar_url, is_active, created_at`

// CustomerSupplierRepo implements repository.CustomerSupplierRepository on PostgreSQL.
type CustomerSupplierRepo struct {
	q Querier
}

// NewCustomerSupplierRepository builds the adapter. Pass a pool or a tx.
func NewCustomerSupplierRepository(q Querier) *CustomerSupplierRepo {
	return &CustomerSupplierRepo{q: q}
}

func scanParty(row pgx.Row) (*entity.CustomerSupplier, error) {
	var p entity.CustomerSupplier
	err := row.Scan(&p.ID, &p.UserID, &p.BusinessID, &p.PartyType, &p.Name, &p.Phone,
		&p.TotalPayable, &p.TotalReceivable, &p.Description, &p.RecordDate, &p.AvatarURL, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CustomerSupplierRepo) Create(ctx context.Context, cs *entity.CustomerSupplier) (*entity.CustomerSupplier, error) {
	query := `
		INSERT INTO customer_suppliers (id, user_id, business_id, party_type, name, phone, total_payable, total_receivable,
			description, record_date, avatar_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date, $11, $12)
		RETURNING ` + partyColumns
	out, err := scanParty(r.q.QueryRow(ctx, query,
		cs.ID, cs.UserID, cs.BusinessID, cs.PartyType, cs.Name, cs.Phone, cs.TotalPayable, cs.TotalReceivable,
		cs.Description, cs.RecordDate, cs.AvatarURL, cs.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert customer/supplier: %w", err)
	}
	return out, nil
}

func (r *CustomerSupplierRepo) ListActive(ctx context.Context, scope entity.Scope) ([]*entity.CustomerSupplier, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM customer_suppliers
		WHERE user_id = $1 AND business_id = $2 AND is_active = true
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, scope.UserID, scope.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("list customer/suppliers: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.CustomerSupplier, 0)
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer/supplier: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update writes the required columns plus whichever optional columns were provided.
func (r *CustomerSupplierRepo) Update(ctx context.Context, scope entity.Scope, id string, ch entity.CustomerSupplierChanges) (*entity.CustomerSupplier, error) {
	query, args := updatePartyQuery(scope, id, ch)
	out, err := scanParty(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update customer/supplier %s: %w", id, err)
	}
	return out, nil
}

func updatePartyQuery(scope entity.Scope, id string, ch entity.CustomerSupplierChanges) (string, []any) {
	args := []any{id, scope.UserID, scope.BusinessID}
	sets := make([]string, 0, 8)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	set("party_type", ch.PartyType)
	set("name", ch.Name)
	set("phone", ch.Phone)
	set("total_payable", ch.TotalPayable)
	set("total_receivable", ch.TotalReceivable)
	if ch.Description.Set {
		set("description", ch.Description.Value)
	}
	if ch.RecordDate.Set {
		args = append(args, ch.RecordDate.Value)
		sets = append(sets, fmt.Sprintf("record_date = $%d::date", len(args)))
	}
	if ch.AvatarURL.Set {
		set("avatar_url", ch.AvatarURL.Value)
	}

	query := `UPDATE customer_suppliers SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1 AND user_id = $2 AND business_id = $3
		RETURNING ` + partyColumns
	return query, args
}

// SoftDelete sets is_active = false. The row is kept.
func (r *CustomerSupplierRepo) SoftDelete(ctx context.Context, scope entity.Scope, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE customer_suppliers SET is_active = false WHERE id = $1 AND user_id = $2 AND business_id = $3`,
		id, scope.UserID, scope.BusinessID,
	)
	if err != nil {
		return fmt.Errorf("delete customer/supplier %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
