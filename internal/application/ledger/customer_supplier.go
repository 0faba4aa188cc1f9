package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/pkg/amount"
	"github.com/jhoicas/khata/pkg/phone"
)

const dateLayout = "2006-01-02"

type partyFields struct {
	partyType, name, phone        string
	totalPayable, totalReceivable decimal.Decimal
}

func validateParty(partyType, name, rawPhone string, payable, receivable float64) (partyFields, error) {
	f := partyFields{
		partyType: strings.TrimSpace(partyType),
		name:      strings.TrimSpace(name),
		phone:     phone.NormalizeBD(rawPhone),
	}
	if !entity.IsPartyType(f.partyType) {
		return f, domain.Invalid("party_type", "Party type must be customer or supplier")
	}
	if f.name == "" {
		return f, domain.Invalid("name", "Name is required")
	}
	if !phone.IsValidBDMobile(f.phone) {
		return f, domain.Invalid("phone", "Valid phone number is required")
	}
	if !amount.IsNonNegative(payable) {
		return f, domain.Invalid("total_payable", "Total payable cannot be negative")
	}
	if !amount.IsNonNegative(receivable) {
		return f, domain.Invalid("total_receivable", "Total receivable cannot be negative")
	}
	f.totalPayable = amount.Round2(payable)
	f.totalReceivable = amount.Round2(receivable)
	return f, nil
}

func validateRecordDate(d string) (string, error) {
	d = strings.TrimSpace(d)
	if _, err := time.Parse(dateLayout, d); err != nil {
		return "", domain.Invalid("record_date", "Record date must be YYYY-MM-DD")
	}
	return d, nil
}

// blankToNil trims s; blank becomes nil.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// CreateCustomerSupplier validates and inserts a party. record_date defaults to today (UTC);
// blank description and omitted avatar are stored as null.
func (s *Service) CreateCustomerSupplier(ctx context.Context, sess entity.SessionContext, in dto.CreateCustomerSupplierRequest) (*dto.CustomerSupplierResponse, error) {
	defer s.begin()()
	if !sess.Ready() {
		return nil, domain.ErrAuthNotReady
	}
	f, err := validateParty(in.PartyType, in.Name, in.Phone, in.TotalPayable, in.TotalReceivable)
	if err != nil {
		return nil, err
	}
	recordDate := s.now().UTC().Format(dateLayout)
	if in.RecordDate != nil {
		if recordDate, err = validateRecordDate(*in.RecordDate); err != nil {
			return nil, err
		}
	}

	b, err := s.resolveBusiness(ctx, sess)
	if err != nil {
		return nil, s.fail("create_customer_supplier", err)
	}

	created, err := s.parties.Create(ctx, &entity.CustomerSupplier{
		ID:              newID(),
		UserID:          sess.UserID,
		BusinessID:      b.ID,
		PartyType:       f.partyType,
		Name:            f.name,
		Phone:           f.phone,
		TotalPayable:    f.totalPayable,
		TotalReceivable: f.totalReceivable,
		Description:     blankToNil(in.Description),
		RecordDate:      recordDate,
		AvatarURL:       in.AvatarURL,
		IsActive:        true,
	})
	if err != nil {
		return nil, s.fail("create_customer_supplier", err)
	}
	out := dto.ToCustomerSupplierResponse(created)
	return &out, nil
}

// GetCustomerSuppliers lists the active parties, newest first. Soft-deleted rows never appear.
func (s *Service) GetCustomerSuppliers(ctx context.Context, sess entity.SessionContext) ([]dto.CustomerSupplierResponse, error) {
	defer s.begin()()
	if !sess.Ready() {
		return []dto.CustomerSupplierResponse{}, nil
	}
	scope, err := s.existingScope(ctx, sess)
	if err != nil {
		return nil, s.fail("get_customer_suppliers", err)
	}
	if scope == nil {
		return []dto.CustomerSupplierResponse{}, nil
	}
	list, err := s.parties.ListActive(ctx, *scope)
	if err != nil {
		return nil, s.fail("get_customer_suppliers", err)
	}
	return dto.ToCustomerSupplierResponses(list), nil
}

// UpdateCustomerSupplier edits a party. Optional fields absent from the request keep their
// stored value; an explicit null avatar clears it.
func (s *Service) UpdateCustomerSupplier(ctx context.Context, sess entity.SessionContext, in dto.UpdateCustomerSupplierRequest) (*dto.CustomerSupplierResponse, error) {
	defer s.begin()()
	if !sess.Ready() {
		return nil, domain.ErrAuthNotReady
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, domain.Invalid("id", "Customer/Supplier id is required")
	}
	f, err := validateParty(in.PartyType, in.Name, in.Phone, in.TotalPayable, in.TotalReceivable)
	if err != nil {
		return nil, err
	}

	ch := entity.CustomerSupplierChanges{
		PartyType:       f.partyType,
		Name:            f.name,
		Phone:           f.phone,
		TotalPayable:    f.totalPayable,
		TotalReceivable: f.totalReceivable,
		AvatarURL:       in.AvatarURL,
	}
	if in.Description.Set {
		ch.Description = entity.Some(blankToNil(&in.Description.Value))
	}
	if in.RecordDate.Set {
		d, err := validateRecordDate(in.RecordDate.Value)
		if err != nil {
			return nil, err
		}
		ch.RecordDate = entity.Some(d)
	}

	b, err := s.resolveBusiness(ctx, sess)
	if err != nil {
		return nil, s.fail("update_customer_supplier", err)
	}

	updated, err := s.parties.Update(ctx, b.Scope(), id, ch)
	if err != nil {
		return nil, s.fail("update_customer_supplier", err)
	}
	out := dto.ToCustomerSupplierResponse(updated)
	return &out, nil
}

// DeleteCustomerSupplier soft-deletes a party (is_active = false). domain.ErrNotFound when the
// id does not belong to the caller's business.
func (s *Service) DeleteCustomerSupplier(ctx context.Context, sess entity.SessionContext, id string) error {
	defer s.begin()()
	if !sess.Ready() {
		return domain.ErrAuthNotReady
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("id", "Customer/Supplier id is required")
	}

	b, err := s.resolveBusiness(ctx, sess)
	if err != nil {
		return s.fail("delete_customer_supplier", err)
	}
	if err := s.parties.SoftDelete(ctx, b.Scope(), id); err != nil {
		return s.fail("delete_customer_supplier", err)
	}
	return nil
}
