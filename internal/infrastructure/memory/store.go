// Package memory holds in-process implementations of the repository ports.
// They enforce the same constraints as the remote tables: one business per user,
// scoped updates and soft deletes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
)

// Store is one shared in-memory database. Its repositories share a single lock.
type Store struct {
	mu         sync.Mutex
	now        func() time.Time
	businesses map[string]*entity.Business // keyed by user id
	stocks     map[string]*entity.Stock
	parties    map[string]*entity.CustomerSupplier
}

// NewStore returns an empty store. A nil clock uses time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:        now,
		businesses: map[string]*entity.Business{},
		stocks:     map[string]*entity.Stock{},
		parties:    map[string]*entity.CustomerSupplier{},
	}
}

// Businesses returns the business repository.
func (s *Store) Businesses() *BusinessRepository { return &BusinessRepository{s: s} }

// Stocks returns the stock repository.
func (s *Store) Stocks() *StockRepository { return &StockRepository{s: s} }

// CustomerSuppliers returns the party repository.
func (s *Store) CustomerSuppliers() *CustomerSupplierRepository {
	return &CustomerSupplierRepository{s: s}
}

// BusinessCount returns how many business rows exist for userID (0 or 1).
func (s *Store) BusinessCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.businesses[userID]; ok {
		return 1
	}
	return 0
}

// Party returns the stored row regardless of is_active, or nil.
func (s *Store) Party(id string) *entity.CustomerSupplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parties[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// stamp fills the id and creation time the database would default.
func (s *Store) stamp(id *string, created *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if created.IsZero() {
		*created = s.now().UTC()
	}
}

func inScope(userID, businessID string, scope entity.Scope) bool {
	return userID == scope.UserID && businessID == scope.BusinessID
}

// BusinessRepository is the in-memory business table.
type BusinessRepository struct{ s *Store }

var _ repository.BusinessRepository = (*BusinessRepository)(nil)

func (r *BusinessRepository) UpsertByUser(_ context.Context, b *entity.Business) (*entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.businesses[b.UserID]; exists {
		return nil, nil
	}
	row := *b
	r.s.stamp(&row.ID, &row.CreatedAt)
	r.s.businesses[row.UserID] = &row
	out := row
	return &out, nil
}

func (r *BusinessRepository) LatestByUser(_ context.Context, userID string) (*entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[userID]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

// StockRepository is the in-memory stock table.
type StockRepository struct{ s *Store }

var _ repository.StockRepository = (*StockRepository)(nil)

func (r *StockRepository) Create(_ context.Context, st *entity.Stock) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *st
	r.s.stamp(&row.ID, &row.CreatedAt)
	if _, exists := r.s.stocks[row.ID]; exists {
		return nil, domain.ErrDuplicate
	}
	r.s.stocks[row.ID] = &row
	out := row
	return &out, nil
}

func (r *StockRepository) ListActive(_ context.Context, scope entity.Scope) ([]*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Stock, 0)
	for _, st := range r.s.stocks {
		if st.IsActive && inScope(st.UserID, st.BusinessID, scope) {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *StockRepository) Update(_ context.Context, scope entity.Scope, id string, ch entity.StockChanges) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stocks[id]
	if !ok || !inScope(st.UserID, st.BusinessID, scope) {
		return nil, domain.ErrNotFound
	}
	st.Name = ch.Name
	st.Unit = ch.Unit
	st.CostPerUnit = ch.CostPerUnit
	st.OpeningStock = ch.OpeningStock
	st.TotalCost = ch.TotalCost
	st.TotalSold = ch.TotalSold
	out := *st
	return &out, nil
}

// CustomerSupplierRepository is the in-memory customer_suppliers table.
type CustomerSupplierRepository struct{ s *Store }

var _ repository.CustomerSupplierRepository = (*CustomerSupplierRepository)(nil)

func (r *CustomerSupplierRepository) Create(_ context.Context, cs *entity.CustomerSupplier) (*entity.CustomerSupplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *cs
	r.s.stamp(&row.ID, &row.CreatedAt)
	if _, exists := r.s.parties[row.ID]; exists {
		return nil, domain.ErrDuplicate
	}
	r.s.parties[row.ID] = &row
	out := row
	return &out, nil
}

func (r *CustomerSupplierRepository) ListActive(_ context.Context, scope entity.Scope) ([]*entity.CustomerSupplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.CustomerSupplier, 0)
	for _, p := range r.s.parties {
		if p.IsActive && inScope(p.UserID, p.BusinessID, scope) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CustomerSupplierRepository) Update(_ context.Context, scope entity.Scope, id string, ch entity.CustomerSupplierChanges) (*entity.CustomerSupplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parties[id]
	if !ok || !inScope(p.UserID, p.BusinessID, scope) {
		return nil, domain.ErrNotFound
	}
	p.PartyType = ch.PartyType
	p.Name = ch.Name
	p.Phone = ch.Phone
	p.TotalPayable = ch.TotalPayable
	p.TotalReceivable = ch.TotalReceivable
	if ch.Description.Set {
		p.Description = ch.Description.Value
	}
	if ch.RecordDate.Set {
		p.RecordDate = ch.RecordDate.Value
	}
	if ch.AvatarURL.Set {
		p.AvatarURL = ch.AvatarURL.Value
	}
	out := *p
	return &out, nil
}

func (r *CustomerSupplierRepository) SoftDelete(_ context.Context, scope entity.Scope, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parties[id]
	if !ok || !inScope(p.UserID, p.BusinessID, scope) {
		return domain.ErrNotFound
	}
	p.IsActive = false
	return nil
}
