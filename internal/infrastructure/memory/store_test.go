package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
)

func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestBusinessRepository_OneRowPerUser(t *testing.T) {
	s := NewStore(steppingClock())
	repo := s.Businesses()
	ctx := context.Background()

	first, err := repo.UpsertByUser(ctx, &entity.Business{UserID: "u1", Name: "My Shop"})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotEmpty(t, first.ID)

	second, err := repo.UpsertByUser(ctx, &entity.Business{UserID: "u1", Name: "Other"})
	require.NoError(t, err)
	assert.Nil(t, second)

	latest, err := repo.LatestByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)
	assert.Equal(t, "My Shop", latest.Name)
	assert.Equal(t, 1, s.BusinessCount("u1"))
}

func TestBusinessRepository_ConcurrentUpserts(t *testing.T) {
	s := NewStore(nil)
	repo := s.Businesses()

	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := repo.UpsertByUser(context.Background(), &entity.Business{UserID: "u1", Name: "My Shop"})
			assert.NoError(t, err)
			if b != nil {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, s.BusinessCount("u1"))
}

func TestStockRepository_ScopeAndOrder(t *testing.T) {
	s := NewStore(steppingClock())
	repo := s.Stocks()
	ctx := context.Background()
	scope := entity.Scope{UserID: "u1", BusinessID: "b1"}

	a, err := repo.Create(ctx, &entity.Stock{UserID: "u1", BusinessID: "b1", Name: "A", IsActive: true})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &entity.Stock{UserID: "u1", BusinessID: "b1", Name: "B", IsActive: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &entity.Stock{UserID: "u2", BusinessID: "b2", Name: "C", IsActive: true})
	require.NoError(t, err)

	list, err := repo.ListActive(ctx, scope)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	_, err = repo.Update(ctx, entity.Scope{UserID: "u2", BusinessID: "b2"}, a.ID, entity.StockChanges{Name: "stolen"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := repo.Update(ctx, scope, a.ID, entity.StockChanges{Name: "A2", Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
}

func TestCustomerSupplierRepository_SoftDelete(t *testing.T) {
	s := NewStore(nil)
	repo := s.CustomerSuppliers()
	ctx := context.Background()
	scope := entity.Scope{UserID: "u1", BusinessID: "b1"}

	p, err := repo.Create(ctx, &entity.CustomerSupplier{UserID: "u1", BusinessID: "b1", Name: "Karim", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, scope, p.ID))

	list, err := repo.ListActive(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, list)

	stored := s.Party(p.ID)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)

	assert.ErrorIs(t, repo.SoftDelete(ctx, scope, "missing"), domain.ErrNotFound)
}

func TestCustomerSupplierRepository_PartialUpdate(t *testing.T) {
	s := NewStore(nil)
	repo := s.CustomerSuppliers()
	ctx := context.Background()
	scope := entity.Scope{UserID: "u1", BusinessID: "b1"}
	avatar := "https://example.com/a.png"
	desc := "regular"

	p, err := repo.Create(ctx, &entity.CustomerSupplier{UserID: "u1", BusinessID: "b1", Name: "Karim", AvatarURL: &avatar, Description: &desc, IsActive: true})
	require.NoError(t, err)

	got, err := repo.Update(ctx, scope, p.ID, entity.CustomerSupplierChanges{Name: "Karim Uddin"})
	require.NoError(t, err)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, avatar, *got.AvatarURL)
	assert.Equal(t, &desc, got.Description)

	got, err = repo.Update(ctx, scope, p.ID, entity.CustomerSupplierChanges{Name: "Karim Uddin", AvatarURL: entity.Some[*string](nil)})
	require.NoError(t, err)
	assert.Nil(t, got.AvatarURL)
}
