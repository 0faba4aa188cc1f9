package repository

import (
	"context"

	"github.com/jhoicas/khata/internal/domain/entity"
)

// BusinessRepository is the persistence port for businesses (one row per user).
type BusinessRepository interface {
	// UpsertByUser inserts b unless a business already exists for b.UserID.
	// Conflicts are suppressed, not merged: the result is nil when nothing was inserted.
	UpsertByUser(ctx context.Context, b *entity.Business) (*entity.Business, error)
	// LatestByUser returns the most recently created business of the user, or nil.
	LatestByUser(ctx context.Context, userID string) (*entity.Business, error)
}
