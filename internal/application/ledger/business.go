package ledger

import (
	"context"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
)

// GetOrCreateBusiness returns the user's business, creating the default one on first use.
// Concurrent first calls converge on a single row: the losing upsert is suppressed and the
// winner is read back.
func (s *Service) GetOrCreateBusiness(ctx context.Context, sess entity.SessionContext) (*dto.BusinessResponse, error) {
	defer s.begin()()
	b, err := s.resolveBusiness(ctx, sess)
	if err != nil {
		return nil, s.fail("get_or_create_business", err)
	}
	return dto.ToBusinessResponse(b), nil
}

// SetBusiness is called when the user enters the home flow. Same as GetOrCreateBusiness.
func (s *Service) SetBusiness(ctx context.Context, sess entity.SessionContext) (*dto.BusinessResponse, error) {
	return s.GetOrCreateBusiness(ctx, sess)
}

// GetBusiness returns the user's latest business without creating one. Nil when none exists
// or the session is not ready.
func (s *Service) GetBusiness(ctx context.Context, sess entity.SessionContext) (*dto.BusinessResponse, error) {
	if !sess.Ready() {
		return nil, nil
	}
	b, err := s.businesses.LatestByUser(ctx, sess.UserID)
	if err != nil {
		return nil, s.fail("get_business", err)
	}
	return dto.ToBusinessResponse(b), nil
}

func (s *Service) resolveBusiness(ctx context.Context, sess entity.SessionContext) (*entity.Business, error) {
	if !sess.Ready() {
		return nil, domain.ErrAuthNotReady
	}
	b, err := s.businesses.UpsertByUser(ctx, &entity.Business{
		ID:     newID(),
		UserID: sess.UserID,
		Name:   entity.DefaultBusinessName,
	})
	if err != nil {
		return nil, err
	}
	if b == nil {
		b, err = s.businesses.LatestByUser(ctx, sess.UserID)
		if err != nil {
			return nil, err
		}
	}
	if b == nil || b.ID == "" {
		return nil, domain.ErrBusinessUnresolved
	}
	s.log.Debug().Str("business_id", b.ID).Msg("business resolved")
	return b, nil
}

// existingScope is the read-only resolution used by list operations: no business means no rows.
func (s *Service) existingScope(ctx context.Context, sess entity.SessionContext) (*entity.Scope, error) {
	b, err := s.businesses.LatestByUser(ctx, sess.UserID)
	if err != nil || b == nil {
		return nil, err
	}
	scope := b.Scope()
	return &scope, nil
}
