// Package ledger is the business-scoped data access layer: it resolves the user's business,
// validates and normalizes input, and reads and writes stocks and customer/suppliers
// through the repository ports.
package ledger

import (
	"errors"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/repository"
	"github.com/jhoicas/khata/pkg/logger"
)

// avatarBaseURL is the generated-avatar endpoint used when a party has no picture.
const avatarBaseURL = "https://api.dicebear.com/9.x/lorelei/png"

// Service implements the ledger operations. It is safe for concurrent use; calls are not serialized.
type Service struct {
	businesses repository.BusinessRepository
	stocks     repository.StockRepository
	parties    repository.CustomerSupplierRepository
	log        *logger.Logger
	now        func() time.Time
	inFlight   atomic.Int32
}

// NewService builds the service. A nil logger discards output; a nil clock uses time.Now.
func NewService(
	businesses repository.BusinessRepository,
	stocks repository.StockRepository,
	parties repository.CustomerSupplierRepository,
	log *logger.Logger,
	now func() time.Time,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		businesses: businesses,
		stocks:     stocks,
		parties:    parties,
		log:        log.Named("ledger"),
		now:        now,
	}
}

// Loading reports whether any operation is in flight. It is a UI hint, not a lock.
func (s *Service) Loading() bool {
	return s.inFlight.Load() > 0
}

func (s *Service) begin() func() {
	s.inFlight.Add(1)
	return func() { s.inFlight.Add(-1) }
}

// DefaultAvatarURL returns the generated avatar for seed (usually the party name).
func DefaultAvatarURL(seed string) string {
	return avatarBaseURL + "?seed=" + url.QueryEscape(strings.TrimSpace(seed))
}

// fail logs unexpected errors. Validation and not-found results are expected outcomes and stay quiet.
func (s *Service) fail(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAuthNotReady):
	default:
		s.log.Error().Err(err).Str("op", op).Msg("ledger operation failed")
	}
	return err
}

func newID() string { return uuid.New().String() }
