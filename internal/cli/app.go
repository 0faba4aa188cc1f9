package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/khata/internal/application/auth"
	"github.com/jhoicas/khata/internal/application/ledger"
	"github.com/jhoicas/khata/internal/application/ports"
	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/domain/repository"
	"github.com/jhoicas/khata/internal/infrastructure/memory"
	"github.com/jhoicas/khata/internal/infrastructure/postgres"
	"github.com/jhoicas/khata/internal/infrastructure/postgrest"
	"github.com/jhoicas/khata/internal/infrastructure/securestore"
	"github.com/jhoicas/khata/internal/infrastructure/sso"
	"github.com/jhoicas/khata/internal/infrastructure/supabase"
	httpiface "github.com/jhoicas/khata/internal/interfaces/http"
	"github.com/jhoicas/khata/pkg/config"
	"github.com/jhoicas/khata/pkg/logger"
)

// LocalUserID is the signed-in user of the memory driver when no backend is configured.
const LocalUserID = "local-user"

// App is the wired object graph shared by every command.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	Ledger   *ledger.Service
	Sessions httpiface.Sessions
	Social   *auth.SocialAuth
	Registry *sso.CallbackRegistry

	closers []func()
}

// Build wires storage, backend client, repositories, ledger and social sign-in from cfg.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Registry: sso.NewCallbackRegistry()}

	storage := a.openStorage(ctx)

	client, err := supabase.NewClient(cfg.Backend, storage, "", supabase.WithLogger(log))
	var flow ports.SSOFlow
	switch {
	case err == nil:
		a.Sessions = client.Auth()
		flow = sso.NewFlow(cfg.SSO, client.Auth(), a.Registry, sso.NewCommandOpener(), log)
	case errors.Is(err, domain.ErrMissingConfig) && cfg.Backend.Driver == config.DriverMemory:
		log.Warn().Err(err).Str("user_id", LocalUserID).Msg("no backend configured, using a local session")
		a.Sessions = localSessions{}
		flow = noBackendFlow{}
	default:
		a.Close()
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	a.Social = auth.NewSocialAuth(flow, cfg.SSO.CallbackURL(), log)

	var (
		businesses repository.BusinessRepository
		stocks     repository.StockRepository
		parties    repository.CustomerSupplierRepository
	)
	switch cfg.Backend.Driver {
	case config.DriverPostgREST:
		rest := client.REST()
		businesses = postgrest.NewBusinessRepository(rest)
		stocks = postgrest.NewStockRepository(rest)
		parties = postgrest.NewCustomerSupplierRepository(rest)
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		businesses = postgres.NewBusinessRepository(pool)
		stocks = postgres.NewStockRepository(pool)
		parties = postgres.NewCustomerSupplierRepository(pool)
	default:
		store := memory.NewStore(nil)
		businesses = store.Businesses()
		stocks = store.Stocks()
		parties = store.CustomerSuppliers()
	}

	a.Ledger = ledger.NewService(businesses, stocks, parties, log, nil)
	log.Info().
		Str("driver", cfg.Backend.Driver).
		Str("storage", cfg.Storage.Target).
		Msg("khata wired")
	return a, nil
}

func (a *App) openStorage(ctx context.Context) securestore.Storage {
	cfg := a.Config.Storage
	switch cfg.Target {
	case config.TargetWeb:
		kv, err := securestore.DialRedis(ctx, a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
		if err != nil {
			a.Log.Warn().Err(err).Msg("web session store unavailable, sessions will not persist")
		}
		a.closers = append(a.closers, func() { _ = kv.Close() })
		return securestore.NewWeb(kv, a.Log)
	case config.TargetMemory:
		return securestore.NewNative(securestore.NewMemoryPrimitive(cfg.ChunkSize), cfg.ChunkSize, a.Log)
	default:
		return securestore.NewNative(securestore.NewKeyringPrimitive(cfg.Service), cfg.ChunkSize, a.Log)
	}
}

// Session is the current session context.
func (a *App) Session(ctx context.Context) entity.SessionContext {
	return a.Sessions.SessionContext(ctx)
}

// RouterDeps exposes the graph to the local API.
func (a *App) RouterDeps() httpiface.RouterDeps {
	return httpiface.RouterDeps{
		Ledger:      a.Ledger,
		Sessions:    a.Sessions,
		Social:      a.Social,
		Callbacks:   a.Registry,
		ServiceName: a.Config.App.Name,
	}
}

// Close releases pools and connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

type localSessions struct{}

func (localSessions) SessionContext(context.Context) entity.SessionContext {
	return entity.SessionContext{UserID: LocalUserID, IsAuthenticated: true, IsLoaded: true}
}

func (localSessions) SignOut(context.Context) {}

var errNoBackend = errors.New("social sign-in needs SUPABASE_URL and SUPABASE_ANON_KEY")

type noBackendFlow struct{}

func (noBackendFlow) StartSSOFlow(context.Context, ports.SSORequest) (ports.SSOResult, error) {
	return ports.SSOResult{}, errNoBackend
}
