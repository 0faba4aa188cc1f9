package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/khata/internal/application/ledger"
	"github.com/jhoicas/khata/internal/infrastructure/metrics"
)

// Sessions resolves and ends the device session. Implemented by supabase.Auth.
type Sessions interface {
	SessionSource
	SignOuter
}

// RouterDeps dependencies for registering the routes.
type RouterDeps struct {
	Ledger        *ledger.Service
	Sessions      Sessions
	Social        SocialSignIn
	Callbacks     CallbackSink
	SignInTimeout time.Duration
	ServiceName   string
}

// Router registers every route of the local API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	authH := NewAuthHandler(deps.Social, deps.Sessions, deps.Callbacks, deps.SignInTimeout)
	app.Get("/sso-callback", authH.Callback)

	api := app.Group("/api", SessionMiddleware(deps.Sessions))

	authGroup := api.Group("/auth")
	authGroup.Post("/social/:strategy", authH.SocialSignIn)
	authGroup.Get("/status", authH.Status)
	authGroup.Post("/signout", authH.SignOut)

	businessH := NewBusinessHandler(deps.Ledger)
	api.Get("/business", businessH.Get)
	api.Post("/business", businessH.Ensure)

	stockH := NewStockHandler(deps.Ledger)
	stocks := api.Group("/stocks")
	stocks.Get("/", stockH.List)
	stocks.Post("/", stockH.Create)
	stocks.Get("/summary", stockH.Summary)
	stocks.Put("/:id", stockH.Update)

	partyH := NewCustomerSupplierHandler(deps.Ledger)
	parties := api.Group("/parties")
	parties.Get("/", partyH.List)
	parties.Post("/", partyH.Create)
	parties.Put("/:id", partyH.Update)
	parties.Delete("/:id", partyH.Delete)
}
