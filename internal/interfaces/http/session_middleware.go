package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/khata/internal/domain/entity"
)

// LocalSession is the Locals key holding the request's entity.SessionContext.
const LocalSession = "session"

// SessionSource resolves the current session (the persisted device session).
type SessionSource interface {
	SessionContext(ctx context.Context) entity.SessionContext
}

// SessionMiddleware loads the session once per request and stores it in c.Locals.
// It never rejects: the ledger decides what a not-ready session may do.
func SessionMiddleware(src SessionSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalSession, src.SessionContext(c.UserContext()))
		return c.Next()
	}
}

// GetSession returns the session stored by SessionMiddleware, or the zero (not loaded) session.
func GetSession(c *fiber.Ctx) entity.SessionContext {
	s, _ := c.Locals(LocalSession).(entity.SessionContext)
	return s
}
