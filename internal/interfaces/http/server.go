package http

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/khata/internal/application/dto"
)

// SwaggerFile is served at /docs when present.
const SwaggerFile = "./docs/swagger.json"

// NewApp builds the fiber app with recovery, optional Swagger UI and every route.
func NewApp(deps RouterDeps) *fiber.App {
	if deps.SignInTimeout <= 0 {
		deps.SignInTimeout = DefaultSignInTimeout
	}
	app := fiber.New(fiber.Config{
		AppName:      deps.ServiceName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: deps.SignInTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())

	if _, err := os.Stat(SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: SwaggerFile,
			Path:     "docs",
			Title:    "Khata local API",
		}))
	}

	Router(app, deps)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: "ERROR", Message: err.Error()})
}
