package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/khata/internal/application/auth"
	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/infrastructure/sso"
)

// SocialSignIn starts a provider flow. Implemented by auth.SocialAuth.
type SocialSignIn interface {
	Start(ctx context.Context, strategy string) auth.Result
	LoadingStrategy() string
}

// SignOuter ends the persisted session.
type SignOuter interface {
	SignOut(ctx context.Context)
}

// CallbackSink receives provider redirects. Implemented by sso.CallbackRegistry.
type CallbackSink interface {
	Resolve(cb sso.Callback) error
}

// DefaultSignInTimeout bounds how long a social sign-in waits for the provider redirect.
const DefaultSignInTimeout = 5 * time.Minute

// AuthHandler serves sign-in, sign-out and the SSO redirect.
type AuthHandler struct {
	social    SocialSignIn
	sessions  SignOuter
	callbacks CallbackSink
	timeout   time.Duration
}

func NewAuthHandler(social SocialSignIn, sessions SignOuter, callbacks CallbackSink, timeout time.Duration) *AuthHandler {
	if timeout <= 0 {
		timeout = DefaultSignInTimeout
	}
	return &AuthHandler{social: social, sessions: sessions, callbacks: callbacks, timeout: timeout}
}

// SocialSignIn godoc
// @Summary      Sign in with a social provider
// @Description  Opens the provider in the browser and waits for the redirect to /sso-callback.
// @Tags         auth
// @Produce      json
// @Param        strategy  path  string  true  "oauth_google, oauth_apple or oauth_facebook"
// @Success      200  {object}  dto.SocialSignInResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.SocialSignInResponse
// @Router       /api/auth/social/{strategy} [post]
func (h *AuthHandler) SocialSignIn(c *fiber.Ctx) error {
	strategy := c.Params("strategy")
	if !auth.IsStrategy(strategy) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unsupported strategy"})
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	res := h.social.Start(ctx, strategy)
	out := dto.SocialSignInResponse{Outcome: string(res.Outcome), Route: res.Route}
	if res.Notice != nil {
		out.Notice = &dto.Notice{Title: res.Notice.Title, Message: res.Notice.Message}
	}
	if res.Outcome == auth.OutcomeBusy {
		return c.Status(fiber.StatusConflict).JSON(out)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AuthStatusResponse
// @Router       /api/auth/status [get]
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	sess := GetSession(c)
	return c.JSON(dto.AuthStatusResponse{
		IsLoaded:        sess.IsLoaded,
		IsAuthenticated: sess.Ready(),
		UserID:          sess.UserID,
		LoadingStrategy: h.social.LoadingStrategy(),
	})
}

// SignOut godoc
// @Summary      Sign out
// @Tags         auth
// @Success      204
// @Router       /api/auth/signout [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	h.sessions.SignOut(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Callback godoc
// @Summary      SSO redirect target
// @Tags         auth
// @Produce      html
// @Param        state              query  string  true   "OAuth state"
// @Param        code               query  string  false  "Authorization code"
// @Param        error              query  string  false  "Provider error"
// @Success      200
// @Failure      404
// @Router       /sso-callback [get]
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	err := h.callbacks.Resolve(sso.Callback{
		State:            c.Query("state"),
		Code:             c.Query("code"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
	})
	if errors.Is(err, sso.ErrUnknownState) {
		return c.Status(fiber.StatusNotFound).SendString("This sign-in link has expired. Return to the app and try again.")
	}
	if err != nil {
		return writeError(c, err)
	}
	c.Type("html")
	return c.SendString("<html><body>Sign-in received. You can close this window and return to the app.</body></html>")
}
