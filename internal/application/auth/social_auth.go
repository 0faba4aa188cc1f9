// Package auth orchestrates social sign-in: one flow at a time, user-facing notices for
// incomplete and failed attempts, and activation of the created session.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/khata/internal/application/ports"
	"github.com/jhoicas/khata/pkg/logger"
)

// Supported strategies.
const (
	StrategyGoogle   = "oauth_google"
	StrategyApple    = "oauth_apple"
	StrategyFacebook = "oauth_facebook"
)

// HomeRoute is where a signed-in user is sent.
const HomeRoute = "/(tabs)"

// Outcome of a Start call.
type Outcome string

const (
	OutcomeBusy       Outcome = "busy"
	OutcomeSignedIn   Outcome = "signed_in"
	OutcomeIncomplete Outcome = "incomplete"
	OutcomeFailed     Outcome = "failed"
)

// Notice is an alert shown to the user.
type Notice struct {
	Title   string
	Message string
}

// Result tells the caller where to go and what to show.
type Result struct {
	Outcome Outcome
	Route   string
	Notice  *Notice
}

// IsStrategy reports whether s is a supported strategy.
func IsStrategy(s string) bool {
	switch s {
	case StrategyGoogle, StrategyApple, StrategyFacebook:
		return true
	}
	return false
}

// ProviderName is the display name of a strategy.
func ProviderName(strategy string) string {
	switch strategy {
	case StrategyGoogle:
		return "Google"
	case StrategyApple:
		return "Apple"
	case StrategyFacebook:
		return "Facebook"
	default:
		return strategy
	}
}

// SocialAuth runs at most one SSO flow at a time.
type SocialAuth struct {
	flow        ports.SSOFlow
	redirectURL string
	log         *logger.Logger

	mu      sync.Mutex
	loading string
}

// NewSocialAuth builds the orchestrator. redirectURL is the fixed callback address.
func NewSocialAuth(flow ports.SSOFlow, redirectURL string, log *logger.Logger) *SocialAuth {
	if log == nil {
		log = logger.Nop()
	}
	return &SocialAuth{flow: flow, redirectURL: redirectURL, log: log.Named("social_auth")}
}

// LoadingStrategy returns the strategy in progress, or "".
func (a *SocialAuth) LoadingStrategy() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

func (a *SocialAuth) acquire(strategy string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loading != "" {
		return false
	}
	a.loading = strategy
	return true
}

func (a *SocialAuth) release() {
	a.mu.Lock()
	a.loading = ""
	a.mu.Unlock()
}

// Start runs the sign-in flow for strategy. A call made while another flow is running returns
// OutcomeBusy and has no effect.
func (a *SocialAuth) Start(ctx context.Context, strategy string) Result {
	if !a.acquire(strategy) {
		return Result{Outcome: OutcomeBusy}
	}
	defer a.release()

	provider := ProviderName(strategy)
	res, err := a.flow.StartSSOFlow(ctx, ports.SSORequest{Strategy: strategy, RedirectURL: a.redirectURL})
	if err != nil {
		return a.failed(strategy, provider, err)
	}
	if res.CreatedSessionID == "" || res.SetActive == nil {
		a.log.Info().Str("strategy", strategy).Msg("sign-in did not complete")
		return Result{
			Outcome: OutcomeIncomplete,
			Notice: &Notice{
				Title:   "Sign-in incomplete",
				Message: fmt.Sprintf("%s sign-in did not complete. Please try again.", provider),
			},
		}
	}
	if err := res.SetActive(ctx, res.CreatedSessionID); err != nil {
		return a.failed(strategy, provider, fmt.Errorf("activate session: %w", err))
	}
	a.log.Info().Str("strategy", strategy).Msg("signed in")
	return Result{Outcome: OutcomeSignedIn, Route: HomeRoute}
}

func (a *SocialAuth) failed(strategy, provider string, err error) Result {
	a.log.Error().Err(err).Str("strategy", strategy).Msg("social sign-in failed")
	return Result{
		Outcome: OutcomeFailed,
		Notice: &Notice{
			Title:   "Error",
			Message: fmt.Sprintf("Failed to sign in with %s. Please try again.", provider),
		},
	}
}
