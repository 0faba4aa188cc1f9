// Package sso implements the redirect-based sign-in handshake: OAuth2 authorization code with
// PKCE against the identity provider, then exchange of the provider ID token for a backend session.
package sso

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jhoicas/khata/internal/application/ports"
	"github.com/jhoicas/khata/internal/infrastructure/supabase"
	"github.com/jhoicas/khata/pkg/config"
	"github.com/jhoicas/khata/pkg/logger"
)

var (
	// ErrProviderNotConfigured is returned for strategies without client credentials.
	ErrProviderNotConfigured = errors.New("sso: provider not configured")
	// ErrNoIDToken means the provider's token response lacked an id_token.
	ErrNoIDToken = errors.New("sso: provider returned no id_token")
	// ErrUnknownSession is returned when activating a handle that was never issued or was already used.
	ErrUnknownSession = errors.New("sso: unknown session")
)

// SessionExchanger turns a provider ID token into a backend session and activates it.
type SessionExchanger interface {
	SignInWithIDToken(ctx context.Context, provider, idToken string) (*supabase.Session, error)
	SetSession(ctx context.Context, s *supabase.Session) error
}

// Flow implements ports.SSOFlow.
type Flow struct {
	providers map[string]oauth2.Config
	auth      SessionExchanger
	registry  *CallbackRegistry
	opener    Opener
	log       *logger.Logger

	mu      sync.Mutex
	pending map[string]*supabase.Session
}

var _ ports.SSOFlow = (*Flow)(nil)

// NewFlow builds the flow for the configured providers.
func NewFlow(cfg config.SSOConfig, auth SessionExchanger, registry *CallbackRegistry, opener Opener, log *logger.Logger) *Flow {
	if log == nil {
		log = logger.Nop()
	}
	providers := make(map[string]oauth2.Config, len(cfg.Providers))
	for strategy, p := range cfg.Providers {
		providers[strategy] = oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			Endpoint:     oauth2.Endpoint{AuthURL: p.AuthURL, TokenURL: p.TokenURL},
			Scopes:       p.Scopes,
		}
	}
	return &Flow{
		providers: providers,
		auth:      auth,
		registry:  registry,
		opener:    opener,
		log:       log.Named("sso"),
		pending:   map[string]*supabase.Session{},
	}
}

// Registry returns the callback registry the HTTP callback route resolves into.
func (f *Flow) Registry() *CallbackRegistry { return f.registry }

// StartSSOFlow opens the provider page and blocks until the callback arrives or ctx ends.
// A denied or abandoned sign-in returns an empty result and no error.
func (f *Flow) StartSSOFlow(ctx context.Context, req ports.SSORequest) (ports.SSOResult, error) {
	base, ok := f.providers[req.Strategy]
	if !ok {
		return ports.SSOResult{}, fmt.Errorf("%w: %s", ErrProviderNotConfigured, req.Strategy)
	}
	conf := base
	conf.RedirectURL = req.RedirectURL

	state := uuid.New().String()
	verifier := oauth2.GenerateVerifier()
	f.registry.Register(state)

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	if err := f.opener.Open(ctx, authURL); err != nil {
		f.registry.forget(state)
		return ports.SSOResult{}, err
	}
	f.log.Debug().Str("strategy", req.Strategy).Msg("waiting for provider callback")

	cb, err := f.registry.Await(ctx, state)
	if err != nil {
		return ports.SSOResult{}, fmt.Errorf("await callback: %w", err)
	}
	if cb.Cancelled() {
		f.log.Info().Str("strategy", req.Strategy).Str("error", cb.Error).Msg("provider returned without a code")
		return ports.SSOResult{}, nil
	}

	tok, err := conf.Exchange(ctx, cb.Code, oauth2.VerifierOption(verifier))
	if err != nil {
		return ports.SSOResult{}, fmt.Errorf("exchange code: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return ports.SSOResult{}, ErrNoIDToken
	}

	sess, err := f.auth.SignInWithIDToken(ctx, providerID(req.Strategy), idToken)
	if err != nil {
		return ports.SSOResult{}, err
	}

	handle := uuid.New().String()
	f.mu.Lock()
	f.pending[handle] = sess
	f.mu.Unlock()

	return ports.SSOResult{CreatedSessionID: handle, SetActive: f.activate}, nil
}

func (f *Flow) activate(ctx context.Context, handle string) error {
	f.mu.Lock()
	sess, ok := f.pending[handle]
	delete(f.pending, handle)
	f.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	return f.auth.SetSession(ctx, sess)
}

// providerID maps oauth_google to the backend provider name google.
func providerID(strategy string) string {
	return strings.TrimPrefix(strategy, "oauth_")
}
