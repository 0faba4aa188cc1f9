package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/infrastructure/securestore"
	"github.com/jhoicas/khata/pkg/jwt"
	"github.com/jhoicas/khata/pkg/logger"
)

// expiryMargin refreshes a session this long before it actually expires.
const expiryMargin = 10 * time.Second

// ErrNoSession is returned by operations that need a signed-in session.
var ErrNoSession = errors.New("supabase: no active session")

// User is the part of the GoTrue user object the client keeps.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Session is a GoTrue session as persisted in storage.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// AuthError is a GoTrue error response.
type AuthError struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
}

func (e *AuthError) Error() string {
	switch {
	case e.Description != "":
		return e.Description
	case e.Msg != "":
		return e.Msg
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("auth returned HTTP %d", e.Status)
	}
}

// Auth manages the current session: loading it from storage, refreshing it and persisting changes.
type Auth struct {
	baseURL     string
	apiKey      string
	headers     http.Header
	httpClient  *http.Client
	storage     securestore.Storage
	storageKey  string
	autoRefresh bool
	persist     bool
	log         *logger.Logger
	now         func() time.Time

	mu      sync.Mutex
	loaded  bool
	current *Session
}

// StorageKey is the logical key the session is persisted under.
func (a *Auth) StorageKey() string { return a.storageKey }

// Session returns the current session, loading it from storage on first use and refreshing it when
// it is about to expire. Nil means signed out.
func (a *Auth) Session(ctx context.Context) *Session {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded {
		a.current = a.load(ctx)
		a.loaded = true
	}
	if a.current == nil {
		return nil
	}
	if a.expired(a.current) {
		if !a.autoRefresh || a.current.RefreshToken == "" {
			return nil
		}
		refreshed, err := a.refresh(ctx, a.current.RefreshToken)
		if err != nil {
			a.log.Warn().Err(err).Msg("session refresh failed, signing out")
			a.clear(ctx)
			return nil
		}
		a.current = refreshed
	}
	cp := *a.current
	return &cp
}

// AccessToken implements postgrest.TokenSource.
func (a *Auth) AccessToken(ctx context.Context) string {
	if s := a.Session(ctx); s != nil {
		return s.AccessToken
	}
	return ""
}

// SessionContext derives the explicit session state handed to the ledger.
func (a *Auth) SessionContext(ctx context.Context) entity.SessionContext {
	s := a.Session(ctx)
	if s == nil {
		return entity.SessionContext{IsLoaded: true}
	}
	userID := s.User.ID
	if userID == "" {
		if sub, err := jwt.Subject(s.AccessToken); err == nil {
			userID = sub
		}
	}
	return entity.SessionContext{UserID: userID, IsAuthenticated: userID != "", IsLoaded: true}
}

// SignInWithIDToken exchanges a provider ID token for a session. The session is not stored;
// call SetSession to activate it.
func (a *Auth) SignInWithIDToken(ctx context.Context, provider, idToken string) (*Session, error) {
	body := map[string]string{"provider": provider, "id_token": idToken}
	s, err := a.token(ctx, "id_token", body)
	if err != nil {
		return nil, fmt.Errorf("sign in with %s: %w", provider, err)
	}
	return s, nil
}

// SetSession makes s the current session and persists it.
func (a *Auth) SetSession(ctx context.Context, s *Session) error {
	if s == nil || s.AccessToken == "" {
		return ErrNoSession
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	cp := *s
	a.fillExpiry(&cp)
	if err := a.save(ctx, &cp); err != nil {
		return err
	}
	a.current = &cp
	a.loaded = true
	return nil
}

// SignOut revokes the session remotely (best effort) and removes it locally.
func (a *Auth) SignOut(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded {
		a.current = a.load(ctx)
		a.loaded = true
	}
	if a.current != nil {
		if err := a.logout(ctx, a.current.AccessToken); err != nil {
			a.log.Warn().Err(err).Msg("remote sign-out failed")
		}
	}
	a.clear(ctx)
}

func (a *Auth) expired(s *Session) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return !a.now().Add(expiryMargin).Before(time.Unix(s.ExpiresAt, 0))
}

func (a *Auth) fillExpiry(s *Session) {
	if s.ExpiresAt != 0 {
		return
	}
	if s.ExpiresIn > 0 {
		s.ExpiresAt = a.now().Unix() + s.ExpiresIn
		return
	}
	if exp, err := jwt.ExpiresAt(s.AccessToken); err == nil && !exp.IsZero() {
		s.ExpiresAt = exp.Unix()
	}
}

func (a *Auth) load(ctx context.Context) *Session {
	if !a.persist {
		return nil
	}
	raw, ok := a.storage.GetItem(ctx, a.storageKey)
	if !ok {
		return nil
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s.AccessToken == "" {
		a.log.Warn().Err(err).Msg("discarding unreadable stored session")
		a.storage.RemoveItem(ctx, a.storageKey)
		return nil
	}
	return &s
}

func (a *Auth) save(ctx context.Context, s *Session) error {
	if !a.persist {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.storage.SetItem(ctx, a.storageKey, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (a *Auth) clear(ctx context.Context) {
	a.current = nil
	if a.persist {
		a.storage.RemoveItem(ctx, a.storageKey)
	}
}

func (a *Auth) refresh(ctx context.Context, refreshToken string) (*Session, error) {
	s, err := a.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if err := a.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *Auth) token(ctx context.Context, grantType string, body any) (*Session, error) {
	var s Session
	if err := a.do(ctx, http.MethodPost, "/token?grant_type="+grantType, "", body, &s); err != nil {
		return nil, err
	}
	if s.AccessToken == "" {
		return nil, ErrNoSession
	}
	a.fillExpiry(&s)
	return &s, nil
}

func (a *Auth) logout(ctx context.Context, accessToken string) error {
	return a.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (a *Auth) do(ctx context.Context, method, path, bearer string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range a.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		authErr := &AuthError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, authErr)
		return authErr
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	return nil
}
