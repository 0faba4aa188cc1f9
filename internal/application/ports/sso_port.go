package ports

import "context"

// SSORequest starts a redirect-based sign-in with one identity provider.
type SSORequest struct {
	Strategy    string // oauth_google, oauth_apple, oauth_facebook
	RedirectURL string // fixed callback address, <base>/sso-callback
}

// SSOResult is the outcome of a completed handshake. An empty CreatedSessionID or a nil
// SetActive means the user backed out and no session exists.
type SSOResult struct {
	CreatedSessionID string
	SetActive        func(ctx context.Context, sessionID string) error
}

// SSOFlow is the outbound port for identity-provider sign-in. The application only knows this
// contract; the OAuth handshake, browser and callback plumbing live in the adapter.
// ctx should carry a deadline: the flow blocks until the provider redirects back.
type SSOFlow interface {
	StartSSOFlow(ctx context.Context, req SSORequest) (SSOResult, error)
}
