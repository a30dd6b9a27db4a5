package services

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/server"
	"github.com/desertthunder/worlder/internal/shared"
	"golang.org/x/oauth2"
)

// OAuthFlow obtains a social provider credential interactively.
type OAuthFlow interface {
	Authorize(ctx context.Context, provider models.Provider) (*OAuthCredential, error)
}

// OAuthCredential is what a consent round trip yields for the identity provider.
type OAuthCredential struct {
	Provider    models.Provider
	AccessToken string
	IDToken     string
}

// DefaultCallbackTimeout bounds the wait for the consent redirect when identity.callback_timeout is unset.
const DefaultCallbackTimeout = 2 * time.Minute

var providerEndpoints = map[models.Provider]oauth2.Endpoint{
	models.ProviderGoogle: {
		AuthURL:  "https://accounts.google.com/o/oauth2/auth",
		TokenURL: "https://oauth2.googleapis.com/token",
	},
	models.ProviderFacebook: {
		AuthURL:  "https://www.facebook.com/v19.0/dialog/oauth",
		TokenURL: "https://graph.facebook.com/v19.0/oauth/access_token",
	},
	models.ProviderApple: {
		AuthURL:  "https://appleid.apple.com/auth/authorize",
		TokenURL: "https://appleid.apple.com/auth/token",
	},
}

var providerScopes = map[models.Provider][]string{
	models.ProviderGoogle:   {"openid", "email", "profile"},
	models.ProviderFacebook: {"email", "public_profile"},
	models.ProviderApple:    {"openid"},
}

// BrowserOAuthFlow runs the authorization code flow through the system browser and a loopback callback server.
type BrowserOAuthFlow struct {
	configs map[models.Provider]*oauth2.Config
	addr    string
	timeout time.Duration
	logger  *log.Logger

	// OpenURL launches the consent page. Defaults to [shared.OpenBrowser].
	OpenURL func(url string) error
	// Prompt is told the consent URL when the browser cannot be opened.
	Prompt func(url string)
}

// NewBrowserOAuthFlow builds client configs for every configured social provider.
// The callback server listens on srv's address; port 0 picks a free port per sign-in.
// Authorize gives up after identity.CallbackTimeout.
func NewBrowserOAuthFlow(identity shared.IdentityConfig, srv shared.ServerConfig, logger *log.Logger) *BrowserOAuthFlow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	addr := srv.Addr()
	clients := map[models.Provider]shared.OAuthClientConfig{
		models.ProviderGoogle:   identity.Google,
		models.ProviderFacebook: identity.Facebook,
		models.ProviderApple:    identity.Apple,
	}

	configs := map[models.Provider]*oauth2.Config{}
	for provider, client := range clients {
		if !client.Configured() {
			continue
		}
		configs[provider] = &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			Endpoint:     providerEndpoints[provider],
			RedirectURL:  fmt.Sprintf("http://%s%s", addr, server.CallbackPath),
			Scopes:       providerScopes[provider],
		}
	}

	timeout := identity.CallbackTimeout
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}

	return &BrowserOAuthFlow{
		configs: configs,
		addr:    addr,
		timeout: timeout,
		logger:  logger,
		OpenURL: shared.OpenBrowser,
	}
}

// Authorize implements [OAuthFlow]. Cancelling ctx ends the wait with [shared.ErrAuthCancelled].
func (b *BrowserOAuthFlow) Authorize(ctx context.Context, provider models.Provider) (*OAuthCredential, error) {
	base, ok := b.configs[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no client configured for %s", shared.ErrMissingCredentials, provider)
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	ln, err := net.Listen("tcp", b.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	config := *base
	config.RedirectURL = fmt.Sprintf("http://%s%s", ln.Addr(), server.CallbackPath)

	handler := server.NewOAuthHandler(&config, state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(b.logger))
	router.Handler(handler)

	serveCtx, stop := context.WithCancel(context.Background())
	defer stop()

	serverErrors := server.ServeListener(serveCtx, ln, router)
	b.logger.Info("waiting for sign-in callback", "provider", provider, "addr", ln.Addr())

	authURL := config.AuthCodeURL(state)
	if err := b.OpenURL(authURL); err != nil {
		b.logger.Warn("failed to open browser automatically", "error", err)
		if b.Prompt != nil {
			b.Prompt(authURL)
		}
	}

	timeout := time.NewTimer(b.timeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-ctx.Done():
		return nil, &shared.AuthError{Op: "social sign-in", Message: "cancelled", Err: shared.ErrAuthCancelled}
	case <-timeout.C:
		return nil, fmt.Errorf("%w: sign-in timed out after %s", shared.ErrTimeout, b.timeout)
	}

	if result.Err != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Err)
	}
	if result.Token == nil {
		return nil, fmt.Errorf("authorization failed: no token received")
	}

	return &OAuthCredential{
		Provider:    provider,
		AccessToken: result.Token.AccessToken,
		IDToken:     result.IDToken(),
	}, nil
}
