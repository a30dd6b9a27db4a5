package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

func newTestOAuthFlow(t *testing.T) *BrowserOAuthFlow {
	t.Helper()
	return newTestOAuthFlowTimeout(t, 0)
}

func newTestOAuthFlowTimeout(t *testing.T, timeout time.Duration) *BrowserOAuthFlow {
	t.Helper()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access","token_type":"Bearer","id_token":"id-jwt","expires_in":3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	identity := shared.IdentityConfig{
		Google:          shared.OAuthClientConfig{ClientID: "g-id", ClientSecret: "g-secret"},
		Facebook:        shared.OAuthClientConfig{ClientID: "f-id"},
		CallbackTimeout: timeout,
	}
	flow := NewBrowserOAuthFlow(identity, shared.ServerConfig{Host: "127.0.0.1", Port: 0}, nil)
	flow.configs[models.ProviderGoogle].Endpoint.TokenURL = tokenServer.URL
	return flow
}

// redirectTo simulates the consent page sending the browser back with code.
func redirectTo(t *testing.T, code string) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			t.Errorf("bad auth URL: %v", err)
			return err
		}
		q := u.Query()
		callback := q.Get("redirect_uri") + "?state=" + url.QueryEscape(q.Get("state")) + "&code=" + code
		resp, err := http.Get(callback)
		if err != nil {
			t.Errorf("callback request failed: %v", err)
			return err
		}
		resp.Body.Close()
		return nil
	}
}

func TestBrowserOAuthFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("Configured Providers", func(t *testing.T) {
		flow := newTestOAuthFlow(t)
		google := flow.configs[models.ProviderGoogle]
		if google == nil || google.ClientID != "g-id" || len(google.Scopes) == 0 {
			t.Errorf("unexpected google config %+v", google)
		}
		if flow.configs[models.ProviderFacebook] != nil {
			t.Error("expected facebook without secret to be skipped")
		}
		if flow.configs[models.ProviderApple] != nil {
			t.Error("expected apple to be unconfigured")
		}
		if flow.timeout != DefaultCallbackTimeout {
			t.Errorf("expected default callback timeout, got %s", flow.timeout)
		}
	})

	t.Run("Authorize", func(t *testing.T) {
		flow := newTestOAuthFlow(t)
		flow.OpenURL = redirectTo(t, "good-code")

		cred, err := flow.Authorize(ctx, models.ProviderGoogle)
		if err != nil {
			t.Fatalf("authorize failed: %v", err)
		}
		if cred.Provider != models.ProviderGoogle || cred.AccessToken != "access" || cred.IDToken != "id-jwt" {
			t.Errorf("unexpected credential %+v", cred)
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		flow := newTestOAuthFlow(t)
		flow.OpenURL = redirectTo(t, "bad-code")

		if _, err := flow.Authorize(ctx, models.ProviderGoogle); err == nil {
			t.Error("expected exchange failure")
		}
	})

	t.Run("Unconfigured Provider", func(t *testing.T) {
		flow := newTestOAuthFlow(t)
		if _, err := flow.Authorize(ctx, models.ProviderApple); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		flow := newTestOAuthFlow(t)
		var prompted string
		flow.OpenURL = func(string) error { return errors.New("no browser") }
		flow.Prompt = func(u string) { prompted = u }

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := flow.Authorize(cctx, models.ProviderGoogle)
		var authErr *shared.AuthError
		if !errors.As(err, &authErr) || authErr.Message != "cancelled" {
			t.Fatalf("expected cancelled AuthError, got %v", err)
		}
		if !errors.Is(err, shared.ErrAuthCancelled) {
			t.Errorf("expected ErrAuthCancelled, got %v", err)
		}
		if prompted == "" {
			t.Error("expected the consent URL to be shown when the browser fails")
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		flow := newTestOAuthFlowTimeout(t, 20*time.Millisecond)
		flow.OpenURL = func(string) error { return nil }

		if _, err := flow.Authorize(ctx, models.ProviderGoogle); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})
}
