package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// CallbackPath is where the consent page redirects back to.
const CallbackPath = "/auth/callback"

var (
	ErrStateMismatch = errors.New("invalid state parameter")
	ErrAccessDenied  = errors.New("authorization denied")
)

// OAuthResult is the outcome of one consent round trip.
type OAuthResult struct {
	Token *oauth2.Token
	Err   error
}

// IDToken returns the OpenID Connect id_token carried alongside the access token, if any.
func (o OAuthResult) IDToken() string {
	if o.Token == nil {
		return ""
	}
	if s, ok := o.Token.Extra("id_token").(string); ok {
		return s
	}
	return ""
}

// OAuthHandler serves the loopback redirect for the authorization code flow.
// Only the first callback is processed.
type OAuthHandler struct {
	config     *oauth2.Config
	state      string
	resultChan chan OAuthResult
	once       sync.Once

	mu          sync.Mutex
	callbackHit bool
}

// NewOAuthHandler creates a handler expecting state on the callback.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		state:      state,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes implements [Handler].
func (h *OAuthHandler) Routes() []string {
	return []string{CallbackPath}
}

// ServeHTTP checks state, exchanges the code and reports the result.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if q.Get("state") != h.state {
		h.Send(OAuthResult{Err: ErrStateMismatch})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.Send(OAuthResult{Err: fmt.Errorf("%w: %s %s", ErrAccessDenied, q.Get("error"), q.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{Err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// Send delivers result once and closes the channel.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result receives exactly one [OAuthResult].
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Signed in</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #141414; color: #e5e5e5; }
        .container { text-align: center; padding: 2rem; border-radius: 8px; background: #1f1f1f; }
        h1 { color: #e50914; margin: 0 0 1rem 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Signed in to Worlder</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
