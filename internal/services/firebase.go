// Identity Toolkit REST implementation of [IdentityProvider]
//
// API reference: https://cloud.google.com/identity-platform/docs/use-rest-api
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

const (
	DefaultIdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenBaseURL    = "https://securetoken.googleapis.com/v1"

	// ProviderSessionKey is the local storage key holding the provider's refresh token.
	ProviderSessionKey = "worlder_provider_session"
)

// SessionStorage is the local key/value storage the provider persists its session in.
type SessionStorage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

type firebaseError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type firebaseProviderInfo struct {
	ProviderID string `json:"providerId"`
}

// firebaseAccount covers the fields shared by signIn, signUp, update, signInWithIdp and lookup responses.
type firebaseAccount struct {
	LocalID          string                 `json:"localId"`
	Email            string                 `json:"email"`
	DisplayName      string                 `json:"displayName"`
	PhotoURL         string                 `json:"photoUrl"`
	ProviderID       string                 `json:"providerId"`
	ProviderUserInfo []firebaseProviderInfo `json:"providerUserInfo"`
	IDToken          string                 `json:"idToken"`
	RefreshToken     string                 `json:"refreshToken"`
}

type storedSession struct {
	UID          string `json:"uid"`
	RefreshToken string `json:"refreshToken"`
}

// FirebaseAuth implements [IdentityProvider] against the Identity Toolkit REST API.
type FirebaseAuth struct {
	apiKey     string
	baseURL    string
	tokenURL   string
	httpClient *http.Client
	oauth      OAuthFlow
	storage    SessionStorage
	logger     *log.Logger

	mu        sync.Mutex
	current   *ProviderUser
	listeners map[int]func(*ProviderUser)
	nextID    int

	// deliver serialises listener calls.
	deliver sync.Mutex
}

// FirebaseAuthOpts configures [NewFirebaseAuth].
type FirebaseAuthOpts struct {
	APIKey     string
	BaseURL    string
	TokenURL   string
	HTTPClient *http.Client
	OAuth      OAuthFlow
	Storage    SessionStorage
	Logger     *log.Logger
}

// NewFirebaseAuth creates a provider. Storage may be nil, in which case sessions are not persisted.
func NewFirebaseAuth(opts FirebaseAuthOpts) (*FirebaseAuth, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: identity api_key is not set", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultIdentityBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &FirebaseAuth{
		apiKey:     opts.APIKey,
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		tokenURL:   strings.TrimSuffix(opts.TokenURL, "/"),
		httpClient: opts.HTTPClient,
		oauth:      opts.OAuth,
		storage:    opts.Storage,
		logger:     opts.Logger,
		listeners:  map[int]func(*ProviderUser){},
	}, nil
}

// doRequest POSTs body as JSON to endpoint and decodes a successful response into result.
// Provider error messages such as EMAIL_EXISTS or INVALID_PASSWORD become the error text.
func (f *FirebaseAuth) doRequest(ctx context.Context, endpoint string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	apiURL := endpoint + "?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return f.send(req, result)
}

func (f *FirebaseAuth) send(req *http.Request, result any) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var fe firebaseError
		if err := json.NewDecoder(resp.Body).Decode(&fe); err == nil && fe.Error.Message != "" {
			return errors.New(fe.Error.Message)
		}
		return fmt.Errorf("identity provider error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (a *firebaseAccount) user(fallbackProviderID string) *ProviderUser {
	u := &ProviderUser{
		UID:          a.LocalID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		PhotoURL:     a.PhotoURL,
		IDToken:      a.IDToken,
		RefreshToken: a.RefreshToken,
	}

	for _, info := range a.ProviderUserInfo {
		u.ProviderData = append(u.ProviderData, ProviderInfo(info))
	}
	if len(u.ProviderData) == 0 {
		id := a.ProviderID
		if id == "" {
			id = fallbackProviderID
		}
		u.ProviderData = []ProviderInfo{{ProviderID: id}}
	}
	return u
}

// SignInWithPassword implements [IdentityProvider].
func (f *FirebaseAuth) SignInWithPassword(ctx context.Context, email, password string) (*ProviderUser, error) {
	var account firebaseAccount
	body := map[string]any{"email": email, "password": password, "returnSecureToken": true}
	if err := f.doRequest(ctx, f.baseURL+"/accounts:signInWithPassword", body, &account); err != nil {
		return nil, err
	}

	user := account.user(models.ProviderEmail.ProviderID())
	f.setCurrent(user)
	return user, nil
}

// SignUp implements [IdentityProvider].
func (f *FirebaseAuth) SignUp(ctx context.Context, email, password string) (*ProviderUser, error) {
	var account firebaseAccount
	body := map[string]any{"email": email, "password": password, "returnSecureToken": true}
	if err := f.doRequest(ctx, f.baseURL+"/accounts:signUp", body, &account); err != nil {
		return nil, err
	}

	user := account.user(models.ProviderEmail.ProviderID())
	f.setCurrent(user)
	return user, nil
}

// UpdateProfile implements [IdentityProvider]. Listeners are not notified.
func (f *FirebaseAuth) UpdateProfile(ctx context.Context, user *ProviderUser, displayName string) error {
	if user == nil || user.IDToken == "" {
		return shared.ErrNotAuthenticated
	}

	body := map[string]any{"idToken": user.IDToken, "displayName": displayName, "returnSecureToken": true}
	if err := f.doRequest(ctx, f.baseURL+"/accounts:update", body, nil); err != nil {
		return err
	}

	user.DisplayName = displayName
	f.mu.Lock()
	if f.current != nil && f.current.UID == user.UID {
		f.current.DisplayName = displayName
	}
	f.mu.Unlock()
	return nil
}

// SignInWithOAuth implements [IdentityProvider] by running the configured [OAuthFlow]
// and exchanging the resulting credential with signInWithIdp.
func (f *FirebaseAuth) SignInWithOAuth(ctx context.Context, provider models.Provider) (*ProviderUser, error) {
	if !provider.Social() {
		return nil, fmt.Errorf("%w: %q is not a social provider", shared.ErrInvalidArgument, provider)
	}
	if f.oauth == nil {
		return nil, fmt.Errorf("%w: no interactive sign-in configured", shared.ErrMissingCredentials)
	}

	cred, err := f.oauth.Authorize(ctx, provider)
	if err != nil {
		return nil, err
	}

	postBody := url.Values{"providerId": {provider.ProviderID()}}
	if cred.IDToken != "" {
		postBody.Set("id_token", cred.IDToken)
	} else {
		postBody.Set("access_token", cred.AccessToken)
	}

	var account firebaseAccount
	body := map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          "http://localhost",
		"returnIdpCredential": true,
		"returnSecureToken":   true,
	}
	if err := f.doRequest(ctx, f.baseURL+"/accounts:signInWithIdp", body, &account); err != nil {
		return nil, err
	}

	user := account.user(provider.ProviderID())
	f.setCurrent(user)
	return user, nil
}

// SignOut implements [IdentityProvider]. The stored session is removed before listeners hear about it.
func (f *FirebaseAuth) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.storage != nil {
		if err := f.storage.RemoveItem(ProviderSessionKey); err != nil {
			return fmt.Errorf("failed to clear provider session: %w", err)
		}
	}

	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	f.notify(nil)
	return nil
}

// Restore signs the stored session back in by refreshing its token. With no stored
// session it does nothing. A rejected refresh token is discarded.
func (f *FirebaseAuth) Restore(ctx context.Context) error {
	if f.storage == nil {
		return nil
	}

	raw, ok, err := f.storage.GetItem(ProviderSessionKey)
	if err != nil || !ok {
		return err
	}

	var session storedSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.RefreshToken == "" {
		f.logger.Warn("discarding unreadable provider session", "error", err)
		return f.storage.RemoveItem(ProviderSessionKey)
	}

	idToken, refreshToken, err := f.refresh(ctx, session.RefreshToken)
	if err != nil {
		if errors.Is(err, shared.ErrServiceUnavailable) {
			return err
		}
		f.logger.Warn("stored session rejected", "error", err)
		return f.storage.RemoveItem(ProviderSessionKey)
	}

	user, err := f.lookup(ctx, idToken)
	if err != nil {
		return err
	}
	user.RefreshToken = refreshToken

	f.setCurrent(user)
	return nil
}

func (f *FirebaseAuth) refresh(ctx context.Context, refreshToken string) (idToken, newRefresh string, err error) {
	form := url.Values{"grant_type": {"refresh_token"}, "refresh_token": {refreshToken}}
	apiURL := f.tokenURL + "/token?key=" + url.QueryEscape(f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := f.send(req, &resp); err != nil {
		if errors.Is(err, shared.ErrServiceUnavailable) {
			return "", "", err
		}
		return "", "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return resp.IDToken, resp.RefreshToken, nil
}

func (f *FirebaseAuth) lookup(ctx context.Context, idToken string) (*ProviderUser, error) {
	var resp struct {
		Users []firebaseAccount `json:"users"`
	}
	if err := f.doRequest(ctx, f.baseURL+"/accounts:lookup", map[string]any{"idToken": idToken}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, shared.ErrNotAuthenticated
	}

	user := resp.Users[0].user(models.ProviderEmail.ProviderID())
	user.IDToken = idToken
	return user, nil
}

// setCurrent records user, persists its refresh token and notifies listeners.
func (f *FirebaseAuth) setCurrent(user *ProviderUser) {
	f.mu.Lock()
	f.current = user
	f.mu.Unlock()

	if f.storage != nil && user.RefreshToken != "" {
		data, _ := json.Marshal(storedSession{UID: user.UID, RefreshToken: user.RefreshToken})
		if err := f.storage.SetItem(ProviderSessionKey, string(data)); err != nil {
			f.logger.Error("failed to persist provider session", "error", err)
		}
	}

	f.notify(user)
}

// Subscribe implements [IdentityProvider].
func (f *FirebaseAuth) Subscribe(fn func(*ProviderUser)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	current := f.current
	f.mu.Unlock()

	f.deliver.Lock()
	fn(current)
	f.deliver.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.listeners, id)
			f.mu.Unlock()
		})
	}
}

func (f *FirebaseAuth) notify(user *ProviderUser) {
	f.mu.Lock()
	fns := make([]func(*ProviderUser), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	f.deliver.Lock()
	defer f.deliver.Unlock()
	for _, fn := range fns {
		fn(user)
	}
}
