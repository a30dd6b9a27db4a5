package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/services"
)

// FakeAccount is an email/password account known to [FakeIdentityProvider].
type FakeAccount struct {
	UID         string
	Password    string
	DisplayName string
}

// FakeIdentityProvider is an in-memory [services.IdentityProvider].
// Error messages mimic the provider's own wording.
type FakeIdentityProvider struct {
	mu        sync.Mutex
	accounts  map[string]*FakeAccount
	current   *services.ProviderUser
	listeners map[int]func(*services.ProviderUser)
	nextID    int
	calls     []string

	// SignOutErr, SocialErr, ProfileErr and RestoreErr make the matching call fail.
	SignOutErr error
	SocialErr  error
	ProfileErr error
	RestoreErr error
}

func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{
		accounts:  map[string]*FakeAccount{},
		listeners: map[int]func(*services.ProviderUser){},
	}
}

// AddAccount registers an email/password account.
func (f *FakeIdentityProvider) AddAccount(email, password string) *FakeAccount {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &FakeAccount{UID: fmt.Sprintf("uid-%d", len(f.accounts)+1), Password: password}
	f.accounts[email] = a
	return a
}

// Calls lists the provider methods invoked so far.
func (f *FakeIdentityProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeIdentityProvider) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

// Restore stands in for re-verifying a stored session at startup.
func (f *FakeIdentityProvider) Restore(ctx context.Context) error {
	f.record("Restore")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RestoreErr
}

func (f *FakeIdentityProvider) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *FakeIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*services.ProviderUser, error) {
	f.record("SignInWithPassword")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	a, ok := f.accounts[email]
	f.mu.Unlock()
	if !ok || a.Password != password {
		return nil, errors.New("INVALID_LOGIN_CREDENTIALS")
	}

	u := &services.ProviderUser{
		UID:          a.UID,
		Email:        email,
		DisplayName:  a.DisplayName,
		ProviderData: []services.ProviderInfo{{ProviderID: "password"}},
	}
	f.Emit(u)
	return u, nil
}

func (f *FakeIdentityProvider) SignUp(ctx context.Context, email, password string) (*services.ProviderUser, error) {
	f.record("SignUp")
	f.mu.Lock()
	if _, exists := f.accounts[email]; exists {
		f.mu.Unlock()
		return nil, errors.New("EMAIL_EXISTS")
	}
	f.mu.Unlock()
	if len(password) < 6 {
		return nil, errors.New("WEAK_PASSWORD : Password should be at least 6 characters")
	}

	a := f.AddAccount(email, password)
	u := &services.ProviderUser{
		UID:          a.UID,
		Email:        email,
		ProviderData: []services.ProviderInfo{{ProviderID: "password"}},
	}
	f.Emit(u)
	return u, nil
}

func (f *FakeIdentityProvider) UpdateProfile(ctx context.Context, user *services.ProviderUser, displayName string) error {
	f.record("UpdateProfile")
	if f.ProfileErr != nil {
		return f.ProfileErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.UID == user.UID {
			a.DisplayName = displayName
		}
	}
	user.DisplayName = displayName
	return nil
}

func (f *FakeIdentityProvider) SignInWithOAuth(ctx context.Context, provider models.Provider) (*services.ProviderUser, error) {
	f.record("SignInWithOAuth")
	if f.SocialErr != nil {
		return nil, f.SocialErr
	}

	u := &services.ProviderUser{
		UID:          "social-" + string(provider),
		Email:        string(provider) + "@example.com",
		DisplayName:  "Social User",
		PhotoURL:     "https://example.com/avatar.png",
		ProviderData: []services.ProviderInfo{{ProviderID: provider.ProviderID()}},
	}
	f.Emit(u)
	return u, nil
}

func (f *FakeIdentityProvider) SignOut(ctx context.Context) error {
	f.record("SignOut")
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.Emit(nil)
	return nil
}

func (f *FakeIdentityProvider) Subscribe(fn func(*services.ProviderUser)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	current := f.current
	f.mu.Unlock()

	fn(current)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Emit makes u the current user and notifies every listener.
func (f *FakeIdentityProvider) Emit(u *services.ProviderUser) {
	f.mu.Lock()
	f.current = u
	fns := make([]func(*services.ProviderUser), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}

// ProviderUser builds a signed-in user linked through providerID.
func ProviderUser(uid, providerID string) *services.ProviderUser {
	return &services.ProviderUser{
		UID:          uid,
		Email:        uid + "@example.com",
		ProviderData: []services.ProviderInfo{{ProviderID: providerID}},
	}
}
