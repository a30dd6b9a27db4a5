package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/services"
	"github.com/desertthunder/worlder/internal/shared"
)

// State is the session lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "uninitialized"
	}
}

// SessionStore owns the signed-in [models.Identity] and its copy under [UserKey].
type SessionStore struct {
	provider  services.IdentityProvider
	storage   Storage
	favorites FavoritesLoader
	telemetry Telemetry
	logger    *log.Logger

	mu       sync.RWMutex
	state    State
	identity *models.Identity

	// handling serialises provider notifications.
	handling sync.Mutex

	initOnce sync.Once
	cancel   func()
}

// SessionStoreOpts configures [NewSessionStore]. Favorites and Telemetry are optional.
type SessionStoreOpts struct {
	Provider  services.IdentityProvider
	Storage   Storage
	Favorites FavoritesLoader
	Telemetry Telemetry
	Logger    *log.Logger
}

// NewSessionStore surfaces a previously persisted identity in [StateLoading].
// Without one the store starts [StateUninitialized].
func NewSessionStore(opts SessionStoreOpts) *SessionStore {
	if opts.Telemetry == nil {
		opts.Telemetry = nopTelemetry{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	s := &SessionStore{
		provider:  opts.Provider,
		storage:   opts.Storage,
		favorites: opts.Favorites,
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
		state:     StateUninitialized,
	}

	if identity := s.readIdentity(); identity != nil {
		s.identity = identity
		s.state = StateLoading
	}
	return s
}

func (s *SessionStore) readIdentity() *models.Identity {
	raw, ok, err := s.storage.GetItem(UserKey)
	if err != nil {
		s.logger.Error("failed to read stored identity", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.Warn("ignoring unreadable stored identity", "error", err)
		return nil
	}
	if err := identity.Validate(); err != nil {
		s.logger.Warn("ignoring invalid stored identity", "error", err)
		return nil
	}
	return &identity
}

// Initialize subscribes to provider notifications. Later calls return the same cancel handle
// without subscribing again. ctx is used for favorites loads triggered by notifications.
func (s *SessionStore) Initialize(ctx context.Context) (cancel func()) {
	s.initOnce.Do(func() {
		var once sync.Once
		unsubscribe := s.provider.Subscribe(func(u *services.ProviderUser) {
			s.handleChange(ctx, u)
		})
		s.cancel = func() { once.Do(unsubscribe) }
	})
	return s.cancel
}

func (s *SessionStore) handleChange(ctx context.Context, u *services.ProviderUser) {
	s.handling.Lock()
	defer s.handling.Unlock()

	if u == nil {
		if err := s.storage.RemoveItem(UserKey); err != nil {
			s.logger.Error("failed to clear stored identity", "error", err)
		}
		s.setState(StateUnauthenticated, nil)
		return
	}

	provider := models.ProviderFromID(u.PrimaryProviderID())
	identity := identityFromUser(u, provider)
	if err := s.persist(identity); err != nil {
		s.logger.Error("failed to persist identity", "error", err)
	}
	s.setState(StateAuthenticated, identity)
	s.telemetry.LogEvent(EventLogin, map[string]any{"method": string(provider)})

	if s.favorites != nil {
		s.favorites.LoadFavorites(ctx, u.UID)
	}
}

func identityFromUser(u *services.ProviderUser, provider models.Provider) *models.Identity {
	return &models.Identity{
		ID:          u.UID,
		Email:       models.OptionalString(u.Email),
		DisplayName: models.OptionalString(u.DisplayName),
		AvatarURL:   models.OptionalString(u.PhotoURL),
		Provider:    provider,
	}
}

func (s *SessionStore) persist(identity *models.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.storage.SetItem(UserKey, string(data))
}

func (s *SessionStore) setState(state State, identity *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.identity = identity
}

// authenticate persists identity and moves to [StateAuthenticated].
func (s *SessionStore) authenticate(identity *models.Identity) error {
	if err := s.persist(identity); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}
	s.setState(StateAuthenticated, identity)
	return nil
}

func authError(op string, err error) error {
	var ae *shared.AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return shared.NewAuthError(op, err)
}

// Login signs in an email/password account.
// Provider failures are returned as [*shared.AuthError] and leave the state unchanged.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	u, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return authError("login", err)
	}

	if err := s.authenticate(identityFromUser(u, models.ProviderEmail)); err != nil {
		return err
	}
	s.telemetry.LogEvent(EventLogin, map[string]any{"method": string(models.ProviderEmail)})
	return nil
}

// Register creates an email/password account with displayName and signs it in.
func (s *SessionStore) Register(ctx context.Context, email, password, displayName string) error {
	u, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return authError("register", err)
	}
	if err := s.provider.UpdateProfile(ctx, u, displayName); err != nil {
		return authError("register", err)
	}

	identity := &models.Identity{
		ID:          u.UID,
		Email:       models.OptionalString(u.Email),
		DisplayName: models.OptionalString(displayName),
		Provider:    models.ProviderEmail,
	}
	if err := s.authenticate(identity); err != nil {
		return err
	}
	s.telemetry.LogEvent(EventSignUp, map[string]any{"method": string(models.ProviderEmail)})
	return nil
}

// LoginWithSocial runs the interactive consent flow for google, facebook or apple.
// Cancelling ctx abandons the flow with an [*shared.AuthError].
func (s *SessionStore) LoginWithSocial(ctx context.Context, provider models.Provider) error {
	if !provider.Social() {
		return shared.NewAuthError("social login", fmt.Errorf("%w: %q is not a social provider", shared.ErrInvalidArgument, provider))
	}

	u, err := s.provider.SignInWithOAuth(ctx, provider)
	if err != nil {
		return authError("social login", err)
	}

	if err := s.authenticate(identityFromUser(u, provider)); err != nil {
		return err
	}
	s.telemetry.LogEvent(EventLogin, map[string]any{"method": string(provider)})
	return nil
}

// Logout signs out. When the provider fails the local session is kept.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return authError("logout", err)
	}

	if err := s.storage.RemoveItem(UserKey); err != nil {
		return fmt.Errorf("failed to clear stored identity: %w", err)
	}
	s.setState(StateUnauthenticated, nil)
	s.telemetry.LogEvent(EventLogout, nil)
	return nil
}

func (s *SessionStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns a copy of the current identity, or nil.
func (s *SessionStore) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// UserID returns the signed-in user's id, or "" when signed out.
func (s *SessionStore) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.identity == nil {
		return ""
	}
	return s.identity.ID
}
