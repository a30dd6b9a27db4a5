package services

import (
	"context"

	"github.com/desertthunder/worlder/internal/models"
)

// Catalog is the read-only movie catalog.
type Catalog interface {
	Popular(ctx context.Context, page int) (*models.MoviesResponse, error)
	NowPlaying(ctx context.Context, page int) (*models.MoviesResponse, error)
	Upcoming(ctx context.Context, page int) (*models.MoviesResponse, error)
	TopRated(ctx context.Context, page int) (*models.MoviesResponse, error)
	Search(ctx context.Context, query string, page int) (*models.MoviesResponse, error)
	Details(ctx context.Context, movieID int) (*models.MovieDetail, error)
	Credits(ctx context.Context, movieID int) (*models.Credits, error)
	Videos(ctx context.Context, movieID int) (*models.VideosResponse, error)
}

// IdentityProvider performs authentication and reports identity changes.
type IdentityProvider interface {
	// SignInWithPassword signs in an existing email/password account.
	SignInWithPassword(ctx context.Context, email, password string) (*ProviderUser, error)

	// SignUp creates an email/password account and signs it in.
	SignUp(ctx context.Context, email, password string) (*ProviderUser, error)

	// UpdateProfile sets the display name of user.
	UpdateProfile(ctx context.Context, user *ProviderUser, displayName string) error

	// SignInWithOAuth runs the interactive consent flow for a social provider.
	SignInWithOAuth(ctx context.Context, provider models.Provider) (*ProviderUser, error)

	// SignOut ends the current session.
	SignOut(ctx context.Context) error

	// Subscribe registers fn for identity changes. fn is called once with the
	// current user (nil when signed out) and again after every change.
	// Calls are serialised. The returned function unsubscribes.
	Subscribe(fn func(*ProviderUser)) (unsubscribe func())
}

// ProviderUser is the identity provider's view of a signed-in account.
type ProviderUser struct {
	UID          string         `json:"uid"`
	Email        string         `json:"email"`
	DisplayName  string         `json:"displayName"`
	PhotoURL     string         `json:"photoUrl"`
	ProviderData []ProviderInfo `json:"providerData"`
	IDToken      string         `json:"-"`
	RefreshToken string         `json:"refreshToken"`
}

// ProviderInfo describes one linked sign-in method.
type ProviderInfo struct {
	ProviderID string `json:"providerId"`
}

// PrimaryProviderID returns the first linked provider id, or "".
func (u *ProviderUser) PrimaryProviderID() string {
	if u == nil || len(u.ProviderData) == 0 {
		return ""
	}
	return u.ProviderData[0].ProviderID
}
