package stores

import (
	"context"

	"github.com/desertthunder/worlder/internal/models"
)

// Local storage keys. Each key has exactly one owning store.
const (
	UserKey      = "worlder_user"
	FavoritesKey = "worlder_favorites"
	ThemeKey     = "worlder_theme"
	LanguageKey  = "worlder_language"
)

// Storage is synchronous flat string key/value persistence.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// DocumentStore holds one favorites document per user.
type DocumentStore interface {
	Get(ctx context.Context, userID string) (doc *models.FavoritesDocument, exists bool, err error)
	Set(ctx context.Context, userID string, doc *models.FavoritesDocument) error
}

// Telemetry records named analytics events.
type Telemetry interface {
	LogEvent(name string, params map[string]any)
}

// Telemetry event names.
const (
	EventLogin               = "login"
	EventSignUp              = "sign_up"
	EventLogout              = "logout"
	EventAddToFavorites      = "add_to_favorites"
	EventRemoveFromFavorites = "remove_from_favorites"
)

// FavoritesLoader is the part of [FavoritesStore] the session store drives.
type FavoritesLoader interface {
	LoadFavorites(ctx context.Context, userID string)
}

type nopTelemetry struct{}

func (nopTelemetry) LogEvent(string, map[string]any) {}
