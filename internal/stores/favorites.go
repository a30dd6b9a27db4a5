package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

// FavoritesStore owns the favorite movie ids and their copy under [FavoritesKey].
type FavoritesStore struct {
	remote    DocumentStore
	storage   Storage
	telemetry Telemetry
	logger    *log.Logger
	now       func() time.Time

	mu      sync.RWMutex
	ids     []int
	loading int
	loadErr error
}

// FavoritesStoreOpts configures [NewFavoritesStore]. Without Remote the store is local only.
type FavoritesStoreOpts struct {
	Remote    DocumentStore
	Storage   Storage
	Telemetry Telemetry
	Logger    *log.Logger
	Clock     func() time.Time
}

// NewFavoritesStore seeds the in-memory list from local storage.
func NewFavoritesStore(opts FavoritesStoreOpts) *FavoritesStore {
	if opts.Telemetry == nil {
		opts.Telemetry = nopTelemetry{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	f := &FavoritesStore{
		remote:    opts.Remote,
		storage:   opts.Storage,
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
		now:       opts.Clock,
		ids:       []int{},
	}
	f.ids = f.readLocal()
	return f
}

func (f *FavoritesStore) readLocal() []int {
	raw, ok, err := f.storage.GetItem(FavoritesKey)
	if err != nil {
		f.logger.Error("failed to read stored favorites", "error", err)
		return []int{}
	}
	if !ok {
		return []int{}
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		f.logger.Warn("ignoring unreadable stored favorites", "error", err)
		return []int{}
	}
	return dedupe(ids)
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// writeLocal persists ids. Callers hold f.mu.
func (f *FavoritesStore) writeLocal(ids []int) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return f.storage.SetItem(FavoritesKey, string(data))
}

// LoadFavorites replaces the local list with the user's remote document when one exists.
// Local-only entries are discarded. Remote failures are logged, leave the list untouched and
// are kept for [FavoritesStore.LoadErr].
func (f *FavoritesStore) LoadFavorites(ctx context.Context, userID string) {
	f.mu.Lock()
	f.loading++
	f.loadErr = nil
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.loading--
		f.mu.Unlock()
	}()

	if userID == "" || f.remote == nil {
		return
	}

	doc, exists, err := f.remote.Get(ctx, userID)
	if err != nil {
		f.logger.Error("failed to load remote favorites", "user", userID, "error", err)
		f.setLoadErr(err)
		return
	}
	if !exists {
		f.logger.Debug("no remote favorites document", "user", userID)
		return
	}

	ids := doc.MovieIDs()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = ids
	if err := f.writeLocal(ids); err != nil {
		f.logger.Error("failed to store favorites", "error", err)
		f.loadErr = err
	}
}

func (f *FavoritesStore) setLoadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

// LoadErr returns the error that ended the most recent [FavoritesStore.LoadFavorites], or nil.
func (f *FavoritesStore) LoadErr() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loadErr
}

// AddFavorite inserts movieID locally and, with a userID, appends it to the remote document.
// Adding a present id does nothing. Only a local storage failure is returned; remote failures are logged.
func (f *FavoritesStore) AddFavorite(ctx context.Context, movieID int, userID string) error {
	f.mu.Lock()
	if slices.Contains(f.ids, movieID) {
		f.mu.Unlock()
		return nil
	}

	next := append(slices.Clone(f.ids), movieID)
	if err := f.writeLocal(next); err != nil {
		f.mu.Unlock()
		return fmt.Errorf("failed to store favorites: %w", err)
	}
	f.ids = next
	f.mu.Unlock()

	f.telemetry.LogEvent(EventAddToFavorites, map[string]any{"movie_id": movieID})

	if userID != "" && f.remote != nil {
		f.remoteAdd(ctx, userID, movieID)
	}
	return nil
}

// remoteAdd is an unguarded read-modify-write; a concurrent writer can overwrite it.
func (f *FavoritesStore) remoteAdd(ctx context.Context, userID string, movieID int) {
	entry := models.NewFavoriteEntry(movieID, f.now())

	doc, exists, err := f.remote.Get(ctx, userID)
	if err != nil {
		f.logger.Error("failed to read remote favorites", "user", userID, "movie", movieID, "error", err)
		return
	}
	if !exists {
		doc = &models.FavoritesDocument{}
	}
	doc.Append(entry)

	if err := f.remote.Set(ctx, userID, doc); err != nil {
		f.logger.Error("failed to add remote favorite", "user", userID, "movie", movieID, "error", err)
	}
}

// RemoveFavorite drops movieID locally and, with a userID, from the remote document if it exists.
func (f *FavoritesStore) RemoveFavorite(ctx context.Context, movieID int, userID string) error {
	f.mu.Lock()
	next := slices.DeleteFunc(slices.Clone(f.ids), func(id int) bool { return id == movieID })
	if err := f.writeLocal(next); err != nil {
		f.mu.Unlock()
		return fmt.Errorf("failed to store favorites: %w", err)
	}
	f.ids = next
	f.mu.Unlock()

	f.telemetry.LogEvent(EventRemoveFromFavorites, map[string]any{"movie_id": movieID})

	if userID != "" && f.remote != nil {
		f.remoteRemove(ctx, userID, movieID)
	}
	return nil
}

func (f *FavoritesStore) remoteRemove(ctx context.Context, userID string, movieID int) {
	doc, exists, err := f.remote.Get(ctx, userID)
	if err != nil {
		f.logger.Error("failed to read remote favorites", "user", userID, "movie", movieID, "error", err)
		return
	}
	if !exists {
		return
	}
	doc.Remove(movieID)

	if err := f.remote.Set(ctx, userID, doc); err != nil {
		f.logger.Error("failed to remove remote favorite", "user", userID, "movie", movieID, "error", err)
	}
}

func (f *FavoritesStore) IsFavorite(movieID int) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Contains(f.ids, movieID)
}

// Favorites returns the ids in insertion order.
func (f *FavoritesStore) Favorites() []int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.ids)
}

// IsLoading reports whether a [FavoritesStore.LoadFavorites] call is in progress.
func (f *FavoritesStore) IsLoading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading > 0
}
