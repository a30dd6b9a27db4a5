package repositories

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/desertthunder/worlder/internal/models"
)

type documentStore interface {
	Get(ctx context.Context, userID string) (*models.FavoritesDocument, bool, error)
	Set(ctx context.Context, userID string, doc *models.FavoritesDocument) error
}

func setupRedisStore(t *testing.T) (*RedisDocumentStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisDocumentStore(NewRedisClient(mr.Addr(), "", 0), "")
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestDocumentStores(t *testing.T) {
	stores := map[string]func(t *testing.T) documentStore{
		"sqlite": func(t *testing.T) documentStore { return NewSQLiteDocumentStore(setupTestDB(t)) },
		"redis": func(t *testing.T) documentStore {
			s, _ := setupRedisStore(t)
			return s
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Get Missing Document", func(t *testing.T) {
				store := newStore(t)
				doc, ok, err := store.Get(ctx, "nobody")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ok || doc != nil {
					t.Errorf("expected no document, got %+v", doc)
				}
			})

			t.Run("Set Then Get", func(t *testing.T) {
				store := newStore(t)
				want := &models.FavoritesDocument{Movies: []models.FavoriteEntry{
					{MovieID: 7, AddedAt: 1000},
					{MovieID: 9, AddedAt: 2000},
				}}

				if err := store.Set(ctx, "u1", want); err != nil {
					t.Fatalf("failed to set document: %v", err)
				}

				got, ok, err := store.Get(ctx, "u1")
				if err != nil || !ok {
					t.Fatalf("expected document, got ok=%v err=%v", ok, err)
				}
				if !slices.Equal(got.Movies, want.Movies) {
					t.Errorf("got %+v, want %+v", got.Movies, want.Movies)
				}
			})

			t.Run("Set Replaces Whole Document", func(t *testing.T) {
				store := newStore(t)
				store.Set(ctx, "u1", &models.FavoritesDocument{Movies: []models.FavoriteEntry{{MovieID: 1}}})
				store.Set(ctx, "u1", &models.FavoritesDocument{Movies: []models.FavoriteEntry{{MovieID: 2}}})

				got, _, _ := store.Get(ctx, "u1")
				if !slices.Equal(got.MovieIDs(), []int{2}) {
					t.Errorf("expected [2], got %v", got.MovieIDs())
				}
			})

			t.Run("Empty Document Exists", func(t *testing.T) {
				store := newStore(t)
				if err := store.Set(ctx, "u1", &models.FavoritesDocument{}); err != nil {
					t.Fatalf("failed to set document: %v", err)
				}

				got, ok, err := store.Get(ctx, "u1")
				if err != nil || !ok {
					t.Fatalf("expected empty document to exist, got ok=%v err=%v", ok, err)
				}
				if len(got.Movies) != 0 {
					t.Errorf("expected no movies, got %v", got.Movies)
				}
			})

			t.Run("Documents Are Per User", func(t *testing.T) {
				store := newStore(t)
				store.Set(ctx, "u1", &models.FavoritesDocument{Movies: []models.FavoriteEntry{{MovieID: 1}}})

				if _, ok, _ := store.Get(ctx, "u2"); ok {
					t.Error("expected u2 to have no document")
				}
			})

			t.Run("Set Requires User", func(t *testing.T) {
				store := newStore(t)
				if err := store.Set(ctx, "", &models.FavoritesDocument{}); err == nil {
					t.Error("expected error for empty user id")
				}
			})
		})
	}
}

func TestSQLiteDocumentStore(t *testing.T) {
	t.Run("Set Bumps Updated At", func(t *testing.T) {
		ctx := context.Background()
		db := setupTestDB(t)
		store := NewSQLiteDocumentStore(db)

		store.Set(ctx, "u1", &models.FavoritesDocument{})
		if _, err := db.Exec("UPDATE favorite_documents SET updated_at = '2000-01-01 00:00:00' WHERE user_id = 'u1'"); err != nil {
			t.Fatalf("failed to backdate row: %v", err)
		}
		store.Set(ctx, "u1", &models.FavoritesDocument{Movies: []models.FavoriteEntry{{MovieID: 4}}})

		var updated string
		if err := db.QueryRow("SELECT updated_at FROM favorite_documents WHERE user_id = 'u1'").Scan(&updated); err != nil {
			t.Fatalf("failed to read row: %v", err)
		}
		if strings.HasPrefix(updated, "2000-") {
			t.Errorf("expected updated_at to move on Set, got %s", updated)
		}
	})

	t.Run("Corrupt Document", func(t *testing.T) {
		db := setupTestDB(t)
		if _, err := db.Exec("INSERT INTO favorite_documents (user_id, document) VALUES ('u1', 'not json')"); err != nil {
			t.Fatalf("failed to seed row: %v", err)
		}

		if _, _, err := NewSQLiteDocumentStore(db).Get(context.Background(), "u1"); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestRedisDocumentStore(t *testing.T) {
	t.Run("Uses Key Prefix", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		if err := store.Set(context.Background(), "u1", &models.FavoritesDocument{Movies: []models.FavoriteEntry{{MovieID: 3, AddedAt: 5}}}); err != nil {
			t.Fatalf("failed to set document: %v", err)
		}

		raw, err := mr.Get(DefaultKeyPrefix + "u1")
		if err != nil {
			t.Fatalf("expected key under default prefix: %v", err)
		}
		if raw != `{"movies":[{"movieId":3,"addedAt":5}]}` {
			t.Errorf("unexpected stored JSON %s", raw)
		}
		if mr.TTL(DefaultKeyPrefix+"u1") != 0 {
			t.Error("documents should not expire")
		}
	})

	t.Run("Ping", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		if err := store.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping to succeed: %v", err)
		}

		mr.Close()
		if err := store.Ping(context.Background()); err == nil {
			t.Error("expected ping to fail after server shutdown")
		}
	})

	t.Run("Transport Error", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		mr.Close()

		if _, _, err := store.Get(context.Background(), "u1"); err == nil {
			t.Error("expected Get error when redis is down")
		}
	})
}
