package stores

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
	tu "github.com/desertthunder/worlder/internal/testing"
)

func TestThemeStore(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		tc := []struct {
			name   string
			stored string
			want   models.Theme
		}{
			{name: "absent", want: models.ThemeDark},
			{name: "stored light", stored: "light", want: models.ThemeLight},
			{name: "invalid", stored: "sepia", want: models.ThemeDark},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				storage := tu.NewMemoryStorage()
				if tt.stored != "" {
					storage.SetItem(ThemeKey, tt.stored)
				}
				if got := NewThemeStore(storage, nil).Theme(); got != tt.want {
					t.Errorf("got %s, want %s", got, tt.want)
				}
			})
		}
	})

	t.Run("Reads Storage Lazily", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		s := NewThemeStore(storage, nil)
		storage.SetItem(ThemeKey, "light")

		if s.Theme() != models.ThemeLight {
			t.Error("expected value written before first access to be read")
		}
	})

	t.Run("Toggle Twice Restores", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		s := NewThemeStore(storage, nil)
		original := s.Theme()

		first, err := s.Toggle()
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if first == original {
			t.Error("expected toggle to change the theme")
		}
		if v, _ := storage.Value(ThemeKey); v != string(first) {
			t.Errorf("persisted %q, in memory %q", v, first)
		}

		second, _ := s.Toggle()
		if second != original || s.Theme() != original {
			t.Errorf("expected %s after two toggles, got %s", original, second)
		}
		if v, _ := storage.Value(ThemeKey); v != string(original) {
			t.Errorf("persisted %q, in memory %q", v, original)
		}
	})

	t.Run("Set", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		s := NewThemeStore(storage, nil)

		if err := s.Set(models.ThemeLight); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if v, _ := storage.Value(ThemeKey); v != "light" || s.Theme() != models.ThemeLight {
			t.Errorf("expected light, got stored %q memory %q", v, s.Theme())
		}

		if err := s.Set("neon"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if s.Theme() != models.ThemeLight {
			t.Error("expected invalid value to be rejected")
		}
	})

	t.Run("Concurrent Toggles All Apply", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		s := NewThemeStore(storage, nil)

		var (
			wg     sync.WaitGroup
			lights atomic.Int32
		)
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if next, err := s.Toggle(); err == nil && next == models.ThemeLight {
					lights.Add(1)
				}
			}()
		}
		wg.Wait()

		if lights.Load() != 25 {
			t.Errorf("expected every toggle to see the previous one, got %d of 50 landing on light", lights.Load())
		}
		if s.Theme() != models.ThemeDark {
			t.Errorf("expected an even number of toggles to restore dark, got %s", s.Theme())
		}
		if v, _ := storage.Value(ThemeKey); v != "dark" {
			t.Errorf("persisted %q", v)
		}
	})

	t.Run("Storage Failure Leaves Value", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		s := NewThemeStore(storage, nil)
		s.Theme()
		storage.Fail(errors.New("quota exceeded"))

		if _, err := s.Toggle(); err == nil {
			t.Error("expected storage error")
		}
		if s.Theme() != models.ThemeDark {
			t.Errorf("expected in-memory value unchanged, got %s", s.Theme())
		}
	})
}

func TestLanguageStore(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		if got := NewLanguageStore(tu.NewMemoryStorage(), nil).Language(); got != models.LanguageEnglish {
			t.Errorf("expected en, got %s", got)
		}
	})

	t.Run("Toggle Twice Restores", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		s := NewLanguageStore(storage, nil)

		first, _ := s.Toggle()
		if first != models.LanguageIndonesian {
			t.Errorf("expected id, got %s", first)
		}
		second, _ := s.Toggle()
		if second != models.LanguageEnglish {
			t.Errorf("expected en, got %s", second)
		}
		if v, _ := storage.Value(LanguageKey); v != "en" {
			t.Errorf("expected persisted en, got %q", v)
		}
	})

	t.Run("Set", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		s := NewLanguageStore(storage, nil)

		if err := s.Set(models.LanguageIndonesian); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if v, _ := storage.Value(LanguageKey); v != "id" {
			t.Errorf("expected persisted id, got %q", v)
		}
		if err := s.Set("fr"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Stores Are Independent", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		theme := NewThemeStore(storage, nil)
		lang := NewLanguageStore(storage, nil)

		theme.Toggle()
		if lang.Language() != models.LanguageEnglish {
			t.Error("expected theme toggle to leave language alone")
		}
	})
}
