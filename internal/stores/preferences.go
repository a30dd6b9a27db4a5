package stores

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

type preferenceValue[T any] interface {
	~string
	Valid() bool
	Toggle() T
}

// preference is a lazily loaded, write-through scalar under one storage key.
type preference[T preferenceValue[T]] struct {
	key      string
	fallback T
	storage  Storage
	logger   *log.Logger

	mu     sync.Mutex
	loaded bool
	value  T
}

func (p *preference[T]) get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.load()
	return p.value
}

// load reads the stored value once. Callers hold p.mu.
func (p *preference[T]) load() {
	if p.loaded {
		return
	}
	p.loaded = true
	p.value = p.fallback

	raw, ok, err := p.storage.GetItem(p.key)
	if err != nil {
		p.logger.Error("failed to read preference", "key", p.key, "error", err)
		return
	}
	if v := T(raw); ok && v.Valid() {
		p.value = v
	}
}

func (p *preference[T]) set(v T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(v)
}

// setLocked validates and writes v through to storage. Callers hold p.mu.
func (p *preference[T]) setLocked(v T) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidArgument, string(v))
	}
	if err := p.storage.SetItem(p.key, string(v)); err != nil {
		return fmt.Errorf("failed to store %s: %w", p.key, err)
	}
	p.loaded = true
	p.value = v
	return nil
}

// toggle flips the value under one lock so concurrent toggles each take effect.
func (p *preference[T]) toggle() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.load()

	next := p.value.Toggle()
	if err := p.setLocked(next); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}

// ThemeStore holds the colour scheme, defaulting to [models.DefaultTheme].
type ThemeStore struct {
	pref preference[models.Theme]
}

func NewThemeStore(storage Storage, logger *log.Logger) *ThemeStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ThemeStore{pref: preference[models.Theme]{key: ThemeKey, fallback: models.DefaultTheme, storage: storage, logger: logger}}
}

func (t *ThemeStore) Theme() models.Theme { return t.pref.get() }

// Set validates and stores theme.
func (t *ThemeStore) Set(theme models.Theme) error { return t.pref.set(theme) }

// Toggle flips between light and dark and returns the new theme.
func (t *ThemeStore) Toggle() (models.Theme, error) { return t.pref.toggle() }

// LanguageStore holds the interface language, defaulting to [models.DefaultLanguage].
type LanguageStore struct {
	pref preference[models.Language]
}

func NewLanguageStore(storage Storage, logger *log.Logger) *LanguageStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LanguageStore{pref: preference[models.Language]{key: LanguageKey, fallback: models.DefaultLanguage, storage: storage, logger: logger}}
}

func (l *LanguageStore) Language() models.Language { return l.pref.get() }

// Set validates and stores lang.
func (l *LanguageStore) Set(lang models.Language) error { return l.pref.set(lang) }

// Toggle flips between en and id and returns the new language.
func (l *LanguageStore) Toggle() (models.Language, error) { return l.pref.toggle() }
