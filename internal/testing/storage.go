package testing

import (
	"context"
	"slices"
	"sync"

	"github.com/desertthunder/worlder/internal/models"
)

// MemoryStorage is an in-memory local key/value store.
// Setting Err makes every call fail with it.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]string
	Err   error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: map[string]string{}}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.items, key)
	return nil
}

// Fail sets or clears the injected error.
func (m *MemoryStorage) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Value returns the raw stored value, bypassing Err.
func (m *MemoryStorage) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// MemoryDocumentStore is an in-memory remote favorites document store.
type MemoryDocumentStore struct {
	mu       sync.Mutex
	docs     map[string]models.FavoritesDocument
	Err      error
	GetCalls int
	SetCalls int
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: map[string]models.FavoritesDocument{}}
}

func (m *MemoryDocumentStore) Get(ctx context.Context, userID string) (*models.FavoritesDocument, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.Err != nil {
		return nil, false, m.Err
	}
	doc, ok := m.docs[userID]
	if !ok {
		return nil, false, nil
	}
	return &models.FavoritesDocument{Movies: slices.Clone(doc.Movies)}, true, nil
}

func (m *MemoryDocumentStore) Set(ctx context.Context, userID string, doc *models.FavoritesDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.Err != nil {
		return m.Err
	}
	m.docs[userID] = models.FavoritesDocument{Movies: slices.Clone(doc.Movies)}
	return nil
}

// Seed stores doc for userID without counting a call.
func (m *MemoryDocumentStore) Seed(userID string, entries ...models.FavoriteEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[userID] = models.FavoritesDocument{Movies: slices.Clone(entries)}
}

// Document returns a copy of userID's document.
func (m *MemoryDocumentStore) Document(userID string) (models.FavoritesDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	return models.FavoritesDocument{Movies: slices.Clone(doc.Movies)}, ok
}

// Fail sets or clears the injected error.
func (m *MemoryDocumentStore) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// GatedDocumentStore holds every Get after it has read until Release is called,
// so tests can line up concurrent read-modify-write cycles.
type GatedDocumentStore struct {
	*MemoryDocumentStore
	Reads   chan string
	release chan struct{}
	once    sync.Once
}

func NewGatedDocumentStore() *GatedDocumentStore {
	return &GatedDocumentStore{
		MemoryDocumentStore: NewMemoryDocumentStore(),
		Reads:               make(chan string, 16),
		release:             make(chan struct{}),
	}
}

func (g *GatedDocumentStore) Get(ctx context.Context, userID string) (*models.FavoritesDocument, bool, error) {
	doc, ok, err := g.MemoryDocumentStore.Get(ctx, userID)
	g.Reads <- userID
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
	return doc, ok, err
}

// Release lets every held and future Get return.
func (g *GatedDocumentStore) Release() {
	g.once.Do(func() { close(g.release) })
}

// Event is one recorded telemetry call.
type Event struct {
	Name   string
	Params map[string]any
}

// RecordingTelemetry keeps every logged event.
type RecordingTelemetry struct {
	mu     sync.Mutex
	events []Event
}

func (r *RecordingTelemetry) LogEvent(name string, params map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: name, Params: params})
}

func (r *RecordingTelemetry) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Names returns the event names in order.
func (r *RecordingTelemetry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}
