package testing

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

// MockCatalog serves a fixed movie list. Unknown ids answer 404 and Err fails every call.
type MockCatalog struct {
	Movies      []models.Movie
	DetailByID  map[int]*models.MovieDetail
	CreditsByID map[int]*models.Credits
	VideosByID  map[int]*models.VideosResponse
	Err         error

	mu          sync.Mutex
	searches    []string
	detailCalls int
}

func (m *MockCatalog) list(page int) (*models.MoviesResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if page < 1 {
		page = 1
	}
	return &models.MoviesResponse{Page: page, Results: m.Movies, TotalPages: 1, TotalResults: len(m.Movies)}, nil
}

func (m *MockCatalog) Popular(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return m.list(page)
}

func (m *MockCatalog) NowPlaying(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return m.list(page)
}

func (m *MockCatalog) Upcoming(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return m.list(page)
}

func (m *MockCatalog) TopRated(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return m.list(page)
}

// Search matches titles case-insensitively.
func (m *MockCatalog) Search(ctx context.Context, query string, page int) (*models.MoviesResponse, error) {
	m.mu.Lock()
	m.searches = append(m.searches, query)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	results := []models.Movie{}
	for _, movie := range m.Movies {
		if strings.Contains(strings.ToLower(movie.Title), strings.ToLower(query)) {
			results = append(results, movie)
		}
	}
	return &models.MoviesResponse{Page: 1, Results: results, TotalPages: 1, TotalResults: len(results)}, nil
}

func (m *MockCatalog) Details(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	m.mu.Lock()
	m.detailCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if d, ok := m.DetailByID[movieID]; ok {
		return d, nil
	}
	for _, movie := range m.Movies {
		if movie.ID == movieID {
			return &models.MovieDetail{Movie: movie}, nil
		}
	}
	return nil, &shared.CatalogError{Op: "details", Status: http.StatusNotFound}
}

func (m *MockCatalog) Credits(ctx context.Context, movieID int) (*models.Credits, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if c, ok := m.CreditsByID[movieID]; ok {
		return c, nil
	}
	return &models.Credits{ID: movieID}, nil
}

func (m *MockCatalog) Videos(ctx context.Context, movieID int) (*models.VideosResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if v, ok := m.VideosByID[movieID]; ok {
		return v, nil
	}
	return &models.VideosResponse{ID: movieID}, nil
}

// Searches returns the queries received so far.
func (m *MockCatalog) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

func (m *MockCatalog) DetailCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detailCalls
}
