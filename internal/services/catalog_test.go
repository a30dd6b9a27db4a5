package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

func TestImageURL(t *testing.T) {
	poster := "/abc.jpg"
	empty := ""

	tc := []struct {
		name string
		path *string
		size ImageSize
		want string
	}{
		{name: "small", path: &poster, size: ImageSizeSmall, want: "https://image.tmdb.org/t/p/w200/abc.jpg"},
		{name: "medium", path: &poster, size: ImageSizeMedium, want: "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{name: "original", path: &poster, size: ImageSizeOriginal, want: "https://image.tmdb.org/t/p/original/abc.jpg"},
		{name: "default size", path: &poster, size: "", want: "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{name: "nil path", path: nil, size: ImageSizeSmall, want: PlaceholderImage},
		{name: "empty path", path: &empty, size: ImageSizeSmall, want: PlaceholderImage},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageURL(tt.path, tt.size); got != tt.want {
				t.Errorf("ImageURL() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("configured host", func(t *testing.T) {
		c := NewCatalogClientFromConfig(shared.CatalogConfig{ImageBaseURL: "http://img.local/p/"}, nil)
		if got := c.ImageURL(&poster, ImageSizeSmall); got != "http://img.local/p/w200/abc.jpg" {
			t.Errorf("unexpected URL %s", got)
		}
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newCatalogServer(t *testing.T, handler http.HandlerFunc) *CatalogClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCatalogClient(server.URL, "read-token", nil)
}

func TestCatalogClient(t *testing.T) {
	ctx := context.Background()

	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewCatalogClient("", "tok", nil)
			if c.baseURL != DefaultCatalogBaseURL {
				t.Errorf("expected default base URL, got %s", c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			c := NewCatalogClient("http://example.com/3/", "tok", nil)
			if c.baseURL != "http://example.com/3" {
				t.Errorf("expected trimmed base URL, got %s", c.baseURL)
			}
		})
	})

	t.Run("Listing Endpoints", func(t *testing.T) {
		tc := []struct {
			name string
			path string
			call func(c *CatalogClient) (*models.MoviesResponse, error)
		}{
			{name: "popular", path: "/movie/popular", call: func(c *CatalogClient) (*models.MoviesResponse, error) { return c.Popular(ctx, 2) }},
			{name: "now playing", path: "/movie/now_playing", call: func(c *CatalogClient) (*models.MoviesResponse, error) { return c.NowPlaying(ctx, 2) }},
			{name: "upcoming", path: "/movie/upcoming", call: func(c *CatalogClient) (*models.MoviesResponse, error) { return c.Upcoming(ctx, 2) }},
			{name: "top rated", path: "/movie/top_rated", call: func(c *CatalogClient) (*models.MoviesResponse, error) { return c.TopRated(ctx, 2) }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				c := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Path != tt.path {
						t.Errorf("expected path %s, got %s", tt.path, r.URL.Path)
					}
					if r.URL.Query().Get("page") != "2" {
						t.Errorf("expected page=2, got %s", r.URL.RawQuery)
					}
					if r.Header.Get("Authorization") != "Bearer read-token" {
						t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
					}
					json.NewEncoder(w).Encode(models.MoviesResponse{
						Page:    2,
						Results: []models.Movie{{ID: 1, Title: "Heat"}},
					})
				})

				resp, err := tt.call(c)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if resp.Page != 2 || len(resp.Results) != 1 || resp.Results[0].Title != "Heat" {
					t.Errorf("unexpected response %+v", resp)
				}
			})
		}
	})

	t.Run("Page Defaults To One", func(t *testing.T) {
		c := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") != "1" {
				t.Errorf("expected page=1, got %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"page":1,"results":[]}`))
		})

		if _, err := c.Popular(ctx, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Search", func(t *testing.T) {
		c := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search/movie" {
				t.Errorf("expected /search/movie, got %s", r.URL.Path)
			}
			if q := r.URL.Query().Get("query"); q != "the matrix" {
				t.Errorf("expected query 'the matrix', got %q", q)
			}
			w.Write([]byte(`{"page":1,"results":[],"total_pages":0,"total_results":0}`))
		})

		resp, err := c.Search(ctx, "the matrix", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Results) != 0 || resp.TotalResults != 0 {
			t.Errorf("expected empty results, got %+v", resp)
		}
	})

	t.Run("Details Credits Videos", func(t *testing.T) {
		c := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/movie/550":
				w.Write([]byte(`{"id":550,"title":"Fight Club","runtime":139,"genres":[{"id":18,"name":"Drama"}]}`))
			case "/movie/550/credits":
				w.Write([]byte(`{"id":550,"cast":[{"name":"Edward Norton","character":"Narrator"}],"crew":[{"name":"David Fincher","job":"Director"}]}`))
			case "/movie/550/videos":
				w.Write([]byte(`{"id":550,"results":[{"key":"qtRKdVHc-cE","site":"YouTube","type":"Trailer"}]}`))
			default:
				http.NotFound(w, r)
			}
		})

		detail, err := c.Details(ctx, 550)
		if err != nil {
			t.Fatalf("details: %v", err)
		}
		if detail.Title != "Fight Club" || detail.Runtime != 139 {
			t.Errorf("unexpected detail %+v", detail)
		}

		credits, err := c.Credits(ctx, 550)
		if err != nil {
			t.Fatalf("credits: %v", err)
		}
		if len(credits.Cast) != 1 || credits.Directors()[0] != "David Fincher" {
			t.Errorf("unexpected credits %+v", credits)
		}

		videos, err := c.Videos(ctx, 550)
		if err != nil {
			t.Fatalf("videos: %v", err)
		}
		if videos.Trailer() == nil || videos.Trailer().Key != "qtRKdVHc-cE" {
			t.Errorf("unexpected videos %+v", videos)
		}
	})

	t.Run("Non-Success Status", func(t *testing.T) {
		c := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
		})

		_, err := c.Details(ctx, 1)
		var ce *shared.CatalogError
		if !errors.As(err, &ce) {
			t.Fatalf("expected CatalogError, got %v", err)
		}
		if ce.Status != http.StatusNotFound || ce.Op != "details" {
			t.Errorf("unexpected CatalogError %+v", ce)
		}
		if !shared.IsNotFound(err) {
			t.Error("expected IsNotFound")
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		c := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.Popular(ctx, 1)
		if !errors.Is(err, shared.ErrCatalogRequest) {
			t.Errorf("expected ErrCatalogRequest, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})}
		c := NewCatalogClient("http://catalog.invalid", "tok", client)

		_, err := c.Search(ctx, "heat", 1)
		var ce *shared.CatalogError
		if !errors.As(err, &ce) {
			t.Fatalf("expected CatalogError, got %v", err)
		}
		if ce.Status != 0 || !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("not json"))}, nil
		})}
		c := NewCatalogClient("http://catalog.invalid", "tok", client)

		_, err := c.Upcoming(ctx, 1)
		if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		c := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := c.TopRated(cctx, 1); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
