// Movie catalog REST client
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

const (
	DefaultCatalogBaseURL = "https://api.themoviedb.org/3"
	DefaultImageBaseURL   = "https://image.tmdb.org/t/p"

	// PlaceholderImage is returned by [ImageURL] when a movie has no artwork.
	PlaceholderImage = "/placeholder-movie.jpg"
)

// ImageSize is one of the catalog's rendition widths.
type ImageSize string

const (
	ImageSizeSmall    ImageSize = "w200"
	ImageSizeMedium   ImageSize = "w500"
	ImageSizeOriginal ImageSize = "original"
)

// ImageURL builds an artwork URL for path at size, or [PlaceholderImage] when path is empty.
func ImageURL(path *string, size ImageSize) string {
	return imageURL(DefaultImageBaseURL, path, size)
}

func imageURL(base string, path *string, size ImageSize) string {
	if path == nil || *path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = ImageSizeMedium
	}
	return strings.TrimSuffix(base, "/") + "/" + string(size) + *path
}

// CatalogClient implements [Catalog] over the catalog's REST API using a read access token.
type CatalogClient struct {
	baseURL      string
	imageBaseURL string
	token        string
	httpClient   *http.Client
}

// NewCatalogClient creates a catalog client. Empty baseURL uses [DefaultCatalogBaseURL]; nil client uses [http.DefaultClient].
func NewCatalogClient(baseURL, token string, client *http.Client) *CatalogClient {
	if baseURL == "" {
		baseURL = DefaultCatalogBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CatalogClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		imageBaseURL: DefaultImageBaseURL,
		token:        token,
		httpClient:   client,
	}
}

// NewCatalogClientFromConfig builds a client from the [shared.CatalogConfig] section.
func NewCatalogClientFromConfig(cfg shared.CatalogConfig, client *http.Client) *CatalogClient {
	c := NewCatalogClient(cfg.BaseURL, cfg.ReadAccessToken, client)
	if cfg.ImageBaseURL != "" {
		c.imageBaseURL = cfg.ImageBaseURL
	}
	return c
}

// ImageURL builds an artwork URL against the configured image host.
func (c *CatalogClient) ImageURL(path *string, size ImageSize) string {
	return imageURL(c.imageBaseURL, path, size)
}

// doRequest performs an authenticated GET against endpoint and decodes the JSON body into result.
func (c *CatalogClient) doRequest(ctx context.Context, op, endpoint string, params url.Values, result any) error {
	apiURL := c.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return &shared.CatalogError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &shared.CatalogError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.CatalogError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &shared.CatalogError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *CatalogClient) list(ctx context.Context, op, endpoint string, page int) (*models.MoviesResponse, error) {
	var resp models.MoviesResponse
	if err := c.doRequest(ctx, op, endpoint, pageParams(page), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Popular returns a page of currently popular movies.
func (c *CatalogClient) Popular(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return c.list(ctx, "popular", "/movie/popular", page)
}

// NowPlaying returns a page of movies in theatres.
func (c *CatalogClient) NowPlaying(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return c.list(ctx, "now playing", "/movie/now_playing", page)
}

// Upcoming returns a page of soon-to-be-released movies.
func (c *CatalogClient) Upcoming(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return c.list(ctx, "upcoming", "/movie/upcoming", page)
}

// TopRated returns a page of the highest rated movies.
func (c *CatalogClient) TopRated(ctx context.Context, page int) (*models.MoviesResponse, error) {
	return c.list(ctx, "top rated", "/movie/top_rated", page)
}

// Search runs a full-text title search.
func (c *CatalogClient) Search(ctx context.Context, query string, page int) (*models.MoviesResponse, error) {
	params := pageParams(page)
	params.Set("query", query)

	var resp models.MoviesResponse
	if err := c.doRequest(ctx, "search", "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Details returns the full record for movieID.
func (c *CatalogClient) Details(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	var detail models.MovieDetail
	if err := c.doRequest(ctx, "details", fmt.Sprintf("/movie/%d", movieID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Credits returns cast and crew for movieID.
func (c *CatalogClient) Credits(ctx context.Context, movieID int) (*models.Credits, error) {
	var credits models.Credits
	if err := c.doRequest(ctx, "credits", fmt.Sprintf("/movie/%d/credits", movieID), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// Videos returns trailers and clips for movieID.
func (c *CatalogClient) Videos(ctx context.Context, movieID int) (*models.VideosResponse, error) {
	var videos models.VideosResponse
	if err := c.doRequest(ctx, "videos", fmt.Sprintf("/movie/%d/videos", movieID), nil, &videos); err != nil {
		return nil, err
	}
	return &videos, nil
}
