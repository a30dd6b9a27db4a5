package ui

import "github.com/desertthunder/worlder/internal/models"

// SearchStatus is what the search page shows.
type SearchStatus int

const (
	SearchIdle SearchStatus = iota
	SearchLoading
	SearchResults
	SearchNoResults
)

func (s SearchStatus) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchLoading:
		return "loading"
	case SearchResults:
		return "results"
	case SearchNoResults:
		return "noResults"
	default:
		return ""
	}
}

// SearchState derives the search page status. A failed search shows as no results.
func SearchState(loading, searched bool, results []models.Movie, err error) SearchStatus {
	switch {
	case loading:
		return SearchLoading
	case !searched:
		return SearchIdle
	case err != nil || len(results) == 0:
		return SearchNoResults
	default:
		return SearchResults
	}
}
