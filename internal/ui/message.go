package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/worlder/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesFetched MsgKind = iota
	MsgSearchCompleted
	MsgDetailFetched
	MsgFavoritesFetched
	MsgFavoriteToggled
)

type moviesFetched struct {
	tab    int
	movies []models.Movie
	err    error
}

type searchCompleted struct {
	query   string
	results []models.Movie
	err     error
}

type detailFetched struct {
	detail  *models.MovieDetail
	credits *models.Credits
	videos  *models.VideosResponse
	err     error
}

type favoritesFetched struct {
	movies []models.Movie
	err    error
}

type favoriteToggled struct {
	movieID int
	added   bool
	err     error
}

// moviesFetchedMsg is the constructor for [MsgMoviesFetched]
func moviesFetchedMsg(tab int, movies []models.Movie, err error) Msg {
	return Msg{kind: MsgMoviesFetched, data: moviesFetched{tab, movies, err}}
}

// searchCompletedMsg is the constructor for [MsgSearchCompleted]
func searchCompletedMsg(query string, results []models.Movie, err error) Msg {
	return Msg{kind: MsgSearchCompleted, data: searchCompleted{query, results, err}}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(d detailFetched) Msg {
	return Msg{kind: MsgDetailFetched, data: d}
}

// favoritesFetchedMsg is the constructor for [MsgFavoritesFetched]
func favoritesFetchedMsg(movies []models.Movie, err error) Msg {
	return Msg{kind: MsgFavoritesFetched, data: favoritesFetched{movies, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(movieID int, added bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{movieID, added, err}}
}
