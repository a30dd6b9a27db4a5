package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/worlder/internal/models"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return "★ " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	parts := []string{}
	if y := i.movie.Year(); y != "" {
		parts = append(parts, y)
	}
	if i.movie.VoteCount > 0 {
		parts = append(parts, fmt.Sprintf("%.1f/10", i.movie.VoteAverage))
	}
	return strings.Join(parts, " • ")
}

func newMovieList(title string, movies []models.Movie, isFavorite func(int) bool, width, height int) list.Model {
	items := make([]list.Item, len(movies))
	for i, mv := range movies {
		items[i] = movieItem{movie: mv, favorite: isFavorite(mv.ID)}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// refreshMarks re-reads the favorite flag of every item in l.
func refreshMarks(l *list.Model, isFavorite func(int) bool) {
	for i, it := range l.Items() {
		if mi, ok := it.(movieItem); ok {
			mi.favorite = isFavorite(mi.movie.ID)
			l.SetItem(i, mi)
		}
	}
}

func selectedMovie(l list.Model) (models.Movie, bool) {
	if mi, ok := l.SelectedItem().(movieItem); ok {
		return mi.movie, true
	}
	return models.Movie{}, false
}
