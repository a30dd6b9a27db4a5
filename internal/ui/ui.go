package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/services"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/desertthunder/worlder/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	SearchView
	DetailView
	FavoritesView
)

// Favorites is the favorites state the TUI reads and toggles.
type Favorites interface {
	IsFavorite(movieID int) bool
	Favorites() []int
	AddFavorite(ctx context.Context, movieID int, userID string) error
	RemoveFavorite(ctx context.Context, movieID int, userID string) error
	IsLoading() bool
}

// Session reports the signed-in identity.
type Session interface {
	UserID() string
	Identity() *models.Identity
}

// ThemePreference is the persisted colour scheme.
type ThemePreference interface {
	Theme() models.Theme
	Toggle() (models.Theme, error)
}

// LanguagePreference is the persisted interface language.
type LanguagePreference interface {
	Language() models.Language
	Toggle() (models.Language, error)
}

// Deps are the collaborators of a [Model].
type Deps struct {
	Catalog   services.Catalog
	Favorites Favorites
	Session   Session
	Theme     ThemePreference
	Language  LanguagePreference
	Exporter  *tasks.FavoritesExporter // default: an exporter over Catalog
}

var homeTabs = []string{lblPopular, lblNowPlaying, lblUpcoming, lblTopRated}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	deps   Deps
	view   ViewState
	prev   ViewState
	width  int
	height int

	tab       int
	homeList  list.Model
	homeReady bool

	input         textinput.Model
	searchQuery   string
	searchLoading bool
	searched      bool
	searchResults []models.Movie
	searchErr     error
	searchList    list.Model

	detail        *detailFetched
	detailLoading bool

	favList     list.Model
	favLoading  bool
	favFetchErr error
	favFrom     ViewState

	status  string
	palette *Palette
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Exporter == nil {
		deps.Exporter = tasks.NewFavoritesExporter(deps.Catalog, nil, nil)
	}

	m := &Model{
		ctx:   ctx,
		deps:  deps,
		view:  HomeView,
		input: textinput.New(),
		help:  help.New(),
		keys:  newKeyMap(),
	}
	m.input.Placeholder = m.label(lblSearchPrompt)
	m.palette = ThemePalette(deps.Theme.Theme())

	isFav := deps.Favorites.IsFavorite
	m.homeList = newMovieList(m.label(homeTabs[0]), nil, isFav, 0, 0)
	m.searchList = newMovieList(m.label(lblSearch), nil, isFav, 0, 0)
	m.favList = newMovieList(m.label(lblFavorites), nil, isFav, 0, 0)
	return m
}

func (m *Model) label(key string) string {
	return Label(m.deps.Language.Language(), key)
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 0), max(m.height-8, 0)
}

// Init loads the first home tab.
func (m *Model) Init() tea.Cmd {
	return m.fetchTab(m.tab)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.listSize()
		m.homeList.SetSize(w, h)
		m.searchList.SetSize(w, h)
		m.favList.SetSize(w, h)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	w, h := m.listSize()

	switch msg.kind {
	case MsgMoviesFetched:
		data := msg.data.(moviesFetched)
		if data.tab != m.tab {
			return m, nil
		}
		if data.err != nil {
			m.status = fmt.Sprintf("%s: %v", m.label(lblError), data.err)
			data.movies = nil
		}
		m.homeList = newMovieList(m.label(homeTabs[m.tab]), data.movies, m.deps.Favorites.IsFavorite, w, h)
		m.homeReady = true

	case MsgSearchCompleted:
		data := msg.data.(searchCompleted)
		if data.query != m.searchQuery {
			return m, nil
		}
		m.searchLoading = false
		m.searched = true
		m.searchResults = data.results
		m.searchErr = data.err
		m.searchList = newMovieList(m.label(lblSearch), data.results, m.deps.Favorites.IsFavorite, w, h)
		if len(data.results) > 0 {
			m.input.Blur()
		}

	case MsgDetailFetched:
		data := msg.data.(detailFetched)
		m.detailLoading = false
		if data.err != nil {
			m.status = fmt.Sprintf("%s: %v", m.label(lblError), data.err)
			m.view = m.prev
			return m, nil
		}
		m.detail = &data

	case MsgFavoritesFetched:
		data := msg.data.(favoritesFetched)
		m.favLoading = false
		m.favFetchErr = data.err
		m.favList = newMovieList(m.label(lblFavorites), data.movies, m.deps.Favorites.IsFavorite, w, h)

	case MsgFavoriteToggled:
		data := msg.data.(favoriteToggled)
		if data.err != nil {
			m.status = fmt.Sprintf("%s: %v", m.label(lblError), data.err)
			return m, nil
		}
		m.status = ""
		m.refreshFavoriteMarks()
	}
	return m, nil
}

func (m *Model) refreshFavoriteMarks() {
	isFav := m.deps.Favorites.IsFavorite
	refreshMarks(&m.homeList, isFav)
	refreshMarks(&m.searchList, isFav)
	refreshMarks(&m.favList, isFav)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.view == SearchView && m.input.Focused() {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, m.keys.language):
		m.toggleLanguage()
		return m, nil
	case key.Matches(msg, m.keys.search) && m.view != DetailView:
		m.view = SearchView
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.favorites) && m.view != FavoritesView && m.view != DetailView:
		m.favFrom = m.view
		m.view = FavoritesView
		m.favLoading = true
		return m, m.fetchFavorites()
	}

	switch m.view {
	case HomeView:
		return m.handleHomeKeys(msg)
	case SearchView:
		return m.handleListKeys(msg, &m.searchList)
	case DetailView:
		return m.handleDetailKeys(msg)
	case FavoritesView:
		return m.handleListKeys(msg, &m.favList)
	}
	return m, nil
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.nextTab):
		m.tab = (m.tab + 1) % len(homeTabs)
		m.homeReady = false
		return m, m.fetchTab(m.tab)
	case key.Matches(msg, m.keys.prevTab):
		m.tab = (m.tab + len(homeTabs) - 1) % len(homeTabs)
		m.homeReady = false
		return m, m.fetchTab(m.tab)
	}
	return m.handleListKeys(msg, &m.homeList)
}

// handleListKeys opens the selected movie on enter and otherwise forwards to the list.
func (m *Model) handleListKeys(msg tea.KeyMsg, l *list.Model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if mv, ok := selectedMovie(*l); ok {
			return m, m.openDetail(mv.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		if m.view == FavoritesView {
			m.view = m.favFrom
		} else {
			m.view = HomeView
		}
		return m, nil
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.view = HomeView
		return m, nil
	case tea.KeyEnter:
		return m, m.runSearch(m.input.Value())
	case tea.KeyDown:
		if len(m.searchResults) > 0 {
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = m.prev
		m.detail = nil
		if m.view == FavoritesView {
			m.favLoading = true
			return m, m.fetchFavorites()
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.detail == nil {
			return m, nil
		}
		return m, m.toggleFavorite(m.detail.detail.ID)
	}
	return m, nil
}

func (m *Model) toggleTheme() {
	theme, err := m.deps.Theme.Toggle()
	if err != nil {
		m.status = fmt.Sprintf("%s: %v", m.label(lblError), err)
	}
	m.palette = ThemePalette(theme)
}

func (m *Model) toggleLanguage() {
	if _, err := m.deps.Language.Toggle(); err != nil {
		m.status = fmt.Sprintf("%s: %v", m.label(lblError), err)
	}
	m.input.Placeholder = m.label(lblSearchPrompt)
	m.homeList.Title = m.label(homeTabs[m.tab])
	m.searchList.Title = m.label(lblSearch)
	m.favList.Title = m.label(lblFavorites)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case HomeView:
		m.homeList, cmd = m.homeList.Update(msg)
	case SearchView:
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
		} else {
			m.searchList, cmd = m.searchList.Update(msg)
		}
	case FavoritesView:
		m.favList, cmd = m.favList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchTab(tab int) tea.Cmd {
	catalog := m.deps.Catalog
	return func() tea.Msg {
		var (
			resp *models.MoviesResponse
			err  error
		)
		switch homeTabs[tab] {
		case lblPopular:
			resp, err = catalog.Popular(m.ctx, 1)
		case lblNowPlaying:
			resp, err = catalog.NowPlaying(m.ctx, 1)
		case lblUpcoming:
			resp, err = catalog.Upcoming(m.ctx, 1)
		case lblTopRated:
			resp, err = catalog.TopRated(m.ctx, 1)
		}
		if err != nil {
			return moviesFetchedMsg(tab, nil, err)
		}
		return moviesFetchedMsg(tab, resp.Results, nil)
	}
}

// runSearch starts a search for query. A blank query does nothing.
func (m *Model) runSearch(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	m.searchQuery = query
	m.searchLoading = true
	catalog := m.deps.Catalog
	return func() tea.Msg {
		resp, err := catalog.Search(m.ctx, query, 1)
		if err != nil {
			return searchCompletedMsg(query, nil, err)
		}
		return searchCompletedMsg(query, resp.Results, nil)
	}
}

func (m *Model) openDetail(movieID int) tea.Cmd {
	m.prev = m.view
	m.view = DetailView
	m.detail = nil
	m.detailLoading = true

	catalog := m.deps.Catalog
	return func() tea.Msg {
		detail, err := catalog.Details(m.ctx, movieID)
		if err != nil {
			return detailFetchedMsg(detailFetched{err: err})
		}
		// Missing credits or videos only shorten the page.
		credits, _ := catalog.Credits(m.ctx, movieID)
		videos, _ := catalog.Videos(m.ctx, movieID)
		return detailFetchedMsg(detailFetched{detail: detail, credits: credits, videos: videos})
	}
}

func (m *Model) fetchFavorites() tea.Cmd {
	ids := m.deps.Favorites.Favorites()
	exporter := m.deps.Exporter
	return func() tea.Msg {
		results, err := exporter.Collect(m.ctx, nil, ids, tasks.CollectOpts{})
		if err != nil {
			return favoritesFetchedMsg(nil, err)
		}
		movies := make([]models.Movie, 0, len(results))
		for _, res := range results {
			if res.Success {
				movies = append(movies, res.Record.Detail.Movie)
			}
		}
		return favoritesFetchedMsg(movies, nil)
	}
}

func (m *Model) toggleFavorite(movieID int) tea.Cmd {
	favs := m.deps.Favorites
	userID := ""
	if m.deps.Session != nil {
		userID = m.deps.Session.UserID()
	}
	return func() tea.Msg {
		if favs.IsFavorite(movieID) {
			return favoriteToggledMsg(movieID, false, favs.RemoveFavorite(m.ctx, movieID, userID))
		}
		return favoriteToggledMsg(movieID, true, favs.AddFavorite(m.ctx, movieID, userID))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case HomeView:
		body = m.renderHome()
	case SearchView:
		body = m.renderSearch()
	case DetailView:
		body = m.renderDetail()
	case FavoritesView:
		body = m.renderFavorites()
	}

	parts := []string{m.renderHeader(), body}
	if m.status != "" {
		parts = append(parts, m.palette.err.Render(m.status))
	}
	parts = append(parts, m.renderHelp())
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderHeader() string {
	var who string
	if m.deps.Session == nil {
		return m.palette.help.Render(m.label(lblGuest))
	}
	if id := m.deps.Session.Identity(); id != nil && m.deps.Session.UserID() != "" {
		who = fmt.Sprintf("%s %s", m.label(lblSignedInAs), id.Name())
	} else {
		who = m.label(lblGuest)
	}
	return m.palette.help.Render(who)
}

func (m *Model) renderHome() string {
	tabs := make([]string, len(homeTabs))
	for i, t := range homeTabs {
		if i == m.tab {
			tabs[i] = m.palette.activeTab.Render(m.label(t))
		} else {
			tabs[i] = m.palette.tab.Render(m.label(t))
		}
	}
	header := strings.Join(tabs, " ")

	if !m.homeReady {
		return header + "\n\n" + m.label(lblLoading)
	}
	return header + "\n\n" + m.homeList.View()
}

func (m *Model) renderSearch() string {
	title := m.palette.title.Render(m.label(lblSearch))
	out := title + "\n" + m.input.View() + "\n\n"

	switch SearchState(m.searchLoading, m.searched, m.searchResults, m.searchErr) {
	case SearchIdle:
		out += m.palette.help.Render(m.label(lblSearchIdle))
	case SearchLoading:
		out += m.label(lblLoading)
	case SearchNoResults:
		out += m.palette.warn.Render(m.label(lblNoResults))
	case SearchResults:
		out += m.searchList.View()
	}
	return out
}

func (m *Model) renderDetail() string {
	if m.detailLoading || m.detail == nil {
		return m.label(lblLoading)
	}

	d := m.detail.detail
	var b strings.Builder

	title := d.Title
	if y := d.Year(); y != "" {
		title = fmt.Sprintf("%s (%s)", title, y)
	}
	if m.deps.Favorites.IsFavorite(d.ID) {
		title = "★ " + title
	}
	b.WriteString(m.palette.title.Render(title) + "\n")

	if d.Tagline != "" {
		b.WriteString(m.palette.help.Render(d.Tagline) + "\n\n")
	}
	fmt.Fprintf(&b, "%s: %.1f/10 (%d)\n", m.label(lblRating), d.VoteAverage, d.VoteCount)
	if rt := shared.FormatRuntime(d.Runtime); rt != "" {
		fmt.Fprintf(&b, "%s: %s\n", m.label(lblRuntime), rt)
	}
	if genres := d.GenreNames(); len(genres) > 0 {
		fmt.Fprintf(&b, "%s: %s\n", m.label(lblGenres), strings.Join(genres, ", "))
	}

	if c := m.detail.credits; c != nil {
		if dirs := c.Directors(); len(dirs) > 0 {
			fmt.Fprintf(&b, "%s: %s\n", m.label(lblDirector), strings.Join(dirs, ", "))
		}
		rec := models.NewMovieRecord(*d, c, nil)
		if len(rec.Cast) > 0 {
			fmt.Fprintf(&b, "%s: %s\n", m.label(lblCast), strings.Join(rec.Cast, ", "))
		}
	}

	if d.Overview != "" {
		b.WriteString("\n" + d.Overview + "\n")
	}

	if v := m.detail.videos; v != nil && len(v.Results) > 0 {
		b.WriteString("\n" + m.palette.ok.Render(m.label(lblTrailers)) + "\n")
		for _, video := range v.Results {
			if u := video.URL(); u != "" {
				fmt.Fprintf(&b, "  • %s (%s)\n", video.Name, u)
			}
		}
	}
	return b.String()
}

func (m *Model) renderFavorites() string {
	if m.favLoading || m.deps.Favorites.IsLoading() {
		return m.label(lblLoading)
	}
	if m.favFetchErr != nil {
		return m.palette.err.Render(fmt.Sprintf("%s: %v", m.label(lblError), m.favFetchErr))
	}
	if len(m.favList.Items()) == 0 {
		return m.palette.title.Render(m.label(lblFavorites)) + "\n" + m.palette.help.Render(m.label(lblNoFavorites))
	}
	return m.favList.View()
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch m.view {
	case HomeView:
		keys = []key.Binding{m.keys.nextTab, m.keys.enter, m.keys.search, m.keys.favorites, m.keys.theme, m.keys.language, m.keys.quit}
	case SearchView:
		keys = []key.Binding{m.keys.enter, m.keys.back}
	case DetailView:
		fav := key.NewBinding(key.WithKeys("f"), key.WithHelp("f", m.label(lblAddFavorite)))
		if m.detail != nil && m.deps.Favorites.IsFavorite(m.detail.detail.ID) {
			fav = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", m.label(lblRemoveFavorite)))
		}
		keys = []key.Binding{fav, m.keys.back, m.keys.quit}
	case FavoritesView:
		keys = []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	}
	return m.help.ShortHelpView(keys)
}


// Run starts the TUI on the terminal's alternate screen.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(NewModel(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
