// Package ui implements an interactive terminal movie browser using bubbletea's Elm architecture.
//
// The TUI has four views:
//  1. [HomeView] : Category tabs (popular, now playing, upcoming, top rated)
//  2. [SearchView] : Title search with idle, loading, results and no-results states
//  3. [DetailView] : Movie detail with credits, trailers and a favorite toggle
//  4. [FavoritesView] : Full records for every favorite id
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Colors follow the theme store and labels follow the language store; both can be toggled from any view.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
