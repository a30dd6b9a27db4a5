// Package stores holds the client's state: who is signed in, which movies are
// favorites, and the display preferences.
//
// # Session
//
// [SessionStore] mirrors the identity provider's view of the current user into
// local storage under [UserKey]. It subscribes to provider notifications once
// ([SessionStore.Initialize]) and hands each signed-in user to the favorites store.
//
// # Favorites
//
// [FavoritesStore] keeps an ordered, duplicate-free list of movie ids locally
// under [FavoritesKey] and, for a signed-in user, mirrors every change into that
// user's remote document. Remote failures are logged and never roll back the local
// list. Remote writes are read-modify-write without a revision check, so two
// concurrent writers can lose one update.
//
// # Preferences
//
// [ThemeStore] and [LanguageStore] lazily read their value on first access and
// write through on every change.
package stores
