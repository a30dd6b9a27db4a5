// Package models defines the domain types shared by the worlder client.
//
// The package contains three groups of types:
//
// 1. Session and sync types persisted locally or remotely
//   - [Identity] : the signed-in user as surfaced to the rest of the client
//   - [Provider] : how the identity signed in, derived with [ProviderFromID]
//   - [FavoriteEntry] and [FavoritesDocument] : the per-user remote favorites document
//
// 2. Preferences
//   - [Theme] and [Language] : device-local settings with fixed defaults
//
// 3. Catalog DTOs mirroring the movie catalog REST API
//   - [Movie], [MovieDetail], [Credits], [Video], [MoviesResponse] and friends
package models
