// Package services talks to the two remote systems the client depends on.
//
// # Catalog
//
// [CatalogClient] is a thin bearer-token REST client for the movie catalog:
// listing pages (popular, now playing, upcoming, top rated), search, details,
// credits and videos. Every failure is a [shared.CatalogError]. There is no
// retry, caching or rate limiting here; callers that fan out (the favorites
// export task) pace themselves.
//
// # Identity
//
// [IdentityProvider] is the authentication surface consumed by the session
// store: password sign-in and sign-up, profile update, interactive OAuth
// sign-in for google, facebook and apple, sign-out, and a change-notification
// subscription. [FirebaseAuth] implements it over the Identity Toolkit REST
// API and persists its own refresh token so a later process can restore the
// signed-in user.
//
// Interactive sign-in is delegated to an [OAuthFlow]: [BrowserOAuthFlow]
// starts a local callback server, opens the system browser and exchanges the
// returned authorization code with [golang.org/x/oauth2].
package services
