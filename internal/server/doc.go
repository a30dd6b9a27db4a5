// Package server provides the small HTTP layer used by the CLI: a method-aware router,
// middleware, and the loopback callback endpoint for interactive social sign-in.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux]. [Middleware] is applied in reverse order of
// registration so the first middleware added is the outermost.
//
// # Handlers
//
// A [Handler] is an [http.Handler] that also reports the paths it serves. The
// sign-in callback ([OAuthHandler]) and the metrics endpoint both register this way.
//
// # Sign-in Callback
//
// [OAuthHandler] accepts exactly one redirect from the identity provider's consent
// page, checks the state token, exchanges the code and delivers one [OAuthResult].
// [Serve] runs a router on a loopback address until its context ends.
package server
