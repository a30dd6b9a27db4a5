package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthCancelled    = fmt.Errorf("sign-in cancelled")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog and remote service errors
	ErrCatalogRequest     = fmt.Errorf("catalog request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMovieNotFound      = fmt.Errorf("movie not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// AuthError is returned by session operations when the identity provider rejects a request,
// the transport fails, or an interactive sign-in is abandoned.
//
// Message holds the provider's own wording so it can be shown to the user as-is.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

// NewAuthError wraps err for the named session operation, taking the message from err.
func NewAuthError(op string, err error) *AuthError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &AuthError{Op: op, Message: msg, Err: err}
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrAuthFailed)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrAuthFailed, e.Message)
}

// Unwrap exposes both [ErrAuthFailed] and the underlying cause to [errors.Is].
func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAuthFailed}
	}
	return []error{ErrAuthFailed, e.Err}
}

// CatalogError reports a failed catalog request. Status is zero for transport failures.
type CatalogError struct {
	Op     string
	Status int
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%v: %s: status %d", ErrCatalogRequest, e.Op, e.Status)
	}
	return fmt.Sprintf("%v: %s: %v", ErrCatalogRequest, e.Op, e.Err)
}

func (e *CatalogError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCatalogRequest}
	}
	return []error{ErrCatalogRequest, e.Err}
}

// IsNotFound reports whether err is a catalog response with status 404.
func IsNotFound(err error) bool {
	var ce *CatalogError
	return errors.As(err, &ce) && ce.Status == 404
}
