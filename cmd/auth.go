package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/worlder/internal/forms"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	form := forms.LoginForm{Email: cmd.String("email"), Password: cmd.String("password")}
	if err := form.Validate(); err != nil {
		return err
	}
	if err := r.requireSession(); err != nil {
		return err
	}

	r.startSession(ctx)
	r.logger.Info("signing in", "email", form.Email)
	if err := r.session.Login(ctx, form.Email, form.Password); err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", r.session.Identity().Name())
}

// AuthRegister creates an email/password account and signs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	form := forms.RegisterForm{
		DisplayName: cmd.String("name"),
		Email:       cmd.String("email"),
		Password:    cmd.String("password"),
	}
	if err := form.Validate(); err != nil {
		return err
	}
	if err := r.requireSession(); err != nil {
		return err
	}

	r.startSession(ctx)
	r.logger.Info("creating account", "email", form.Email)
	if err := r.session.Register(ctx, form.Email, form.Password, form.DisplayName); err != nil {
		return err
	}

	return r.writePlain("✓ Account created, signed in as %s\n", r.session.Identity().Name())
}

// AuthSocial runs the browser consent flow for a social provider.
func (r *Runner) AuthSocial(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("provider")
	if name == "" {
		return fmt.Errorf("%w: provider (google, facebook or apple)", shared.ErrMissingArgument)
	}
	provider, err := models.ParseSocialProvider(name)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if err := r.requireSession(); err != nil {
		return err
	}

	if timeout := cmd.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.startSession(ctx)
	r.writePlain("Opening your browser to sign in with %s...\n", provider)
	if err := r.session.LoginWithSocial(ctx, provider); err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", r.session.Identity().Name())
}

// AuthLogout signs out of the current account.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.startSession(ctx)
	identity := r.session.Identity()
	if identity == nil {
		return r.writePlain("Not signed in\n")
	}

	name := identity.Name()
	if err := r.session.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out %s\n", name)
}

type authStatus struct {
	State    string           `json:"state"`
	Verified bool             `json:"verified"`
	Offline  bool             `json:"offline"`
	Identity *models.Identity `json:"identity"`
}

// AuthStatus reports the session state and signed-in identity.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.startSession(ctx)
	status := authStatus{
		State:    r.session.State().String(),
		Verified: r.session.IsAuthenticated(),
		Offline:  r.offline,
		Identity: r.session.Identity(),
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if status.Identity == nil {
		r.writePlain("✗ Not signed in\n")
		return r.writePlain("State: %s\n", status.State)
	}

	id := status.Identity
	switch {
	case status.Verified:
		r.writePlain("✓ Signed in as %s\n", id.Name())
	case status.Offline:
		r.writePlain("⚠ Stored session for %s could not be verified (identity provider unreachable)\n", id.Name())
	default:
		r.writePlain("⚠ Stored session for %s could not be verified\n", id.Name())
	}
	r.writePlain("State: %s\n", status.State)
	r.writePlain("User ID: %s\n", id.ID)
	r.writePlain("Provider: %s\n", id.Provider)
	if id.Email != nil {
		r.writePlain("Email: %s\n", *id.Email)
	}
	return nil
}
