package main

import (
	"context"
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("signing in", "email", email)

	if err := r.session.Login(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	state := r.session.State()
	r.writePlain("✓ Signed in as %s\n", state.User.Email)
	return nil
}

// AuthSignup creates an account, signs in, and persists the session.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	name := cmd.String("name")

	r.logger.Info("creating account", "email", email)

	if err := r.session.Signup(ctx, email, password, name); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	state := r.session.State()
	r.writePlain("✓ Account created, signed in as %s\n", state.User.Email)
	return nil
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the current session state and token expiry.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.session.Startup()
	state := r.session.State()

	if cmd.Bool("json") {
		payload := map[string]any{
			"authenticated": state.IsAuthenticated,
		}
		if state.User != nil {
			payload["user"] = state.User
		}
		if expiry, err := r.session.SessionExpiry(); err == nil {
			payload["expires_at"] = expiry.UTC().Format(time.RFC3339)
		}
		return r.writeJSON(payload, true)
	}

	if !state.IsAuthenticated {
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Email: %s\n", state.User.Email)
	if state.User.Name != "" {
		r.writePlain("Name: %s\n", state.User.Name)
	}
	r.writePlain("User ID: %s\n", state.User.ID)

	if expiry, err := r.session.SessionExpiry(); err == nil {
		if time.Now().After(expiry) {
			r.writePlain("Token: ✗ expired %s\n", expiry.Local().Format(time.RFC1123))
		} else {
			r.writePlain("Token: ✓ valid until %s\n", expiry.Local().Format(time.RFC1123))
		}
	} else {
		r.logger.Debug("could not read token expiry", "error", err)
	}

	return nil
}

// AuthImport extracts a bearer token from a cURL command copied out of
// browser DevTools and stores it as the session credential.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for bearer token")

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	token, err := curlHeaders.BearerToken()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.store.SetToken(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	r.writePlain("✓ Bearer token imported\n")
	r.writePlain("Run 'taskdeck auth status' to inspect the session\n")
	return nil
}

// Dashboard opens the web dashboard in the default browser.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	url := r.config.API.DashboardURL
	if url == "" {
		return fmt.Errorf("%w: api.dashboard_url is not set", shared.ErrMissingConfig)
	}

	r.logger.Info("opening dashboard", "url", url)
	if err := shared.OpenBrowser(url); err != nil {
		r.writePlain("Could not open a browser. Visit:\n%s\n", url)
		return nil
	}
	return r.writePlain("✓ Dashboard opened: %s\n", url)
}
