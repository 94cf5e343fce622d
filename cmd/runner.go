package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/shared"
	"github.com/taskdeck/taskdeck/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	store   *session.Store
	session *session.Controller
	tasks   *tasks.Controller
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Store    *session.Store
	Provider session.Provider
	API      tasks.API
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Store == nil {
		opts.Store = session.NewStore(nil)
	}
	if opts.Provider == nil {
		opts.Provider = services.NewAuthService(opts.Config.Auth.BaseURL, nil)
	}
	if opts.API == nil {
		opts.API = services.NewClient(opts.Config.API.BaseURL, nil, opts.Store, opts.Config.API.RateLimit)
	}

	return &Runner{
		config:  opts.Config,
		store:   opts.Store,
		session: session.NewController(opts.Store, opts.Provider, opts.Logger),
		tasks:   tasks.NewController(opts.API, opts.Logger),
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's logger and the controllers' loggers.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.session.SetLogger(logger)
	r.tasks.SetLogger(logger)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, taskCommand, dashboardCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// currentUserID rehydrates the session and returns the signed-in user's
// ID, or an error when no session exists.
func (r *Runner) currentUserID() (string, error) {
	r.session.Startup()
	state := r.session.State()
	if !state.IsAuthenticated || state.User == nil {
		return "", fmt.Errorf("%w: run 'taskdeck auth login' first", shared.ErrNotAuthenticated)
	}
	return state.User.ID, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
