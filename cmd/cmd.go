// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for config and the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and session database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
				},
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show current session state and token expiry",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Import a bearer token from a cURL command (Copy as cURL)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// taskCommand handles task CRUD operations
func taskCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "task",
		Aliases: []string{"tasks", "t"},
		Usage:   "Task operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (all, pending, in_progress, completed)",
						Value: "all",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort key (created_at or priority)",
						Value: "created_at",
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort order (asc or desc)",
						Value: "desc",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (text, csv, markdown)",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write output to file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TaskList,
			},
			{
				Name:  "get",
				Usage: "Show a single task",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TaskGet,
			},
			{
				Name:  "create",
				Usage: "Create a task",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Task description",
					},
					&cli.StringFlag{
						Name:    "priority",
						Aliases: []string{"p"},
						Usage:   "Priority (low, medium, high)",
						Value:   "medium",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Status (pending, in_progress, completed)",
						Value: "pending",
					},
				},
				Action: r.TaskCreate,
			},
			{
				Name:  "update",
				Usage: "Update task fields",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "New description",
					},
					&cli.StringFlag{
						Name:    "priority",
						Aliases: []string{"p"},
						Usage:   "New priority (low, medium, high)",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "New status (pending, in_progress, completed)",
					},
				},
				Action: r.TaskUpdate,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a task",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TaskDelete,
			},
			{
				Name:  "done",
				Usage: "Toggle a task's completion",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TaskDone,
			},
		},
	}
}

// dashboardCommand opens the web dashboard in the default browser.
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"web"},
		Usage:   "Open the web dashboard in a browser",
		Action:  r.Dashboard,
	}
}

// tuiCommand returns the top-level TUI command for interactive task management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for task management",
		Action:  r.TUI,
	}
}
