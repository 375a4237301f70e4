// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlags(pretty bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: pretty,
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format (json, csv, markdown, txt)",
		Value:   "json",
	}
}

// setupCommand handles setup operations for configuration and the credential database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml from the built-in template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the credential database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// serveCommand starts the web application.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the Page Hoppers web app",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default: server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the app in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles parent and child sign-in.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage parent and child sign-in",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a parent account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Parent name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Parent email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
					&cli.StringFlag{Name: "confirm", Usage: "Password confirmation (default: --password)"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in as a parent",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Parent email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "child-login",
				Usage: "Sign a child in with their PIN (requires a parent sign-in)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "child", Usage: "Child ID", Required: true},
					&cli.StringFlag{Name: "pin", Usage: "Four digit PIN", Required: true},
				},
				Action: r.AuthChildLogin,
			},
			{
				Name:  "logout",
				Usage: "Forget stored credentials",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "role",
						Usage: "Role to sign out (parent, child, all)",
						Value: "all",
					},
				},
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show who is signed in",
				Flags:  outputFlags(false),
				Action: r.AuthStatus,
			},
		},
	}
}

// childrenCommand handles the parent's view of their children.
func childrenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "children",
		Aliases: []string{"kids"},
		Usage:   "Parent operations on children",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List children",
				Flags:  outputFlags(false),
				Action: r.ChildrenList,
			},
			{
				Name:  "add",
				Usage: "Add a child",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Child name", Required: true},
					&cli.IntFlag{Name: "age", Usage: "Child age", Required: true},
					&cli.StringFlag{Name: "pin", Usage: "Four digit PIN", Required: true},
					&cli.StringFlag{Name: "username", Usage: "Optional username"},
				},
				Action: r.ChildrenAdd,
			},
			{
				Name:  "logs",
				Usage: "Show one child's reading log",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "child", Usage: "Child ID", Required: true},
				}, outputFlags(false)...),
				Action: r.ChildrenLogs,
			},
			{
				Name:  "export",
				Usage: "Export every child's reading log to a directory",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: reading_logs_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 3,
					},
				},
				Action: r.ChildrenExport,
			},
		},
	}
}

// logsCommand handles the signed-in child's reading log.
func logsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Reading log of the signed-in child",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List reading log entries",
				Flags:  outputFlags(false),
				Action: r.LogsList,
			},
			{
				Name:  "add",
				Usage: "Log a book, by catalog key or by hand",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "Open Library work key from catalog search"},
					&cli.StringFlag{Name: "title", Usage: "Book title"},
					&cli.StringFlag{Name: "author", Usage: "Book author"},
					&cli.IntFlag{Name: "cover", Usage: "Open Library cover ID"},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Reading status (started, completed)",
						Value: "completed",
					},
					&cli.StringFlag{Name: "date", Usage: "Date read, YYYY-MM-DD (default: today)"},
				},
				Action: r.LogsAdd,
			},
			{
				Name:   "summary",
				Usage:  "Show the reading summary",
				Flags:  outputFlags(true),
				Action: r.LogsSummary,
			},
			{
				Name:  "export",
				Usage: "Export the reading log to a file",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: {name}_reading_log.{ext})",
					},
				},
				Action: r.LogsExport,
			},
		},
	}
}

// catalogCommand handles Open Library lookups.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"books"},
		Usage:   "Search the Open Library catalog",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search books by title or author",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  outputFlags(true),
				Action: r.CatalogSearch,
			},
			{
				Name:  "cover",
				Usage: "Download a cover image",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Cover ID", Required: true},
					&cli.StringFlag{Name: "size", Usage: "Cover size (S, M, L)", Value: "M"},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: cover_{id}_{size}.jpg)",
					},
				},
				Action: r.CatalogCover,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the child dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive child dashboard",
		Action:  r.TUI,
	}
}
