// Package cli wires the skilljar-sync commands.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"skilljar-sync/internal/config"
	"skilljar-sync/internal/logging"
	"skilljar-sync/internal/skilljar"
)

// Version is stamped by the build.
var Version = "dev"

// Run executes the CLI with the given arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "skilljar-sync",
		Usage:   "Mirror Skilljar course content locally, sync it back, and ingest user progress",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable info-level logging",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging (implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			configureLogging(cmd)
			return ctx, nil
		},
		Commands: []*cli.Command{
			pullCommand(),
			pushCommand(),
			usersCommand(),
			exportCommand(),
			indexCommand(),
			checkLinksCommand(),
			archiveCommand(),
		},
	}
	return app.Run(ctx, args)
}

func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		disableColors()
	}
}

func configureLogging(cmd *cli.Command) {
	opts := logging.DefaultOptions()
	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}
	logging.SetDefault(logging.New(opts))
}

// newClient builds the remote client, failing fast when the credential is
// absent so no command starts paginating without auth.
func newClient(cfg config.Config) (*skilljar.Client, error) {
	if err := cfg.RequireAuth(); err != nil {
		return nil, err
	}
	c := skilljar.New(cfg.SkilljarBaseURL, cfg.SkilljarAPIKey)
	c.PageSize = cfg.PageSize
	return c, nil
}
