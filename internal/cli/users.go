package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"skilljar-sync/internal/config"
	"skilljar-sync/internal/ingest"
)

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Ingest all users and their nested course/lesson progress",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Stop after this many newly processed users (cached and cursor-skipped users do not count)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Fetch but write nothing; cache files are neither checked nor created",
			},
			&cli.StringFlag{
				Name:  "start-after",
				Usage: "User id to resume after; assumes the remote list order is stable across runs",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctrl := &ingest.Controller{
				API: client,
				Opts: ingest.Options{
					DataDir:      cfg.DataDir,
					Limit:        int(cmd.Int("limit")),
					DryRun:       cmd.Bool("dry-run"),
					StartAfter:   cmd.String("start-after"),
					ShowProgress: true,
				},
			}

			sum, err := ctrl.Run(ctx)
			if err != nil {
				return err
			}

			if cmd.Bool("dry-run") {
				fmt.Println(dim("Dry run mode: no files written."))
			}
			fmt.Printf("%s processed=%d skipped=%d failed=%d (of %d users)\n",
				bold(green("Ingestion complete.")), sum.Processed, sum.Skipped, sum.Failed, sum.TotalUsers)
			if sum.LastProcessedID != "" {
				fmt.Printf("Last processed id: %s (resume with --start-after)\n", sum.LastProcessedID)
			}
			return nil
		},
	}
}
