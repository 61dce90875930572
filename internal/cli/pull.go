package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"skilljar-sync/internal/config"
	"skilljar-sync/internal/mirror"
	"skilljar-sync/internal/sync"
)

func pullCommand() *cli.Command {
	return &cli.Command{
		Name:  "pull",
		Usage: "Mirror the remote course catalog into the local tree",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			store := mirror.NewStore(cfg.MirrorDir)

			rep, err := sync.Pull(ctx, client, store, func(format string, args ...any) {
				fmt.Printf(format+"\n", args...)
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n%s %d courses (%d lessons) synced", green("OK:"), rep.Courses, rep.Lessons)
			if rep.Failed > 0 {
				fmt.Printf(", %s", red(fmt.Sprintf("%d failed", rep.Failed)))
			}
			fmt.Println()
			return nil
		},
	}
}
