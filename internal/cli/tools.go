package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"skilljar-sync/internal/archive"
	"skilljar-sync/internal/config"
	"skilljar-sync/internal/index"
	"skilljar-sync/internal/linkcheck"
	"skilljar-sync/internal/mirror"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Generate courses.json and copy content files into the public tree",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			store := mirror.NewStore(cfg.MirrorDir)
			if err := index.Build(store, cfg.PublicDir, cfg.DataDir); err != nil {
				return err
			}
			fmt.Printf("%s generated %s\n", green("OK:"), filepath.Join(cfg.DataDir, "courses.json"))
			return nil
		},
	}
}

func checkLinksCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-links",
		Usage: "Verify external links in the public course HTML",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			checker := linkcheck.NewChecker(filepath.Join(cfg.PublicDir, "courses"))

			report, err := checker.Check(ctx)
			if err != nil {
				return err
			}

			out := filepath.Join(cfg.DataDir, "link-report.json")
			if err := linkcheck.WriteReport(out, report); err != nil {
				return err
			}
			if len(report) == 0 {
				fmt.Printf("%s no broken links\n", green("OK:"))
			} else {
				fmt.Printf("%s %d broken link(s), report saved to %s\n", yellow("WARN:"), len(report), out)
			}
			return nil
		},
	}
}

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Snapshot or restore the local mirror",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Write a brotli-compressed snapshot of the mirror",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output path (default mirror-YYYYMMDD.tar.br)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					out := cmd.String("out")
					if out == "" {
						out = fmt.Sprintf("mirror-%s.tar.br", time.Now().Format("20060102"))
					}
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					n, err := archive.Create(cfg.MirrorDir, f)
					if cerr := f.Close(); err == nil {
						err = cerr
					}
					if err != nil {
						return err
					}
					fmt.Printf("%s archived %d files to %s\n", green("OK:"), n, out)
					return nil
				},
			},
			{
				Name:  "restore",
				Usage: "Unpack a snapshot into a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Snapshot to restore",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Target directory (default the configured mirror dir)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					target := cmd.String("to")
					if target == "" {
						target = cfg.MirrorDir
					}
					f, err := os.Open(cmd.String("file"))
					if err != nil {
						return err
					}
					defer f.Close()
					manifest, err := archive.Extract(f, target)
					if err != nil {
						return err
					}
					if manifest != nil {
						fmt.Printf("%s restored snapshot of %s (%d files) into %s\n",
							green("OK:"), manifest.Root, manifest.FileCount, target)
					} else {
						fmt.Printf("%s restored snapshot into %s\n", green("OK:"), target)
					}
					return nil
				},
			},
		},
	}
}
