package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"skilljar-sync/internal/config"
	"skilljar-sync/internal/domain"
	"skilljar-sync/internal/export"
	"skilljar-sync/internal/sftpclient"
)

func exportCommand() *cli.Command {
	uploadFlag := &cli.BoolFlag{
		Name:  "upload",
		Usage: "Upload the produced CSV to the configured SFTP drop",
	}
	return &cli.Command{
		Name:  "export",
		Usage: "Reshape the merged progress file into CSV reports",
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "Per-user activity report",
				Flags: []cli.Flag{uploadFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					return runExport(ctx, cfg, cmd.Bool("upload"), "user-report.csv",
						func(f *os.File, users []domain.UserRecord) error {
							return export.WriteUserReport(f, users, cfg.EmployeeDomain)
						})
				},
			},
			{
				Name:  "metrics",
				Usage: "Monthly registrations/completions matrix per course",
				Flags: []cli.Flag{uploadFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					return runExport(ctx, cfg, cmd.Bool("upload"), "metrics-report.csv",
						func(f *os.File, users []domain.UserRecord) error {
							return export.WriteMetricsReport(f, users)
						})
				},
			},
		},
	}
}

func runExport(ctx context.Context, cfg config.Config, upload bool, name string,
	write func(*os.File, []domain.UserRecord) error) error {

	users, err := readMergedProgress(filepath.Join(cfg.DataDir, "user-progress.json"))
	if err != nil {
		return err
	}

	outPath := filepath.Join(cfg.DataDir, name)
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := write(f, users); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("%s CSV exported to %s\n", green("OK:"), outPath)

	if upload {
		err := sftpclient.UploadFile(ctx, sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}, outPath, name)
		if err != nil {
			return err
		}
		fmt.Printf("%s uploaded %s to %s\n", green("OK:"), name, cfg.SFTPHost)
	}
	return nil
}

func readMergedProgress(p string) ([]domain.UserRecord, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read merged progress (run `skilljar-sync users` first): %w", err)
	}
	var users []domain.UserRecord
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	return users, nil
}
