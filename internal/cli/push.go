package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"skilljar-sync/internal/config"
	"skilljar-sync/internal/mirror"
	"skilljar-sync/internal/sync"
)

func pushCommand() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Compare mirrored content with the remote and push local changes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "course",
				Usage: "Course folder slug to sync (default: every mirrored course)",
			},
			&cli.StringFlag{
				Name:  "lesson",
				Usage: "Lesson slug to sync",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Preview changes without syncing",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Push all changes without prompting",
			},
			&cli.BoolFlag{
				Name:  "diff-only",
				Usage: "Only show diffs, never push",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "Show diffs before syncing",
				Value: true,
			},
		},
		Action: pushAction,
	}
}

func pushAction(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	store := mirror.NewStore(cfg.MirrorDir)

	// The unit-of-work list: one slug from the flag, or the whole mirror.
	var slugs []string
	if course := cmd.String("course"); course != "" {
		slugs = []string{course}
	} else {
		slugs, err = store.CourseSlugs()
		if err != nil {
			return fmt.Errorf("list mirrored courses: %w", err)
		}
	}

	pusher := &sync.Pusher{
		Store: store,
		Resolver: &sync.Resolver{
			API: client,
			Policy: sync.Policy{
				ShowDiff: cmd.Bool("diff"),
				DiffOnly: cmd.Bool("diff-only"),
				DryRun:   cmd.Bool("dry-run"),
				Force:    cmd.Bool("force"),
			},
		},
		Hooks: sync.PushHooks{
			LessonStart: func(courseTitle, lessonTitle string) {
				fmt.Printf("\nLesson: %s %s\n", bold(courseTitle), cyan(lessonTitle))
			},
			Divergent: printDivergence,
			Outcome:   printOutcome,
			Confirm:   confirmPush,
		},
	}

	rep := pusher.PushCourses(ctx, slugs, cmd.String("lesson"))
	fmt.Printf("\n%s in-sync=%d pushed=%d skipped=%d failed=%d\n",
		bold(green("Sync complete.")), rep.InSync, rep.Pushed, rep.Skipped, rep.Failed)
	return nil
}

func printDivergence(out sync.Outcome) {
	fmt.Printf("Difference detected in content-item %s\n", yellow(out.ItemID))
	if out.Diff == nil {
		return
	}
	fmt.Println(dim("Showing diff (upstream -> local):"))
	for _, seg := range out.Diff {
		symbol, paint := " ", dim
		switch seg.Op {
		case sync.OpAdd:
			symbol, paint = "+", green
		case sync.OpRemove:
			symbol, paint = "-", red
		}
		for _, line := range seg.Lines {
			fmt.Println(paint(symbol + " " + line))
		}
	}
}

func printOutcome(out sync.Outcome) {
	switch out.State {
	case sync.StateInSync:
		fmt.Printf("%s content-item %s is in sync\n", green("ok"), out.ItemID)
	case sync.StateSkippedDiffOnly:
		fmt.Println(dim(fmt.Sprintf("DIFF ONLY: skipping content-item %s", out.ItemID)))
	case sync.StateSkippedDryRun:
		fmt.Println(dim(fmt.Sprintf("DRY RUN: would update content-item %s", out.ItemID)))
	case sync.StatePushed:
		fmt.Printf("%s\n", green("Updated content-item "+out.ItemID))
	case sync.StateSkippedByUser:
		fmt.Println(dim("Skipped content-item " + out.ItemID))
	}
}

// confirmPush blocks for an explicit yes/no on one suspended push.
func confirmPush(p *sync.PendingPush) bool {
	fmt.Printf("Push local changes to content-item %s? [y/N]: ", p.ItemID)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
