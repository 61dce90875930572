// Package ingest drives the bulk download of users and their nested course
// and lesson progress, with checkpointing so an interrupted run can resume.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"skilljar-sync/internal/domain"
	"skilljar-sync/internal/logging"
)

// API is the slice of the remote API the controller needs.
type API interface {
	ListUsers(ctx context.Context) ([]domain.UserEntry, error)
	ListUserCourses(ctx context.Context, userID string) ([]domain.CourseProgress, error)
	ListUserCourseLessons(ctx context.Context, userID, publishedCourseID string) ([]domain.LessonProgress, error)
}

// Options configures one ingestion run.
type Options struct {
	// DataDir receives users.json, user-progress.json and user-progress/.
	DataDir string

	// Limit stops new processing after this many users succeeded in this
	// run. Cursor-skipped and cache-skipped users do not count.
	Limit int

	// DryRun fetches nothing from disk and writes nothing: cache files are
	// neither consulted nor created.
	DryRun bool

	// StartAfter is the resume cursor: skip every user up to and including
	// this id, then proceed. Assumes the remote list order is stable.
	StartAfter string

	// ShowProgress renders a progress bar over the user list.
	ShowProgress bool
}

// Summary reports what one run did.
type Summary struct {
	TotalUsers      int
	Processed       int
	Skipped         int
	Failed          int
	LastProcessedID string
}

// Controller runs the ingestion. All fetch chains are strictly sequential;
// resumability depends on deterministic ordering.
type Controller struct {
	API  API
	Opts Options
}

func (c *Controller) usersPath() string   { return filepath.Join(c.Opts.DataDir, "users.json") }
func (c *Controller) mergedPath() string  { return filepath.Join(c.Opts.DataDir, "user-progress.json") }
func (c *Controller) perUserDir() string  { return filepath.Join(c.Opts.DataDir, "user-progress") }
func (c *Controller) userPath(id string) string {
	return filepath.Join(c.perUserDir(), id+".json")
}

// Run executes the ingestion. Per-user failures are isolated: they are logged
// with the user's id and email and leave that user out of the merged output.
// Only listing the users at all is fatal.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	if !c.Opts.DryRun {
		if err := os.MkdirAll(c.perUserDir(), 0o755); err != nil {
			return sum, err
		}
	}

	users, err := c.API.ListUsers(ctx)
	if err != nil {
		return sum, fmt.Errorf("ingest: list users: %w", err)
	}
	sum.TotalUsers = len(users)

	var bar *progressbar.ProgressBar
	if c.Opts.ShowProgress {
		bar = progressbar.NewOptions(len(users),
			progressbar.OptionSetDescription("users"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	// Merged output holds only this run's successes; prior runs live in the
	// per-user cache files.
	processed := make([]domain.UserRecord, 0, len(users))
	skipping := c.Opts.StartAfter != ""

	for _, entry := range users {
		if bar != nil {
			_ = bar.Add(1)
		}

		id := entry.User.ID
		email := entry.User.Email
		if email == "" {
			email = "unknown"
		}
		if id == "" {
			logging.Warn("skipping user entry with missing id", "email", email)
			continue
		}

		if skipping {
			if id == c.Opts.StartAfter {
				skipping = false
			}
			continue
		}

		if c.Opts.Limit > 0 && sum.Processed >= c.Opts.Limit {
			break
		}

		if !c.Opts.DryRun {
			if _, err := os.Stat(c.userPath(id)); err == nil {
				// Existing cache file is ground truth; never re-fetch.
				logging.Info("already processed, skipping", "user", id)
				sum.Skipped++
				continue
			}
		}

		record, err := c.fetchUser(ctx, entry, id, email)
		if err != nil {
			logging.Error("failed to process user", "user", id, "email", email, "err", err)
			sum.Failed++
			continue
		}

		if !c.Opts.DryRun {
			if err := writeJSON(c.userPath(id), record); err != nil {
				logging.Error("failed to write user cache", "user", id, "err", err)
				sum.Failed++
				continue
			}
		}

		processed = append(processed, record)
		sum.Processed++
		sum.LastProcessedID = id
	}

	if !c.Opts.DryRun {
		if err := writeJSON(c.usersPath(), users); err != nil {
			return sum, fmt.Errorf("ingest: write user list: %w", err)
		}
		if err := writeJSON(c.mergedPath(), processed); err != nil {
			return sum, fmt.Errorf("ingest: write merged progress: %w", err)
		}
	}
	return sum, nil
}

// fetchUser pulls the nested course and lesson progress for one user,
// strictly sequentially.
func (c *Controller) fetchUser(ctx context.Context, entry domain.UserEntry, id, email string) (domain.UserRecord, error) {
	courses, err := c.API.ListUserCourses(ctx, id)
	if err != nil {
		return domain.UserRecord{}, err
	}
	for i := range courses {
		lessons, err := c.API.ListUserCourseLessons(ctx, id, courses[i].PublishedCourseID)
		if err != nil {
			return domain.UserRecord{}, err
		}
		courses[i].Lessons = lessons
	}

	name := strings.TrimSpace(entry.User.FirstName + " " + entry.User.LastName)
	return domain.UserRecord{
		ID:             id,
		Email:          email,
		Name:           name,
		SignedUpAt:     entry.SignedUpAt,
		LatestActivity: entry.LatestActivity,
		Courses:        courses,
	}, nil
}

func writeJSON(p string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, append(b, '\n'), 0o644)
}
