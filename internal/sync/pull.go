package sync

import (
	"context"
	"fmt"

	"skilljar-sync/internal/domain"
	"skilljar-sync/internal/logging"
	"skilljar-sync/internal/mirror"
	"skilljar-sync/internal/skilljar"
)

// CatalogAPI is the slice of the remote API the pull path needs.
type CatalogAPI interface {
	ListCourses(ctx context.Context) ([]skilljar.CourseListing, error)
	ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error)
	ListContentItems(ctx context.Context, lessonID string) ([]domain.ContentItem, error)
}

// PullReport summarizes one pull run.
type PullReport struct {
	Courses int
	Lessons int
	Failed  int
}

// Pull mirrors the whole remote catalog to disk, course by course. A failed
// course is logged and skipped; its siblings still sync. The course fetch
// itself failing is the one fatal case, since there is no work list without it.
func Pull(ctx context.Context, api CatalogAPI, store *mirror.Store, report func(format string, args ...any)) (PullReport, error) {
	if report == nil {
		report = func(string, ...any) {}
	}

	var rep PullReport
	courses, err := api.ListCourses(ctx)
	if err != nil {
		return rep, fmt.Errorf("list courses: %w", err)
	}

	for _, listing := range courses {
		report("Syncing course: %s", listing.Course.Title)
		lessons, err := pullCourse(ctx, api, store, listing)
		if err != nil {
			rep.Failed++
			logging.Error("course sync failed", "course", listing.Course.Title, "id", listing.Course.ID, "err", err)
			continue
		}
		rep.Courses++
		rep.Lessons += lessons
		report("Done: %s (%d lessons)", listing.Course.Title, lessons)
	}
	return rep, nil
}

func pullCourse(ctx context.Context, api CatalogAPI, store *mirror.Store, listing skilljar.CourseListing) (int, error) {
	lessons, err := api.ListLessons(ctx, listing.Course.ID)
	if err != nil {
		return 0, fmt.Errorf("list lessons: %w", err)
	}

	contents := make([]mirror.LessonContent, 0, len(lessons))
	for _, lesson := range lessons {
		items, err := api.ListContentItems(ctx, lesson.ID)
		if err != nil {
			// One lesson's items failing should not lose the whole course.
			logging.Error("content items fetch failed", "lesson", lesson.Title, "id", lesson.ID, "err", err)
			continue
		}
		contents = append(contents, mirror.LessonContent{Lesson: lesson, Items: items})
	}

	if _, _, err := store.WriteCourseTree(listing.Course, listing.Raw, contents); err != nil {
		return 0, fmt.Errorf("write course tree: %w", err)
	}
	return len(contents), nil
}
