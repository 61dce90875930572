package sync

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"skilljar-sync/internal/domain"
	"skilljar-sync/internal/mirror"
	"skilljar-sync/internal/skilljar"
)

type fakeCatalogAPI struct {
	courses    []skilljar.CourseListing
	coursesErr error
	lessons    map[string][]domain.Lesson
	lessonsErr map[string]error
	items      map[string][]domain.ContentItem
	itemsErr   map[string]error
}

func (f *fakeCatalogAPI) ListCourses(context.Context) ([]skilljar.CourseListing, error) {
	return f.courses, f.coursesErr
}

func (f *fakeCatalogAPI) ListLessons(_ context.Context, courseID string) ([]domain.Lesson, error) {
	if err := f.lessonsErr[courseID]; err != nil {
		return nil, err
	}
	return f.lessons[courseID], nil
}

func (f *fakeCatalogAPI) ListContentItems(_ context.Context, lessonID string) ([]domain.ContentItem, error) {
	if err := f.itemsErr[lessonID]; err != nil {
		return nil, err
	}
	return f.items[lessonID], nil
}

func catalogFixture() *fakeCatalogAPI {
	return &fakeCatalogAPI{
		courses: []skilljar.CourseListing{
			{
				Course: domain.Course{ID: "c1", Title: "Course One"},
				Raw:    json.RawMessage(`{"id":"c1","title":"Course One"}`),
			},
			{
				Course: domain.Course{ID: "c2", Title: "Course Two"},
				Raw:    json.RawMessage(`{"id":"c2","title":"Course Two"}`),
			},
		},
		lessons: map[string][]domain.Lesson{
			"c1": {{ID: "l1", Title: "Lesson", Order: 1}},
			"c2": {{ID: "l2", Title: "Lesson", Order: 1}},
		},
		items: map[string][]domain.ContentItem{
			"l1": {{ID: "i1", Order: 1, Header: "Intro", ContentHTML: "<p>a</p>"}},
			"l2": {{ID: "i2", Order: 1, Header: "Intro", ContentHTML: "<p>b</p>"}},
		},
	}
}

func TestPullMirrorsCatalog(t *testing.T) {
	api := catalogFixture()
	store := mirror.NewStore(t.TempDir())

	rep, err := Pull(context.Background(), api, store, nil)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if rep.Courses != 2 || rep.Lessons != 2 || rep.Failed != 0 {
		t.Fatalf("report = %+v", rep)
	}

	slugs, err := store.CourseSlugs()
	if err != nil {
		t.Fatal(err)
	}
	if len(slugs) != 2 {
		t.Fatalf("slugs = %v", slugs)
	}

	// details.json is the raw remote payload, re-indented.
	b, err := os.ReadFile(filepath.Join(store.Root, "Course-One", "details.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"id\": \"c1\",\n  \"title\": \"Course One\"\n}\n"
	if string(b) != want {
		t.Errorf("details.json = %q, want %q", b, want)
	}
}

func TestPullCourseFailureIsolated(t *testing.T) {
	api := catalogFixture()
	api.lessonsErr = map[string]error{"c1": errors.New("boom")}
	store := mirror.NewStore(t.TempDir())

	rep, err := Pull(context.Background(), api, store, nil)
	if err != nil {
		t.Fatalf("one failed course must not abort the pull: %v", err)
	}
	if rep.Courses != 1 || rep.Failed != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if _, _, err := store.ReadCourseTree("Course-Two"); err != nil {
		t.Errorf("surviving course not mirrored: %v", err)
	}
	if _, _, err := store.ReadCourseTree("Course-One"); !mirror.IsNotFound(err) {
		t.Errorf("failed course must leave no tree: %v", err)
	}
}

func TestPullLessonItemFailureKeepsCourse(t *testing.T) {
	api := catalogFixture()
	api.lessons["c1"] = append(api.lessons["c1"], domain.Lesson{ID: "l9", Title: "Broken", Order: 2})
	api.itemsErr = map[string]error{"l9": errors.New("boom")}
	store := mirror.NewStore(t.TempDir())

	rep, err := Pull(context.Background(), api, store, nil)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if rep.Courses != 2 || rep.Failed != 0 {
		t.Fatalf("report = %+v", rep)
	}
	_, metas, err := store.ReadCourseTree("Course-One")
	if err != nil {
		t.Fatal(err)
	}
	// The broken lesson is dropped; the rest of the course survives.
	if len(metas) != 1 || metas[0].ID != "l1" {
		t.Errorf("metas = %+v", metas)
	}
}

func TestPullListCoursesFatal(t *testing.T) {
	api := &fakeCatalogAPI{coursesErr: errors.New("401")}
	store := mirror.NewStore(t.TempDir())
	if _, err := Pull(context.Background(), api, store, nil); err == nil {
		t.Fatal("a failed catalog listing must be fatal")
	}
}
