// Package index projects the mirror into a public course index: one
// courses.json plus a copy of every content file under the public tree.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"skilljar-sync/internal/logging"
	"skilljar-sync/internal/mirror"
)

// courseEntry is the per-course value in courses.json. Lesson keys are
// "<lesson title> [<item order>]" and values are public-relative paths.
type courseEntry struct {
	Lessons map[string]string `json:"Lessons"`
}

// Build walks every mirrored course, copies its content files under
// {publicDir}/courses, and writes {dataDir}/courses.json. Courses with
// missing metadata are skipped with a warning, like everywhere else.
func Build(store *mirror.Store, publicDir, dataDir string) error {
	slugs, err := store.CourseSlugs()
	if err != nil {
		return err
	}

	courseIndex := map[string]courseEntry{}
	for _, slug := range slugs {
		course, lessons, err := store.ReadCourseTree(slug)
		if err != nil {
			if mirror.IsNotFound(err) {
				logging.Warn("skipping course: missing details or metadata", "course", slug)
				continue
			}
			return err
		}

		entry := courseEntry{Lessons: map[string]string{}}
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })

		for _, lesson := range lessons {
			items := lesson.ContentItems
			sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })

			for _, item := range items {
				destDir := filepath.Join(publicDir, "courses", slug, "lessons", lesson.Slug)
				if err := os.MkdirAll(destDir, 0o755); err != nil {
					return err
				}

				name := path.Base(item.File)
				if err := copyFile(store.ContentPath(slug, item.File), filepath.Join(destDir, name)); err != nil {
					return err
				}

				rel := path.Join("courses", slug, "lessons", lesson.Slug, name)
				key := fmt.Sprintf("%s [%d]", lesson.Title, item.Order)
				entry.Lessons[key] = rel
			}
		}
		courseIndex[course.Title] = entry
	}

	out := filepath.Join(dataDir, "courses.json")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(courseIndex, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, append(b, '\n'), 0o644)
}

func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}
