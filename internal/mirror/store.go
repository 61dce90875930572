// Package mirror reads and writes the local on-disk copy of remote course
// content. Layout per course, keyed by a slug of the title:
//
//	{root}/{courseSlug}/details.json
//	{root}/{courseSlug}/lessons-meta.json
//	{root}/{courseSlug}/lessons/{NN-lessonSlug}/{itemSlug}-{itemID}.html
package mirror

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"skilljar-sync/internal/domain"
)

const (
	detailsFile = "details.json"
	metaFile    = "lessons-meta.json"
)

// NotFoundError reports that a course's required metadata is missing locally.
// Callers skip that course and keep going; it never aborts a batch.
type NotFoundError struct {
	Course string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mirror: course %q: missing %s", e.Course, e.Path)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Store is a course mirror rooted at one directory.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// LessonContent is the input unit for WriteCourseTree: one lesson plus its
// content items as fetched from the remote.
type LessonContent struct {
	Lesson domain.Lesson
	Items  []domain.ContentItem
}

// WriteCourseTree materializes one course. Paths are derived purely from the
// input (lesson order+slug, item header slug, item id), so re-running with
// unchanged input rewrites byte-identical files. Items without a content body
// are recorded nowhere.
func (s *Store) WriteCourseTree(course domain.Course, details json.RawMessage, lessons []LessonContent) (string, []domain.LessonMeta, error) {
	slug := domain.Slugify(course.Title)
	if slug == "" {
		return "", nil, fmt.Errorf("mirror: course %q produces an empty slug", course.Title)
	}
	courseDir := filepath.Join(s.Root, slug)

	if details == nil {
		b, err := json.Marshal(course)
		if err != nil {
			return "", nil, err
		}
		details = b
	}
	if err := writeRawJSON(filepath.Join(courseDir, detailsFile), details); err != nil {
		return "", nil, err
	}

	metas := make([]domain.LessonMeta, 0, len(lessons))
	for _, lc := range lessons {
		lessonSlug := fmt.Sprintf("%02d-%s", lc.Lesson.Order, domain.Slugify(lc.Lesson.Title))
		lessonDir := filepath.Join(courseDir, "lessons", lessonSlug)
		if err := os.MkdirAll(lessonDir, 0o755); err != nil {
			return "", nil, err
		}

		itemMetas := make([]domain.ContentItemMeta, 0, len(lc.Items))
		for _, item := range lc.Items {
			if item.ContentHTML == "" {
				continue
			}
			prefix := domain.Slugify(item.Header)
			if prefix == "" {
				prefix = "content"
			}
			name := fmt.Sprintf("%s-%s.html", prefix, item.ID)
			rel := path.Join("lessons", lessonSlug, name)
			if err := os.WriteFile(filepath.Join(courseDir, filepath.FromSlash(rel)), []byte(item.ContentHTML), 0o644); err != nil {
				return "", nil, err
			}
			itemMetas = append(itemMetas, domain.ContentItemMeta{
				ID:    item.ID,
				File:  rel,
				Order: item.Order,
			})
		}

		metas = append(metas, domain.LessonMeta{
			ID:           lc.Lesson.ID,
			Slug:         lessonSlug,
			Title:        lc.Lesson.Title,
			Order:        lc.Lesson.Order,
			ContentItems: itemMetas,
		})
	}

	if err := writeJSON(filepath.Join(courseDir, metaFile), metas); err != nil {
		return "", nil, err
	}
	return slug, metas, nil
}

// ReadCourseTree loads a mirrored course. A missing details or metadata file
// yields NotFoundError; callers treat that as "skip this course".
func (s *Store) ReadCourseTree(courseSlug string) (domain.Course, []domain.LessonMeta, error) {
	var course domain.Course
	courseDir := filepath.Join(s.Root, courseSlug)

	detailsPath := filepath.Join(courseDir, detailsFile)
	db, err := os.ReadFile(detailsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return course, nil, &NotFoundError{Course: courseSlug, Path: detailsFile}
		}
		return course, nil, err
	}
	if err := json.Unmarshal(db, &course); err != nil {
		return course, nil, fmt.Errorf("mirror: course %q: parse %s: %w", courseSlug, detailsFile, err)
	}

	metaPath := filepath.Join(courseDir, metaFile)
	mb, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return course, nil, &NotFoundError{Course: courseSlug, Path: metaFile}
		}
		return course, nil, err
	}
	var metas []domain.LessonMeta
	if err := json.Unmarshal(mb, &metas); err != nil {
		return course, nil, fmt.Errorf("mirror: course %q: parse %s: %w", courseSlug, metaFile, err)
	}
	return course, metas, nil
}

// ReadContent returns the body of one mirrored content item, by the relative
// file recorded in lessons-meta.json.
func (s *Store) ReadContent(courseSlug, relFile string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.Root, courseSlug, filepath.FromSlash(relFile)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ContentPath exposes the absolute path of a mirrored content file.
func (s *Store) ContentPath(courseSlug, relFile string) string {
	return filepath.Join(s.Root, courseSlug, filepath.FromSlash(relFile))
}

// CourseSlugs lists the mirrored course directories in name order.
func (s *Store) CourseSlugs() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			slugs = append(slugs, e.Name())
		}
	}
	return slugs, nil
}

// writeJSON persists v with two-space indentation and a trailing newline,
// matching the rest of the data files this tool emits.
func writeJSON(p string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, append(b, '\n'), 0o644)
}

// writeRawJSON re-indents an already-encoded payload, preserving the remote's
// key order so repeated pulls of unchanged data stay byte-identical.
func writeRawJSON(p string, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, buf.Bytes(), 0o644)
}
