package skilljar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"skilljar-sync/internal/devutil"
	"skilljar-sync/internal/domain"
	"skilljar-sync/internal/logging"
)

// CourseListing pairs the decoded course with the raw remote payload, which
// the mirror persists verbatim as details.json.
type CourseListing struct {
	Course domain.Course
	Raw    json.RawMessage
}

// ListCourses walks the full course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]CourseListing, error) {
	raws, err := c.fetchPaginated(ctx, "/courses", nil, c.PageSize)
	if err != nil {
		return nil, err
	}
	out := make([]CourseListing, 0, len(raws))
	for _, r := range raws {
		var course domain.Course
		if err := json.Unmarshal(r, &course); err != nil {
			return out, fmt.Errorf("skilljar: decode course: %w", err)
		}
		out = append(out, CourseListing{Course: course, Raw: r})
	}
	if len(out) > 0 {
		logging.Debug("course catalog fetched", "count", len(out),
			"sample", devutil.Pick(out[0].Course, "id", "title"))
	}
	return out, nil
}

// ListLessons walks the lessons of one course.
func (c *Client) ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	params := url.Values{"course_id": {courseID}}
	raws, err := c.fetchPaginated(ctx, "/lessons", params, c.PageSize)
	if err != nil {
		return nil, err
	}
	return decodeEach[domain.Lesson](raws, "lesson")
}

// ListContentItems fetches the content items of one lesson.
func (c *Client) ListContentItems(ctx context.Context, lessonID string) ([]domain.ContentItem, error) {
	path := "/lessons/" + url.PathEscape(lessonID) + "/content-items"
	raws, err := c.fetchPaginated(ctx, path, nil, c.PageSize)
	if err != nil {
		return nil, err
	}
	return decodeEach[domain.ContentItem](raws, "content item")
}
