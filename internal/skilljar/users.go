package skilljar

import (
	"context"
	"net/url"

	"skilljar-sync/internal/domain"
)

// progressPageSize is the request hint for the nested progress listings; the
// server still caps it at its own maximum.
const progressPageSize = 1000

// ListUsers walks the full user list in remote order. Ordering matters: the
// ingestion resume cursor assumes this order is stable across runs.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserEntry, error) {
	raws, err := c.fetchPaginated(ctx, "/users", nil, c.PageSize)
	if err != nil {
		return nil, err
	}
	return decodeEach[domain.UserEntry](raws, "user")
}

// ListUserCourses fetches the published courses a user is enrolled in.
func (c *Client) ListUserCourses(ctx context.Context, userID string) ([]domain.CourseProgress, error) {
	path := "/users/" + url.PathEscape(userID) + "/published-courses"
	raws, err := c.fetchPaginated(ctx, path, nil, progressPageSize)
	if err != nil {
		return nil, err
	}
	return decodeEach[domain.CourseProgress](raws, "course progress")
}

// ListUserCourseLessons fetches a user's lesson progress inside one published
// course.
func (c *Client) ListUserCourseLessons(ctx context.Context, userID, publishedCourseID string) ([]domain.LessonProgress, error) {
	path := "/users/" + url.PathEscape(userID) + "/published-courses/" + url.PathEscape(publishedCourseID) + "/lessons"
	raws, err := c.fetchPaginated(ctx, path, nil, c.PageSize)
	if err != nil {
		return nil, err
	}
	return decodeEach[domain.LessonProgress](raws, "lesson progress")
}
