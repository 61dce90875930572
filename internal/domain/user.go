package domain

// UserEntry is one element of the remote /users listing. The interesting
// fields live under "user"; enrollment timestamps sit beside it.
type UserEntry struct {
	User           UserInfo `json:"user"`
	SignedUpAt     string   `json:"signed_up_at,omitempty"`
	LatestActivity string   `json:"latest_activity,omitempty"`
}

type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// CourseProgress is one enrolled course of a user, with lesson progress
// attached after the nested fetch.
type CourseProgress struct {
	PublishedCourseID string           `json:"published_course_id"`
	Course            CourseRef        `json:"course"`
	EnrolledAt        string           `json:"enrolled_at,omitempty"`
	Progress          ProgressState    `json:"course_progress"`
	Lessons           []LessonProgress `json:"lessons,omitempty"`
}

type CourseRef struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

type ProgressState struct {
	CompletedAt string `json:"completed_at,omitempty"`
}

type LessonProgress struct {
	LessonID    string `json:"lesson_id,omitempty"`
	Title       string `json:"title,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// UserRecord is the per-user cache file and the element type of the merged
// run output. Once written it is never overwritten by a later run.
type UserRecord struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	Name           string           `json:"name"`
	SignedUpAt     string           `json:"signed_up_at,omitempty"`
	LatestActivity string           `json:"latest_activity,omitempty"`
	Courses        []CourseProgress `json:"courses"`
}
