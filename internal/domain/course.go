// Package domain holds the canonical course/lesson/content-item model shared
// by the Skilljar client, the local mirror and the sync tooling.
package domain

// Course as returned by the remote catalog. Extra fields the API sends are
// preserved in the mirror via the raw details payload, not here.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ShortDesc   string `json:"short_description,omitempty"`
	Description string `json:"long_description,omitempty"`
	Published   bool   `json:"published,omitempty"`
}

// Lesson belongs to exactly one course; Order defines display and sync order.
type Lesson struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// ContentItem is one block of lesson content. Only items with a non-empty
// ContentHTML body are mirrored to disk.
type ContentItem struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Header      string `json:"header,omitempty"`
	ContentHTML string `json:"content_html,omitempty"`
	Type        string `json:"type,omitempty"`
}

// LessonMeta is the persisted projection of a lesson and its content items,
// written to lessons-meta.json so the tree can be rebuilt without the remote.
type LessonMeta struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Title        string            `json:"title"`
	Order        int               `json:"order"`
	ContentItems []ContentItemMeta `json:"content_items"`
}

// ContentItemMeta records where a content item's body lives relative to the
// course directory.
type ContentItemMeta struct {
	ID    string `json:"id"`
	File  string `json:"file"`
	Order int    `json:"order"`
}
