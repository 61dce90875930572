// Package skilljar is the HTTP client for the Skilljar v1 API.
package skilljar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"skilljar-sync/internal/domain"
	"skilljar-sync/internal/httpx"
)

const contentTypeJSON = "application/json"

// Client talks to one Skilljar account. The API key is sent as the basic-auth
// username with an empty password.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Retry   httpx.RetryPolicy

	// PageSize is the default page_size for paginated listings (API max 100).
	PageSize int
}

func New(baseURL, apiKey string) *Client {
	tr := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: tr,
		},
		Retry:    httpx.DefaultRetryPolicy(),
		PageSize: 100,
	}
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	return httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		r.Header.Set("Accept", contentTypeJSON)
		r.SetBasicAuth(c.APIKey, "")
		return r, nil
	}, c.Retry)
}

// GetContentItem fetches a single content item by lesson and item identity.
func (c *Client) GetContentItem(ctx context.Context, lessonID, itemID string) (domain.ContentItem, error) {
	var item domain.ContentItem
	u := fmt.Sprintf("%s/lessons/%s/content-items/%s", c.BaseURL, url.PathEscape(lessonID), url.PathEscape(itemID))
	body, err := c.get(ctx, u)
	if err != nil {
		return item, fmt.Errorf("skilljar: get content-item %s: %w", itemID, err)
	}
	if err := json.Unmarshal(body, &item); err != nil {
		return item, fmt.Errorf("skilljar: decode content-item %s: %w", itemID, err)
	}
	return item, nil
}

// UpdateContentItem pushes a local body upstream.
func (c *Client) UpdateContentItem(ctx context.Context, lessonID, itemID, contentHTML string) error {
	payload := struct {
		LessonID    string `json:"lesson_id"`
		ContentHTML string `json:"content_html"`
		Type        string `json:"type"`
	}{
		LessonID:    lessonID,
		ContentHTML: contentHTML,
		Type:        "HTML",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/lessons/%s/content-items/%s", c.BaseURL, url.PathEscape(lessonID), url.PathEscape(itemID))
	_, err = httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", contentTypeJSON)
		r.Header.Set("Accept", contentTypeJSON)
		r.SetBasicAuth(c.APIKey, "")
		return r, nil
	}, c.Retry)
	if err != nil {
		return fmt.Errorf("skilljar: update content-item %s: %w", itemID, err)
	}
	return nil
}
