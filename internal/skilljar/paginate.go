package skilljar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"skilljar-sync/internal/logging"
)

// UnexpectedShapeError marks a pagination response that is neither a page
// envelope, a bare array, nor an empty object. It terminates the stream for
// that call but is never fatal; callers get the items collected so far.
type UnexpectedShapeError struct {
	Endpoint string
}

func (e *UnexpectedShapeError) Error() string {
	return "skilljar: unexpected response shape from " + e.Endpoint
}

// fetchPaginated walks a paginated endpoint page by page until the API stops
// announcing a next page. Page N+1 is only requested after page N resolves and
// no page is requested twice. Three response shapes are accepted:
//
//   - {"results": [...], "next": ...}  keep going while next is set
//   - [...]                            a single, final page
//   - {}                               end of stream (warned, not an error)
//
// Anything else terminates the stream with a warning; the items collected so
// far are still returned so callers can work with a partial set.
func (c *Client) fetchPaginated(ctx context.Context, path string, params url.Values, pageSize int) ([]json.RawMessage, error) {
	if pageSize <= 0 {
		pageSize = c.PageSize
	}

	var all []json.RawMessage
	for page := 1; ; page++ {
		q := url.Values{}
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(pageSize))

		body, err := c.get(ctx, c.BaseURL+path+"?"+q.Encode())
		if err != nil {
			return all, fmt.Errorf("skilljar: fetch %s page %d: %w", path, page, err)
		}

		items, next, err := decodePage(path, body)
		all = append(all, items...)
		if err != nil {
			logging.Warn("pagination stopped early", "endpoint", path, "page", page, "reason", err.Error())
			return all, nil
		}
		logging.Debug("fetched page", "endpoint", path, "page", page, "total", len(all))
		if !next {
			return all, nil
		}
	}
}

// decodePage classifies one response body. next reports whether another page
// should be requested.
func decodePage(endpoint string, body []byte) (items []json.RawMessage, next bool, err error) {
	// Bare array: a single final page.
	var arr []json.RawMessage
	if json.Unmarshal(body, &arr) == nil {
		return arr, false, nil
	}

	var obj map[string]json.RawMessage
	if uerr := json.Unmarshal(body, &obj); uerr != nil {
		return nil, false, &UnexpectedShapeError{Endpoint: endpoint}
	}
	if len(obj) == 0 {
		// Empty object means the endpoint has nothing for us.
		return nil, false, fmt.Errorf("empty response from %s", endpoint)
	}
	raw, ok := obj["results"]
	if !ok {
		return nil, false, &UnexpectedShapeError{Endpoint: endpoint}
	}

	var results []json.RawMessage
	if uerr := json.Unmarshal(raw, &results); uerr != nil {
		return nil, false, &UnexpectedShapeError{Endpoint: endpoint}
	}

	// next may be a URL string or null.
	if rawNext, ok := obj["next"]; ok {
		var s string
		if json.Unmarshal(rawNext, &s) == nil && s != "" {
			next = true
		}
	}
	return results, next, nil
}

func decodeEach[T any](raws []json.RawMessage, what string) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, r := range raws {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return out, fmt.Errorf("skilljar: decode %s: %w", what, err)
		}
		out = append(out, v)
	}
	return out, nil
}
