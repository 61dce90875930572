// Package linkcheck crawls mirrored course HTML for anchors and verifies the
// external links still resolve.
package linkcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"skilljar-sync/internal/concurrency"
	"skilljar-sync/internal/logging"
)

// Result is one failing link in the report. Status is an HTTP status code, or
// the string "ERROR" when the request itself failed.
type Result struct {
	Status  any      `json:"status"`
	Error   string   `json:"error,omitempty"`
	Sources []string `json:"sources"`
}

// Report maps a link to its failure details. Healthy links never appear.
type Report map[string]*Result

// Checker scans one courses directory.
type Checker struct {
	CoursesDir  string
	IgnoreHosts []string
	HTTP        *http.Client
	Workers     int
}

func NewChecker(coursesDir string) *Checker {
	return &Checker{
		CoursesDir:  coursesDir,
		IgnoreHosts: []string{"localhost", "accounts.example.com", "foocorp-registry.com"},
		HTTP:        &http.Client{Timeout: 5 * time.Second},
		Workers:     8,
	}
}

// CollectLinks walks every .html file under CoursesDir and returns the unique
// href targets in first-seen order, each with the files that reference it.
func (c *Checker) CollectLinks() ([]string, map[string][]string, error) {
	var order []string
	sources := map[string][]string{}

	err := filepath.WalkDir(c.CoursesDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(c.CoursesDir, p)
		if rerr != nil {
			rel = p
		}
		for _, href := range extractHrefs(string(b)) {
			if c.ignorable(href) {
				continue
			}
			if _, seen := sources[href]; !seen {
				order = append(order, href)
			}
			sources[href] = append(sources[href], filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, sources, nil
}

func (c *Checker) ignorable(href string) bool {
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return true
	}
	for _, host := range c.IgnoreHosts {
		if strings.Contains(href, host) {
			return true
		}
	}
	return false
}

// Check HEADs every collected link and reports the ones that are broken.
// Checks run through the bounded worker pool; result order follows the scan.
func (c *Checker) Check(ctx context.Context) (Report, error) {
	links, sources, err := c.CollectLinks()
	if err != nil {
		return nil, err
	}
	logging.Info("checking links", "unique", len(links))

	type verdict struct {
		status any
		errMsg string
		ok     bool
	}
	verdicts, _ := concurrency.Map(ctx, links, c.Workers, func(ctx context.Context, _ int, link string) (verdict, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
		if err != nil {
			return verdict{status: "ERROR", errMsg: err.Error()}, nil
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return verdict{status: "ERROR", errMsg: err.Error()}, nil
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return verdict{status: resp.StatusCode}, nil
		}
		return verdict{ok: true}, nil
	})

	report := Report{}
	for i, link := range links {
		v := verdicts[i]
		if v.ok {
			continue
		}
		report[link] = &Result{Status: v.status, Error: v.errMsg, Sources: sources[link]}
	}
	return report, nil
}

// WriteReport persists the report JSON.
func WriteReport(p string, r Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, append(b, '\n'), 0o644)
}

// extractHrefs pulls a[href] values out of an HTML document. Parse errors
// yield whatever anchors were recognized before the error.
func extractHrefs(doc string) []string {
	node, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil
	}
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return hrefs
}
