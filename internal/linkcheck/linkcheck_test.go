package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeHTML(t *testing.T, dir, rel, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectLinks(t *testing.T) {
	dir := t.TempDir()
	writeHTML(t, dir, "course-a/lesson.html", `
		<p><a href="https://one.example/x">one</a></p>
		<a href="#section">anchor</a>
		<a href="mailto:hi@example.com">mail</a>
		<a href="http://localhost:3000/dev">dev</a>
		<a href="https://two.example/y">two</a>`)
	writeHTML(t, dir, "course-b/lesson.html", `<a href="https://one.example/x">again</a>`)
	writeHTML(t, dir, "course-b/notes.txt", `<a href="https://three.example/z">not html</a>`)

	c := NewChecker(dir)
	links, sources, err := c.CollectLinks()
	if err != nil {
		t.Fatalf("CollectLinks: %v", err)
	}

	want := []string{"https://one.example/x", "https://two.example/y"}
	if !reflect.DeepEqual(links, want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	if got := sources["https://one.example/x"]; len(got) != 2 {
		t.Errorf("sources for shared link = %v", got)
	}
}

func TestCheckReportsOnlyFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeHTML(t, dir, "c/l.html",
		`<a href="`+srv.URL+`/ok">ok</a><a href="`+srv.URL+`/gone">gone</a>`)

	c := NewChecker(dir)
	c.HTTP = srv.Client()
	report, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(report) != 1 {
		t.Fatalf("report = %v", report)
	}
	res := report[srv.URL+"/gone"]
	if res == nil {
		t.Fatal("missing failing link in report")
	}
	if res.Status != http.StatusNotFound {
		t.Errorf("status = %v", res.Status)
	}
	if len(res.Sources) != 1 || res.Sources[0] != "c/l.html" {
		t.Errorf("sources = %v", res.Sources)
	}
}

func TestCheckUnreachableHostIsError(t *testing.T) {
	dir := t.TempDir()
	// A closed port: the HEAD request itself fails.
	writeHTML(t, dir, "c/l.html", `<a href="http://127.0.0.1:1/x">dead</a>`)

	c := NewChecker(dir)
	report, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	res := report["http://127.0.0.1:1/x"]
	if res == nil || res.Status != "ERROR" || res.Error == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestExtractHrefs(t *testing.T) {
	hrefs := extractHrefs(`<div><a href="a">1</a><a>no href</a><a href="">empty</a><a href="b">2</a></div>`)
	if !reflect.DeepEqual(hrefs, []string{"a", "b"}) {
		t.Errorf("hrefs = %v", hrefs)
	}
}
