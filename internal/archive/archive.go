// Package archive snapshots the local mirror as a brotli-compressed tarball.
package archive

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andybalholm/brotli"
)

const manifestName = ".snapshot.json"

// Manifest is the metadata entry written into every snapshot.
type Manifest struct {
	CreatedAt time.Time `json:"created_at"`
	Root      string    `json:"root"`
	FileCount int       `json:"file_count"`
}

// Create tars root into w with brotli compression and prepends a manifest.
// Returns the number of files archived.
func Create(root string, w io.Writer) (int, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("archive: nothing to snapshot under %s", root)
	}

	bw := brotli.NewWriter(w)
	tw := tar.NewWriter(bw)

	manifest, err := json.MarshalIndent(Manifest{
		CreatedAt: time.Now().UTC(),
		Root:      filepath.Base(root),
		FileCount: len(files),
	}, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := writeEntry(tw, manifestName, manifest, time.Now()); err != nil {
		return 0, err
	}

	for _, p := range files {
		info, err := os.Stat(p)
		if err != nil {
			return 0, err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return 0, err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return 0, err
		}
		if err := writeEntry(tw, filepath.ToSlash(rel), b, info.ModTime()); err != nil {
			return 0, err
		}
	}

	if err := tw.Close(); err != nil {
		return 0, err
	}
	return len(files), bw.Close()
}

// Extract unpacks a snapshot into targetDir. The manifest entry is returned,
// not written to disk.
func Extract(r io.Reader, targetDir string) (*Manifest, error) {
	br := brotli.NewReader(r)
	tr := tar.NewReader(br)

	var manifest *Manifest
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return manifest, err
		}

		if hdr.Name == manifestName {
			var m Manifest
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return nil, fmt.Errorf("archive: bad manifest: %w", err)
			}
			manifest = &m
			continue
		}

		dest := filepath.Join(targetDir, filepath.FromSlash(hdr.Name))
		if !filepath.IsLocal(filepath.FromSlash(hdr.Name)) {
			return manifest, fmt.Errorf("archive: refusing entry outside target: %s", hdr.Name)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return manifest, err
		}
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return manifest, err
		}
		if _, err := io.Copy(f, tr); err != nil {
			f.Close()
			return manifest, err
		}
		if err := f.Close(); err != nil {
			return manifest, err
		}
	}
	return manifest, nil
}

func writeEntry(tw *tar.Writer, name string, body []byte, mod time.Time) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(body)),
		ModTime: mod,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(body)
	return err
}
