package photo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Candidate is an image file found while scanning a folder.
type Candidate struct {
	Path string // path usable with os.Open
	Name string // path relative to the scanned folder, used in reports
}

// Listing is the result of scanning one folder.
type Listing struct {
	Images  []Candidate
	Entries int // every directory entry seen, images or not
}

// Scan lists dir and keeps the image files. Non-image files are counted in
// Entries but otherwise ignored. With recursive set, sub-directories are
// walked as well; unreadable sub-directories are logged and skipped.
func Scan(dir string, recursive bool, log zerolog.Logger) (Listing, error) {
	if !recursive {
		return scanFlat(dir)
	}

	var listing Listing
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if path == dir {
			return err
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("error accessing path")
			// Skip this file/dir but keep walking
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		listing.Entries++
		if d.IsDir() || !IsImageFile(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = d.Name()
		}
		listing.Images = append(listing.Images, Candidate{Path: path, Name: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return Listing{}, fmt.Errorf("walk directory %s: %w", dir, err)
	}
	return listing, nil
}

func scanFlat(dir string) (Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, fmt.Errorf("read directory %s: %w", dir, err)
	}

	listing := Listing{Entries: len(entries)}
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		listing.Images = append(listing.Images, Candidate{
			Path: filepath.Join(dir, entry.Name()),
			Name: entry.Name(),
		})
	}
	return listing, nil
}

// IsImageFile reports whether path has one of the raster extensions the
// scanner understands: .jpg, .jpeg or .png in any case.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
