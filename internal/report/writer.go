// Package report writes the flat (tag, value, filename) metadata report.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/electronjoe/exifmap/internal/fsutil"
)

// Header is the first line of the CSV report.
var Header = []string{"Metadata Tag", "Value", "Filename"}

// Row is one line of the report.
type Row struct {
	Tag      string `json:"tag"`
	Value    string `json:"value"`
	Filename string `json:"filename"`
}

// Format is an output format for the report.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
	FormatAll  Format = "all"
)

// ParseFormats expands and de-duplicates format names. "all" means every format.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	add := func(f Format) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, n := range names {
		switch f := Format(strings.ToLower(strings.TrimSpace(n))); f {
		case FormatCSV, FormatJSON, FormatTXT:
			add(f)
		case FormatAll:
			add(FormatCSV)
			add(FormatJSON)
			add(FormatTXT)
		default:
			return nil, fmt.Errorf("unknown report format %q", n)
		}
	}
	if len(out) == 0 {
		out = []Format{FormatCSV}
	}
	return out, nil
}

// Writer receives report rows. Close must be called on every path.
type Writer interface {
	Write(Row) error
	Close() error
	Path() string
}

// Create opens a writer for one format at path.
func Create(format Format, path string) (Writer, error) {
	switch format {
	case FormatCSV:
		return newCSVWriter(path)
	case FormatJSON:
		return &jsonWriter{path: path}, nil
	case FormatTXT:
		return newTextWriter(path)
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// Set fans rows out to one writer per format.
type Set struct {
	writers []Writer
	paths   []string
}

// Open creates <dir>/<baseName>.<format> for each format.
func Open(dir, baseName string, formats []Format) (*Set, error) {
	s := &Set{}
	for _, f := range formats {
		w, err := Create(f, filepath.Join(dir, baseName+"."+string(f)))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.writers = append(s.writers, w)
		s.paths = append(s.paths, w.Path())
	}
	return s, nil
}

func (s *Set) Write(r Row) error {
	for _, w := range s.writers {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("write %s: %w", w.Path(), err)
		}
	}
	return nil
}

// Close closes every writer and returns the combined errors.
func (s *Set) Close() error {
	var errs []error
	for _, w := range s.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", w.Path(), err))
		}
	}
	s.writers = nil
	return errors.Join(errs...)
}

// Paths lists the files this set writes, also after Close.
func (s *Set) Paths() []string {
	return append([]string(nil), s.paths...)
}

type csvWriter struct {
	path string
	f    *os.File
	w    *csv.Writer
}

func newCSVWriter(path string) (*csvWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv report: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return &csvWriter{path: path, f: f, w: w}, nil
}

func (c *csvWriter) Write(r Row) error {
	return c.w.Write([]string{r.Tag, r.Value, r.Filename})
}

func (c *csvWriter) Close() error {
	if c.f == nil {
		return nil
	}
	c.w.Flush()
	flushErr := c.w.Error()
	closeErr := c.f.Close()
	c.f = nil
	return errors.Join(flushErr, closeErr)
}

func (c *csvWriter) Path() string { return c.path }

// jsonWriter buffers rows and writes them as one indented array on Close.
type jsonWriter struct {
	path   string
	rows   []Row
	closed bool
}

func (j *jsonWriter) Write(r Row) error {
	j.rows = append(j.rows, r)
	return nil
}

func (j *jsonWriter) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	rows := j.rows
	if rows == nil {
		rows = []Row{}
	}
	data, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal json report: %w", err)
	}
	return fsutil.WriteFileAtomic(j.path, data)
}

func (j *jsonWriter) Path() string { return j.path }

const textSeparator = "--------------------------------------------------"

type textWriter struct {
	path string
	f    *os.File
}

func newTextWriter(path string) (*textWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create text report: %w", err)
	}
	return &textWriter{path: path, f: f}, nil
}

func (t *textWriter) Write(r Row) error {
	return writeTextRow(t.f, r)
}

func writeTextRow(w io.Writer, r Row) error {
	_, err := fmt.Fprintf(w, "File: %s\nTag: %s\nValue: %s\n%s\n", r.Filename, r.Tag, r.Value, textSeparator)
	return err
}

func (t *textWriter) Close() error {
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}

func (t *textWriter) Path() string { return t.path }
