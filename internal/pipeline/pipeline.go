// Package pipeline drives one analysis run: it lists a folder (or takes a
// single image), extracts the EXIF fields of every image into the report,
// and places geotagged images on the map.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/electronjoe/exifmap/internal/config"
	"github.com/electronjoe/exifmap/internal/geo"
	"github.com/electronjoe/exifmap/internal/mapview"
	"github.com/electronjoe/exifmap/internal/photo"
	"github.com/electronjoe/exifmap/internal/report"
)

// DecodeFunc reads the EXIF fields of one image file.
type DecodeFunc func(path string) (photo.Image, error)

// ThumbnailFunc produces the popup image for a map marker.
type ThumbnailFunc func(path string, maxSide int) (string, error)

type Option func(*Pipeline)

// WithDecoder replaces photo.Decode.
func WithDecoder(d DecodeFunc) Option {
	return func(p *Pipeline) { p.decode = d }
}

// WithThumbnailer replaces mapview.Thumbnail.
func WithThumbnailer(t ThumbnailFunc) Option {
	return func(p *Pipeline) { p.thumbnail = t }
}

// WithMetrics shares a metrics set across runs.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

type Pipeline struct {
	cfg       config.Config
	log       zerolog.Logger
	formats   []report.Format
	dedup     geo.DedupMode
	decode    DecodeFunc
	thumbnail ThumbnailFunc
	metrics   *Metrics
}

// Summary describes a finished run.
type Summary struct {
	RunID       string
	Dir         string // absolute folder or image path that was analyzed
	ReportPaths []string
	MapPath     string // empty when no image carried a usable position
	RiskPath    string // empty unless risk analysis was enabled
	Processed   int
	Skipped     int
	Geotagged   int
	Markers     int
	Rows        int
	Elapsed     time.Duration
}

// New checks cfg and prepares a pipeline.
func New(cfg config.Config, log zerolog.Logger, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	formats, err := report.ParseFormats(cfg.Formats)
	if err != nil {
		return nil, err
	}
	dedup, err := geo.ParseDedupMode(cfg.Dedup)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		log:       log,
		formats:   formats,
		dedup:     dedup,
		decode:    photo.Decode,
		thumbnail: mapview.Thumbnail,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics()
	}
	return p, nil
}

// Metrics returns the counters updated by Run.
func (p *Pipeline) Metrics() *Metrics {
	return p.metrics
}

// run holds the state of one Run call.
type run struct {
	summary Summary
	log     zerolog.Logger
	reports *report.Set
	markers *geo.Collection
	risks   []report.RiskReport
}

// Run analyzes every image in path. For a folder the report is written to
// its parent and the map inside it. For a single image both go to a
// metadata_reports folder next to it. An *InputError is returned, before any
// file is created, when path cannot be analyzed. Files that cannot be read
// are logged and skipped. Cancelling ctx stops the run after the current file.
func (p *Pipeline) Run(ctx context.Context, path string) (sum Summary, err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Logger()

	abs, err := filepath.Abs(path)
	if err != nil {
		return Summary{}, &InputError{Path: path, Err: err}
	}
	in, err := p.resolve(abs, log)
	if err != nil {
		return Summary{}, err
	}
	log.Info().Str("path", abs).Int("images", len(in.listing.Images)).Msg("analyzing")

	if err := os.MkdirAll(in.reportDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create report directory: %w", err)
	}
	reports, err := report.Open(in.reportDir, p.cfg.ReportName, p.formats)
	if err != nil {
		return Summary{}, fmt.Errorf("create report: %w", err)
	}

	r := &run{
		summary: Summary{RunID: runID, Dir: abs},
		log:     log,
		reports: reports,
		markers: geo.NewCollection(p.dedup),
	}
	defer func() {
		if cerr := reports.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
		r.summary.ReportPaths = reports.Paths()
		r.summary.Elapsed = time.Since(start)
		p.metrics.duration.Set(r.summary.Elapsed.Seconds())
		sum = r.summary
	}()

	for _, c := range in.listing.Images {
		if err := ctx.Err(); err != nil {
			return r.summary, fmt.Errorf("analysis interrupted: %w", err)
		}
		if err := p.processFile(r, c); err != nil {
			return r.summary, err
		}
	}

	if r.markers.Len() > 0 {
		mapPath := filepath.Join(in.mapDir, p.cfg.MapName)
		opts := mapview.Options{
			Title:       "Photo locations: " + filepath.Base(abs),
			Zoom:        p.cfg.Zoom,
			MarkerColor: p.cfg.MarkerColor,
		}
		if err := mapview.WriteFile(mapPath, r.markers, opts); err != nil {
			return r.summary, fmt.Errorf("write map: %w", err)
		}
		r.summary.MapPath = mapPath
		r.summary.Markers = r.markers.Len()
		p.metrics.markers.Set(float64(r.markers.Len()))
		log.Info().Str("path", mapPath).Int("markers", r.markers.Len()).Msg("map written")
	} else {
		log.Info().Msg("no GPS coordinates found, map not created")
	}

	if p.cfg.Risk {
		riskPath := filepath.Join(in.reportDir, p.cfg.RiskName)
		if err := report.WriteRiskReports(riskPath, runID, r.risks); err != nil {
			return r.summary, err
		}
		r.summary.RiskPath = riskPath
	}

	if p.cfg.MetricsFile != "" {
		// counters are final here, the duration gauge lags by the report close
		p.metrics.duration.Set(time.Since(start).Seconds())
		if err := p.metrics.WriteTextfile(p.cfg.MetricsFile); err != nil {
			return r.summary, err
		}
	}
	return r.summary, nil
}

// SingleFileReportDir is created next to an image given on its own and
// receives that run's outputs.
const SingleFileReportDir = "metadata_reports"

// input is what Run works on once the path has been checked.
type input struct {
	listing   photo.Listing
	reportDir string
	mapDir    string
}

// resolve checks path and lists the images to analyze.
func (p *Pipeline) resolve(path string, log zerolog.Logger) (input, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return input{}, &InputError{Path: path, Err: ErrDirNotFound}
	case err != nil:
		return input{}, &InputError{Path: path, Err: err}
	case !info.IsDir():
		return singleFile(path, info)
	}

	listing, err := photo.Scan(path, p.cfg.Recursive, log)
	if err != nil {
		return input{}, &InputError{Path: path, Err: err}
	}
	if listing.Entries == 0 {
		return input{}, &InputError{Path: path, Err: ErrDirEmpty}
	}
	return input{listing: listing, reportDir: filepath.Dir(path), mapDir: path}, nil
}

func singleFile(path string, info fs.FileInfo) (input, error) {
	if !info.Mode().IsRegular() || !photo.IsImageFile(path) {
		return input{}, &InputError{Path: path, Err: ErrUnsupportedFile}
	}
	outDir := filepath.Join(filepath.Dir(path), SingleFileReportDir)
	return input{
		listing: photo.Listing{
			Images:  []photo.Candidate{{Path: path, Name: filepath.Base(path)}},
			Entries: 1,
		},
		reportDir: outDir,
		mapDir:    outDir,
	}, nil
}

// processFile handles one image. Only report write failures are returned;
// unreadable images are logged and skipped.
func (p *Pipeline) processFile(r *run, c photo.Candidate) error {
	log := r.log.With().Str("file", c.Name).Logger()

	img, err := p.decode(c.Path)
	if err != nil {
		log.Warn().Err(err).Msg("skipping unreadable image")
		r.summary.Skipped++
		p.metrics.filesSkipped.Inc()
		return nil
	}
	r.summary.Processed++
	p.metrics.filesProcessed.Inc()
	if img.Partial != nil {
		log.Debug().Err(img.Partial).Msg("some EXIF directories could not be read")
	}

	ex := photo.Extract(c.Name, img)
	rows := ex.Rows
	if ex.GPS.Complete() {
		coord, err := ex.GPS.Coordinate()
		if err != nil {
			log.Debug().Err(err).Msg("ignoring malformed GPS position")
		} else {
			rows = append(rows, report.Row{Tag: photo.MapLinkTag, Value: mapview.Link(coord), Filename: c.Name})
			p.addMarker(r, log, c, coord)
		}
	}

	for _, row := range rows {
		if err := r.reports.Write(row); err != nil {
			return fmt.Errorf("write report row for %s: %w", c.Name, err)
		}
	}
	r.summary.Rows += len(rows)
	p.metrics.rowsWritten.Add(float64(len(rows)))

	if p.cfg.Risk {
		r.risks = append(r.risks, report.AssessRisk(c.Name, ex.Rows))
	}
	return nil
}

func (p *Pipeline) addMarker(r *run, log zerolog.Logger, c photo.Candidate, coord geo.Coordinate) {
	r.summary.Geotagged++
	p.metrics.filesGeotagged.Inc()

	m := geo.Marker{Coordinate: coord, Source: c.Name}
	if p.cfg.Thumbnails {
		thumb, err := p.thumbnail(c.Path, p.cfg.ThumbnailSize)
		if err != nil {
			log.Debug().Err(err).Msg("no thumbnail for marker")
		} else {
			m.Thumbnail = thumb
		}
	}
	if r.markers.Add(m) {
		log.Debug().
			Float64("latitude", coord.Latitude).
			Float64("longitude", coord.Longitude).
			Msg("position replaced an earlier marker")
	}
}
