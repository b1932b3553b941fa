// Package pipeline provides the core poster generation pipeline.
//
// This package implements the complete resolve → fetch → render flow that
// both the CLI and the HTTP server use. Centralizing it here keeps request
// validation, caching, and error semantics identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: turn a place query (or explicit coordinates) into a
//     geographic extent
//  2. Fetch: retrieve the road network and polygon features for the extent
//  3. Render: compose and encode the poster in each requested format
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(deps, cache, nil, logger)
//	opts := pipeline.Options{
//	    Query:   "Paris, France",
//	    Theme:   "terracotta",
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/geo"
	"github.com/posterkit/posterkit/pkg/geocode"
	"github.com/posterkit/posterkit/pkg/poster/sink"
)

// Default values shared by CLI, API, and tests.
const (
	// DefaultRadiusM is the fetch radius around the resolved center.
	DefaultRadiusM = 6000.0

	// DefaultWidth and DefaultHeight give a 2:3 portrait poster.
	DefaultWidth  = 800
	DefaultHeight = 1200

	// DefaultDPI is the physical resolution embedded in PNG output.
	DefaultDPI = 300

	// DefaultSupersample renders rasters at twice the target size before
	// downscaling.
	DefaultSupersample = 2

	DefaultTheme  = "terracotta"
	DefaultLayout = "classic"
	DefaultFormat = sink.FormatPNG

	// maxDimension bounds a single canvas edge.
	maxDimension = 20000
)

// Options contains all configuration for a poster run. The struct
// serializes to JSON for API requests and for the artifact cache key.
type Options struct {
	// Location: either a free-text query or explicit coordinates.
	Query   string  `json:"query,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
	RadiusM float64 `json:"radius_m,omitempty"`

	// Geocoding.
	Policy geocode.Policy `json:"policy,omitempty"`

	// Appearance.
	Theme     string `json:"theme,omitempty"`
	ThemeFile string `json:"theme_file,omitempty"` // custom TOML theme, overrides Theme
	Layout    string `json:"layout,omitempty"`
	Font      string `json:"font,omitempty"` // system font family, empty for embedded default

	// Text overrides. When empty, the resolved place name supplies them.
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`

	// Feature toggles.
	Water bool `json:"water,omitempty"`
	Parks bool `json:"parks,omitempty"`

	// Output.
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	DPI         int      `json:"dpi,omitempty"`
	Supersample int      `json:"supersample,omitempty"`
	Formats     []string `json:"formats,omitempty"`

	// Refresh bypasses the artifact and HTTP caches.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID uniquely identifies this run.
	ID string

	// Extent is the geographic bounding box that was rendered.
	Extent geo.Extent

	// Match is the geocoding match the extent came from. Zero when the
	// request carried explicit coordinates.
	Match geocode.Match

	// Artifacts contains encoded posters keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RoadCount    int
	PolygonCount int
	ResolveTime  time.Duration
	FetchTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ArtifactHit bool // all requested formats came from the artifact cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	for _, f := range sink.ValidFormats {
		if format == f {
			return nil
		}
	}
	return errors.New(errors.ErrCodeUnsupportedFormat,
		"unsupported format: %q (must be one of: png, svg)", format)
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	hasCoords := o.Lat != 0 || o.Lon != 0
	if o.Query == "" && !hasCoords {
		return errors.New(errors.ErrCodeInvalidRequest, "query or lat/lon is required")
	}
	if hasCoords && !(geo.Point{Lat: o.Lat, Lon: o.Lon}).Valid() {
		return errors.New(errors.ErrCodeInvalidRequest,
			"coordinates %g,%g out of range", o.Lat, o.Lon)
	}
	if o.RadiusM == 0 {
		o.RadiusM = DefaultRadiusM
	}
	if o.RadiusM < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "radius must be positive")
	}

	if o.Policy == "" {
		o.Policy = geocode.PolicyBest
	}
	if !o.Policy.Valid() {
		return errors.New(errors.ErrCodeInvalidRequest, "unknown policy %q", o.Policy)
	}

	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 1 || o.Height < 1 || o.Width > maxDimension || o.Height > maxDimension {
		return errors.New(errors.ErrCodeInvalidRequest,
			"canvas size %dx%d out of range", o.Width, o.Height)
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 1 {
		return errors.New(errors.ErrCodeInvalidRequest, "dpi must be positive")
	}
	if o.Supersample == 0 {
		o.Supersample = DefaultSupersample
	}
	if o.Supersample < 1 || o.Supersample > 4 {
		return errors.New(errors.ErrCodeInvalidRequest,
			"supersample %d out of range [1,4]", o.Supersample)
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// HasCoords reports whether the request carries explicit coordinates and
// can skip geocoding. Coordinates win when both are present; the query
// then only serves as a title fallback.
func (o *Options) HasCoords() bool {
	return o.Lat != 0 || o.Lon != 0
}
