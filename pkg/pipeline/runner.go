package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/posterkit/posterkit/pkg/cache"
	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/fonts"
	"github.com/posterkit/posterkit/pkg/geo"
	"github.com/posterkit/posterkit/pkg/geocode"
	"github.com/posterkit/posterkit/pkg/layout"
	"github.com/posterkit/posterkit/pkg/osm"
	"github.com/posterkit/posterkit/pkg/poster"
	"github.com/posterkit/posterkit/pkg/poster/sink"
	"github.com/posterkit/posterkit/pkg/style"
)

// Deps are the pipeline's external collaborators. Tests swap in stubs;
// production wires the Nominatim and Overpass clients.
type Deps struct {
	Geocoder geocode.Searcher
	Fetcher  osm.Fetcher
	Themes   *style.Registry
	Layouts  *layout.Registry
}

// Runner executes the pipeline with artifact caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Deps   Deps
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer gets the default keyer, a nil
// cache disables artifact caching, a nil logger falls back to the package
// default.
func NewRunner(deps Deps, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if deps.Themes == nil {
		deps.Themes = style.Builtin()
	}
	if deps.Layouts == nil {
		deps.Layouts = layout.Builtin()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Deps: deps, Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete resolve → fetch → render pipeline.
//
// Theme, layout, and font lookups happen before any network call so a typo
// in the request fails fast instead of after a multi-second fetch.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	theme, err := r.resolveTheme(opts)
	if err != nil {
		return nil, err
	}
	tmpl, err := r.Deps.Layouts.Resolve(opts.Layout)
	if err != nil {
		return nil, err
	}
	fontSet, err := r.resolveFonts(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}

	// Stage 1: Resolve
	resolveStart := time.Now()
	extent, match, err := r.resolveExtent(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Extent = extent
	result.Match = match
	result.Stats.ResolveTime = time.Since(resolveStart)

	opts.Logger.Info("resolved location",
		"extent", extent,
		"match", match.Name,
		"duration", result.Stats.ResolveTime)

	// Cached artifacts are keyed by the resolved request, so the same
	// place rendered twice returns byte-identical bytes. Refresh and the
	// format list stay out of the hash: refresh writes must land under
	// the keys later lookups read, and the format is already part of the
	// per-artifact key.
	keyOpts := opts
	keyOpts.Refresh = false
	keyOpts.Formats = nil
	keyOpts.Logger = nil
	requestHash, err := cache.HashJSON(struct {
		Options Options    `json:"options"`
		Extent  geo.Extent `json:"extent"`
	}{keyOpts, extent})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hashing request")
	}

	if !opts.Refresh && r.loadArtifacts(ctx, requestHash, opts.Formats, result) {
		result.CacheInfo.ArtifactHit = true
		opts.Logger.Info("artifact cache hit", "formats", opts.Formats)
		return result, nil
	}

	// Stage 2: Fetch
	fetchStart := time.Now()
	data, err := r.Deps.Fetcher.Fetch(ctx, extent, featureKinds(opts))
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.RoadCount = len(data.Roads)
	result.Stats.PolygonCount = len(data.Polygons)

	opts.Logger.Info("fetched map data",
		"roads", len(data.Roads),
		"polygons", len(data.Polygons),
		"duration", result.Stats.FetchTime)

	// Stage 3: Render
	renderStart := time.Now()
	title, subtitle := placeText(opts, match)
	scene := poster.Scene{
		Extent:   extent,
		Data:     data,
		Theme:    theme,
		Layout:   tmpl,
		Fonts:    fontSet,
		Title:    title,
		Subtitle: subtitle,
		Center:   extent.Center(),
		Width:    opts.Width,
		Height:   opts.Height,
	}
	for _, format := range opts.Formats {
		artifact, err := sink.Render(scene, format,
			sink.WithDPI(opts.DPI), sink.WithSupersample(opts.Supersample))
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = artifact
		key := r.Keyer.ArtifactKey(requestHash, format)
		_ = r.Cache.Set(ctx, key, artifact, cache.TTLArtifact)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered poster",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) resolveTheme(opts Options) (style.Theme, error) {
	if opts.ThemeFile != "" {
		return style.LoadFile(opts.ThemeFile)
	}
	return r.Deps.Themes.Resolve(opts.Theme)
}

func (r *Runner) resolveFonts(opts Options) (fonts.Set, error) {
	if opts.Font == "" {
		return fonts.Default(), nil
	}
	return fonts.Find(opts.Font)
}

// resolveExtent turns the request's location into a bounding box. The
// nominal radius is compensated for the canvas aspect ratio so the network
// fills the long axis without overshooting the crop.
func (r *Runner) resolveExtent(ctx context.Context, opts Options) (geo.Extent, geocode.Match, error) {
	radius := geo.CompensatedRadius(opts.RadiusM, opts.Width, opts.Height)

	if opts.HasCoords() {
		extent, err := geo.ExtentAround(opts.Lat, opts.Lon, radius)
		return extent, geocode.Match{}, err
	}

	if r.Deps.Geocoder == nil {
		return geo.Extent{}, geocode.Match{}, errors.New(errors.ErrCodeInternal,
			"no geocoder configured")
	}
	resolver := geocode.Resolver{
		Searcher: r.Deps.Geocoder,
		Policy:   opts.Policy,
		RadiusM:  radius,
	}
	return resolver.Resolve(ctx, opts.Query)
}

// loadArtifacts fills result.Artifacts from the cache. Returns true only
// when every requested format was present.
func (r *Runner) loadArtifacts(ctx context.Context, requestHash string, formats []string, result *Result) bool {
	for _, format := range formats {
		key := r.Keyer.ArtifactKey(requestHash, format)
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			return false
		}
		result.Artifacts[format] = data
	}
	return true
}

func featureKinds(opts Options) []osm.FeatureKind {
	var kinds []osm.FeatureKind
	if opts.Water {
		kinds = append(kinds, osm.KindWater)
	}
	if opts.Parks {
		kinds = append(kinds, osm.KindParks)
	}
	return kinds
}

// placeText derives the title and subtitle. Explicit overrides win; next
// comes the geocoding match ("Paris, Île-de-France, France" becomes title
// "Paris" and subtitle "France"); a raw query splits the same way.
func placeText(opts Options, match geocode.Match) (title, subtitle string) {
	title, subtitle = opts.Title, opts.Subtitle

	source := match.Name
	if source == "" {
		source = opts.Query
	}
	if source == "" {
		return title, subtitle
	}
	parts := strings.Split(source, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if title == "" {
		title = parts[0]
	}
	if subtitle == "" && len(parts) > 1 {
		subtitle = parts[len(parts)-1]
	}
	return title, subtitle
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
