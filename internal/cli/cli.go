// Package cli implements the posterkit command-line interface.
//
// This package provides commands for generating street-network posters,
// listing themes and layouts, managing the HTTP response cache, and running
// the HTTP API server. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Render a poster for a place or coordinate pair
//   - themes: List available color themes
//   - layouts: List available typography layouts
//   - cache: Manage the local cache
//   - serve: Run the HTTP API server
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/posterkit/posterkit/pkg/buildinfo"
	"github.com/posterkit/posterkit/pkg/cache"
	"github.com/posterkit/posterkit/pkg/geocode"
	"github.com/posterkit/posterkit/pkg/httputil"
	"github.com/posterkit/posterkit/pkg/osm"
	"github.com/posterkit/posterkit/pkg/osm/overpass"
	"github.com/posterkit/posterkit/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "posterkit"

	// envRedisAddr selects a Redis artifact cache instead of the file
	// cache when set (host:port).
	envRedisAddr = "POSTERKIT_REDIS_ADDR"
)

// userAgent identifies posterkit to the OSM public APIs, which
// require a meaningful User-Agent.
var userAgent = "posterkit/" + buildinfo.Version + " (+https://github.com/posterkit/posterkit)"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The CLI logger is attached to every command's context; subcommands read it
// back with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "posterkit",
		Short:        "Posterkit renders street networks as printable posters",
		Long:         `Posterkit turns a place name or coordinate pair into a minimalist street-network poster: roads from OpenStreetMap, a color theme, and a typography block, exported as print-ready PNG or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// httpCacheTTL bounds how long upstream API responses are reused. OSM data
// changes slowly, so a week keeps repeat renders cheap without going stale.
const httpCacheTTL = 7 * 24 * time.Hour

// newRunner creates a pipeline runner wired to the live Nominatim and
// Overpass clients.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	artifactCache, err := newArtifactCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	deps := pipeline.Deps{
		Geocoder: newGeocoder(noCache),
		Fetcher:  newFetcher(noCache),
	}
	return pipeline.NewRunner(deps, artifactCache, nil, c.Logger), nil
}

func newGeocoder(noCache bool) geocode.Searcher {
	return geocode.NewClient(newHTTPCache(noCache), userAgent)
}

func newFetcher(noCache bool) osm.Fetcher {
	return overpass.NewClient(newHTTPCache(noCache), userAgent)
}

// newHTTPCache returns the response cache for upstream API calls, or nil
// when caching is disabled.
func newHTTPCache(noCache bool) *httputil.Cache {
	if noCache {
		return nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil
	}
	hc, err := httputil.NewCache(filepath.Join(dir, "http"), httpCacheTTL)
	if err != nil {
		return nil
	}
	return hc
}

// newArtifactCache returns the rendered-poster cache: Redis when
// POSTERKIT_REDIS_ADDR is set, a file cache otherwise.
func newArtifactCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: addr})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "artifacts"))
}

// cacheDir returns the cache directory using XDG standard
// (~/.cache/posterkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
