package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/posterkit/posterkit/pkg/geocode"
	"github.com/posterkit/posterkit/pkg/pipeline"
)

// generateCommand creates the generate command, the main entry point of the
// CLI.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		strict     bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate [place]",
		Short: "Render a street-network poster for a place",
		Long: `Render a street-network poster for a place.

The place is a free-text query ("Paris, France") resolved through
Nominatim, or explicit coordinates via --lat/--lon. Road geometry comes
from the Overpass API, is styled by the selected theme, and is exported
as PNG and/or SVG.

Results are cached locally, so re-rendering the same request is instant.

Examples:
  posterkit generate "Paris, France"
  posterkit generate "Tokyo" --theme night --water
  posterkit generate --lat 48.8566 --lon 2.3522 --title Paris
  posterkit generate "Barcelona" -f png,svg -o barcelona`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Query = args[0]
			}
			opts.Formats = parseFormats(formatsStr)
			if strict {
				opts.Policy = geocode.PolicyStrict
			}
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass caches and refetch")

	cmd.Flags().Float64Var(&opts.Lat, "lat", 0, "center latitude (skips geocoding)")
	cmd.Flags().Float64Var(&opts.Lon, "lon", 0, "center longitude (skips geocoding)")
	cmd.Flags().Float64Var(&opts.RadiusM, "radius", 0, "fetch radius in meters (default 6000)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on ambiguous place queries instead of picking the best match")

	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme: terracotta (default), minimal, night, terrain")
	cmd.Flags().StringVar(&opts.ThemeFile, "theme-file", "", "custom theme TOML file (overrides --theme)")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "typography layout: classic (default), compact")
	cmd.Flags().StringVar(&opts.Font, "font", "", "system font family for the typography block")

	cmd.Flags().StringVar(&opts.Title, "title", "", "override the title text")
	cmd.Flags().StringVar(&opts.Subtitle, "subtitle", "", "override the subtitle text")
	cmd.Flags().BoolVar(&opts.Water, "water", false, "include water polygons")
	cmd.Flags().BoolVar(&opts.Parks, "parks", false, "include park polygons")

	cmd.Flags().IntVar(&opts.Width, "width", 0, "canvas width in pixels (default 800)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "canvas height in pixels (default 1200)")
	cmd.Flags().IntVar(&opts.DPI, "dpi", 0, "physical resolution for PNG output (default 300)")
	cmd.Flags().IntVar(&opts.Supersample, "supersample", 0, "raster supersampling factor 1-4 (default 2)")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)

	place := opts.Query
	if place == "" {
		place = fmt.Sprintf("%.4f,%.4f", opts.Lat, opts.Lon)
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", place))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Poster generation failed")
		return err
	}
	spinner.Stop()

	if result.Match.Name != "" {
		printSuccess("Resolved %s", StyleHighlight.Render(result.Match.Name))
	} else {
		printSuccess("Rendered %s", StyleHighlight.Render(place))
	}
	printDetail("Extent: %s", result.Extent)
	printStats(result.Stats.RoadCount, result.Stats.PolygonCount, result.CacheInfo.ArtifactHit)

	base := basePath(output, place, opts.Formats)
	for _, format := range opts.Formats {
		path := base
		if len(opts.Formats) > 1 || filepath.Ext(path) == "" {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	prog.done("Poster generated")
	return nil
}

// basePath derives the output path base. An explicit output wins; a
// resolved place falls back to a slug of its name ("paris-france").
func basePath(output, place string, formats []string) string {
	if output != "" {
		if len(formats) > 1 {
			return strings.TrimSuffix(output, filepath.Ext(output))
		}
		return output
	}
	return slugify(place)
}

// slugify lowercases a place name and collapses everything outside
// [a-z0-9] into single hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "poster"
	}
	return slug
}
