// Package overpass implements the osm.Fetcher boundary against the
// Overpass API.
//
// Responses are cached through the shared HTTP cache, and transient
// failures (5xx, rate limiting) are retried with backoff. Geometry is
// clipped to the requested extent before it leaves this package.
package overpass

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/geo"
	"github.com/posterkit/posterkit/pkg/httputil"
	"github.com/posterkit/posterkit/pkg/osm"
)

// DefaultBaseURL is the public Overpass API endpoint.
const DefaultBaseURL = "https://overpass-api.de/api/interpreter"

const queryTimeout = 90 * time.Second

// Client fetches street networks and polygon features from Overpass.
// Safe for concurrent use.
type Client struct {
	http    *httputil.Client
	baseURL string
	refresh bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Overpass endpoint (self-hosted instances, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRefresh bypasses the response cache on every fetch.
func WithRefresh() Option {
	return func(c *Client) { c.refresh = true }
}

// NewClient creates an Overpass client. The cache may be nil to disable
// response caching. userAgent identifies this application to the public
// API, which requires a descriptive User-Agent.
func NewClient(cache *httputil.Cache, userAgent string, opts ...Option) *Client {
	var ns *httputil.Cache
	if cache != nil {
		ns = cache.Namespace("overpass:")
	}
	c := &Client{
		http:    httputil.NewClient(ns, map[string]string{"User-Agent": userAgent}),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse mirrors the Overpass JSON envelope.
type apiResponse struct {
	Elements []apiElement `json:"elements"`
}

type apiElement struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags,omitempty"`
	Geometry []apiCoord        `json:"geometry,omitempty"`
}

type apiCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Fetch retrieves all roads within the extent, plus polygon features for
// the requested kinds, clipped to the extent. Returns an EMPTY_RESULT error
// when the extent yields no road geometry.
func (c *Client) Fetch(ctx context.Context, extent geo.Extent, kinds []osm.FeatureKind) (*osm.Result, error) {
	query := buildQuery(extent, kinds)

	var resp apiResponse
	err := c.http.Cached(ctx, cacheKey(extent, kinds), c.refresh, &resp, func() error {
		return c.http.PostForm(ctx, c.baseURL, url.Values{"data": {query}}, &resp)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "overpass query for extent %s", extent)
	}

	result := convert(&resp, extent)
	if len(result.Roads) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyResult,
			"no road segments within extent %s", extent)
	}
	return result, nil
}

// buildQuery assembles an Overpass QL query selecting highway ways and the
// polygon feature classes for the extent's bounding box.
func buildQuery(extent geo.Extent, kinds []osm.FeatureKind) string {
	bbox := fmt.Sprintf("(%f,%f,%f,%f)", extent.MinLat, extent.MinLon, extent.MaxLat, extent.MaxLon)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];(", int(queryTimeout.Seconds()))
	fmt.Fprintf(&b, `way["highway"]%s;`, bbox)
	for _, kind := range kinds {
		switch kind {
		case osm.KindWater:
			fmt.Fprintf(&b, `way["natural"~"^(water|bay|strait)$"]%s;`, bbox)
			fmt.Fprintf(&b, `way["waterway"="riverbank"]%s;`, bbox)
		case osm.KindParks:
			fmt.Fprintf(&b, `way["leisure"="park"]%s;`, bbox)
			fmt.Fprintf(&b, `way["landuse"="grass"]%s;`, bbox)
		case osm.KindBuildings:
			fmt.Fprintf(&b, `way["building"]%s;`, bbox)
		}
	}
	b.WriteString(");out geom;")
	return b.String()
}

func cacheKey(extent geo.Extent, kinds []osm.FeatureKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	sort.Strings(names)
	return extent.String() + "|" + strings.Join(names, ",")
}

// convert translates the raw Overpass elements into the domain model,
// clipping every geometry to the extent. Ways carrying a highway tag become
// road segments (one per clipped run); closed ways become area polygons.
func convert(resp *apiResponse, extent geo.Extent) *osm.Result {
	result := &osm.Result{}

	for _, el := range resp.Elements {
		if el.Type != "way" || len(el.Geometry) < 2 {
			continue
		}
		pts := make([]geo.Point, len(el.Geometry))
		for i, c := range el.Geometry {
			pts[i] = geo.Point{Lat: c.Lat, Lon: c.Lon}
		}
		tags := osm.Tags(el.Tags)

		if tags.Get("highway") != "" {
			for _, run := range geo.ClipPolyline(pts, extent) {
				result.Roads = append(result.Roads, osm.RoadSegment{Points: run, Tags: tags})
			}
			continue
		}

		// Polygon features arrive as closed ways; drop the duplicated
		// closing point and clip the ring.
		if len(pts) >= 4 && pts[0] == pts[len(pts)-1] {
			if ring := geo.ClipRing(pts[:len(pts)-1], extent); ring != nil {
				result.Polygons = append(result.Polygons, osm.AreaPolygon{Ring: ring, Tags: tags})
			}
		}
	}
	return result
}

var _ osm.Fetcher = (*Client)(nil)
