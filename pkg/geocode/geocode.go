// Package geocode resolves free-text place queries into geographic extents
// via the Nominatim API.
//
// Resolution is a two-step affair: the client searches for candidate
// matches, then a disambiguation [Policy] decides what to do when more than
// one plausible match comes back. The policy is explicit configuration, not
// a buried default.
package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/geo"
	"github.com/posterkit/posterkit/pkg/httputil"
)

// DefaultBaseURL is the public Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// maxMatches caps how many candidates a search requests.
const maxMatches = 5

// plausibleRatio defines which trailing matches still count as plausible:
// anything with at least this fraction of the top match's confidence.
const plausibleRatio = 0.8

// Policy selects the disambiguation strategy for multi-match queries.
type Policy string

// Disambiguation policies.
const (
	// PolicyBest takes the highest-confidence match. This mirrors what
	// interactive map tools do and is the default.
	PolicyBest Policy = "best"
	// PolicyStrict fails with AMBIGUOUS_QUERY when more than one plausible
	// match is returned, forcing the caller to refine the query.
	PolicyStrict Policy = "strict"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool { return p == PolicyBest || p == PolicyStrict }

// Match is one geocoding candidate.
type Match struct {
	Name       string  `json:"name"`       // display name ("Minneapolis, Hennepin County, ...")
	Lat        float64 `json:"lat"`        //
	Lon        float64 `json:"lon"`        //
	Confidence float64 `json:"confidence"` // Nominatim importance score, higher is better
}

// Searcher is the lookup capability the resolver needs. Implemented by
// [Client]; stubbed in tests.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Match, error)
}

// Client queries the Nominatim search API with response caching and retry.
// Safe for concurrent use.
type Client struct {
	http    *httputil.Client
	baseURL string
	refresh bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Nominatim endpoint (self-hosted instances, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRefresh bypasses the response cache on every search.
func WithRefresh() Option {
	return func(c *Client) { c.refresh = true }
}

// NewClient creates a Nominatim client. The cache may be nil to disable
// response caching. userAgent identifies this application to the public
// API, which requires one.
func NewClient(cache *httputil.Cache, userAgent string, opts ...Option) *Client {
	var ns *httputil.Cache
	if cache != nil {
		ns = cache.Namespace("nominatim:")
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

// apiPlace mirrors one entry of the Nominatim jsonv2 response. Coordinates
// arrive as strings.
type apiPlace struct {
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Importance  float64 `json:"importance"`
}

// Search returns candidate matches for a free-text place query, ordered by
// descending confidence.
func (c *Client) Search(ctx context.Context, query string) ([]Match, error) {
	var places []apiPlace
	err := c.http.Cached(ctx, query, c.refresh, &places, func() error {
		u := fmt.Sprintf("%s/search?q=%s&format=jsonv2&limit=%d",
			c.baseURL, url.QueryEscape(query), maxMatches)
		return c.http.GetJSON(ctx, u, &places)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeResolution, err, "geocoding %q", query)
	}

	matches := make([]Match, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		matches = append(matches, Match{
			Name:       p.DisplayName,
			Lat:        lat,
			Lon:        lon,
			Confidence: p.Importance,
		})
	}
	return matches, nil
}

// Resolver turns place queries into extents: search, disambiguate, then
// expand the chosen center by RadiusM.
type Resolver struct {
	Searcher Searcher
	Policy   Policy
	RadiusM  float64
}

// Resolve resolves a free-text query to a bounding extent and the chosen
// match. Fails with RESOLUTION_ERROR on zero matches and, under
// PolicyStrict, with AMBIGUOUS_QUERY when several plausible matches exist.
func (r *Resolver) Resolve(ctx context.Context, query string) (geo.Extent, Match, error) {
	if query == "" {
		return geo.Extent{}, Match{}, errors.New(errors.ErrCodeInvalidRequest, "empty place query")
	}

	matches, err := r.Searcher.Search(ctx, query)
	if err != nil {
		return geo.Extent{}, Match{}, err
	}
	if len(matches) == 0 {
		return geo.Extent{}, Match{}, errors.New(errors.ErrCodeResolution,
			"no geocoding match for %q", query)
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}

	policy := r.Policy
	if policy == "" {
		policy = PolicyBest
	}
	if policy == PolicyStrict {
		plausible := 0
		for _, m := range matches {
			if m.Confidence >= best.Confidence*plausibleRatio {
				plausible++
			}
		}
		if plausible > 1 {
			return geo.Extent{}, Match{}, errors.New(errors.ErrCodeAmbiguous,
				"%d plausible matches for %q, refine the query", plausible, query)
		}
	}

	extent, err := geo.ExtentAround(best.Lat, best.Lon, r.RadiusM)
	if err != nil {
		return geo.Extent{}, Match{}, err
	}
	return extent, best, nil
}
