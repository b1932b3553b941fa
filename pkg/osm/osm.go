// Package osm defines the street-network data model and the fetch boundary
// to the OpenStreetMap data source.
//
// The pipeline never performs HTTP calls or parses OSM responses itself; it
// depends on the [Fetcher] interface, implemented by the Overpass client in
// the overpass subpackage and by stubs in tests.
package osm

import (
	"context"

	"github.com/posterkit/posterkit/pkg/geo"
)

// Tags is an OSM key/value tag mapping.
type Tags map[string]string

// Get returns the value for key, or "" when absent.
func (t Tags) Get(key string) string { return t[key] }

// RoadSegment is one drawable run of road geometry with its source tags.
// Geometry always has at least two points and lies within the requested
// extent (the fetcher clips at the boundary). Read-only downstream.
type RoadSegment struct {
	Points []geo.Point `json:"points"`
	Tags   Tags        `json:"tags,omitempty"`
}

// AreaPolygon is a closed ring (water body, park, building footprint).
// The ring is stored open: the closing edge from the last point back to the
// first is implied.
type AreaPolygon struct {
	Ring []geo.Point `json:"ring"`
	Tags Tags        `json:"tags,omitempty"`
}

// FeatureKind selects which polygon feature classes a fetch should include
// alongside the road network.
type FeatureKind string

// Polygon feature classes.
const (
	KindWater     FeatureKind = "water"
	KindParks     FeatureKind = "parks"
	KindBuildings FeatureKind = "buildings"
)

// Result is the fetched map data for one extent. Owned by the caller;
// no stage mutates it after the fetch returns.
type Result struct {
	Roads    []RoadSegment `json:"roads"`
	Polygons []AreaPolygon `json:"polygons,omitempty"`
}

// Fetcher retrieves map data for an extent.
//
// Implementations must guarantee that all returned geometry lies within (or
// is clipped to) the extent, and must return an EMPTY_RESULT error when the
// extent yields zero road segments - a poster cannot be meaningfully
// rendered without roads, so that is a hard stop for the pipeline.
type Fetcher interface {
	Fetch(ctx context.Context, extent geo.Extent, kinds []FeatureKind) (*Result, error)
}
