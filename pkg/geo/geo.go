// Package geo provides the geographic primitives for the poster pipeline:
// bounding extents, great-circle distance, and polyline/ring clipping.
//
// Coordinates are always (latitude, longitude) in decimal degrees, WGS84.
package geo

import (
	"fmt"
	"math"

	"github.com/posterkit/posterkit/pkg/errors"
)

const (
	earthRadiusM = 6371000.0

	// metersPerDegreeLat is the length of one degree of latitude. Longitude
	// degrees shrink by cos(lat); see ExtentAround.
	metersPerDegreeLat = 111320.0
)

// Point is a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point holds finite, in-range coordinates.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		!math.IsInf(p.Lat, 0) && !math.IsInf(p.Lon, 0) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Extent is a geographic bounding region. Immutable once constructed;
// all methods are value receivers.
type Extent struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// NewExtent builds an extent from explicit bounds.
// Returns an INVALID_EXTENT error unless min < max on both axes.
func NewExtent(minLat, minLon, maxLat, maxLon float64) (Extent, error) {
	e := Extent{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}
	if minLat >= maxLat || minLon >= maxLon {
		return Extent{}, errors.New(errors.ErrCodeInvalidExtent,
			"extent bounds must satisfy min < max, got %s", e)
	}
	if !e.sw().Valid() || !e.ne().Valid() {
		return Extent{}, errors.New(errors.ErrCodeInvalidExtent,
			"extent corners out of range: %s", e)
	}
	return e, nil
}

// ExtentAround builds an extent of the given radius (meters) around a center
// point using a locally-flat approximation: one degree of latitude is treated
// as a constant 111.32 km and longitude degrees are corrected by cos(lat).
// The approximation is fine at city scale; it degrades for radii spanning
// several degrees of latitude or centers near the poles.
func ExtentAround(lat, lon, radiusM float64) (Extent, error) {
	if radiusM <= 0 {
		return Extent{}, errors.New(errors.ErrCodeInvalidExtent,
			"radius must be positive, got %.1f", radiusM)
	}
	if !(Point{Lat: lat, Lon: lon}).Valid() {
		return Extent{}, errors.New(errors.ErrCodeInvalidExtent,
			"center out of range: %.4f, %.4f", lat, lon)
	}
	latDelta := radiusM / metersPerDegreeLat
	lonDelta := radiusM / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))
	return NewExtent(lat-latDelta, lon-lonDelta, lat+latDelta, lon+lonDelta)
}

func (e Extent) sw() Point { return Point{Lat: e.MinLat, Lon: e.MinLon} }
func (e Extent) ne() Point { return Point{Lat: e.MaxLat, Lon: e.MaxLon} }

// Center returns the midpoint of the extent.
func (e Extent) Center() Point {
	return Point{Lat: (e.MinLat + e.MaxLat) / 2, Lon: (e.MinLon + e.MaxLon) / 2}
}

// Height returns the latitude span in degrees.
func (e Extent) Height() float64 { return e.MaxLat - e.MinLat }

// Width returns the longitude span in degrees.
func (e Extent) Width() float64 { return e.MaxLon - e.MinLon }

// Contains reports whether p lies within the extent (inclusive).
func (e Extent) Contains(p Point) bool {
	return p.Lat >= e.MinLat && p.Lat <= e.MaxLat &&
		p.Lon >= e.MinLon && p.Lon <= e.MaxLon
}

// String formats the extent as "minLat,minLon..maxLat,maxLon" at 4 decimals.
func (e Extent) String() string {
	return fmt.Sprintf("%.4f,%.4f..%.4f,%.4f", e.MinLat, e.MinLon, e.MaxLat, e.MaxLon)
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// CompensatedRadius converts a nominal fetch radius into the effective one
// for a given canvas: the radius is multiplied by the aspect ratio
// max(w,h)/min(w,h) so the street network fills the long axis, then divided
// by 4 to tighten the crop around the center.
func CompensatedRadius(radiusM float64, widthPx, heightPx int) float64 {
	w, h := float64(widthPx), float64(heightPx)
	if w <= 0 || h <= 0 {
		return radiusM
	}
	return radiusM * math.Max(w, h) / math.Min(w, h) / 4
}
