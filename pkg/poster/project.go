package poster

import (
	"math"

	"github.com/posterkit/posterkit/pkg/geo"
)

// Transform maps geographic coordinates to canvas pixels. It uses an
// equirectangular projection with longitude corrected by the cosine of the
// extent's center latitude, scaled uniformly and letterboxed so the extent
// is centered without distortion. Pure arithmetic, so identical inputs
// always produce identical pixels.
type Transform struct {
	w, h   float64
	cosLat float64
	cLat   float64
	cLon   float64
	scale  float64
}

// NewTransform builds the mapping from extent to a w by h pixel canvas.
func NewTransform(extent geo.Extent, w, h int) Transform {
	c := extent.Center()
	cosLat := math.Cos(c.Lat * math.Pi / 180)
	projW := extent.Width() * cosLat
	projH := extent.Height()

	t := Transform{
		w:      float64(w),
		h:      float64(h),
		cosLat: cosLat,
		cLat:   c.Lat,
		cLon:   c.Lon,
	}
	if projW <= 0 || projH <= 0 {
		t.scale = 1
		return t
	}
	t.scale = math.Min(t.w/projW, t.h/projH)
	return t
}

// Project maps a geographic point to pixel coordinates. Pixel y grows
// downward, so northern latitudes land near the top.
func (t Transform) Project(p geo.Point) (x, y float64) {
	x = t.w/2 + (p.Lon-t.cLon)*t.cosLat*t.scale
	y = t.h/2 - (p.Lat-t.cLat)*t.scale
	return x, y
}

// Unproject is the inverse of Project.
func (t Transform) Unproject(x, y float64) geo.Point {
	return geo.Point{
		Lat: t.cLat - (y-t.h/2)/t.scale,
		Lon: t.cLon + (x-t.w/2)/(t.cosLat*t.scale),
	}
}
