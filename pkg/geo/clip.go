package geo

// Polyline and ring clipping against an extent. The fetch adapter guarantees
// that every geometry it hands downstream lies within the requested extent;
// these routines enforce that by cutting geometry at the extent boundary.

// ClipPolyline clips a polyline to the extent using Liang-Barsky on each
// segment. A polyline that leaves and re-enters the extent is split into
// multiple runs. Runs shorter than two points are dropped.
func ClipPolyline(pts []Point, e Extent) [][]Point {
	var out [][]Point
	var run []Point

	flush := func() {
		if len(run) >= 2 {
			out = append(out, run)
		}
		run = nil
	}

	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		if !a.Valid() || !b.Valid() {
			flush()
			continue
		}
		ca, cb, ok := clipSegment(a, b, e)
		if !ok {
			flush()
			continue
		}
		if len(run) == 0 {
			run = append(run, ca)
		} else if run[len(run)-1] != ca {
			// Segment re-entered the extent at a new crossing point.
			flush()
			run = append(run, ca)
		}
		run = append(run, cb)
	}
	flush()
	return out
}

// clipSegment clips the segment a-b to the extent. Returns ok=false when the
// segment lies entirely outside.
func clipSegment(a, b Point, e Extent) (Point, Point, bool) {
	t0, t1 := 0.0, 1.0
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}

	if !clip(-dLon, a.Lon-e.MinLon) ||
		!clip(dLon, e.MaxLon-a.Lon) ||
		!clip(-dLat, a.Lat-e.MinLat) ||
		!clip(dLat, e.MaxLat-a.Lat) {
		return Point{}, Point{}, false
	}

	ca := Point{Lat: a.Lat + t0*dLat, Lon: a.Lon + t0*dLon}
	cb := Point{Lat: a.Lat + t1*dLat, Lon: a.Lon + t1*dLon}
	return ca, cb, true
}

// ClipRing clips a closed ring to the extent using Sutherland-Hodgman.
// The input ring may be open (last != first); the output is open in the same
// sense. Returns nil when the ring lies entirely outside the extent.
func ClipRing(ring []Point, e Extent) []Point {
	type edge struct {
		inside func(Point) bool
		cross  func(a, b Point) Point
	}

	lerp := func(a, b Point, t float64) Point {
		return Point{Lat: a.Lat + t*(b.Lat-a.Lat), Lon: a.Lon + t*(b.Lon-a.Lon)}
	}

	edges := []edge{
		{
			inside: func(p Point) bool { return p.Lon >= e.MinLon },
			cross:  func(a, b Point) Point { return lerp(a, b, (e.MinLon-a.Lon)/(b.Lon-a.Lon)) },
		},
		{
			inside: func(p Point) bool { return p.Lon <= e.MaxLon },
			cross:  func(a, b Point) Point { return lerp(a, b, (e.MaxLon-a.Lon)/(b.Lon-a.Lon)) },
		},
		{
			inside: func(p Point) bool { return p.Lat >= e.MinLat },
			cross:  func(a, b Point) Point { return lerp(a, b, (e.MinLat-a.Lat)/(b.Lat-a.Lat)) },
		},
		{
			inside: func(p Point) bool { return p.Lat <= e.MaxLat },
			cross:  func(a, b Point) Point { return lerp(a, b, (e.MaxLat-a.Lat)/(b.Lat-a.Lat)) },
		},
	}

	poly := make([]Point, 0, len(ring))
	for _, p := range ring {
		if p.Valid() {
			poly = append(poly, p)
		}
	}

	for _, ed := range edges {
		if len(poly) == 0 {
			return nil
		}
		clipped := make([]Point, 0, len(poly))
		prev := poly[len(poly)-1]
		for _, cur := range poly {
			switch {
			case ed.inside(cur) && ed.inside(prev):
				clipped = append(clipped, cur)
			case ed.inside(cur):
				clipped = append(clipped, ed.cross(prev, cur), cur)
			case ed.inside(prev):
				clipped = append(clipped, ed.cross(prev, cur))
			}
			prev = cur
		}
		poly = clipped
	}

	if len(poly) < 3 {
		return nil
	}
	return poly
}
