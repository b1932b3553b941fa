// Package pkg provides the core libraries for posterkit street-network
// posters.
//
// # Overview
//
// Posterkit turns a place name or coordinate pair into a printable poster
// of its street network. The pkg directory is organized into:
//
//  1. [geo], [osm] - geographic primitives and the OpenStreetMap data model
//  2. [geocode] - place resolution through Nominatim
//  3. [style], [layout], [fonts] - themes, typography templates, and faces
//  4. [draw], [poster] - drawing backends and the compositor
//  5. [pipeline] - orchestration (resolve → fetch → render)
//  6. [cache], [httputil], [errors], [buildinfo] - shared infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Place query or lat/lon
//	         ↓
//	    [geocode] package (resolve to an extent)
//	         ↓
//	    [osm/overpass] package (fetch roads and polygons)
//	         ↓
//	    [poster] package (project, style, compose)
//	         ↓
//	    PNG/SVG output via [poster/sink]
//
// # Quick Start
//
//	runner := pipeline.NewRunner(deps, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Query:   "Paris, France",
//	    Formats: []string{"png"},
//	})
//
// [geo]: github.com/posterkit/posterkit/pkg/geo
// [osm]: github.com/posterkit/posterkit/pkg/osm
// [geocode]: github.com/posterkit/posterkit/pkg/geocode
// [style]: github.com/posterkit/posterkit/pkg/style
// [layout]: github.com/posterkit/posterkit/pkg/layout
// [fonts]: github.com/posterkit/posterkit/pkg/fonts
// [draw]: github.com/posterkit/posterkit/pkg/draw
// [poster]: github.com/posterkit/posterkit/pkg/poster
// [pipeline]: github.com/posterkit/posterkit/pkg/pipeline
// [cache]: github.com/posterkit/posterkit/pkg/cache
// [httputil]: github.com/posterkit/posterkit/pkg/httputil
// [errors]: github.com/posterkit/posterkit/pkg/errors
// [buildinfo]: github.com/posterkit/posterkit/pkg/buildinfo
// [osm/overpass]: github.com/posterkit/posterkit/pkg/osm/overpass
// [poster/sink]: github.com/posterkit/posterkit/pkg/poster/sink
package pkg
