package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/geo"
	"github.com/posterkit/posterkit/pkg/geocode"
	"github.com/posterkit/posterkit/pkg/osm"
	"github.com/posterkit/posterkit/pkg/pipeline"
)

type stubGeocoder struct{}

func (stubGeocoder) Search(ctx context.Context, query string) ([]geocode.Match, error) {
	if query == "nowhere" {
		return nil, nil
	}
	return []geocode.Match{{Name: "Paris, France", Lat: 48.8566, Lon: 2.3522, Confidence: 0.9}}, nil
}

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, extent geo.Extent, kinds []osm.FeatureKind) (*osm.Result, error) {
	return &osm.Result{Roads: []osm.RoadSegment{
		{Points: []geo.Point{{Lat: 48.85, Lon: 2.33}, {Lat: 48.86, Lon: 2.37}},
			Tags: osm.Tags{"highway": "primary"}},
	}}, nil
}

func testServer() *Server {
	runner := pipeline.NewRunner(
		pipeline.Deps{Geocoder: stubGeocoder{}, Fetcher: stubFetcher{}},
		nil, nil, log.New(io.Discard))
	return NewServer(runner, log.New(io.Discard))
}

func TestHealthz(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if id := rec.Header().Get("X-Request-Id"); id == "" {
		t.Error("missing request id header")
	}
}

func TestCreatePosterSingleFormat(t *testing.T) {
	srv := testServer()
	body := `{"query": "Paris", "formats": ["svg"], "width": 200, "height": 300}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/posters", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Header().Get("X-Poster-Id") == "" {
		t.Error("missing poster id header")
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body is not svg: %.40s", rec.Body.String())
	}
}

func TestCreatePosterMultiFormat(t *testing.T) {
	srv := testServer()
	body := `{"query": "Paris", "formats": ["png", "svg"], "width": 100, "height": 150}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/posters", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp posterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Artifacts) != 2 {
		t.Errorf("artifacts = %d", len(resp.Artifacts))
	}
	if resp.Match != "Paris, France" {
		t.Errorf("match = %q", resp.Match)
	}
}

func TestCreatePosterErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", `{`, http.StatusBadRequest, errors.ErrCodeInvalidRequest},
		{"missing location", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidRequest},
		{"unknown theme", `{"query": "Paris", "theme": "vaporwave"}`, http.StatusBadRequest, errors.ErrCodeUnknownTheme},
		{"no match", `{"query": "nowhere"}`, http.StatusUnprocessableEntity, errors.ErrCodeResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer()
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec,
				httptest.NewRequest(http.MethodPost, "/api/posters", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestListThemes(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/themes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var themes []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &themes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids := make(map[string]bool, len(themes))
	for _, th := range themes {
		ids[th.ID] = true
	}
	for _, want := range []string{"minimal", "night", "terrain", "terracotta"} {
		if !ids[want] {
			t.Errorf("missing theme %q", want)
		}
	}
}

func TestListLayouts(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "classic") {
		t.Error("missing classic layout")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "upstream-id" {
		t.Errorf("request id = %q, want passthrough", got)
	}
}
