package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/posterkit/posterkit/pkg/errors"
)

type stubSearcher struct {
	matches []Match
	err     error
	calls   int
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]Match, error) {
	s.calls++
	return s.matches, s.err
}

func TestResolveNoMatch(t *testing.T) {
	r := &Resolver{Searcher: &stubSearcher{}, RadiusM: 5000}
	_, _, err := r.Resolve(context.Background(), "Atlantis")
	if !errors.Is(err, errors.ErrCodeResolution) {
		t.Errorf("err = %v, want RESOLUTION_ERROR", err)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	r := &Resolver{Searcher: &stubSearcher{}, RadiusM: 5000}
	_, _, err := r.Resolve(context.Background(), "")
	if !errors.Is(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestResolvePolicyBest(t *testing.T) {
	s := &stubSearcher{matches: []Match{
		{Name: "Minneapolis, Minnesota", Lat: 44.9772, Lon: -93.2655, Confidence: 0.9},
		{Name: "Minneapolis, Kansas", Lat: 39.1219, Lon: -97.7067, Confidence: 0.85},
	}}
	r := &Resolver{Searcher: s, Policy: PolicyBest, RadiusM: 5000}

	extent, match, err := r.Resolve(context.Background(), "Minneapolis")
	if err != nil {
		t.Fatal(err)
	}
	if match.Name != "Minneapolis, Minnesota" {
		t.Errorf("picked %q, want highest confidence", match.Name)
	}
	if c := extent.Center(); c.Lat != 44.9772 || c.Lon != -93.2655 {
		t.Errorf("extent center = %+v", c)
	}
}

func TestResolvePolicyStrict(t *testing.T) {
	ambiguous := []Match{
		{Name: "Minneapolis, Minnesota", Lat: 44.98, Lon: -93.27, Confidence: 0.9},
		{Name: "Minneapolis, Kansas", Lat: 39.12, Lon: -97.71, Confidence: 0.85},
	}

	r := &Resolver{Searcher: &stubSearcher{matches: ambiguous}, Policy: PolicyStrict, RadiusM: 5000}
	_, _, err := r.Resolve(context.Background(), "Minneapolis")
	if !errors.Is(err, errors.ErrCodeAmbiguous) {
		t.Errorf("err = %v, want AMBIGUOUS_QUERY", err)
	}

	// A clear winner is fine under strict: the runner-up is below the
	// plausibility cutoff.
	clear := []Match{
		{Name: "Paris, France", Lat: 48.8566, Lon: 2.3522, Confidence: 0.95},
		{Name: "Paris, Texas", Lat: 33.66, Lon: -95.56, Confidence: 0.4},
	}
	r = &Resolver{Searcher: &stubSearcher{matches: clear}, Policy: PolicyStrict, RadiusM: 5000}
	_, match, err := r.Resolve(context.Background(), "Paris")
	if err != nil {
		t.Fatal(err)
	}
	if match.Name != "Paris, France" {
		t.Errorf("picked %q", match.Name)
	}
}

func TestPolicyDefault(t *testing.T) {
	s := &stubSearcher{matches: []Match{
		{Name: "A", Lat: 1, Lon: 1, Confidence: 0.5},
		{Name: "B", Lat: 2, Lon: 2, Confidence: 0.5},
	}}
	// Zero-value policy behaves as PolicyBest.
	r := &Resolver{Searcher: s, RadiusM: 1000}
	if _, _, err := r.Resolve(context.Background(), "place"); err != nil {
		t.Errorf("default policy should not error on ambiguity: %v", err)
	}
}

func TestClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Minneapolis, Minnesota, USA" {
			t.Errorf("query = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "posterkit-test" {
			t.Errorf("user-agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"display_name": "Minneapolis, Hennepin County, Minnesota, USA",
			 "lat": "44.9772995", "lon": "-93.2654692", "importance": 0.82}
		]`))
	}))
	defer srv.Close()

	c := NewClient(nil, "posterkit-test", WithBaseURL(srv.URL))
	matches, err := c.Search(context.Background(), "Minneapolis, Minnesota, USA")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d", len(matches))
	}
	m := matches[0]
	if m.Lat != 44.9772995 || m.Lon != -93.2654692 {
		t.Errorf("coords = %f, %f", m.Lat, m.Lon)
	}
	if m.Confidence != 0.82 {
		t.Errorf("confidence = %f", m.Confidence)
	}
}
