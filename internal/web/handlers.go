package web

import (
	"encoding/json"
	"net/http"

	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/pipeline"
	"github.com/posterkit/posterkit/pkg/poster/sink"
)

// posterResponse is the JSON envelope for multi-format render requests.
type posterResponse struct {
	ID        string            `json:"id"`
	Extent    string            `json:"extent"`
	Match     string            `json:"match,omitempty"`
	Roads     int               `json:"roads"`
	Cached    bool              `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts"` // base64 per encoding/json
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreatePoster(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, err, "decoding request body"))
		return
	}
	opts.Logger = s.logger.With("request", requestIDFrom(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	// A single-format request gets the raw artifact, ready to save or
	// embed. Multiple formats get the JSON envelope.
	if len(result.Artifacts) == 1 {
		for format, data := range result.Artifacts {
			w.Header().Set("Content-Type", contentType(format))
			w.Header().Set("X-Poster-Id", result.ID)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	writeJSON(w, http.StatusOK, posterResponse{
		ID:        result.ID,
		Extent:    result.Extent.String(),
		Match:     result.Match.Name,
		Roads:     result.Stats.RoadCount,
		Cached:    result.CacheInfo.ArtifactHit,
		Artifacts: result.Artifacts,
	})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	type themeInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	themes := s.runner.Deps.Themes.List()
	out := make([]themeInfo, 0, len(themes))
	for _, t := range themes {
		out = append(out, themeInfo{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	type layoutInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	layouts := s.runner.Deps.Layouts.List()
	out := make([]layoutInfo, 0, len(layouts))
	for _, t := range layouts {
		out = append(out, layoutInfo{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func contentType(format string) string {
	switch format {
	case sink.FormatPNG:
		return "image/png"
	case sink.FormatSVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// statusFor maps pipeline error codes to HTTP statuses: caller mistakes are
// 4xx, upstream failures 502, everything else 500.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidExtent,
		errors.ErrCodeUnknownTheme, errors.ErrCodeUnknownLayout,
		errors.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case errors.ErrCodeResolution, errors.ErrCodeAmbiguous, errors.ErrCodeEmptyResult:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeFetch, errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
