package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/leadsegment/internal/dataset"
	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/metrics"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/internal/segment"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

// DefaultMaxUploadBytes caps CSV request bodies when no limit is configured.
const DefaultMaxUploadBytes = 64 << 20

// Defaults are the server-wide settings a request may override.
type Defaults struct {
	Geo        geo.Config
	States     textnorm.AliasTable
	Options    segment.Options
	Vocabulary dataset.Vocabulary
}

// Server is an HTTP API server that exposes segmentation runs. One request
// is one batch run over the uploaded CSV.
type Server struct {
	engine    *segment.Engine
	defaults  Defaults
	logger    *slog.Logger
	authToken string // empty = no auth required
	maxUpload int64
}

// NewServer creates a new Server with the given dependencies.
func NewServer(eng *segment.Engine, defaults Defaults, logger *slog.Logger, authToken string, maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Server{
		engine:    eng,
		defaults:  defaults,
		logger:    logger,
		authToken: authToken,
		maxUpload: maxUpload,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check: no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /v1/segments/{cluster}", s.auth(s.handleSegment))
	mux.HandleFunc("POST /v1/validate", s.auth(s.handleValidate))
	mux.HandleFunc("GET /v1/geo", s.auth(s.handleGeo))
	mux.Handle("GET /debug/vars", s.auth(expvar.Handler().ServeHTTP))

	return s.count(mux)
}

// --- middleware ---

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.Inc(metrics.HTTPRequests)
		next.ServeHTTP(w, r)
	})
}

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// segmentResponse is returned by POST /v1/segments/{cluster}.
type segmentResponse struct {
	Run    models.RunInfo `json:"run"`
	Rows   any            `json:"rows,omitempty"`
	Report any            `json:"report"`
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	cluster, err := models.ParseCluster(r.PathValue("cluster"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	req, err := s.buildRequest(cluster, q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format := strings.ToLower(q.Get("format"))
	if format != "" && format != "json" && format != "csv" {
		s.writeError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	tbl, ok := s.readTable(w, r)
	if !ok {
		return
	}
	req.Table = tbl

	res, err := s.engine.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, dataset.ErrMissingIDColumn) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("segment run failed", "cluster", cluster, "error", err)
		s.writeError(w, http.StatusInternalServerError, "segmentation failed")
		return
	}

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("X-Run-Id", res.Run.ID)
		w.WriteHeader(http.StatusOK)
		if err := res.WriteCSV(w, tbl); err != nil {
			s.logger.Error("failed to write csv response", "error", err)
		}
		return
	}

	resp := segmentResponse{Run: res.Run, Report: res.Report}
	if q.Get("rows") != "false" {
		switch cluster {
		case models.ClusterSocial:
			resp.Rows = res.Social
		case models.ClusterGeo:
			resp.Rows = res.Geo
		case models.ClusterChannel:
			resp.Rows = res.Channel
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.readTable(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, dataset.Validate(tbl, s.vocabulary()))
}

// geoResponse is returned by GET /v1/geo.
type geoResponse struct {
	Active   geo.Config    `json:"active"`
	Examples []geo.Example `json:"examples"`
}

func (s *Server) handleGeo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, geoResponse{Active: s.defaults.Geo, Examples: geo.Examples})
}

// --- helpers ---

func (s *Server) vocabulary() dataset.Vocabulary {
	if s.defaults.Vocabulary == nil {
		return dataset.DefaultVocabulary
	}
	return s.defaults.Vocabulary
}

// readTable parses the CSV request body, writing an error response on
// failure.
func (s *Server) readTable(w http.ResponseWriter, r *http.Request) (*dataset.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	tbl, err := dataset.ReadCSV(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		s.writeError(w, http.StatusBadRequest, "invalid csv body: "+err.Error())
		return nil, false
	}
	return tbl, true
}

// buildRequest applies query overrides to the server defaults.
//
// Recognized parameters: home_country, home_aliases, local_region,
// local_aliases (comma-separated), period and lifecycle (repeatable),
// closure (all, closed, open).
func (s *Server) buildRequest(cluster models.ClusterID, q map[string][]string) (segment.Request, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	cfg := s.defaults.Geo
	if v := get("home_country"); v != "" {
		cfg.HomeCountry = v
	}
	if v := get("home_aliases"); v != "" {
		cfg.HomeAliases = geo.ParseAliases(v)
	}
	if v := get("local_region"); v != "" {
		cfg.LocalRegion = v
	}
	if v := get("local_aliases"); v != "" {
		cfg.LocalAliases = geo.ParseAliases(v)
	}
	if err := cfg.Validate(); err != nil {
		return segment.Request{}, err
	}

	closure, err := segment.ParseClosure(get("closure"))
	if err != nil {
		return segment.Request{}, err
	}
	return segment.Request{
		Cluster:    cluster,
		Vocabulary: s.vocabulary(),
		Geo:        cfg,
		States:     s.defaults.States,
		Options:    s.defaults.Options,
		Filters: segment.Filters{
			Periods:         q["period"],
			Closure:         closure,
			LifecycleStages: q["lifecycle"],
		},
	}, nil
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
