// Package server exposes the layout engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/piwi3910/PanelPlan/internal/engine"
	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/store"
)

const maxBodyBytes = 1 << 20

// RoofStore is the persistence the roof endpoints need.
type RoofStore interface {
	Save(ctx context.Context, rec model.RoofRecord) (int64, error)
	Get(ctx context.Context, id int64) (store.StoredRoof, error)
	List(ctx context.Context) ([]store.StoredRoof, error)
	Delete(ctx context.Context, id int64) error
}

// Server serves layouts and summaries for roofs posted as JSON. The engine
// and catalog are read-only, so handlers run concurrently.
type Server struct {
	catalog model.PanelCatalog
	engine  *engine.Engine
	store   RoofStore
	logger  *log.Logger
	router  chi.Router
}

// New builds the router. store may be nil, in which case the /v1/roofs
// endpoints are not mounted.
func New(catalog model.PanelCatalog, settings model.LayoutSettings, roofs RoofStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		catalog: catalog,
		engine:  engine.New(settings),
		store:   roofs,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/panels", s.handlePanels)
		r.Post("/layout", s.handleLayout)
		r.Post("/summary", s.handleSummary)
		if s.store != nil {
			r.Get("/roofs", s.handleListRoofs)
			r.Post("/roofs", s.handleSaveRoof)
			r.Get("/roofs/{id}", s.handleGetRoof)
			r.Delete("/roofs/{id}", s.handleDeleteRoof)
		}
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	RoofID            string        `json:"roof_id"`
	PanelType         string        `json:"panel_type"`
	PanelCount        int           `json:"panel_count"`
	EffectiveHeight   float64       `json:"effective_height"`
	Candidates        int           `json:"candidates"`
	RejectedBoundary  int           `json:"rejected_boundary"`
	RejectedExclusion int           `json:"rejected_exclusion"`
	Truncated         bool          `json:"truncated"`
	Panels            []model.Panel `json:"panels"`
}

// SummaryResponse is returned by POST /v1/summary.
type SummaryResponse struct {
	Summary estimate.Summary `json:"summary"`
	Text    string           `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	roof, def, ok := s.decodeRoof(w, r)
	if !ok {
		return
	}
	result := s.engine.Layout(roof, def)
	writeJSON(w, http.StatusOK, LayoutResponse{
		RoofID:            roof.ID,
		PanelType:         def.Type,
		PanelCount:        result.Count(),
		EffectiveHeight:   result.EffectiveHeight,
		Candidates:        result.Candidates,
		RejectedBoundary:  result.RejectedBoundary,
		RejectedExclusion: result.RejectedExclusion,
		Truncated:         result.Truncated,
		Panels:            result.Panels,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	roof, def, ok := s.decodeRoof(w, r)
	if !ok {
		return
	}
	result := s.engine.Layout(roof, def)
	summary := estimate.ForRoof(roof, def, result.Count())
	writeJSON(w, http.StatusOK, SummaryResponse{Summary: summary, Text: summary.Text()})
}

func (s *Server) handleListRoofs(w http.ResponseWriter, r *http.Request) {
	roofs, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, "listing roofs", err)
		return
	}
	writeJSON(w, http.StatusOK, roofs)
}

// handleSaveRoof recomputes the panel count before storing, so the stored
// count always matches the stored geometry.
func (s *Server) handleSaveRoof(w http.ResponseWriter, r *http.Request) {
	roof, def, ok := s.decodeRoof(w, r)
	if !ok {
		return
	}
	roof.PanelType = def.Type
	roof.PanelCount = s.engine.Layout(roof, def).Count()

	id, err := s.store.Save(r.Context(), roof.Record())
	if err != nil {
		s.internalError(w, "saving roof", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "panel_count": roof.PanelCount})
}

func (s *Server) handleGetRoof(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	roof, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.internalError(w, "loading roof", err)
		return
	}
	writeJSON(w, http.StatusOK, roof)
}

func (s *Server) handleDeleteRoof(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.internalError(w, "deleting roof", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeRoof reads a roof from the request body and resolves its panel type.
// An empty panel type selects the catalog default; an unknown one is a
// client error.
func (s *Server) decodeRoof(w http.ResponseWriter, r *http.Request) (model.RoofArea, model.PanelDefinition, bool) {
	var roof model.RoofArea
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&roof); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid roof: %v", err)})
		return model.RoofArea{}, model.PanelDefinition{}, false
	}
	roof.Normalize()

	var (
		def model.PanelDefinition
		ok  bool
	)
	if roof.PanelType == "" {
		def, ok = s.catalog.Resolve(model.DefaultPanelType)
	} else {
		def, ok = s.catalog.Lookup(roof.PanelType)
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown panel type %q", roof.PanelType)})
		return model.RoofArea{}, model.PanelDefinition{}, false
	}
	return roof, def, true
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "err", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid roof id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
