// Package daemon serves FIRE projections over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/export"
	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/pipeline"
)

const maxBodyBytes = 1 << 20

// Config controls the daemon runtime behavior.
type Config struct {
	Addr string
	// Base supplies the plan and scenarios a request starts from.
	Base config.Config
	Log  logrus.FieldLogger
}

// Status is served at /v1/status.
type Status struct {
	StartedAt time.Time  `json:"started_at"`
	Addr      string     `json:"addr"`
	Mode      model.Mode `json:"default_mode"`
	Runs      int64      `json:"runs"`
	LastRunID string     `json:"last_run_id,omitempty"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
}

// ProjectionRequest is the POST /v1/projection body. Omitted parameters
// keep the server's configured values; omitted scenarios use the
// configured scenario set.
type ProjectionRequest struct {
	Mode       string           `json:"mode"`
	Parameters model.Parameters `json:"parameters"`
	Scenarios  []model.Overlay  `json:"scenarios"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	log     logrus.FieldLogger
	runner  *pipeline.Runner
	metrics *metrics
	router  *mux.Router

	mu        sync.RWMutex
	startedAt time.Time
	runs      int64
	lastRunID string
	lastRunAt time.Time
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Addr == "" {
		cfg.Addr = cfg.Base.Serve.Addr
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultConfig().Serve.Addr
	}
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	s := &Service{
		cfg:       cfg,
		log:       log,
		runner:    pipeline.NewRunner(log),
		metrics:   newMetrics(),
		startedAt: time.Now(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/projection", s.handleQueryProjection).Methods(http.MethodGet)
	r.HandleFunc("/v1/projection", s.handlePostProjection).Methods(http.MethodPost)
	r.HandleFunc("/v1/projection.csv", s.handleProjectionCSV).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.Use(s.instrument)
	s.router = r

	return s
}

// Handler returns the routed HTTP handler.
func (s *Service) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("serving projections")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mode, _ := s.cfg.Base.Mode()
	st := Status{
		StartedAt: s.startedAt,
		Addr:      s.cfg.Addr,
		Mode:      mode,
		Runs:      s.runs,
		LastRunID: s.lastRunID,
	}
	if !s.lastRunAt.IsZero() {
		at := s.lastRunAt
		st.LastRunAt = &at
	}
	return st
}

// project runs one comparison and records it under a fresh run ID.
func (s *Service) project(cfg config.Config, overlays []model.Overlay) (string, pipeline.Comparison, error) {
	if err := cfg.Validate(); err != nil {
		return "", pipeline.Comparison{}, err
	}
	if err := validateOverlays(overlays); err != nil {
		return "", pipeline.Comparison{}, err
	}
	mode, _ := cfg.Mode()

	runID := uuid.NewString()
	cmp := s.runner.Run(cfg.Plan.Parameters(), overlays, mode)
	s.metrics.recordComparison(cmp)

	s.mu.Lock()
	s.runs++
	s.lastRunID = runID
	s.lastRunAt = time.Now()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"run_id":    runID,
		"mode":      mode,
		"scenarios": len(overlays),
	}).Info("projection computed")
	return runID, cmp, nil
}

func validateOverlays(overlays []model.Overlay) error {
	if len(overlays) == 0 {
		return fmt.Errorf("%w: at least one scenario is required", config.ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(overlays))
	for i, o := range overlays {
		label := strings.TrimSpace(o.Label)
		if label == "" {
			return fmt.Errorf("%w: scenarios[%d] needs a label", config.ErrInvalidConfig, i)
		}
		if seen[label] {
			return fmt.Errorf("%w: duplicate scenario label %q", config.ErrInvalidConfig, label)
		}
		seen[label] = true
		if d := o.Dependent; d != nil {
			if err := config.ValidateWindow(d.StartAge, d.Years); err != nil {
				return fmt.Errorf("%w: scenarios[%d]: %w", config.ErrInvalidConfig, i, err)
			}
		}
	}
	return nil
}

// queryConfig layers URL query overrides over the base config.
func (s *Service) queryConfig(r *http.Request) (config.Config, error) {
	cfg := s.cfg.Base
	o, err := config.OverridesFromQuery(r.URL.Query())
	if err != nil {
		return cfg, err
	}
	o.Apply(&cfg)
	return cfg, nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleQueryProjection(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.queryConfig(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	runID, cmp, err := s.project(cfg, pipeline.BuildScenarios(cfg.Scenarios))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("X-Run-ID", runID)
	s.writeJSON(w, http.StatusOK, export.NewDocument(runID, cmp))
}

func (s *Service) handlePostProjection(w http.ResponseWriter, r *http.Request) {
	req := ProjectionRequest{
		Mode:       s.cfg.Base.General.Mode,
		Parameters: s.cfg.Base.Plan.Parameters(),
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	cfg := s.cfg.Base
	cfg.General.Mode = req.Mode
	cfg.Plan = config.PlanFrom(req.Parameters)
	overlays := req.Scenarios
	if len(overlays) == 0 {
		overlays = pipeline.BuildScenarios(cfg.Scenarios)
	}

	runID, cmp, err := s.project(cfg, overlays)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("X-Run-ID", runID)
	s.writeJSON(w, http.StatusOK, export.NewDocument(runID, cmp))
}

func (s *Service) handleProjectionCSV(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.queryConfig(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	runID, cmp, err := s.project(cfg, pipeline.BuildScenarios(cfg.Scenarios))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.DefaultFileName+`"`)
	w.Header().Set("X-Run-ID", runID)
	if err := export.WriteCSV(w, cmp.Points(), cmp.Mode); err != nil {
		s.log.WithError(err).WithField("run_id", runID).Warn("csv response truncated")
	}
}

// writeJSON encodes v before committing the status so an encoding failure
// can still be reported as a 500.
func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).Error("encoding response")
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": "encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func (s *Service) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
