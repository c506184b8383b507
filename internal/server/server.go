package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/tax-regime-simulator/internal/config"
	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"github.com/iwvelando/tax-regime-simulator/internal/simulation"
	"github.com/iwvelando/tax-regime-simulator/pkg/constants"
	"github.com/iwvelando/tax-regime-simulator/pkg/forminput"
	"github.com/iwvelando/tax-regime-simulator/pkg/output"
	"go.uber.org/zap"
)

// maxJSONBodyBytes bounds the body of the single-profile endpoints.
const maxJSONBodyBytes = 64 * 1024

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the simulation API.
// Background work started by the handler stops when ctx is cancelled.
func NewHandler(ctx context.Context, logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		metrics:       newMetrics(),
	}

	r := mux.NewRouter()
	r.Use(h.metrics.middleware)
	r.HandleFunc("/api/simulations", h.handleSimulation).Methods(http.MethodPost)
	r.HandleFunc("/api/simulations/batch", h.handleBatch).Methods(http.MethodPost)
	r.HandleFunc("/api/estimates", h.handleEstimate).Methods(http.MethodPost)
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", h.metrics.handler()).Methods(http.MethodGet)
	// Router middleware skips unmatched requests, so these count themselves.
	r.MethodNotAllowedHandler = h.metrics.middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(logger, w, http.StatusMethodNotAllowed, errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
	}))
	r.NotFoundHandler = h.metrics.middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(logger, w, http.StatusNotFound, errorResponse{Error: http.StatusText(http.StatusNotFound)})
	}))

	var next http.Handler = r
	if cfg.RateLimit.Enabled {
		store := newLimiterStore(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		store.startJanitor(ctx)
		next = withRateLimit(store, h.metrics, logger, next)
	}
	next = withCORS(cfg.CORS, next)
	next = withLogging(logger, next)
	return withRequestID(next)
}

type simulationRequest struct {
	forminput.RawProfile
	Regimes []string `json:"regimes,omitempty"`
}

type estimateRequest struct {
	forminput.RawProfile
	Regime string `json:"regime"`
}

type profileView struct {
	MonthlyRevenue       float64 `json:"monthlyRevenue"`
	Sector               string  `json:"sector"`
	EmployeeCount        int     `json:"employeeCount"`
	PresumedProfitMargin float64 `json:"presumedProfitMargin"`
}

type simulationResponse struct {
	Profile profileView `json:"profile"`
	output.RankingView
}

type estimateResponse struct {
	Profile profileView `json:"profile"`
	output.EstimateView
}

type batchResponse struct {
	Results  []output.ResultView `json:"results"`
	CSV      string              `json:"csv"`
	Warnings []string            `json:"warnings,omitempty"`
	Duration string              `json:"duration"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func newProfileView(p regime.FinancialProfile) profileView {
	return profileView{
		MonthlyRevenue:       p.MonthlyRevenue.InexactFloat64(),
		Sector:               string(p.Sector),
		EmployeeCount:        p.EmployeeCount,
		PresumedProfitMargin: p.PresumedProfitMargin.InexactFloat64(),
	}
}

func (h *handler) handleSimulation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulation"

	var req simulationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err, op)
		return
	}

	regimes := make([]regime.Regime, 0, len(req.Regimes))
	for _, label := range req.Regimes {
		parsed, err := regime.ParseRegime(label)
		if err != nil {
			h.metrics.observeSimulation("compare", "invalid_input")
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err, op)
			return
		}
		regimes = append(regimes, parsed)
	}

	profile := req.Profile()
	ranked, err := regime.EvaluateRegimes(profile, regimes...)
	if err != nil {
		h.respondEngineError(w, r, "compare", err, op)
		return
	}

	h.metrics.observeSimulation("compare", "ranked")
	h.metrics.bestRegime.WithLabelValues(string(ranked.Best.Regime)).Inc()
	h.logger.Debug("simulation computed",
		zap.String("op", op),
		zap.String("requestID", RequestIDFromContext(r.Context())),
		zap.String("best", string(ranked.Best.Regime)),
		zap.String("savings", ranked.Savings.StringFixed(2)),
	)

	h.writeJSON(w, http.StatusOK, simulationResponse{
		Profile:     newProfileView(profile),
		RankingView: output.NewRankingView(ranked),
	})
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"

	var req estimateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err, op)
		return
	}

	parsed, err := regime.ParseRegime(req.Regime)
	if err != nil {
		h.metrics.observeSimulation("estimate", "invalid_input")
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err, op)
		return
	}

	profile := req.Profile()
	estimate, err := regime.EstimateSingleRegime(parsed, profile)
	if err != nil {
		h.respondEngineError(w, r, "estimate", err, op)
		return
	}

	h.metrics.observeSimulation("estimate", "estimated")
	h.writeJSON(w, http.StatusOK, estimateResponse{
		Profile:      newProfileView(profile),
		EstimateView: output.NewEstimateView(estimate),
	})
}

func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBatch"

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Errorf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Errorf("failed to parse upload: %w", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, errors.New("missing configuration file"), op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Errorf("failed to read configuration: %w", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err, op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := simulation.Run(h.logger, *cfg)
	if err != nil {
		h.respondEngineError(w, r, "batch", err, op)
		return
	}

	for _, result := range results {
		if result.NotApplicable {
			h.metrics.observeSimulation("batch", "not_applicable")
			continue
		}
		if result.Ranked != nil {
			h.metrics.observeSimulation("batch", "ranked")
			h.metrics.bestRegime.WithLabelValues(string(result.Ranked.Best.Regime)).Inc()
		}
	}

	elapsed := time.Since(start)
	h.logger.Info("batch computed",
		zap.String("op", op),
		zap.String("requestID", RequestIDFromContext(r.Context())),
		zap.Int("simulations", len(results)),
		zap.Int("active", len(cfg.ActiveSimulations())),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, batchResponse{
		Results:  output.NewResultViews(results),
		CSV:      output.CsvString(results),
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

// respondEngineError maps engine errors onto status codes: invalid input is
// the caller's fault, an empty eligible set is a valid request with no answer.
func (h *handler) respondEngineError(w http.ResponseWriter, r *http.Request, mode string, err error, op string) {
	switch {
	case errors.Is(err, regime.ErrInvalidInput):
		h.metrics.observeSimulation(mode, "invalid_input")
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err, op)
	case errors.Is(err, regime.ErrNoEligibleRegime):
		h.metrics.observeSimulation(mode, "no_eligible_regime")
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity, err, op)
	default:
		h.metrics.observeSimulation(mode, "error")
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err, op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, err error, op string) {
	requestID := RequestIDFromContext(r.Context())
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("requestID", requestID),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("simulation request failed", fields...)
	} else {
		h.logger.Warn("simulation request rejected", fields...)
	}

	resp := errorResponse{Error: err.Error(), RequestID: requestID}
	var inputErr *regime.InputError
	if errors.As(err, &inputErr) {
		resp.Field = inputErr.Field
	}
	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(h.logger, w, status, payload)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}
