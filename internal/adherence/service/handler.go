package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/middleware"
	"github.com/2beens/adherence/internal/telemetry/metrics"
	"github.com/2beens/adherence/internal/telemetry/tracing"
	"github.com/2beens/adherence/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=service_test

const maxEvaluateBodyBytes = 1 << 20

type adherenceService interface {
	Day(ctx context.Context, userID string, date time.Time) (*DayResult, error)
	Microcycle(ctx context.Context, userID string, from, to time.Time) (*MicrocycleResult, error)
	Evaluate(ctx context.Context, logs adherence.DayLogs, weights *adherence.Weights) (*DayResult, error)
}

// EvaluateRequest is a DayLogs document with optional weights overriding the configured ones.
type EvaluateRequest struct {
	adherence.DayLogs
	Weights *adherence.Weights `json:"weights,omitempty"`
}

type Handler struct {
	service adherenceService
}

func NewHandler(service adherenceService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	evaluateAllowedPerMin int,
) {
	mainRouter.HandleFunc("/health", h.HandleHealth).Methods("GET").Name("health")

	adherenceRouter := mainRouter.PathPrefix("/adherence").Subrouter()
	adherenceRouter.
		HandleFunc("/{user}/day/{date}", h.HandleDay).
		Methods("GET", "OPTIONS").Name("day")
	adherenceRouter.
		HandleFunc("/{user}/microcycle", h.HandleMicrocycle).
		Methods("GET", "OPTIONS").Name("microcycle")

	// evaluate scores whatever it is sent, so it is rate limited per client
	evaluateRouter := adherenceRouter.PathPrefix("/evaluate").Subrouter()
	evaluateRouter.
		HandleFunc("", h.HandleEvaluate).
		Methods("POST", "OPTIONS").Name("evaluate")
	evaluateRouter.Use(middleware.RateLimit(rateLimiter, "evaluate", evaluateAllowedPerMin, metricsManager))
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "ok")
}

func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.adherence.day")
	defer span.End()

	vars := mux.Vars(r)
	date, err := pkg.ParseDate(vars["date"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.service.Day(ctx, vars["user"], date)
	if err != nil {
		log.Errorf("get day adherence for %s: %s", vars["user"], err)
		http.Error(w, "get day adherence failed: "+err.Error(), statusFor(err))
		return
	}

	pkg.WriteJSONResponseOK(w, res)
}

func (h *Handler) HandleMicrocycle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.adherence.microcycle")
	defer span.End()

	userID := mux.Vars(r)["user"]
	from, to, err := pkg.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.service.Microcycle(ctx, userID, from, to)
	if err != nil {
		log.Errorf("get microcycle adherence for %s: %s", userID, err)
		http.Error(w, "get microcycle adherence failed: "+err.Error(), statusFor(err))
		return
	}

	pkg.WriteJSONResponseOK(w, res)
}

func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.adherence.evaluate")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEvaluateBodyBytes)).Decode(&req); err != nil {
		log.Errorf("evaluate, unmarshal json params: %s", err)
		http.Error(w, "evaluate failed: invalid logs json", http.StatusBadRequest)
		return
	}

	res, err := h.service.Evaluate(ctx, req.DayLogs, req.Weights)
	if err != nil {
		log.Errorf("evaluate day: %s", err)
		http.Error(w, "evaluate failed: "+err.Error(), statusFor(err))
		return
	}

	pkg.WriteJSONResponseOK(w, res)
}

func statusFor(err error) int {
	switch {
	case
		errors.Is(err, ErrMissingUser),
		errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrRangeTooLong),
		errors.Is(err, adherence.ErrInvalidWeights):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
