package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kartoza/order-planner/internal/config"
	"github.com/kartoza/order-planner/internal/dataset"
	"github.com/kartoza/order-planner/internal/forecast"
	"github.com/kartoza/order-planner/internal/models"
	"github.com/kartoza/order-planner/internal/staffing"
)

// Ranges accepted from the planning form
const (
	minCapacity    = 5
	maxCapacity    = 200
	maxMargin      = 0.5
)

// Handler provides HTTP API endpoints
type Handler struct {
	model   *forecast.TrainedModel
	records []dataset.HistoricalRecord
	cfg     config.Config
}

// NewHandler creates a new API handler
func NewHandler(
	model *forecast.TrainedModel,
	records []dataset.HistoricalRecord,
	cfg config.Config,
) *Handler {
	return &Handler{
		model:   model,
		records: records,
		cfg:     cfg,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Model evidence
	r.HandleFunc("/summary", h.handleSummary).Methods("GET")
	r.HandleFunc("/history", h.handleHistory).Methods("GET")
	r.HandleFunc("/fit", h.handleFit).Methods("GET")

	// Scenario evaluation
	r.HandleFunc("/predict", h.handlePredict).Methods("POST")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":      h.cfg.Version,
		"data_path":    h.cfg.DataPath,
		"records":      len(h.records),
		"model_loaded": h.model != nil,
	}
	respondJSON(w, http.StatusOK, info)
}

// handleSummary returns historical statistics and the fitted coefficients
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if h.model == nil {
		respondError(w, http.StatusServiceUnavailable, "no model trained")
		return
	}
	respondJSON(w, http.StatusOK, models.SummaryResponse{
		Records:      len(h.records),
		MeanOrders:   h.model.MeanOrders(),
		MinOrders:    h.model.MinOrders(),
		MaxOrders:    h.model.MaxOrders(),
		Intercept:    h.model.Intercept(),
		Coefficients: h.model.Coefficients(),
		R2:           h.model.R2(),
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		respondJSON(w, http.StatusOK, []dataset.HistoricalRecord{})
		return
	}
	respondJSON(w, http.StatusOK, h.records)
}

// handleFit returns actual vs predicted points for the scatter chart
func (h *Handler) handleFit(w http.ResponseWriter, r *http.Request) {
	if h.model == nil {
		respondError(w, http.StatusServiceUnavailable, "no model trained")
		return
	}
	respondJSON(w, http.StatusOK, h.model.Fitted())
}

// handlePredict evaluates one scenario with optional staffing parameters
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if h.model == nil {
		respondError(w, http.StatusServiceUnavailable, "no model trained")
		return
	}

	var req models.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		predictionsRejected.Inc()
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%v: invalid request body: %v", forecast.ErrInvalidScenario, err))
		return
	}

	params := staffing.Params{
		CapacityPerWorker: h.cfg.CapacityPerWorker,
		SafetyMargin:      h.cfg.SafetyMargin,
	}
	if req.CapacityPerWorker != nil {
		params.CapacityPerWorker = *req.CapacityPerWorker
	}
	if req.SafetyMargin != nil {
		params.SafetyMargin = *req.SafetyMargin
	}

	if req.DayOfWeek == nil || req.Temperature == nil {
		predictionsRejected.Inc()
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%v: day_of_week and temperature are required", forecast.ErrInvalidScenario))
		return
	}
	scenario := forecast.Scenario{
		DayOfWeek:   *req.DayOfWeek,
		Temperature: *req.Temperature,
		IsHoliday:   req.IsHoliday,
	}
	if err := validateForm(scenario, params); err != nil {
		predictionsRejected.Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := staffing.Evaluate(h.model, scenario, params)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidScenario) {
			predictionsRejected.Inc()
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Prediction failed: %v", err)
		respondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	predictionsServed.WithLabelValues(string(result.DemandLevel)).Inc()
	recommendedStaff.Observe(float64(result.RecommendedStaff))

	respondJSON(w, http.StatusOK, models.PredictResponse{
		ID:                uuid.New().String(),
		DayName:           staffing.DayName(scenario.DayOfWeek),
		RawEstimate:       result.RawEstimate,
		EstimatedOrders:   result.EstimatedOrders,
		DemandLevel:       string(result.DemandLevel),
		RecommendedStaff:  result.RecommendedStaff,
		CapacityPerWorker: params.CapacityPerWorker,
		SafetyMargin:      params.SafetyMargin,
		Workload:          string(result.Workload),
		Advice:            result.Advice(),
		DeltaFromTypical:  result.DeltaFromTypical,
	})
}

// validateForm applies the ranges offered by the planning form, which are
// narrower than what the core accepts.
func validateForm(s forecast.Scenario, p staffing.Params) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Temperature < forecast.MinTemperature || s.Temperature > forecast.MaxTemperature {
		return fmt.Errorf("%w: temperature must be between %v and %v", forecast.ErrInvalidScenario, forecast.MinTemperature, forecast.MaxTemperature)
	}
	if p.CapacityPerWorker < minCapacity || p.CapacityPerWorker > maxCapacity {
		return fmt.Errorf("%w: capacity_per_worker must be between %d and %d", forecast.ErrInvalidScenario, minCapacity, maxCapacity)
	}
	if p.SafetyMargin < 0 || p.SafetyMargin > maxMargin {
		return fmt.Errorf("%w: safety_margin must be between 0 and %v", forecast.ErrInvalidScenario, maxMargin)
	}
	return nil
}
