package staffing

import (
	"fmt"
	"math"

	"github.com/kartoza/order-planner/internal/forecast"
)

// Workload describes how stretched the recommended crew will be
type Workload string

const (
	WorkloadLow    Workload = "low"
	WorkloadMedium Workload = "medium"
	WorkloadHigh   Workload = "high"
)

// Crew sizes at which the workload band changes
const (
	mediumCrew = 4
	highCrew   = 6
)

var workloadAdvice = map[Workload]string{
	WorkloadHigh:   "High operational load: reinforce shifts and prepare additional routes.",
	WorkloadMedium: "Medium load: standard planning with a light reinforcement reserve.",
	WorkloadLow:    "Low load: shifts can be trimmed to reduce operating costs.",
}

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName returns the English weekday for 1 (Monday) through 7 (Sunday)
func DayName(day int) string {
	if day < 1 || day > len(dayNames) {
		return ""
	}
	return dayNames[day-1]
}

// Params are the operator-tunable inputs of a staffing recommendation
type Params struct {
	CapacityPerWorker int
	SafetyMargin      float64
}

// DefaultParams returns 25 orders per worker with a 10% margin
func DefaultParams() Params {
	return Params{
		CapacityPerWorker: DefaultCapacityPerWorker,
		SafetyMargin:      DefaultSafetyMargin,
	}
}

// PredictionResult is the outcome of evaluating one scenario
type PredictionResult struct {
	RawEstimate      float64
	EstimatedOrders  int
	DemandLevel      DemandLevel
	RecommendedStaff int
	Workload         Workload
	DeltaFromTypical int
}

// Advice returns the operational note for the result's workload band
func (r PredictionResult) Advice() string {
	return workloadAdvice[r.Workload]
}

// WorkloadFor bands a recommended crew size
func WorkloadFor(staff int) Workload {
	switch {
	case staff >= highCrew:
		return WorkloadHigh
	case staff >= mediumCrew:
		return WorkloadMedium
	default:
		return WorkloadLow
	}
}

// Evaluate runs a scenario through the model and derives demand level and
// staffing from the same prediction.
func Evaluate(model *forecast.TrainedModel, s forecast.Scenario, p Params) (PredictionResult, error) {
	if err := s.Validate(); err != nil {
		return PredictionResult{}, err
	}

	raw := model.Predict(s)
	if math.IsNaN(raw) || raw < math.MinInt32 || raw > math.MaxInt32 {
		return PredictionResult{}, fmt.Errorf("%w: estimate %v is out of range", forecast.ErrInvalidScenario, raw)
	}
	estimated := int(math.Round(raw))

	staff, err := Recommend(estimated, p.CapacityPerWorker, p.SafetyMargin)
	if err != nil {
		return PredictionResult{}, err
	}

	return PredictionResult{
		RawEstimate:      raw,
		EstimatedOrders:  estimated,
		DemandLevel:      Classify(raw, model.MeanOrders()),
		RecommendedStaff: staff,
		Workload:         WorkloadFor(staff),
		DeltaFromTypical: int(math.Round(raw - model.MeanOrders())),
	}, nil
}
