package staffing

import (
	"fmt"
	"math"

	"github.com/kartoza/order-planner/internal/forecast"
)

// DemandLevel buckets an estimate relative to the historical mean
type DemandLevel string

const (
	DemandLow    DemandLevel = "Low"
	DemandMedium DemandLevel = "Medium"
	DemandHigh   DemandLevel = "High"
)

// Relative thresholds around the historical mean
const (
	LowThreshold  = 0.85
	HighThreshold = 1.15
)

// Defaults used when the caller does not supply staffing parameters
const (
	DefaultCapacityPerWorker = 25
	DefaultSafetyMargin      = 0.10
)

// ceilTolerance absorbs float error in adjusted/capacity before rounding up
const ceilTolerance = 1e-9

// Classify compares a prediction with the historical mean. A zero mean has
// no meaningful ratio and is reported as Medium.
func Classify(predicted, mean float64) DemandLevel {
	if mean == 0 {
		return DemandMedium
	}
	if predicted < mean*LowThreshold {
		return DemandLow
	}
	if predicted > mean*HighThreshold {
		return DemandHigh
	}
	return DemandMedium
}

// Recommend converts an order estimate into a worker count. The estimate is
// padded by the safety margin and divided by per-worker capacity, always
// rounding up. At least one worker is recommended.
func Recommend(estimatedOrders, capacityPerWorker int, safetyMargin float64) (int, error) {
	if capacityPerWorker <= 0 {
		return 0, fmt.Errorf("%w: capacity per worker must be positive, got %d", forecast.ErrInvalidScenario, capacityPerWorker)
	}
	if math.IsNaN(safetyMargin) || safetyMargin < 0 || safetyMargin >= 1 {
		return 0, fmt.Errorf("%w: safety margin must be in [0,1), got %v", forecast.ErrInvalidScenario, safetyMargin)
	}

	adjusted := float64(estimatedOrders) * (1 + safetyMargin)
	workers := int(math.Ceil(adjusted/float64(capacityPerWorker) - ceilTolerance))
	if workers < 1 {
		return 1, nil
	}
	return workers, nil
}
