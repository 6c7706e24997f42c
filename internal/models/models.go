package models

// PredictRequest is the scenario submitted by the planning form
type PredictRequest struct {
	DayOfWeek         *int     `json:"day_of_week"`
	Temperature       *float64 `json:"temperature"`
	IsHoliday         bool     `json:"is_holiday"`
	CapacityPerWorker *int     `json:"capacity_per_worker,omitempty"`
	SafetyMargin      *float64 `json:"safety_margin,omitempty"`
}

// PredictResponse contains the forecast and staffing recommendation
type PredictResponse struct {
	ID                string  `json:"id"`
	DayName           string  `json:"day_name"`
	RawEstimate       float64 `json:"raw_estimate"`
	EstimatedOrders   int     `json:"estimated_orders"`
	DemandLevel       string  `json:"demand_level"`
	RecommendedStaff  int     `json:"recommended_staff"`
	CapacityPerWorker int     `json:"capacity_per_worker"`
	SafetyMargin      float64 `json:"safety_margin"`
	Workload          string  `json:"workload"`
	Advice            string  `json:"advice"`
	DeltaFromTypical  int     `json:"delta_from_typical"`
}

// SummaryResponse describes the trained model and its history
type SummaryResponse struct {
	Records      int                `json:"records"`
	MeanOrders   float64            `json:"mean_orders"`
	MinOrders    int                `json:"min_orders"`
	MaxOrders    int                `json:"max_orders"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	R2           float64            `json:"r2"`
}
