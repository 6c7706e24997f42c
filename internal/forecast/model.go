package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/kartoza/order-planner/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Predictor names, in design-matrix column order
const (
	PredictorDayOfWeek   = "day_of_week"
	PredictorTemperature = "temperature"
	PredictorIsHoliday   = "is_holiday"
)

// Predictors lists the regression inputs in column order
var Predictors = []string{PredictorDayOfWeek, PredictorTemperature, PredictorIsHoliday}

// Temperature range offered to planners; the model itself accepts any finite value
const (
	MinTemperature = -5.0
	MaxTemperature = 45.0
)

var (
	// ErrDegenerateInput is returned when no least-squares fit can be computed
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrInvalidScenario is returned for caller-supplied values out of range
	ErrInvalidScenario = errors.New("invalid scenario")
)

// Scenario is a hypothetical day to forecast
type Scenario struct {
	DayOfWeek   int     `json:"day_of_week"`
	Temperature float64 `json:"temperature"`
	IsHoliday   bool    `json:"is_holiday"`
}

// Validate checks the scenario is something the model can evaluate
func (s Scenario) Validate() error {
	if s.DayOfWeek < 1 || s.DayOfWeek > 7 {
		return fmt.Errorf("%w: day_of_week must be 1-7, got %d", ErrInvalidScenario, s.DayOfWeek)
	}
	if math.IsNaN(s.Temperature) || math.IsInf(s.Temperature, 0) {
		return fmt.Errorf("%w: temperature must be a finite number", ErrInvalidScenario)
	}
	return nil
}

func (s Scenario) features() []float64 {
	return []float64{float64(s.DayOfWeek), s.Temperature, boolToFloat(s.IsHoliday)}
}

// FitPoint pairs an observed order count with the model's estimate for that day
type FitPoint struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// TrainedModel is an ordinary least-squares fit of order count on the
// predictors. It is immutable once returned by Fit and safe to share
// between goroutines.
type TrainedModel struct {
	intercept float64
	coef      []float64

	mean float64
	min  int
	max  int
	r2   float64

	fitted []FitPoint
}

// Fit regresses order count on day of week, temperature and holiday flag.
// Fewer records than parameters yield the minimum-norm solution rather than
// an error; only an empty history or predictors without any variance fail.
func Fit(records []dataset.HistoricalRecord) (*TrainedModel, error) {
	n := len(records)
	if n == 0 {
		return nil, fmt.Errorf("%w: no records to fit", ErrDegenerateInput)
	}
	p := len(Predictors)

	x := mat.NewDense(n, p, nil)
	y := make([]float64, n)
	for i, rec := range records {
		x.SetRow(i, Scenario{
			DayOfWeek:   rec.DayOfWeek,
			Temperature: rec.Temperature,
			IsHoliday:   rec.IsHoliday,
		}.features())
		y[i] = float64(rec.OrderCount)
	}

	// Centre columns so the intercept drops out of the solve. A column whose
	// centred norm is within rounding of its own magnitude has no variance
	// and is zeroed exactly.
	eps := math.Nextafter(1, 2) - 1
	xMean := make([]float64, p)
	varying := 0
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		scale := math.Max(math.Abs(floats.Max(col)), math.Abs(floats.Min(col)))
		xMean[j] = stat.Mean(col, nil)
		floats.AddConst(-xMean[j], col)
		if floats.Norm(col, 2) <= eps*float64(n)*scale {
			for i := range col {
				col[i] = 0
			}
		} else {
			varying++
		}
		x.SetCol(j, col)
	}
	if varying == 0 {
		return nil, fmt.Errorf("%w: predictors have no variance across %d records", ErrDegenerateInput, n)
	}
	yMean := stat.Mean(y, nil)
	yc := make([]float64, n)
	copy(yc, y)
	floats.AddConst(-yMean, yc)

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: singular value decomposition failed", ErrDegenerateInput)
	}
	rank := svd.Rank(eps * float64(max(n, p)))
	if rank == 0 {
		return nil, fmt.Errorf("%w: predictors have no variance across %d records", ErrDegenerateInput, n)
	}

	var beta mat.Dense
	svd.SolveTo(&beta, mat.NewDense(n, 1, yc), rank)

	coef := mat.Col(nil, 0, &beta)
	m := &TrainedModel{
		intercept: yMean - floats.Dot(xMean, coef),
		coef:      coef,
		mean:      yMean,
		min:       records[0].OrderCount,
		max:       records[0].OrderCount,
	}

	m.fitted = make([]FitPoint, n)
	estimates := make([]float64, n)
	for i, rec := range records {
		if rec.OrderCount < m.min {
			m.min = rec.OrderCount
		}
		if rec.OrderCount > m.max {
			m.max = rec.OrderCount
		}
		estimates[i] = m.Predict(Scenario{
			DayOfWeek:   rec.DayOfWeek,
			Temperature: rec.Temperature,
			IsHoliday:   rec.IsHoliday,
		})
		m.fitted[i] = FitPoint{Actual: y[i], Predicted: estimates[i]}
	}
	m.r2 = rSquared(y, estimates, yMean)

	return m, nil
}

// Predict returns the unclamped order estimate for a scenario
func (m *TrainedModel) Predict(s Scenario) float64 {
	return m.intercept + floats.Dot(m.coef, s.features())
}

// MeanOrders is the average order count of the training history
func (m *TrainedModel) MeanOrders() float64 { return m.mean }

// MinOrders is the smallest order count in the training history
func (m *TrainedModel) MinOrders() int { return m.min }

// MaxOrders is the largest order count in the training history
func (m *TrainedModel) MaxOrders() int { return m.max }

// Intercept returns the fitted constant term
func (m *TrainedModel) Intercept() float64 { return m.intercept }

// R2 returns the coefficient of determination on the training history
func (m *TrainedModel) R2() float64 { return m.r2 }

// Coefficients returns a copy of the fitted coefficient per predictor
func (m *TrainedModel) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(Predictors))
	for i, name := range Predictors {
		out[name] = m.coef[i]
	}
	return out
}

// Fitted returns actual vs predicted order counts over the training history
func (m *TrainedModel) Fitted() []FitPoint {
	out := make([]FitPoint, len(m.fitted))
	copy(out, m.fitted)
	return out
}

// rSquared is 1 - SSres/SStot; a constant target scores 1 when fitted exactly
func rSquared(actual, predicted []float64, mean float64) float64 {
	var ssRes, ssTot float64
	for i := range actual {
		d := actual[i] - predicted[i]
		ssRes += d * d
		t := actual[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
