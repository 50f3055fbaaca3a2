package analytics

import (
	"fmt"
	"math"

	"VixPull/internal/domain/models"
)

// CurveSpec names the maturities the slope is measured between.
type CurveSpec struct {
	Required  []int // months, strictly increasing; slope = last - first
	Tolerance int   // months of slack when matching curve points
}

// Compute derives the risk metrics for the current snapshot against
// its trailing window. Pure: no I/O, no hidden state.
func Compute(current *models.MarketSnapshot, history models.HistoricalSeries, spec CurveSpec) (models.DerivedMetrics, error) {
	var m models.DerivedMetrics

	if len(history) == 0 {
		return m, models.DataInvalid(models.StageCompute, fmt.Errorf("historical series is empty"))
	}
	if len(spec.Required) < 2 {
		return m, models.DataInvalid(models.StageCompute, fmt.Errorf("need at least two required maturities, got %d", len(spec.Required)))
	}

	m.PercentileRank = PercentileRank(history.Spots(), current.Spot)

	near, ok := current.PriceAt(spec.Required[0], spec.Tolerance)
	if !ok {
		return m, models.DataInvalid(models.StageCompute, fmt.Errorf("curve missing %dM maturity", spec.Required[0]))
	}
	far, ok := current.PriceAt(spec.Required[len(spec.Required)-1], spec.Tolerance)
	if !ok {
		return m, models.DataInvalid(models.StageCompute, fmt.Errorf("curve missing %dM maturity", spec.Required[len(spec.Required)-1]))
	}
	m.Slope = far - near

	mean, stddev := meanStddev(history.Spots())
	if stddev == 0 {
		m.ZScore = 0
	} else {
		m.ZScore = (current.Spot - mean) / stddev
	}

	return m, nil
}

// PercentileRank returns where v falls in values, in [0,100], with
// standard half-weight tie handling.
func PercentileRank(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0
	}
	below, equal := 0, 0
	for _, x := range values {
		switch {
		case x < v:
			below++
		case x == v:
			equal++
		}
	}
	n := float64(len(values))
	return (float64(below) + 0.5*float64(equal)) / n * 100
}

func meanStddev(values []float64) (float64, float64) {
	n := float64(len(values))
	var sum float64
	for _, x := range values {
		sum += x
	}
	mean := sum / n

	var ss float64
	for _, x := range values {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / n)
}
