package models

import (
	"fmt"
	"math"
	"time"
)

// CurvePoint is a single futures quote on the term structure.
type CurvePoint struct {
	Maturity int     `json:"maturity_months" validate:"gt=0"` // months to expiry
	Price    float64 `json:"price"`
}

// MarketSnapshot is one validated observation of the volatility index:
// the spot level plus the futures curve, ascending by maturity.
type MarketSnapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	Spot      float64      `json:"spot"`
	Curve     []CurvePoint `json:"curve,omitempty"`
}

// Validate enforces the snapshot invariants: finite non-negative spot,
// strictly increasing maturities, finite non-negative prices.
func (s *MarketSnapshot) Validate() error {
	if s.Timestamp.IsZero() {
		return fmt.Errorf("snapshot timestamp is zero")
	}
	if !isFinite(s.Spot) {
		return fmt.Errorf("spot is not finite: %v", s.Spot)
	}
	if s.Spot < 0 {
		return fmt.Errorf("spot is negative: %v", s.Spot)
	}
	prev := 0
	for i, p := range s.Curve {
		if p.Maturity <= prev {
			return fmt.Errorf("curve maturities not strictly increasing at index %d (%dM after %dM)", i, p.Maturity, prev)
		}
		if !isFinite(p.Price) {
			return fmt.Errorf("curve price at %dM is not finite: %v", p.Maturity, p.Price)
		}
		if p.Price < 0 {
			return fmt.Errorf("curve price at %dM is negative: %v", p.Maturity, p.Price)
		}
		prev = p.Maturity
	}
	return nil
}

// PriceAt returns the futures price whose maturity is within tol months
// of the requested maturity, preferring the closest match.
func (s *MarketSnapshot) PriceAt(maturity, tol int) (float64, bool) {
	best := -1
	bestDist := tol + 1
	for i, p := range s.Curve {
		d := p.Maturity - maturity
		if d < 0 {
			d = -d
		}
		if d <= tol && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, false
	}
	return s.Curve[best].Price, true
}

// HistoricalSeries is a trailing window of snapshots ascending by timestamp.
type HistoricalSeries []MarketSnapshot

// Validate enforces strictly increasing timestamps and rejects gaps
// wider than tolerance (0 disables the gap check). Each member snapshot
// is validated as well.
func (h HistoricalSeries) Validate(tolerance time.Duration) error {
	for i := range h {
		if err := h[i].Validate(); err != nil {
			return fmt.Errorf("snapshot %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		gap := h[i].Timestamp.Sub(h[i-1].Timestamp)
		if gap <= 0 {
			return fmt.Errorf("timestamps not strictly increasing at index %d", i)
		}
		if tolerance > 0 && gap > tolerance {
			return fmt.Errorf("gap of %s at index %d exceeds tolerance %s", gap, i, tolerance)
		}
	}
	return nil
}

// Spots returns the spot values in series order.
func (h HistoricalSeries) Spots() []float64 {
	out := make([]float64, len(h))
	for i := range h {
		out[i] = h[i].Spot
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
