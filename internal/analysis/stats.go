package analysis

import (
	"errors"
	"math"

	"ge-flip-tracker/internal/market"
)

// ErrInsufficientData is returned when a series is too short for a
// meaningful result (fewer than two points).
var ErrInsufficientData = errors.New("analysis: need at least 2 price points")

// Direction classifies where a price series is heading.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Stable  Direction = "stable"
)

// Action is a trading recommendation.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
	Hold Action = "hold"
)

// prices extracts the raw price values from a chronological series.
func prices(points []market.PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}

// tail returns the trailing n values, or the whole slice when shorter.
func tail(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)))
}

func minMax(vals []float64) (low, high float64) {
	low, high = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	return low, high
}
