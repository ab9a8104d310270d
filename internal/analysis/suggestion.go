package analysis

import (
	"fmt"
	"math"

	"ge-flip-tracker/internal/market"
)

// Confidence rates how trustworthy a price suggestion is.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// PriceSuggestion is the derived pre-trade estimate for an item: where to
// place buy and sell offers and what they would yield if both are hit. No
// tax is applied here; the post-trade figures are the tax calculator's job.
type PriceSuggestion struct {
	SuggestedBuy     float64    `json:"suggested_buy"`
	SuggestedSell    float64    `json:"suggested_sell"`
	PotentialProfit  float64    `json:"potential_profit"`
	PotentialROI     float64    `json:"potential_roi"`
	Confidence       Confidence `json:"confidence"`
	ConfidenceReason string     `json:"confidence_reason"`
	Trend            Direction  `json:"trend"`
	Volatility       float64    `json:"volatility"`
	Avg7             float64    `json:"avg_7d"`
	Avg14            float64    `json:"avg_14d"`
	Avg30            float64    `json:"avg_30d"`
	Low30            float64    `json:"low_30d"`
	High30           float64    `json:"high_30d"`
}

// SuggestPrices derives buy/sell price targets from a chronologically
// ascending price series. The discount and premium widen with volatility and
// lean into the short-term trend, but the final targets are clamped to stay
// inside the observed 30-day range.
func SuggestPrices(points []market.PricePoint) (*PriceSuggestion, error) {
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	vals := prices(points)
	current := vals[len(vals)-1]

	last30 := tail(vals, 30)
	low30, high30 := minMax(last30)
	avg30 := mean(last30)

	s := &PriceSuggestion{
		Avg7:   mean(tail(vals, 7)),
		Avg14:  mean(tail(vals, 14)),
		Avg30:  avg30,
		Low30:  low30,
		High30: high30,
	}

	if avg30 > 0 {
		s.Volatility = stddev(last30) / avg30 * 100
	}

	// Short-term trend: current price vs the 7-day average, 3% band.
	switch {
	case current > s.Avg7*1.03:
		s.Trend = Rising
	case current < s.Avg7*0.97:
		s.Trend = Falling
	default:
		s.Trend = Stable
	}

	// Buy target: volatility-scaled discount off the current price, blended
	// with a floor anchored 30% of the way up from the 30-day low toward the
	// average, and never below 2% above the observed low.
	discount := spreadPercent(s.Volatility)
	if s.Trend == Falling {
		discount += 3
	}
	buyCandidate := current * (1 - discount/100)
	buyAnchor := low30 + 0.30*(avg30-low30)
	s.SuggestedBuy = math.Max(low30*1.02, math.Min(buyCandidate, buyAnchor))

	// Sell target: symmetric premium, ceiling anchored 30% below the 30-day
	// high from the average, never above 2% below the observed high.
	premium := spreadPercent(s.Volatility)
	if s.Trend == Rising {
		premium += 2
	}
	sellCandidate := current * (1 + premium/100)
	sellAnchor := high30 - 0.30*(high30-avg30)
	s.SuggestedSell = math.Min(high30*0.98, math.Max(sellCandidate, sellAnchor))

	s.PotentialProfit = s.SuggestedSell - s.SuggestedBuy
	if s.SuggestedBuy > 0 {
		s.PotentialROI = s.PotentialProfit / s.SuggestedBuy * 100
	}

	s.Confidence, s.ConfidenceReason = confidence(s, current)
	return s, nil
}

// spreadPercent widens the base 5% offer spread as volatility grows.
func spreadPercent(volatility float64) float64 {
	switch {
	case volatility > 20:
		return 12
	case volatility > 10:
		return 8
	default:
		return 5
	}
}

func confidence(s *PriceSuggestion, current float64) (Confidence, string) {
	conf := Medium
	reason := fmt.Sprintf("volatility %.1f%% and expected ROI %.1f%% are both unremarkable", s.Volatility, s.PotentialROI)

	switch {
	case s.Volatility >= 5 && s.Volatility < 20 && s.PotentialROI >= 8:
		conf = High
		reason = fmt.Sprintf("volatility %.1f%% is in a healthy band and expected ROI %.1f%% is strong", s.Volatility, s.PotentialROI)
	case s.Volatility > 20 || s.PotentialROI < 5:
		conf = Low
		reason = fmt.Sprintf("volatility %.1f%% or expected ROI %.1f%% makes both targets unreliable", s.Volatility, s.PotentialROI)
	}

	// Momentum overrides: a rise with room left below the average is a
	// stronger setup than the bands alone suggest, and a fall from above the
	// average undercuts them.
	if s.Trend == Rising && current < s.Avg30 {
		return High, "price is rising while still below the 30-day average"
	}
	if s.Trend == Falling && current > s.Avg30 {
		return Medium, "price is falling while still above the 30-day average"
	}

	return conf, reason
}
