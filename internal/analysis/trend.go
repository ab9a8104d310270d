package analysis

import (
	"fmt"
	"math"

	"ge-flip-tracker/internal/market"
)

// streakNoisePercent is how far a day may drift from the current price while
// still counting as part of the same streak.
const streakNoisePercent = 2.0

// PriceTrend is the derived directional view of a price series. It is
// computed fresh on every request and never stored.
type PriceTrend struct {
	Direction      Direction `json:"direction"`
	ChangePercent  float64   `json:"change_percent"`
	ChangeAbsolute float64   `json:"change_absolute"`
	StreakDays     int       `json:"streak_days"`
	Avg7           float64   `json:"avg_7d"`
	Avg30          float64   `json:"avg_30d"`
	Low30          float64   `json:"low_30d"`
	High30         float64   `json:"high_30d"`
	Recommendation Action    `json:"recommendation"`
	Reason         string    `json:"reason"`
}

// AnalyzeTrend derives direction, streak, moving averages, the 30-day range
// and a buy/sell/hold recommendation from a chronologically ascending price
// series. Fewer than two points yields ErrInsufficientData instead of a
// partial result.
func AnalyzeTrend(points []market.PricePoint) (*PriceTrend, error) {
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	vals := prices(points)
	current := vals[len(vals)-1]

	last30 := tail(vals, 30)
	low30, high30 := minMax(last30)

	trend := &PriceTrend{
		Avg7:   mean(tail(vals, 7)),
		Avg30:  mean(last30),
		Low30:  low30,
		High30: high30,
	}

	trend.Direction, trend.StreakDays = streak(vals)

	// Change is measured against the price ~7 points back, or the earliest
	// point when the series is shorter.
	refIdx := len(vals) - 8
	if refIdx < 0 {
		refIdx = 0
	}
	ref := vals[refIdx]
	if ref > 0 {
		trend.ChangePercent = (current - ref) / ref * 100
	}
	trend.ChangeAbsolute = current - ref

	trend.Recommendation, trend.Reason = recommend(trend, current)
	return trend, nil
}

// streak walks backward from the most recent point. Days within the noise
// threshold of the current price extend the streak without committing to a
// direction; the first point diverging beyond the threshold sets the
// direction, and the walk continues while further divergences agree with it,
// stopping at the first disagreement. The reported length never drops
// below one day.
func streak(vals []float64) (Direction, int) {
	current := vals[len(vals)-1]
	direction := Stable
	length := 0

	for i := len(vals) - 2; i >= 0; i-- {
		if vals[i] <= 0 {
			break
		}
		diff := (current - vals[i]) / vals[i] * 100
		if math.Abs(diff) < streakNoisePercent {
			length++
			continue
		}
		if direction == Stable {
			if diff > 0 {
				direction = Rising
			} else {
				direction = Falling
			}
			length++
			continue
		}
		if (direction == Rising && diff > 0) || (direction == Falling && diff < 0) {
			length++
			continue
		}
		break
	}

	if length < 1 {
		length = 1
	}
	return direction, length
}

// recommend evaluates the recommendation ladder in priority order; the first
// matching rule wins.
func recommend(t *PriceTrend, current float64) (Action, string) {
	switch {
	case current <= t.Low30*1.10 && t.Direction != Falling:
		return Buy, fmt.Sprintf("price is within 10%% of the 30-day low of %.0f", t.Low30)
	case current >= t.High30*0.90 && t.Direction != Rising:
		return Sell, fmt.Sprintf("price is within 10%% of the 30-day high of %.0f", t.High30)
	case t.Direction == Falling && t.StreakDays >= 5:
		return Hold, fmt.Sprintf("falling for %d days, wait for the price to stabilize", t.StreakDays)
	case t.Direction == Rising && t.StreakDays >= 5 && math.Abs(current-t.Avg30) <= t.Avg30*0.05:
		return Buy, fmt.Sprintf("rising for %d days and still within 5%% of the 30-day average", t.StreakDays)
	case current < t.Avg30*0.95:
		return Buy, fmt.Sprintf("price is %.1f%% below the 30-day average", (1-current/t.Avg30)*100)
	case current > t.Avg30*1.10:
		return Sell, fmt.Sprintf("price is %.1f%% above the 30-day average", (current/t.Avg30-1)*100)
	default:
		return Hold, "price is within its normal range"
	}
}
