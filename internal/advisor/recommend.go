package advisor

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"ge-flip-tracker/internal/models"
	"go.uber.org/zap"
)

const (
	maxRecommendations = 5
	// rankerPayloadLimit bounds the item list sent to the external ranker.
	rankerPayloadLimit = 30
)

// RankedItem is one entry of the external ranker's reply.
type RankedItem struct {
	ItemName string `json:"item_name"`
	Reason   string `json:"reason"`
}

// Ranker is the external reasoning service that orders candidate items. Its
// output is untrusted and validated against the supplied candidates.
type Ranker interface {
	Rank(ctx context.Context, profile *TradingProfile, items []ItemStats) ([]RankedItem, error)
}

// Recommendation is a ranked item drawn from the user's own trade history.
// Confidence, risk and hold estimates come from the item's statistics, not
// from the ranker, so the labels stay trustworthy when the ranker misbehaves.
type Recommendation struct {
	ItemName      string  `json:"item_name"`
	Reason        string  `json:"reason"`
	Confidence    string  `json:"confidence"` // high, medium, low
	Risk          string  `json:"risk"`       // low, medium, high
	EstimatedHold int     `json:"estimated_hold_days"`
	AvgROI        float64 `json:"avg_roi"`
	WinRate       float64 `json:"win_rate"`
	TotalProfit   int64   `json:"total_profit"`
}

// Advisor builds trading profiles and personalized recommendations. A nil
// ranker disables the external service entirely.
type Advisor struct {
	ranker Ranker
	logger *zap.Logger
}

// NewAdvisor creates an advisor. Pass a nil ranker, or a disabled
// *LLMRanker, to always use the profit-ranked fallback.
func NewAdvisor(ranker Ranker, logger *zap.Logger) *Advisor {
	// NewLLMRanker returns a typed nil when disabled; normalize it here so
	// the nil check in Recommend sees a plain nil interface.
	if r, ok := ranker.(*LLMRanker); ok && r == nil {
		ranker = nil
	}
	return &Advisor{ranker: ranker, logger: logger}
}

// Recommend returns up to five items worth flipping again, drawn only from
// items the user has completed flips in and holds no open position in. The
// external ranker is consulted only when more than five items are eligible;
// any of its failures or fabrications degrade to ranking by total profit.
func (a *Advisor) Recommend(ctx context.Context, flips []models.Flip) []Recommendation {
	items := aggregateItems(flips)

	// An open position in an item disqualifies it.
	for _, f := range flips {
		if f.SellPrice == nil {
			delete(items, strings.ToLower(f.ItemName))
		}
	}

	eligible := make([]ItemStats, 0, len(items))
	for _, it := range items {
		eligible = append(eligible, *it)
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].TotalProfit != eligible[j].TotalProfit {
			return eligible[i].TotalProfit > eligible[j].TotalProfit
		}
		return eligible[i].ItemName < eligible[j].ItemName
	})

	if len(eligible) <= maxRecommendations || a.ranker == nil {
		return a.fromStats(eligible, nil)
	}

	// Bound the payload to the most-traded candidates.
	byFrequency := make([]ItemStats, len(eligible))
	copy(byFrequency, eligible)
	sort.Slice(byFrequency, func(i, j int) bool {
		if byFrequency[i].Trades != byFrequency[j].Trades {
			return byFrequency[i].Trades > byFrequency[j].Trades
		}
		return byFrequency[i].ItemName < byFrequency[j].ItemName
	})
	if len(byFrequency) > rankerPayloadLimit {
		byFrequency = byFrequency[:rankerPayloadLimit]
	}

	ranked, err := a.ranker.Rank(ctx, BuildProfile(flips), byFrequency)
	if err != nil {
		a.logger.Warn("external ranker failed, falling back to profit ranking", zap.Error(err))
		return a.fromStats(eligible, nil)
	}

	// Keep only replies naming an item we actually offered.
	offered := make(map[string]ItemStats, len(byFrequency))
	for _, it := range byFrequency {
		offered[strings.ToLower(it.ItemName)] = it
	}

	var picked []ItemStats
	reasons := map[string]string{}
	seen := map[string]struct{}{}
	for _, r := range ranked {
		key := strings.ToLower(strings.TrimSpace(r.ItemName))
		it, ok := offered[key]
		if !ok {
			a.logger.Warn("ranker suggested an unknown item, discarding", zap.String("item", r.ItemName))
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		picked = append(picked, it)
		reasons[key] = r.Reason
		if len(picked) == maxRecommendations {
			break
		}
	}

	// Backfill any shortfall with the next best untouched items by profit.
	for _, it := range eligible {
		if len(picked) == maxRecommendations {
			break
		}
		key := strings.ToLower(it.ItemName)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		picked = append(picked, it)
	}

	return a.fromStats(picked, reasons)
}

// fromStats maps item statistics to recommendations with deterministic
// confidence, risk and hold labels.
func (a *Advisor) fromStats(items []ItemStats, reasons map[string]string) []Recommendation {
	if len(items) > maxRecommendations {
		items = items[:maxRecommendations]
	}

	recs := make([]Recommendation, 0, len(items))
	for _, it := range items {
		rec := Recommendation{
			ItemName:      it.ItemName,
			Confidence:    confidenceLabel(it),
			Risk:          riskLabel(it),
			EstimatedHold: holdEstimate(it),
			AvgROI:        it.AvgROI,
			WinRate:       it.WinRate,
			TotalProfit:   it.TotalProfit,
			Reason:        defaultReason(it),
		}
		if reasons != nil {
			if r, ok := reasons[strings.ToLower(it.ItemName)]; ok && r != "" {
				rec.Reason = r
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

func confidenceLabel(it ItemStats) string {
	switch {
	case it.WinRate >= 70 && it.AvgROI >= 5:
		return "high"
	case it.WinRate < 50:
		return "low"
	default:
		return "medium"
	}
}

func riskLabel(it ItemStats) string {
	switch {
	case it.WinRate < 45 || it.AvgROI > 20:
		return "high"
	case it.WinRate >= 65:
		return "low"
	default:
		return "medium"
	}
}

func holdEstimate(it ItemStats) int {
	days := int(math.Round(it.AvgHoldDays))
	if days < 1 {
		days = 1
	}
	return days
}

func defaultReason(it ItemStats) string {
	return fmt.Sprintf("previously profitable for you: %d gp over %d flips", it.TotalProfit, it.Trades)
}
