package advisor

import (
	"sort"
	"strings"
	"time"

	"ge-flip-tracker/internal/models"
	"ge-flip-tracker/internal/tax"
)

// ItemStats aggregates a user's completed flips of one item.
type ItemStats struct {
	ItemName     string   `json:"item_name"`
	Trades       int      `json:"trades"`
	TotalProfit  int64    `json:"total_profit"`
	AvgBuyPrice  float64  `json:"avg_buy_price"`
	AvgSellPrice float64  `json:"avg_sell_price"`
	AvgROI       float64  `json:"avg_roi"`
	WinRate      float64  `json:"win_rate"` // percent of profitable flips
	AvgHoldDays  float64  `json:"avg_hold_days"`
	Strategies   []string `json:"strategies,omitempty"`
}

// StrategyStats aggregates the flips tagged with one strategy.
type StrategyStats struct {
	Trades  int     `json:"trades"`
	AvgROI  float64 `json:"avg_roi"`
	WinRate float64 `json:"win_rate"`
}

// TradingProfile is the derived picture of how a user trades. It is rebuilt
// on demand from the stored flips and never persisted.
type TradingProfile struct {
	TotalFlips      int                      `json:"total_flips"`
	WinRate         float64                  `json:"win_rate"`
	AvgROI          float64                  `json:"avg_roi"`
	AvgHoldDays     float64                  `json:"avg_hold_days"`
	RiskTolerance   string                   `json:"risk_tolerance"` // conservative, moderate, aggressive
	PreferredMin    int64                    `json:"preferred_min_price"`
	PreferredMax    int64                    `json:"preferred_max_price"`
	MembersBias     string                   `json:"members_bias"` // members, free-to-play, mixed
	Strategies      map[string]StrategyStats `json:"strategies"`
	BestItems       []ItemStats              `json:"best_items"`        // by total profit
	MostTradedItems []ItemStats              `json:"most_traded_items"` // by trade count
}

// BuildProfile aggregates the user's completed flips into a trading profile.
// Open and tombstoned flips are the caller's job to exclude; completion is
// re-checked here so a mixed slice still yields a correct profile.
func BuildProfile(flips []models.Flip) *TradingProfile {
	profile := &TradingProfile{Strategies: map[string]StrategyStats{}}

	items := aggregateItems(flips)
	if len(items) == 0 {
		return profile
	}

	type stratAgg struct {
		trades int
		roiSum float64
		wins   int
	}
	strategies := map[string]*stratAgg{}

	var (
		roiSum, holdSum float64
		wins, members   int
		minBuy, maxBuy  int64
	)
	for _, f := range flips {
		if !f.Completed() {
			continue
		}
		outcome := tax.ForFlip(&f)
		profile.TotalFlips++
		roiSum += *outcome.ROI
		holdSum += float64(tax.HoldDays(&f, time.Now()))
		if *outcome.Profit > 0 {
			wins++
		}
		if f.MembersItem {
			members++
		}
		cost := f.BuyPrice
		if minBuy == 0 || cost < minBuy {
			minBuy = cost
		}
		if cost > maxBuy {
			maxBuy = cost
		}
		if f.Strategy != "" {
			agg := strategies[f.Strategy]
			if agg == nil {
				agg = &stratAgg{}
				strategies[f.Strategy] = agg
			}
			agg.trades++
			agg.roiSum += *outcome.ROI
			if *outcome.Profit > 0 {
				agg.wins++
			}
		}
	}

	if profile.TotalFlips == 0 {
		return profile
	}

	n := float64(profile.TotalFlips)
	profile.WinRate = float64(wins) / n * 100
	profile.AvgROI = roiSum / n
	profile.AvgHoldDays = holdSum / n
	profile.PreferredMin = minBuy
	profile.PreferredMax = maxBuy

	avgBuy := 0.0
	for _, it := range items {
		avgBuy += it.AvgBuyPrice * float64(it.Trades)
	}
	avgBuy /= n
	profile.RiskTolerance = classifyRisk(avgBuy, profile.AvgROI, profile.WinRate)

	switch membersShare := float64(members) / n; {
	case membersShare > 0.7:
		profile.MembersBias = "members"
	case membersShare < 0.3:
		profile.MembersBias = "free-to-play"
	default:
		profile.MembersBias = "mixed"
	}

	for name, agg := range strategies {
		profile.Strategies[name] = StrategyStats{
			Trades:  agg.trades,
			AvgROI:  agg.roiSum / float64(agg.trades),
			WinRate: float64(agg.wins) / float64(agg.trades) * 100,
		}
	}

	profile.BestItems = topBy(items, 5, func(a, b ItemStats) bool { return a.TotalProfit > b.TotalProfit })
	profile.MostTradedItems = topBy(items, 5, func(a, b ItemStats) bool { return a.Trades > b.Trades })

	return profile
}

// classifyRisk buckets a trader by the size and swing of their flips.
func classifyRisk(avgBuyPrice, avgROI, winRate float64) string {
	switch {
	case avgBuyPrice > 10_000_000 || avgROI > 15:
		return "aggressive"
	case winRate >= 65 && avgBuyPrice < 1_000_000:
		return "conservative"
	default:
		return "moderate"
	}
}

// aggregateItems folds completed flips into per-item statistics, keyed by
// lowercase item name.
func aggregateItems(flips []models.Flip) map[string]*ItemStats {
	type itemAgg struct {
		stats      ItemStats
		roiSum     float64
		buySum     float64
		sellSum    float64
		holdSum    float64
		wins       int
		strategies map[string]struct{}
	}
	aggs := map[string]*itemAgg{}

	for _, f := range flips {
		if !f.Completed() {
			continue
		}
		key := strings.ToLower(f.ItemName)
		agg := aggs[key]
		if agg == nil {
			agg = &itemAgg{stats: ItemStats{ItemName: f.ItemName}, strategies: map[string]struct{}{}}
			aggs[key] = agg
		}

		outcome := tax.ForFlip(&f)
		agg.stats.Trades++
		agg.stats.TotalProfit += *outcome.Profit
		agg.roiSum += *outcome.ROI
		agg.buySum += float64(f.BuyPrice)
		agg.sellSum += float64(*f.SellPrice)
		agg.holdSum += float64(tax.HoldDays(&f, time.Now()))
		if *outcome.Profit > 0 {
			agg.wins++
		}
		if f.Strategy != "" {
			agg.strategies[f.Strategy] = struct{}{}
		}
	}

	items := make(map[string]*ItemStats, len(aggs))
	for key, agg := range aggs {
		n := float64(agg.stats.Trades)
		st := agg.stats
		st.AvgROI = agg.roiSum / n
		st.AvgBuyPrice = agg.buySum / n
		st.AvgSellPrice = agg.sellSum / n
		st.AvgHoldDays = agg.holdSum / n
		st.WinRate = float64(agg.wins) / n * 100
		for s := range agg.strategies {
			st.Strategies = append(st.Strategies, s)
		}
		sort.Strings(st.Strategies)
		items[key] = &st
	}
	return items
}

func topBy(items map[string]*ItemStats, limit int, less func(a, b ItemStats) bool) []ItemStats {
	out := make([]ItemStats, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if less(out[i], out[j]) != less(out[j], out[i]) {
			return less(out[i], out[j])
		}
		return out[i].ItemName < out[j].ItemName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
