package tax

import (
	"math"
	"strings"
	"time"

	"ge-flip-tracker/internal/models"
)

const (
	// RatePercent is the Grand Exchange sale tax, applied per unit.
	RatePercent = 2
	// MaxTotalTax caps the total tax on a single sale regardless of quantity.
	MaxTotalTax int64 = 5_000_000
	// ExemptThreshold is the highest per-unit sell price that sells tax free.
	ExemptThreshold int64 = 49
)

// exemptItemIDs is the fixed allow-list of tax-exempt instruments.
var exemptItemIDs = map[int]struct{}{
	13190: {}, // Old school bond
}

// exemptNameFragments is the fallback when only a name is known.
var exemptNameFragments = []string{"bond"}

// Input describes a single sale to be taxed. ItemID and ItemName are optional
// and only consulted for the exemption lookup.
type Input struct {
	SellPrice int64
	BuyPrice  int64
	Quantity  int64
	ItemID    int
	ItemName  string
}

// Result carries every figure derived from a taxed sale. TaxPerItem is a
// float because the 5M cap redistributes the total back over the quantity,
// which need not divide evenly; TaxPerItem * Quantity always equals TotalTax.
type Result struct {
	TaxPerItem    float64
	TotalTax      int64
	NetSellPrice  float64 // per item, after tax
	NetSellTotal  int64
	GrossTotal    int64
	Profit        int64
	ProfitPerItem float64
	ROIPercent    float64 // rounded to 2 decimal places
	Exempt        bool
	ExemptReason  string
}

// Calculate computes tax, net proceeds, profit and ROI for a completed sale.
// It is a total function over positive prices; input validation is the
// caller's responsibility.
// A quantity of zero never divides: every per-item figure is reported as 0.
func Calculate(in Input) Result {
	qty := in.Quantity
	if qty < 0 {
		qty = 0
	}

	res := Result{GrossTotal: in.SellPrice * qty}

	exempt, reason := exemption(in.SellPrice, in.ItemID, in.ItemName)
	if exempt {
		res.Exempt = true
		res.ExemptReason = reason
	} else {
		// 2% of the per-unit price, floored per unit before scaling up.
		perItem := in.SellPrice * RatePercent / 100
		total := perItem * qty
		switch {
		case total > MaxTotalTax:
			total = MaxTotalTax
			res.TaxPerItem = float64(total) / float64(qty)
		case qty > 0:
			res.TaxPerItem = float64(perItem)
		}
		res.TotalTax = total
	}

	res.NetSellTotal = res.GrossTotal - res.TotalTax

	cost := in.BuyPrice * qty
	res.Profit = res.NetSellTotal - cost
	if qty > 0 {
		res.NetSellPrice = float64(res.NetSellTotal) / float64(qty)
		res.ProfitPerItem = float64(res.Profit) / float64(qty)
	}
	if cost > 0 {
		res.ROIPercent = round2(float64(res.Profit) / float64(cost) * 100)
	}

	return res
}

// Outcome is the tax-aware result for a stored flip. Tax, Profit and ROI are
// nil while the position is still open.
type Outcome struct {
	Open   bool
	Tax    *int64
	Profit *int64
	ROI    *float64
}

// ForFlip evaluates a flip record. Open positions report nil figures so the
// consuming layer can render an explicit "no result yet" state.
func ForFlip(f *models.Flip) Outcome {
	if !f.Completed() {
		return Outcome{Open: true}
	}

	itemID := 0
	if f.ItemID != nil {
		itemID = *f.ItemID
	}
	res := Calculate(Input{
		SellPrice: *f.SellPrice,
		BuyPrice:  f.BuyPrice,
		Quantity:  f.Quantity,
		ItemID:    itemID,
		ItemName:  f.ItemName,
	})

	roi := res.ROIPercent
	return Outcome{Tax: &res.TotalTax, Profit: &res.Profit, ROI: &roi}
}

// HoldDays returns the flip's hold time in whole days, at least 0.
func HoldDays(f *models.Flip, now time.Time) int {
	d := int(f.HoldDuration(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func exemption(sellPrice int64, itemID int, itemName string) (bool, string) {
	if _, ok := exemptItemIDs[itemID]; ok {
		return true, "item is tax exempt"
	}
	if itemName != "" {
		lower := strings.ToLower(itemName)
		for _, frag := range exemptNameFragments {
			if strings.Contains(lower, frag) {
				return true, "item is tax exempt"
			}
		}
	}
	if sellPrice <= ExemptThreshold {
		return true, "sale price at or below 49 gp"
	}
	return false, ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
