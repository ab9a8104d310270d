package tax

import (
	"testing"
	"time"

	"ge-flip-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	testCases := []struct {
		name         string
		in           Input
		wantTaxPer   float64
		wantTaxTotal int64
		wantNetTotal int64
		wantGross    int64
		wantProfit   int64
		wantROI      float64
		wantExempt   bool
	}{
		{
			name:         "basic flip",
			in:           Input{SellPrice: 2_750_000, BuyPrice: 2_500_000, Quantity: 10, ItemName: "Dragon claws"},
			wantTaxPer:   55_000,
			wantTaxTotal: 550_000,
			wantNetTotal: 26_950_000,
			wantGross:    27_500_000,
			wantProfit:   1_950_000,
			wantROI:      7.8,
		},
		{
			name:         "cap triggered",
			in:           Input{SellPrice: 500_000_000, BuyPrice: 490_000_000, Quantity: 10, ItemName: "Elysian sigil"},
			wantTaxPer:   500_000, // 5M cap spread back over 10 units
			wantTaxTotal: 5_000_000,
			wantNetTotal: 4_995_000_000,
			wantGross:    5_000_000_000,
			wantProfit:   95_000_000,
			wantROI:      1.94,
		},
		{
			name:         "sell price at exemption threshold",
			in:           Input{SellPrice: 49, BuyPrice: 40, Quantity: 100, ItemName: "Feather"},
			wantTaxTotal: 0,
			wantNetTotal: 4_900,
			wantGross:    4_900,
			wantProfit:   900,
			wantROI:      22.5,
			wantExempt:   true,
		},
		{
			name:         "sell price just above threshold",
			in:           Input{SellPrice: 50, BuyPrice: 40, Quantity: 100, ItemName: "Feather"},
			wantTaxPer:   1, // floor(50 * 0.02)
			wantTaxTotal: 100,
			wantNetTotal: 4_900,
			wantGross:    5_000,
			wantProfit:   900,
			wantROI:      22.5,
		},
		{
			name:         "exempt low-value item",
			in:           Input{SellPrice: 40, BuyPrice: 30, Quantity: 7},
			wantTaxTotal: 0,
			wantNetTotal: 280,
			wantGross:    280,
			wantProfit:   70,
			wantROI:      33.33,
			wantExempt:   true,
		},
		{
			name:         "exempt by item id",
			in:           Input{SellPrice: 10_000_000, BuyPrice: 9_500_000, Quantity: 1, ItemID: 13190},
			wantTaxTotal: 0,
			wantNetTotal: 10_000_000,
			wantGross:    10_000_000,
			wantProfit:   500_000,
			wantROI:      5.26,
			wantExempt:   true,
		},
		{
			name:         "exempt by name fallback",
			in:           Input{SellPrice: 10_000_000, BuyPrice: 9_500_000, Quantity: 1, ItemName: "Old school BOND"},
			wantTaxTotal: 0,
			wantNetTotal: 10_000_000,
			wantGross:    10_000_000,
			wantProfit:   500_000,
			wantROI:      5.26,
			wantExempt:   true,
		},
		{
			name:         "losing flip has negative ROI",
			in:           Input{SellPrice: 900, BuyPrice: 1_000, Quantity: 1, ItemName: "Yew logs"},
			wantTaxPer:   18,
			wantTaxTotal: 18,
			wantNetTotal: 882,
			wantGross:    900,
			wantProfit:   -118,
			wantROI:      -11.8,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Calculate(tc.in)

			assert.Equal(t, tc.wantTaxTotal, res.TotalTax)
			assert.Equal(t, tc.wantNetTotal, res.NetSellTotal)
			assert.Equal(t, tc.wantGross, res.GrossTotal)
			assert.Equal(t, tc.wantProfit, res.Profit)
			assert.InDelta(t, tc.wantROI, res.ROIPercent, 0.001)
			assert.Equal(t, tc.wantExempt, res.Exempt)
			if tc.wantExempt {
				assert.NotEmpty(t, res.ExemptReason)
			} else {
				assert.InDelta(t, tc.wantTaxPer, res.TaxPerItem, 0.001)
			}

			// Cap consistency: per-unit and total always agree, and net plus
			// tax reassembles the gross figure.
			if tc.in.Quantity > 0 {
				assert.InDelta(t, float64(res.TotalTax), res.TaxPerItem*float64(tc.in.Quantity), 0.001)
			}
			assert.Equal(t, res.GrossTotal, res.NetSellTotal+res.TotalTax)

			// ROI sign tracks profit sign.
			if res.Profit > 0 {
				assert.Greater(t, res.ROIPercent, 0.0)
			} else if res.Profit < 0 {
				assert.Less(t, res.ROIPercent, 0.0)
			}
		})
	}
}

func TestCalculateZeroQuantity(t *testing.T) {
	res := Calculate(Input{SellPrice: 1_000, BuyPrice: 900, Quantity: 0, ItemName: "Rune arrow"})

	assert.Equal(t, int64(0), res.GrossTotal)
	assert.Equal(t, int64(0), res.TotalTax)
	assert.Equal(t, 0.0, res.TaxPerItem)
	assert.Equal(t, 0.0, res.NetSellPrice)
	assert.Equal(t, 0.0, res.ProfitPerItem)
}

func TestTaxFloorProperty(t *testing.T) {
	// Total tax is always min(floor(p*0.02)*q, 5M) for non-exempt sales.
	for _, p := range []int64{50, 99, 100, 101, 12_345, 1_000_000, 333_333_333} {
		for _, q := range []int64{1, 3, 10, 1_000} {
			res := Calculate(Input{SellPrice: p, BuyPrice: 1, Quantity: q})
			want := p * 2 / 100 * q
			if want > MaxTotalTax {
				want = MaxTotalTax
			}
			assert.Equal(t, want, res.TotalTax, "p=%d q=%d", p, q)
		}
	}
}

func TestForFlip(t *testing.T) {
	now := time.Now()
	sellPrice := int64(2_750_000)

	t.Run("completed flip", func(t *testing.T) {
		flip := &models.Flip{
			ItemName:  "Dragon claws",
			Quantity:  10,
			BuyPrice:  2_500_000,
			BuyDate:   now.AddDate(0, 0, -3),
			SellPrice: &sellPrice,
			SellDate:  &now,
		}

		outcome := ForFlip(flip)
		assert.False(t, outcome.Open)
		assert.Equal(t, int64(550_000), *outcome.Tax)
		assert.Equal(t, int64(1_950_000), *outcome.Profit)
		assert.InDelta(t, 7.8, *outcome.ROI, 0.001)
	})

	t.Run("open flip has no figures", func(t *testing.T) {
		flip := &models.Flip{
			ItemName: "Dragon claws",
			Quantity: 10,
			BuyPrice: 2_500_000,
			BuyDate:  now,
		}

		outcome := ForFlip(flip)
		assert.True(t, outcome.Open)
		assert.Nil(t, outcome.Tax)
		assert.Nil(t, outcome.Profit)
		assert.Nil(t, outcome.ROI)
	})
}
