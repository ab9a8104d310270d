package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestPricesInsufficientData(t *testing.T) {
	_, err := SuggestPrices(series(100))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSuggestPricesBounds(t *testing.T) {
	// For any non-degenerate series the suggestions stay inside the observed
	// 30-day range: buy at least 2% above the low, sell at least 2% below
	// the high.
	cases := [][]float64{
		{100, 102, 98, 105, 95, 110, 90, 108, 97, 103, 99, 101, 104, 96, 107, 93, 100, 102, 98, 105, 95, 110, 90, 108, 97, 103, 99, 101, 104, 96},
		{1000, 1010, 1020, 1030, 1040, 1050, 1060, 1070, 1080, 1090, 1100, 1110, 1120, 1130, 1140, 1150, 1160, 1170, 1180, 1190, 1200, 1210, 1220, 1230, 1240, 1250, 1260, 1270, 1280, 1290},
		{500, 480, 460, 440, 420, 400, 380, 360, 340, 320, 300, 290, 280, 270, 260, 250, 240, 230, 220, 210, 200, 195, 190, 185, 180, 175, 170, 165, 160, 155},
	}

	for _, prices := range cases {
		s, err := SuggestPrices(series(prices...))
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, s.SuggestedBuy, s.Low30*1.02-1e-9)
		assert.LessOrEqual(t, s.SuggestedSell, s.High30*0.98+1e-9)
	}
}

func TestSuggestPricesVolatilityWidensSpread(t *testing.T) {
	calm := []float64{100, 101, 100, 99, 100, 101, 100, 99, 100, 101, 100, 99, 100, 101, 100, 99, 100, 101, 100, 99, 100, 101, 100, 99, 100, 101, 100, 99, 100, 100}
	// Ends near its own 7-day average so the momentum overrides stay out of
	// the way and the volatility band alone decides the confidence.
	wild := []float64{100, 140, 70, 130, 80, 150, 60, 120, 90, 160, 50, 110, 100, 140, 70, 130, 80, 150, 60, 120, 90, 160, 50, 110, 100, 140, 70, 130, 80, 105}

	calmSug, err := SuggestPrices(series(calm...))
	assert.NoError(t, err)
	wildSug, err := SuggestPrices(series(wild...))
	assert.NoError(t, err)

	assert.Less(t, calmSug.Volatility, 5.0)
	assert.Greater(t, wildSug.Volatility, 20.0)
	// High volatility caps confidence at low.
	assert.Equal(t, Low, wildSug.Confidence)
}

func TestSuggestPricesTrendClassification(t *testing.T) {
	testCases := []struct {
		name   string
		prices []float64
		want   Direction
	}{
		{
			name:   "rising when current is 3% above the 7-day average",
			prices: append(repeat(100, 27), 100, 105, 115),
			want:   Rising,
		},
		{
			name:   "falling when current is 3% below the 7-day average",
			prices: append(repeat(100, 27), 100, 95, 85),
			want:   Falling,
		},
		{
			name:   "stable inside the band",
			prices: repeat(100, 30),
			want:   Stable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := SuggestPrices(series(tc.prices...))
			assert.NoError(t, err)
			assert.Equal(t, tc.want, s.Trend)
		})
	}
}

func TestSuggestPricesConfidenceOverrides(t *testing.T) {
	t.Run("rising below the 30-day average upgrades to high", func(t *testing.T) {
		// High early prices, a deep dip, then a sharp recovery: short-term
		// rising while still below the 30-day average.
		prices := append(repeat(120, 20), 80, 80, 80, 80, 80, 80, 80, 90, 95, 100)

		s, err := SuggestPrices(series(prices...))
		assert.NoError(t, err)
		assert.Equal(t, Rising, s.Trend)
		assert.Equal(t, High, s.Confidence)
		assert.Contains(t, s.ConfidenceReason, "rising")
	})

	t.Run("falling from above the 30-day average settles at medium", func(t *testing.T) {
		prices := append(repeat(100, 20), 140, 140, 140, 140, 140, 140, 140, 135, 128, 120)

		s, err := SuggestPrices(series(prices...))
		assert.NoError(t, err)
		assert.Equal(t, Falling, s.Trend)
		assert.Equal(t, Medium, s.Confidence)
		assert.Contains(t, s.ConfidenceReason, "falling")
	})
}

func TestSuggestPricesDegenerateFlatSeries(t *testing.T) {
	// A flat series pins the suggestions to the 2% clamps, which inverts the
	// spread and forces low confidence.
	s, err := SuggestPrices(series(repeat(100, 30)...))
	assert.NoError(t, err)
	assert.InDelta(t, 102.0, s.SuggestedBuy, 0.001)
	assert.InDelta(t, 98.0, s.SuggestedSell, 0.001)
	assert.Less(t, s.PotentialROI, 0.0)
	assert.Equal(t, Low, s.Confidence)
}
