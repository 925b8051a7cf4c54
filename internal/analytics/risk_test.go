package analytics

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal-go/internal/journal"
)

func TestCategorizeRisk(t *testing.T) {
	testCases := []struct {
		pct  float64
		want RiskCategory
	}{
		{0, LowRisk},
		{1, LowRisk},
		{1.01, MediumRisk},
		{2, MediumRisk},
		{2.5, HighRisk},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, CategorizeRisk(tc.pct), "pct %v", tc.pct)
	}
}

func TestAssessRisk(t *testing.T) {
	r, ok := AssessRisk(closedTrade("AAPL", journal.Long, 10, 100, 104, 98, day0))
	require.True(t, ok)
	assert.InDelta(t, 20.0, r.RiskAmount, 1e-9)
	assert.InDelta(t, 1000.0, r.PositionValue, 1e-9)
	assert.InDelta(t, 2.0, r.RiskPercent, 1e-9)
	assert.Equal(t, MediumRisk, r.Category)

	_, ok = AssessRisk(openTrade("ZERO", journal.Long, 0, 100, 100, 98, day0))
	assert.False(t, ok)
}

func TestAnalyzeRisk(t *testing.T) {
	trades := []journal.Trade{
		openTrade("AAPL", journal.Long, 10, 100, 100, 98, day0),
		openTrade("MSFT", journal.Long, 1, 100, 100, 90, day0),
		openTrade("ZERO", journal.Long, 0, 100, 100, 50, day0),
	}

	rep := AnalyzeRisk(trades)

	assert.Equal(t, 2, rep.IncludedTrades)
	assert.InDelta(t, 6.0, rep.AvgRiskPerTrade, 1e-9)
	assert.InDelta(t, 30.0/1100.0*100, rep.PortfolioHeat, 1e-9)
	assert.InDelta(t, 0.0, rep.LowRisk, 1e-9)
	assert.InDelta(t, 50.0, rep.MediumRisk, 1e-9)
	assert.InDelta(t, 50.0, rep.HighRisk, 1e-9)
	assert.InDelta(t, 100.0, rep.LowRisk+rep.MediumRisk+rep.HighRisk, 1e-9)
	assert.Equal(t, 65, rep.Score)
	assert.Equal(t, MediumRisk, rep.Level)
}

func TestAnalyzeRisk_Empty(t *testing.T) {
	assert.Equal(t, RiskReport{}, AnalyzeRisk(nil))
	assert.Equal(t, RiskReport{}, AnalyzeRisk([]journal.Trade{
		openTrade("ZERO", journal.Long, 0, 100, 100, 50, day0),
	}))
}

func TestAnalyzeRisk_AllLow(t *testing.T) {
	rep := AnalyzeRisk([]journal.Trade{
		openTrade("A", journal.Long, 100, 100, 100, 99.5, day0),
		openTrade("B", journal.Short, 100, 100, 100, 100.5, day0),
	})

	assert.InDelta(t, 100.0, rep.LowRisk, 1e-9)
	assert.Equal(t, 20, rep.Score)
	assert.Equal(t, LowRisk, rep.Level)
}

func TestAnalyzeRisk_OverflowingPercentExcluded(t *testing.T) {
	tiny := openTrade("TINY", journal.Short, 1, 1e-300, 1e-300, 1e300, day0)
	_, ok := AssessRisk(tiny)
	assert.False(t, ok)

	rep := AnalyzeRisk([]journal.Trade{
		tiny,
		openTrade("AAPL", journal.Long, 10, 100, 100, 98, day0),
	})

	assert.Equal(t, 1, rep.IncludedTrades)
	assert.InDelta(t, 2.0, rep.AvgRiskPerTrade, 1e-9)
	assert.InDelta(t, 2.0, rep.PortfolioHeat, 1e-9)
	_, err := json.Marshal(rep)
	assert.NoError(t, err)
}

func TestAnalyzeRisk_HeatIgnoresOrder(t *testing.T) {
	trades := []journal.Trade{
		openTrade("AAPL", journal.Long, 10, 100, 100, 98, day0),
		openTrade("MSFT", journal.Long, 1, 300, 300, 270, day0),
		openTrade("TSLA", journal.Short, 7, 50, 50, 50.4, day0),
		openTrade("NVDA", journal.Long, 3, 900, 900, 880, day0),
		openTrade("ZERO", journal.Long, 0, 100, 100, 50, day0),
	}
	want := AnalyzeRisk(trades)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]journal.Trade(nil), trades...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := AnalyzeRisk(shuffled)
		assert.InDelta(t, want.PortfolioHeat, got.PortfolioHeat, 1e-9)
		assert.InDelta(t, want.AvgRiskPerTrade, got.AvgRiskPerTrade, 1e-9)
		assert.Equal(t, want.Score, got.Score)
	}
}
