package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal-go/internal/journal"
)

func TestProjectValueSeries(t *testing.T) {
	trades := []journal.Trade{
		closedTrade("TSLA", journal.Short, 5, 50, 55, 52, day0.AddDate(0, 0, 1)),
		closedTrade("AAPL", journal.Long, 10, 100, 104, 98, day0),
	}
	current := CurrentAccountValue(100000, trades)

	series := ProjectValueSeries(trades, 100000, current)

	require.Len(t, series.Points, 3)
	assert.Equal(t, ValuePoint{Label: StartLabel, Value: 100000}, series.Points[0])
	assert.Equal(t, "2024-03-04", series.Points[1].Label)
	assert.InDelta(t, 100040.0, series.Points[1].Value, 1e-9)
	assert.Equal(t, "2024-03-05", series.Points[2].Label)
	assert.InDelta(t, 100015.0, series.Points[2].Value, 1e-9)
	assert.Equal(t, Domain{Min: 99900, Max: 100100}, series.Domain)
}

func TestProjectValueSeries_AppendsCurrent(t *testing.T) {
	undated := closedTrade("NVDA", journal.Long, 1, 100, 150, 90, time.Time{})
	trades := []journal.Trade{
		closedTrade("AAPL", journal.Long, 10, 100, 104, 98, day0),
		undated,
	}
	current := CurrentAccountValue(100000, trades)

	series := ProjectValueSeries(trades, 100000, current)

	require.Len(t, series.Points, 3)
	last := series.Points[len(series.Points)-1]
	assert.Equal(t, CurrentLabel, last.Label)
	assert.InDelta(t, 100090.0, last.Value, 1e-9)
}

func TestProjectValueSeries_Empty(t *testing.T) {
	series := ProjectValueSeries(nil, 100000, 100000)

	require.Len(t, series.Points, 1)
	assert.Equal(t, StartLabel, series.Points[0].Label)
	assert.Equal(t, Domain{Min: 100000, Max: 100000}, series.Domain)
}

func TestProjectValueSeries_StableForEqualTimestamps(t *testing.T) {
	trades := []journal.Trade{
		closedTrade("A", journal.Long, 1, 100, 110, 90, day0),
		closedTrade("B", journal.Long, 1, 100, 80, 90, day0),
	}

	series := ProjectValueSeries(trades, 1000, CurrentAccountValue(1000, trades))

	require.Len(t, series.Points, 3)
	assert.InDelta(t, 1010.0, series.Points[1].Value, 1e-9)
	assert.InDelta(t, 990.0, series.Points[2].Value, 1e-9)
}

func TestProjectValueSeries_EndsAtCurrentValue(t *testing.T) {
	trades := []journal.Trade{
		openTrade("A", journal.Long, 3, 10, 11, 9, day0),
		closedTrade("B", journal.Short, 7, 20, 19, 21, day0.Add(time.Hour)),
		openTrade("C", journal.Long, 2, 50, 45, 40, time.Time{}),
	}
	current := CurrentAccountValue(500, trades)

	series := ProjectValueSeries(trades, 500, current)

	assert.InDelta(t, current, series.Points[len(series.Points)-1].Value, 1e-9)
}
