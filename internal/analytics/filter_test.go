package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal-go/internal/journal"
)

func journalFixture() []journal.Trade {
	return []journal.Trade{
		closedTrade("AAPL", journal.Long, 10, 100, 104, 98, day0),
		closedTrade("TSLA", journal.Short, 5, 50, 55, 52, day0.AddDate(0, 0, 1)),
		openTrade("MSFT", journal.Long, 2, 200, 230, 190, day0.AddDate(0, 0, 2)),
		openTrade("AAPLX", journal.Short, 1, 10, 10, 11, day0.AddDate(0, 0, 3)),
	}
}

func symbols(trades []journal.Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.Symbol
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	trades := journalFixture()

	testCases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", want: []string{"AAPL", "TSLA", "MSFT", "AAPLX"}},
		{name: "symbol substring", filter: Filter{Symbol: "aap"}, want: []string{"AAPL", "AAPLX"}},
		{name: "short side", filter: Filter{Side: journal.Short}, want: []string{"TSLA", "AAPLX"}},
		{name: "open", filter: Filter{Status: journal.StatusOpen}, want: []string{"MSFT", "AAPLX"}},
		{name: "closed", filter: Filter{Status: journal.StatusClosed}, want: []string{"AAPL", "TSLA"}},
		{name: "from", filter: Filter{From: day0.AddDate(0, 0, 2)}, want: []string{"MSFT", "AAPLX"}},
		{name: "to", filter: Filter{To: day0}, want: []string{"AAPL"}},
		{name: "profitable", filter: Filter{Profitability: Profitable}, want: []string{"AAPL", "MSFT"}},
		{name: "unprofitable", filter: Filter{Profitability: Unprofitable}, want: []string{"TSLA"}},
		{name: "combined", filter: Filter{Side: journal.Long, Status: journal.StatusOpen}, want: []string{"MSFT"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, symbols(tc.filter.Apply(trades)))
		})
	}
}

func TestSortTrades(t *testing.T) {
	trades := journalFixture()

	testCases := []struct {
		field SortField
		desc  bool
		want  []string
	}{
		{SortByDate, true, []string{"AAPLX", "MSFT", "TSLA", "AAPL"}},
		{SortBySymbol, false, []string{"AAPL", "AAPLX", "MSFT", "TSLA"}},
		{SortByQuantity, true, []string{"AAPL", "TSLA", "MSFT", "AAPLX"}},
		{SortByPrice, false, []string{"AAPLX", "TSLA", "AAPL", "MSFT"}},
		{SortByPnL, true, []string{"MSFT", "AAPL", "AAPLX", "TSLA"}},
		{SortBySide, false, []string{"AAPL", "MSFT", "TSLA", "AAPLX"}},
		{"unknown", false, []string{"AAPL", "TSLA", "MSFT", "AAPLX"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.field), func(t *testing.T) {
			assert.Equal(t, tc.want, symbols(SortTrades(trades, tc.field, tc.desc)))
		})
	}

	assert.Equal(t, "AAPL", trades[0].Symbol, "input must not be reordered")
}

func TestPaginate(t *testing.T) {
	trades := journalFixture()

	p := Paginate(trades, 2, 3)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.TotalPages)
	require.Len(t, p.Trades, 1)
	assert.Equal(t, "AAPLX", p.Trades[0].Symbol)

	beyond := Paginate(trades, 5, 3)
	assert.Empty(t, beyond.Trades)

	all := Paginate(trades, 0, 0)
	assert.Len(t, all.Trades, 4)
	assert.Equal(t, 1, all.TotalPages)

	huge := Paginate(trades, math.MaxInt, 2)
	assert.Empty(t, huge.Trades)
	assert.Equal(t, 2, huge.TotalPages)

	wide := Paginate(trades, 1, math.MaxInt)
	assert.Len(t, wide.Trades, 4)
	assert.Equal(t, 1, wide.TotalPages)

	none := Paginate(nil, 1, 10)
	assert.Zero(t, none.TotalPages)
	assert.NotNil(t, none.Trades)
}
