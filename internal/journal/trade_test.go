package journal

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func validLong() TradeInput {
	return TradeInput{
		Symbol:       "aapl",
		Side:         Long,
		Quantity:     10,
		EntryPrice:   100,
		CurrentPrice: 100,
		StopLoss:     98,
		TakeProfit:   104,
	}
}

func TestTradeInput_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(in *TradeInput)
		badField string
		message  string
	}{
		{name: "valid long", mutate: func(in *TradeInput) {}},
		{name: "valid short", mutate: func(in *TradeInput) {
			in.Side = Short
			in.StopLoss = 102
			in.TakeProfit = 96
		}},
		{name: "empty symbol", mutate: func(in *TradeInput) { in.Symbol = "  " }, badField: "symbol"},
		{name: "zero quantity", mutate: func(in *TradeInput) { in.Quantity = 0 }, badField: "quantity", message: "Please enter a valid quantity"},
		{name: "nan entry", mutate: func(in *TradeInput) { in.EntryPrice = math.NaN() }, badField: "entry_price"},
		{name: "negative stop", mutate: func(in *TradeInput) { in.StopLoss = -1 }, badField: "stop_loss"},
		{name: "infinite take profit", mutate: func(in *TradeInput) { in.TakeProfit = math.Inf(1) }, badField: "take_profit"},
		{name: "zero exit", mutate: func(in *TradeInput) { in.ExitPrice = ptr(0) }, badField: "exit_price"},
		{name: "long stop above entry", mutate: func(in *TradeInput) { in.StopLoss = 101 }, badField: "stop_loss",
			message: "Stop loss must be below entry price for long positions"},
		{name: "long target below entry", mutate: func(in *TradeInput) { in.TakeProfit = 100 }, badField: "take_profit",
			message: "Take profit must be above entry price for long positions"},
		{name: "short stop below entry", mutate: func(in *TradeInput) {
			in.Side = Short
			in.StopLoss = 99
			in.TakeProfit = 96
		}, badField: "stop_loss", message: "Stop loss must be above entry price for short positions"},
		{name: "short target above entry", mutate: func(in *TradeInput) {
			in.Side = Short
			in.StopLoss = 102
			in.TakeProfit = 101
		}, badField: "take_profit", message: "Take profit must be below entry price for short positions"},
		{name: "unknown side", mutate: func(in *TradeInput) { in.Side = "sideways" }, badField: "side"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validLong()
			tc.mutate(&in)
			err := in.Normalize().Validate()

			if tc.badField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.badField, verr.Field)
			if tc.message != "" {
				assert.Equal(t, tc.message, verr.Message)
			}
		})
	}
}

func TestTradeInput_Normalize(t *testing.T) {
	in := TradeInput{Symbol: " msft ", Side: "SHORT"}.Normalize()
	assert.Equal(t, "MSFT", in.Symbol)
	assert.Equal(t, Short, in.Side)

	in = TradeInput{Symbol: "x"}.Normalize()
	assert.Equal(t, Long, in.Side)
}

func TestTradeInput_WithEntryDefaults(t *testing.T) {
	in := TradeInput{EntryPrice: 42}.WithEntryDefaults()
	assert.Equal(t, 42.0, in.CurrentPrice)

	in = TradeInput{EntryPrice: 42, CurrentPrice: 40}.WithEntryDefaults()
	assert.Equal(t, 40.0, in.CurrentPrice)
}

func TestTrade_ValuationPrice(t *testing.T) {
	open := validLong().Trade()
	assert.False(t, open.IsClosed())
	assert.Equal(t, 100.0, open.ValuationPrice())

	in := validLong()
	in.CurrentPrice = 101
	in.ExitPrice = ptr(104)
	closed := in.Trade()
	assert.True(t, closed.IsClosed())
	assert.Equal(t, 104.0, closed.ValuationPrice(), "exit price wins over current price")
	assert.Equal(t, 101.0, closed.MarkPrice())

	assert.True(t, math.IsNaN(Trade{}.ValuationPrice()))
}

func TestTradeUpdate_Apply(t *testing.T) {
	open := validLong().Trade()

	marked := TradeUpdate{CurrentPrice: ptr(103)}.Apply(open)
	assert.Equal(t, Open{CurrentPrice: 103}, marked.Valuation)

	closed := TradeUpdate{ExitPrice: ptr(104)}.Apply(marked)
	assert.Equal(t, Closed{ExitPrice: 104, LastMark: 103}, closed.Valuation)

	// A later mark never reopens the trade or changes its valuation.
	remarked := TradeUpdate{CurrentPrice: ptr(90)}.Apply(closed)
	assert.True(t, remarked.IsClosed())
	assert.Equal(t, 104.0, remarked.ValuationPrice())
	assert.Equal(t, 90.0, remarked.MarkPrice())

	resized := TradeUpdate{Quantity: ptr(20), StopLoss: ptr(97), TakeProfit: ptr(110)}.Apply(open)
	assert.Equal(t, 20.0, resized.Quantity)
	assert.Equal(t, 97.0, resized.StopLoss)
	assert.Equal(t, 110.0, resized.TakeProfit)
}

func TestTradeUpdate_Validate(t *testing.T) {
	assert.NoError(t, TradeUpdate{}.Validate())
	assert.NoError(t, TradeUpdate{ExitPrice: ptr(10)}.Validate())

	err := TradeUpdate{CurrentPrice: ptr(-1)}.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "current_price", verr.Field)
}

func TestTrade_JSONRoundTrip(t *testing.T) {
	in := validLong().Normalize()
	in.ExitPrice = ptr(104)
	tr := in.Trade()
	tr.ID = 7
	tr.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"closed"`)
	assert.Contains(t, string(data), `"exit_price":104`)

	var back Trade
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tr.ID, back.ID)
	assert.Equal(t, tr.Valuation, back.Valuation)
	assert.True(t, tr.CreatedAt.Equal(back.CreatedAt))

	open := validLong().Trade()
	data, err = json.Marshal(open)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exit_price":null`)
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" Long ")
	assert.NoError(t, err)
	assert.Equal(t, Long, s)
	assert.Equal(t, 1.0, s.Direction())
	assert.Equal(t, -1.0, Short.Direction())

	_, err = ParseSide("flat")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
