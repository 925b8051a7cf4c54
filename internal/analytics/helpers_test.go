package analytics

import (
	"time"

	"trading-journal-go/internal/journal"
)

var day0 = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

func openTrade(symbol string, side journal.Side, qty, entry, current, stop float64, at time.Time) journal.Trade {
	return journal.Trade{
		Symbol:     symbol,
		Side:       side,
		Quantity:   qty,
		EntryPrice: entry,
		Valuation:  journal.Open{CurrentPrice: current},
		StopLoss:   stop,
		CreatedAt:  at,
	}
}

func closedTrade(symbol string, side journal.Side, qty, entry, exit, stop float64, at time.Time) journal.Trade {
	return journal.Trade{
		Symbol:     symbol,
		Side:       side,
		Quantity:   qty,
		EntryPrice: entry,
		Valuation:  journal.Closed{ExitPrice: exit, LastMark: entry},
		StopLoss:   stop,
		CreatedAt:  at,
	}
}
