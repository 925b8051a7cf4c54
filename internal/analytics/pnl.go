// Package analytics derives P&L, account value, risk and performance figures
// from a snapshot of trades and settings. Nothing here performs I/O or keeps
// state; every result is recomputed from its inputs.
package analytics

import (
	"math"

	"trading-journal-go/internal/journal"
)

// PnLResult is the profit or loss of a trade in currency and percent of entry.
type PnLResult struct {
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// PnL values a trade at its exit price when closed and its current price when open.
// Non-positive entry or quantity, and any non-finite operand or result, yield a zero result.
func PnL(t journal.Trade) PnLResult {
	res, _ := computePnL(t)
	return res
}

// computePnL also reports whether the figure is meaningful. A false result
// comes from non-finite input, which callers charting a series skip.
func computePnL(t journal.Trade) (PnLResult, bool) {
	price := t.ValuationPrice()
	if !finite(price) || !finite(t.EntryPrice) || !finite(t.Quantity) {
		return PnLResult{}, false
	}
	if t.EntryPrice <= 0 || t.Quantity <= 0 {
		return PnLResult{}, true
	}

	dir := t.Side.Direction()
	diff := price - t.EntryPrice
	res := PnLResult{
		Amount:  diff * t.Quantity * dir,
		Percent: diff / t.EntryPrice * 100 * dir,
	}
	if !finite(res.Amount) || !finite(res.Percent) {
		return PnLResult{}, false
	}
	return res, true
}

// TotalPnL sums the P&L amount of every trade. A sum that overflows is reported as 0.
func TotalPnL(trades []journal.Trade) float64 {
	total := 0.0
	for _, t := range trades {
		total += PnL(t).Amount
	}
	return orZero(total)
}

// CurrentAccountValue is the base value plus the P&L of every trade.
// It is always derived; there is no stored running balance.
func CurrentAccountValue(base float64, trades []journal.Trade) float64 {
	v := base + TotalPnL(trades)
	if !finite(v) {
		return base
	}
	return v
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// orZero keeps NaN and infinities out of reported figures.
func orZero(x float64) float64 {
	if !finite(x) {
		return 0
	}
	return x
}
