package analytics

import "trading-journal-go/internal/journal"

// Overview is the headline portfolio summary.
type Overview struct {
	BaseAccountValue    float64 `json:"base_account_value"`
	CurrentAccountValue float64 `json:"current_account_value"`
	TotalPnL            float64 `json:"total_pnl"`
	TotalPnLPercent     float64 `json:"total_pnl_percent"`
	TotalPositionValue  float64 `json:"total_position_value"`
	OpenPositions       int     `json:"open_positions"`
	ClosedPositions     int     `json:"closed_positions"`
}

// Summarize builds the overview for a user's trades and settings.
func Summarize(trades []journal.Trade, settings journal.Settings) Overview {
	base := settings.BaseAccountValue
	ov := Overview{
		BaseAccountValue:    base,
		CurrentAccountValue: CurrentAccountValue(base, trades),
	}
	ov.TotalPnL = ov.CurrentAccountValue - base
	if !finite(ov.TotalPnL) {
		ov.TotalPnL = 0
	}
	if base > 0 {
		ov.TotalPnLPercent = ov.TotalPnL / base * 100
	}

	for _, t := range trades {
		if t.IsClosed() {
			ov.ClosedPositions++
		} else {
			ov.OpenPositions++
		}
		if v := t.Quantity * t.ValuationPrice(); finite(v) {
			ov.TotalPositionValue += v
		}
	}
	return ov
}
