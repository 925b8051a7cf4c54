package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"trading-journal-go/internal/journal"
)

// Sizing is the result of risk-based position sizing.
type Sizing struct {
	Shares             float64 `json:"shares"`
	TotalPositionValue float64 `json:"total_position_value"`
	DollarRisk         float64 `json:"dollar_risk"`
	RiskPerShare       float64 `json:"risk_per_share"`
}

// SizePosition buys as many whole shares as the dollar risk allows given the
// distance from entry to stop. A zero distance sizes nothing.
func SizePosition(accountValue, riskPercentage, entryPrice, stopLoss float64) Sizing {
	s := Sizing{
		DollarRisk:   accountValue * riskPercentage / 100,
		RiskPerShare: math.Abs(entryPrice - stopLoss),
	}
	if !finite(s.DollarRisk) {
		s.DollarRisk = 0
	}
	if !finite(s.RiskPerShare) {
		s.RiskPerShare = 0
	}
	if s.RiskPerShare > 0 {
		s.Shares = math.Floor(s.DollarRisk / s.RiskPerShare)
	}
	if !finite(s.Shares) || s.Shares < 0 {
		s.Shares = 0
	}
	s.TotalPositionValue = s.Shares * entryPrice
	if !finite(s.TotalPositionValue) {
		s.TotalPositionValue = 0
	}
	return s
}

// Suggestion holds stop and target levels proposed from an entry price alone.
type Suggestion struct {
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
	RiskPerShare float64 `json:"risk_per_share"`
	MaxShares    float64 `json:"max_shares"`
}

// SuggestLevels assumes the whole account is allocated at entryPrice and spreads
// the dollar risk over that share count to get a per-share risk budget.
// It is a different derivation from SizePosition. Levels are clamped at zero
// and rounded to cents; with no affordable share the budget is zero and both
// levels sit at the entry price.
func SuggestLevels(accountValue, riskPercentage, entryPrice float64, side journal.Side, profitRiskRatio float64) Suggestion {
	dollarRisk := accountValue * riskPercentage / 100

	var s Suggestion
	if entryPrice > 0 && finite(accountValue/entryPrice) {
		s.MaxShares = math.Max(0, math.Floor(accountValue/entryPrice))
	}
	if s.MaxShares > 0 && finite(dollarRisk) {
		s.RiskPerShare = dollarRisk / s.MaxShares
	}

	stop := entryPrice - s.RiskPerShare
	target := entryPrice + s.RiskPerShare*profitRiskRatio
	if side == journal.Short {
		stop = entryPrice + s.RiskPerShare
		target = entryPrice - s.RiskPerShare*profitRiskRatio
	}
	s.StopLoss = cents(math.Max(0, stop))
	s.TakeProfit = cents(math.Max(0, target))
	return s
}

// TargetFromStop places the take-profit ratio times the stop distance away from entry.
func TargetFromStop(entryPrice, stopLoss float64, side journal.Side, profitRiskRatio float64) float64 {
	profit := math.Abs(entryPrice-stopLoss) * profitRiskRatio
	if side == journal.Short {
		return entryPrice - profit
	}
	return entryPrice + profit
}

func cents(x float64) float64 {
	if !finite(x) {
		return 0
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
